package commands

import (
	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/apiserver"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the advice HTTP API server",
		Long: `Start the HTTP API server over the configured dataset backend.

The server exposes the processing pipeline, dataset CRUD, search,
statistics and Prometheus metrics. It blocks until the listener stops.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			svc, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Store().Close(); err != nil {
					logging.Errorf("Failed to close store: %v", err)
				}
			}()

			port, _ := cmd.Flags().GetInt("port")
			if port == 0 {
				port = cfg.Server.Port
			}
			return apiserver.Init(port)
		},
	}

	cmd.Flags().Int("port", 0, "Override the configured server port")

	return cmd
}
