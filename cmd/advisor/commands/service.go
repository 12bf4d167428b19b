// Package commands implements the advisor CLI subcommands.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/classification"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/config"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/observability/logging"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/services"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/textproc"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/transcription"
)

// loadConfig reads the configuration named by the persistent --config
// flag and applies its log level.
func loadConfig(cmd *cobra.Command) (*config.AdvisorConfig, error) {
	configPath := cmd.Parent().Flag("config").Value.String()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	logging.SetLevel(cfg.Logging.Level)

	return cfg, nil
}

// outputFormat resolves the persistent --output flag.
func outputFormat(cmd *cobra.Command) string {
	return cmd.Parent().Flag("output").Value.String()
}

// buildService assembles the advice pipeline from the configuration:
// store backend, model registry, ensemble classifier and, when a
// transcription server is configured, the video ingestion client.
func buildService(ctx context.Context, cfg *config.AdvisorConfig) (*services.AdviceService, error) {
	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	registry := classification.NewModelRegistry(cfg.Models.Embedding, cfg.Models.ZeroShot)
	if err := registry.WarmUp(ctx); err != nil {
		logging.Warnf("Model warm-up failed, falling back to keyword signals: %v", err)
	}
	classifier := classification.NewClassifier(registry, cfg.Ensemble.Weights())

	var transcriber transcription.Service
	if cfg.Transcription.BaseURL != "" {
		transcriber, err = transcription.NewHTTPService(cfg.Transcription)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to create transcription client: %w", err)
		}
	}

	return services.NewAdviceService(textproc.NewNormalizer(), classifier, st, transcriber), nil
}
