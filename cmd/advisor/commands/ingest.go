package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/cli"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [youtube-url]",
		Short: "Transcribe a video and run it through the pipeline",
		Long: `Transcribe a YouTube video and process the transcript.

The video is transcribed by the configured transcription server, the
transcript is prefixed with the video metadata and then cleaned,
validated and classified like any other text. With --save the entry
is persisted to the configured dataset backend.

Example:
  advisor ingest https://youtu.be/dQw4w9WgXcQ --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			save, _ := cmd.Flags().GetBool("save")
			confirmed, _ := cmd.Flags().GetBool("confirmed")
			yes, _ := cmd.Flags().GetBool("yes")
			format := outputFormat(cmd)

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Store().Close()

			result := svc.ProcessVideo(cmd.Context(), ref, func(message string) {
				if format == "table" {
					cli.Info(message)
				}
			})
			if !result.OK {
				return fmt.Errorf("video ingestion failed: %s", result.Message)
			}

			switch format {
			case "json":
				if err := cli.PrintJSON(result); err != nil {
					return err
				}
			case "yaml":
				if err := cli.PrintYAML(result); err != nil {
					return err
				}
			default:
				meta := result.Metadata
				fmt.Println("\nVideo:")
				fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				fmt.Printf("Title:     %s\n", meta.Title)
				fmt.Printf("Author:    %s\n", meta.Author)
				fmt.Printf("Duration:  %d:%02d\n", meta.DurationSeconds/60, meta.DurationSeconds%60)
				if err := displayProcessResult(result.Process, format); err != nil {
					return err
				}
			}

			if !save {
				return nil
			}
			if !yes {
				ok, err := cli.Confirm("Save entry to dataset? [y/N] ")
				if err != nil {
					return err
				}
				if !ok {
					cli.Info("Entry not saved")
					return nil
				}
			}

			saved := svc.SaveEntry(cmd.Context(), result.Process, result.Process.Cleaning.OriginalText, confirmed)
			if !saved.OK {
				return fmt.Errorf("save failed: %s", saved.Message)
			}
			cli.Success(fmt.Sprintf("Saved entry #%d", saved.EntryID))
			return nil
		},
	}

	cmd.Flags().Bool("save", false, "Persist the entry to the dataset")
	cmd.Flags().Bool("confirmed", false, "Mark the saved entry as admin-confirmed")
	cmd.Flags().Bool("yes", false, "Skip the save confirmation prompt")

	return cmd
}
