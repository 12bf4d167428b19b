package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/cli"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/services"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/textproc"
)

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [text|-]",
		Short: "Clean raw text and report the changes",
		Long: `Clean raw advice text without classifying it.

The cleaner repairs broken encodings, strips filler and markup
patterns and normalizes whitespace while preserving spiritual
vocabulary, then verifies that no new content words were introduced.

Example:
  advisor clean "Um, you know, [Music] karma shapes everything..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}

			normalizer := textproc.NewNormalizer()
			result := normalizer.Normalize(text)
			report := textproc.ValidateOriginality(result.OriginalText, result.CleanedText)

			return displayCleanResult(&result, &report, outputFormat(cmd))
		},
	}
}

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text|-]",
		Short: "Run the full pipeline on a text",
		Long: `Clean, validate and classify a text through the ensemble.

The text is cleaned, checked for originality and scored by the
keyword, embedding and zero-shot signals. With --save the entry is
persisted to the configured dataset backend.

Example:
  advisor classify "I keep worrying about money and my career"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}
			save, _ := cmd.Flags().GetBool("save")
			confirmed, _ := cmd.Flags().GetBool("confirmed")
			yes, _ := cmd.Flags().GetBool("yes")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			svc, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Store().Close()

			processed := svc.ProcessText(cmd.Context(), text)
			if err := displayProcessResult(processed, outputFormat(cmd)); err != nil {
				return err
			}
			if !processed.OK {
				return fmt.Errorf("processing failed: %s", processed.Message)
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

			saved := svc.SaveEntry(cmd.Context(), processed, text, confirmed)
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

// readText joins the argument words, or reads stdin when the single
// argument is "-".
func readText(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func displayCleanResult(result *textproc.Result, report *textproc.Report, format string) error {
	switch format {
	case "json":
		return cli.PrintJSON(map[string]interface{}{
			"cleaning":    result,
			"originality": report,
		})
	case "yaml":
		return cli.PrintYAML(map[string]interface{}{
			"cleaning":    result,
			"originality": report,
		})
	}

	fmt.Println("\nCleaned text:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(result.CleanedText)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Language:   %s\n", result.Language)
	fmt.Printf("Length:     %d -> %d (%.1f%% reduction)\n",
		result.Stats.OriginalLength, result.Stats.CleanedLength, result.Stats.ReductionPercent)
	if len(result.Changes) > 0 {
		changes := make([]string, len(result.Changes))
		for i, c := range result.Changes {
			changes[i] = string(c)
		}
		fmt.Printf("Changes:    %s\n", strings.Join(changes, ", "))
	}

	if report.IsValid {
		cli.Success(fmt.Sprintf("Originality check passed (%.0f%% of content words preserved)", report.PreservedRatio*100))
	} else {
		cli.Warning(fmt.Sprintf("Originality check failed: %d words added (%s)",
			report.WordsAdded, strings.Join(report.AddedWords, ", ")))
	}

	return nil
}

func displayProcessResult(result *services.ProcessResult, format string) error {
	switch format {
	case "json":
		return cli.PrintJSON(result)
	case "yaml":
		return cli.PrintYAML(result)
	}

	if !result.OK {
		cli.Error(result.Message)
		return nil
	}
	c := result.Classification

	fmt.Println("\nClassification:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Category:      %s\n", c.Category)
	fmt.Printf("Confidence:    %.2f\n", c.Confidence)
	fmt.Printf("Subcategories: %s\n", strings.Join(c.Subcategories, ", "))
	fmt.Printf("Methods:       %s\n", strings.Join(c.MethodsUsed, ", "))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if len(c.AllScores) > 0 {
		rows := make([][]string, 0, len(c.AllScores))
		for _, s := range c.AllScores {
			rows = append(rows, []string{s.Category, fmt.Sprintf("%.3f", s.Score)})
		}
		cli.PrintTable([]string{"Category", "Score"}, rows)
	}

	if result.Originality != nil && !result.Originality.IsValid {
		cli.Warning("Cleaning altered the content vocabulary; review before saving")
	}

	return nil
}
