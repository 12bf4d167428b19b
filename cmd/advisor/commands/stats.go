package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/cli"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/taxonomy"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics",
		Long:  `Display entry counts for the configured dataset backend, broken down by category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := store.NewStore(cfg.Store)
			if err != nil {
				return fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
			}
			defer st.Close()

			stats, err := st.Statistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to collect statistics: %w", err)
			}

			switch outputFormat(cmd) {
			case "json":
				return cli.PrintJSON(stats)
			case "yaml":
				return cli.PrintYAML(stats)
			}

			fmt.Printf("Total entries:     %d\n", stats.Total)
			fmt.Printf("Admin confirmed:   %d\n", stats.Confirmed)
			if len(stats.PerCategory) > 0 {
				fmt.Println()
				cli.PrintTable([]string{"Category", "Entries"}, statsRows(stats))
			}
			return nil
		},
	}

	cmd.AddCommand(newCategoriesCmd())

	return cmd
}

// statsRows renders the per-category counts in taxonomy order, with any
// category unknown to the taxonomy appended alphabetically at the end.
func statsRows(stats *store.Statistics) [][]string {
	names := taxonomy.Categories()
	known := make(map[string]bool, len(names))
	rows := make([][]string, 0, len(stats.PerCategory))
	for _, name := range names {
		known[name] = true
		if count, ok := stats.PerCategory[name]; ok {
			rows = append(rows, []string{name, fmt.Sprintf("%d", count)})
		}
	}

	var extra []string
	for name := range stats.PerCategory {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		rows = append(rows, []string{name, fmt.Sprintf("%d", stats.PerCategory[name])})
	}
	return rows
}

// newCategoriesCmd creates the stats categories subcommand
func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the advice taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := taxonomy.Categories()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{
					name,
					fmt.Sprintf("%d subcategories", len(taxonomy.Subcategories(name))),
				})
			}
			cli.PrintTable([]string{"Category", "Subcategories"}, rows)
			return nil
		},
	}
}
