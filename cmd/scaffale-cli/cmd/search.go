package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scaffale/internal/adapters/cli/styles"
	"scaffale/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search locations and items with fuzzy matching",
	Long: `Search location names, item titles and paths.
Results are ranked by relevance.

Examples:
  scaffale-cli search berserk
  scaffale-cli search "tall shelf"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := commands.NewSearchCommand(GetInventory(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}

		for _, r := range results {
			fmt.Fprintf(out, "%-8s %s  %s  %s\n", r.Kind, r.ID, r.Name, styles.MutedText.Render(r.Path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
