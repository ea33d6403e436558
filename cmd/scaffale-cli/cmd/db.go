package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scaffale/internal/adapters/sqlite"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the inventory database",
}

var dbVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the database path and schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := app.Gateway.SchemaVersion(cmd.Context())
		if err != nil {
			return err
		}
		trash, err := GetInventory().TrashCount(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "database:  %s\n", app.Gateway.Path())
		fmt.Fprintf(out, "schema:    v%d (current v%d)\n", version, sqlite.CurrentSchemaVersion)
		fmt.Fprintf(out, "locations: %d\n", app.Store.Len())
		fmt.Fprintf(out, "trash:     %d item(s)\n", trash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbVersionCmd)
}
