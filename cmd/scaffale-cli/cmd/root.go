package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"scaffale/internal/adapters/cli/styles"
	"scaffale/internal/application"
	"scaffale/internal/bootstrap"
	"scaffale/internal/config"
)

var app *bootstrap.App

var rootCmd = &cobra.Command{
	Use:   "scaffale-cli",
	Short: "CLI for managing a home collection inventory",
	Long: `scaffale-cli keeps track of where the books, manga, comics and games
of a collection are stored: rooms hold furniture and containers, furniture
holds containers, and every item can be placed in any location.

Locations can be referenced by ID, by full path ("Study > Tall shelf") or
by name when the name is unique.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		v, err := config.New()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		flags := cmd.Root().PersistentFlags()
		for key, flag := range map[string]string{
			config.KeyDatabase:      "database",
			config.KeyLogLevel:      "log-level",
			config.KeyPathSeparator: "separator",
		} {
			if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
				return err
			}
		}
		app, err = bootstrap.Open(cmd.Context(), v, os.Stderr)
		return err
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if app != nil {
		app.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorMsg.Render(application.UserMessage(err)))
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("database", "d", config.DefaultDatabasePath(), "path to the inventory database")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("separator", config.DefaultPathSeparator, "separator between location names in paths")
}

// GetInventory returns the loaded inventory
func GetInventory() *application.Inventory {
	return app.Inventory
}

func printSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render(msg))
}
