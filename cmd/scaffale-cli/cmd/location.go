package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"scaffale/internal/adapters/cli"
	"scaffale/internal/application/commands"
)

var (
	locationType   string
	locationParent string
	treeShowIDs    bool
	pathCopy       bool
)

var locationCmd = &cobra.Command{
	Use:     "location",
	Aliases: []string{"loc"},
	Short:   "Manage rooms, furniture and containers",
	Long: `Manage the location hierarchy.

Rooms are top-level. Furniture (bookshelf, cabinet, dresser, desk) goes in a
room. Containers (box, bin, drawer) go in a room or in furniture.

Examples:
  scaffale-cli location add Study --type room
  scaffale-cli location add "Tall shelf" --type bookshelf --in Study
  scaffale-cli location tree`,
}

var locationAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		parentID, err := commands.ResolveLocationID(inv, locationParent)
		if err != nil {
			return err
		}
		result, err := commands.NewCreateLocationCommand(inv, args[0], locationType, parentID).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var locationRenameCmd = &cobra.Command{
	Use:   "rename <location> <new-name>",
	Short: "Rename a location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		id, err := commands.ResolveLocationID(inv, args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewRenameLocationCommand(inv, id, args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var locationMoveCmd = &cobra.Command{
	Use:   "move <location> [destination]",
	Short: "Move a location under another one",
	Long: `Move a location, with everything inside it, under a new parent.
Without a destination a room is moved back to the top level.

Examples:
  scaffale-cli location move "Study > Box" "Bedroom > Dresser"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		id, err := commands.ResolveLocationID(inv, args[0])
		if err != nil {
			return err
		}
		var destID string
		if len(args) == 2 {
			if destID, err = commands.ResolveLocationID(inv, args[1]); err != nil {
				return err
			}
		}
		result, err := commands.NewMoveLocationCommand(inv, id, destID).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var locationRmCmd = &cobra.Command{
	Use:     "rm <location>",
	Aliases: []string{"delete"},
	Short:   "Delete a location and everything below it",
	Long: `Delete a location together with the locations below it.
Refused while any of them still holds items; trashed items are unassigned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		id, err := commands.ResolveLocationID(inv, args[0])
		if err != nil {
			return err
		}
		result, err := commands.NewDeleteLocationCommand(inv, id).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var locationTreeCmd = &cobra.Command{
	Use:   "tree [location]",
	Short: "Display the location tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		var rootID string
		if len(args) == 1 {
			var err error
			if rootID, err = commands.ResolveLocationID(inv, args[0]); err != nil {
				return err
			}
		}
		roots, err := commands.NewBuildTreeCommand(inv, rootID).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No locations yet. Start with: scaffale-cli location add <name> --type room")
			return nil
		}
		cli.RenderTree(cmd.OutOrStdout(), roots, treeShowIDs)
		return nil
	},
}

var locationPathCmd = &cobra.Command{
	Use:   "path <location>",
	Short: "Print the full path of a location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		loc, err := commands.ResolveLocation(inv, args[0])
		if err != nil {
			return err
		}
		path := inv.Tracker().PathOf(loc.ID)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		if pathCopy {
			if err := clipboard.WriteAll(path); err != nil {
				return fmt.Errorf("failed to copy path: %w", err)
			}
		}
		return nil
	},
}

var locationLsCmd = &cobra.Command{
	Use:   "ls [location]",
	Short: "List rooms, the children of a location, or every location of a type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		var parentID string
		if len(args) == 1 {
			var err error
			if parentID, err = commands.ResolveLocationID(inv, args[0]); err != nil {
				return err
			}
		}
		locations, err := commands.NewListLocationsCommand(inv, parentID, locationType).Execute(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderLocations(cmd.OutOrStdout(), locations, inv.Tracker().PathOf)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationCmd)
	locationCmd.AddCommand(locationAddCmd, locationRenameCmd, locationMoveCmd,
		locationRmCmd, locationTreeCmd, locationPathCmd, locationLsCmd)

	locationAddCmd.Flags().StringVarP(&locationType, "type", "t", "", "location type (room, bookshelf, cabinet, dresser, desk, box, bin, drawer)")
	locationAddCmd.Flags().StringVar(&locationParent, "in", "", "parent location (omit for a room)")
	_ = locationAddCmd.MarkFlagRequired("type")

	locationLsCmd.Flags().StringVarP(&locationType, "type", "t", "", "list every location of this type")
	locationTreeCmd.Flags().BoolVar(&treeShowIDs, "ids", false, "show location IDs")
	locationPathCmd.Flags().BoolVar(&pathCopy, "copy", false, "copy the path to the clipboard")
}
