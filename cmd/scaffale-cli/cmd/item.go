package cmd

import (
	"github.com/spf13/cobra"

	"scaffale/internal/adapters/cli"
	"scaffale/internal/application/commands"
)

var (
	itemFlags    commands.AddItemCommand
	itemLocation string
)

var editFlags struct {
	title, typ, series, condition, publisher, isbn, notes string
	volume                                                int
	location                                              string
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage the items of the collection",
	Long: `Add, move, trash and list items.

Examples:
  scaffale-cli item add "Dune" --in "Study > Tall shelf"
  scaffale-cli item add "Berserk" --series Berserk --volume 3 --type manga
  scaffale-cli item edit <item-id> --condition fair --in "Study > Box"
  scaffale-cli item mv --to "Bedroom > Box" <item-id> <item-id>`,
}

var itemAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an item, guessing its type when --type is omitted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		locationID, err := commands.ResolveLocationID(inv, itemLocation)
		if err != nil {
			return err
		}
		add := commands.NewAddItemCommand(inv, args[0], locationID)
		add.Type = itemFlags.Type
		add.Series = itemFlags.Series
		add.Volume = itemFlags.Volume
		add.Condition = itemFlags.Condition
		add.Publisher = itemFlags.Publisher
		add.ISBN = itemFlags.ISBN
		add.Notes = itemFlags.Notes
		add.Description = itemFlags.Description
		add.CustomFields = itemFlags.CustomFields

		result, err := add.Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit <item-id>",
	Short: "Change the fields of an item; only the given flags are applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		edit := commands.NewUpdateItemCommand(inv, args[0])
		f := cmd.Flags()
		set := func(name string, value string) *string {
			if !f.Changed(name) {
				return nil
			}
			return &value
		}
		edit.Title = set("title", editFlags.title)
		edit.Type = set("type", editFlags.typ)
		edit.Series = set("series", editFlags.series)
		edit.Condition = set("condition", editFlags.condition)
		edit.Publisher = set("publisher", editFlags.publisher)
		edit.ISBN = set("isbn", editFlags.isbn)
		edit.Notes = set("notes", editFlags.notes)
		if f.Changed("volume") {
			edit.Volume = &editFlags.volume
		}
		if f.Changed("in") {
			locationID, err := commands.ResolveLocationID(inv, editFlags.location)
			if err != nil {
				return err
			}
			edit.LocationID = &locationID
		}

		result, err := edit.Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var itemMvCmd = &cobra.Command{
	Use:   "mv <item-id>...",
	Short: "Move items to a location, or unassign them without --to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		locationID, err := commands.ResolveLocationID(inv, itemLocation)
		if err != nil {
			return err
		}
		result, err := commands.NewMoveItemsCommand(inv, args, locationID).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var itemTrashCmd = &cobra.Command{
	Use:   "trash <item-id>",
	Short: "Move an item to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewTrashItemCommand(GetInventory(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var itemRestoreCmd = &cobra.Command{
	Use:   "restore <item-id>",
	Short: "Take an item out of the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRestoreItemCommand(GetInventory(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var itemLsCmd = &cobra.Command{
	Use:   "ls [location]",
	Short: "List items, optionally only those stored in or below a location",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv := GetInventory()
		var locationID string
		if len(args) == 1 {
			var err error
			if locationID, err = commands.ResolveLocationID(inv, args[0]); err != nil {
				return err
			}
		}
		items, err := commands.NewListItemsCommand(inv, locationID, false).Execute(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderItems(cmd.OutOrStdout(), items)
		return nil
	},
}

var itemTrashLsCmd = &cobra.Command{
	Use:   "trash-ls",
	Short: "List trashed items, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := commands.NewListItemsCommand(GetInventory(), "", true).Execute(cmd.Context())
		if err != nil {
			return err
		}
		cli.RenderItems(cmd.OutOrStdout(), items)
		return nil
	},
}

var itemEmptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Permanently delete every trashed item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewEmptyTrashCommand(GetInventory()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemAddCmd, itemEditCmd, itemMvCmd, itemTrashCmd, itemRestoreCmd,
		itemLsCmd, itemTrashLsCmd, itemEmptyTrashCmd)

	f := itemAddCmd.Flags()
	f.StringVarP(&itemFlags.Type, "type", "t", "", "collection type (book, manga, comic, game)")
	f.StringVar(&itemFlags.Series, "series", "", "series the item belongs to")
	f.IntVar(&itemFlags.Volume, "volume", 0, "volume number within the series")
	f.StringVar(&itemFlags.Condition, "condition", "", "new, like_new, good, fair or poor")
	f.StringVar(&itemFlags.Publisher, "publisher", "", "publisher")
	f.StringVar(&itemFlags.ISBN, "isbn", "", "ISBN")
	f.StringVar(&itemFlags.Notes, "notes", "", "free-form notes")
	f.StringVar(&itemFlags.Description, "description", "", "text used only to guess the type")
	f.StringToStringVar(&itemFlags.CustomFields, "field", nil, "custom field as key=value (repeatable)")
	f.StringVar(&itemLocation, "in", "", "location to store the item in")

	e := itemEditCmd.Flags()
	e.StringVar(&editFlags.title, "title", "", "new title")
	e.StringVarP(&editFlags.typ, "type", "t", "", "collection type (book, manga, comic, game)")
	e.StringVar(&editFlags.series, "series", "", "series, empty to clear")
	e.IntVar(&editFlags.volume, "volume", 0, "volume number, 0 to clear")
	e.StringVar(&editFlags.condition, "condition", "", "new, like_new, good, fair or poor")
	e.StringVar(&editFlags.publisher, "publisher", "", "publisher")
	e.StringVar(&editFlags.isbn, "isbn", "", "ISBN")
	e.StringVar(&editFlags.notes, "notes", "", "free-form notes")
	e.StringVar(&editFlags.location, "in", "", "location to store the item in, empty to unassign")

	itemMvCmd.Flags().StringVar(&itemLocation, "to", "", "destination location")
}
