package commands

import (
	"context"
	"fmt"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// TrashItemResult contains the result of trashing an item
type TrashItemResult struct {
	Item    *domain.InventoryItem
	Message string
}

// TrashItemCommand moves an item to the trash
type TrashItemCommand struct {
	inv    *application.Inventory
	ItemID string
}

// NewTrashItemCommand creates a new TrashItemCommand
func NewTrashItemCommand(inv *application.Inventory, itemID string) *TrashItemCommand {
	return &TrashItemCommand{
		inv:    inv,
		ItemID: itemID,
	}
}

// Validate checks if the item can be trashed
func (c *TrashItemCommand) Validate() error {
	return application.ValidateID("itemID", c.ItemID)
}

// Execute runs the trash command
func (c *TrashItemCommand) Execute(ctx context.Context) (*TrashItemResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	item, err := c.inv.TrashItem(ctx, c.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to trash item: %w", err)
	}

	return &TrashItemResult{
		Item:    item,
		Message: fmt.Sprintf("Moved %s to the trash", item.DisplayTitle()),
	}, nil
}

// RestoreItemResult contains the result of restoring an item
type RestoreItemResult struct {
	Item    *domain.InventoryItem
	Path    string
	Message string
}

// RestoreItemCommand takes an item out of the trash
type RestoreItemCommand struct {
	inv    *application.Inventory
	ItemID string
}

// NewRestoreItemCommand creates a new RestoreItemCommand
func NewRestoreItemCommand(inv *application.Inventory, itemID string) *RestoreItemCommand {
	return &RestoreItemCommand{
		inv:    inv,
		ItemID: itemID,
	}
}

// Validate checks if the item can be restored
func (c *RestoreItemCommand) Validate() error {
	return application.ValidateID("itemID", c.ItemID)
}

// Execute runs the restore command
func (c *RestoreItemCommand) Execute(ctx context.Context) (*RestoreItemResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	item, err := c.inv.RestoreItem(ctx, c.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore item: %w", err)
	}

	var path string
	if item.LocationID != nil {
		path = c.inv.Tracker().PathOf(*item.LocationID)
	}
	msg := fmt.Sprintf("Restored %s", item.DisplayTitle())
	if path != "" {
		msg += " to " + path
	}
	return &RestoreItemResult{
		Item:    item,
		Path:    path,
		Message: msg,
	}, nil
}

// EmptyTrashResult contains the result of emptying the trash
type EmptyTrashResult struct {
	Purged  int
	Message string
}

// EmptyTrashCommand permanently deletes every trashed item
type EmptyTrashCommand struct {
	inv *application.Inventory
}

// NewEmptyTrashCommand creates a new EmptyTrashCommand
func NewEmptyTrashCommand(inv *application.Inventory) *EmptyTrashCommand {
	return &EmptyTrashCommand{inv: inv}
}

// Execute runs the empty trash command
func (c *EmptyTrashCommand) Execute(ctx context.Context) (*EmptyTrashResult, error) {
	n, err := c.inv.EmptyTrash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to empty trash: %w", err)
	}
	msg := fmt.Sprintf("Deleted %d item(s) for good", n)
	if n == 0 {
		msg = "The trash is already empty"
	}
	return &EmptyTrashResult{Purged: n, Message: msg}, nil
}
