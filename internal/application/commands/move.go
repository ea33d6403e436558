package commands

import (
	"context"
	"fmt"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// MoveLocationResult contains the result of moving a location
type MoveLocationResult struct {
	Location domain.StorageLocation
	Path     string
	Message  string
}

// MoveLocationCommand moves a location under a new parent. An empty
// destination promotes a room to the top level.
type MoveLocationCommand struct {
	inv           *application.Inventory
	SourceID      string
	DestinationID string
}

// NewMoveLocationCommand creates a new MoveLocationCommand
func NewMoveLocationCommand(inv *application.Inventory, sourceID, destinationID string) *MoveLocationCommand {
	return &MoveLocationCommand{
		inv:           inv,
		SourceID:      sourceID,
		DestinationID: destinationID,
	}
}

// Validate checks if the move operation is valid
func (c *MoveLocationCommand) Validate() error {
	if err := application.ValidateID("sourceID", c.SourceID); err != nil {
		return err
	}
	if c.DestinationID == "" {
		return nil
	}
	if err := application.ValidateID("destinationID", c.DestinationID); err != nil {
		return err
	}
	if c.SourceID == c.DestinationID {
		return &application.MoveError{
			SourceID: c.SourceID,
			DestID:   c.DestinationID,
			Reason:   "a location cannot contain itself",
		}
	}
	return nil
}

// Execute runs the move location command
func (c *MoveLocationCommand) Execute(ctx context.Context) (*MoveLocationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.inv.MoveLocation(ctx, c.SourceID, domain.StringPtr(c.DestinationID)); err != nil {
		return nil, fmt.Errorf("failed to move location: %w", err)
	}

	loc, _ := c.inv.Tree().Get(c.SourceID)
	path := c.inv.Tracker().PathOf(loc.ID)
	msg := fmt.Sprintf("Moved %s to the top level", loc.Name)
	if loc.ParentID != nil {
		msg = fmt.Sprintf("Moved to %s", path)
	}
	return &MoveLocationResult{
		Location: loc,
		Path:     path,
		Message:  msg,
	}, nil
}

// MoveItemsResult contains the result of moving items
type MoveItemsResult struct {
	ItemIDs []string
	Path    string
	Message string
}

// MoveItemsCommand assigns items to a location, or unassigns them when the
// destination is empty. Either every item moves or none does.
type MoveItemsCommand struct {
	inv           *application.Inventory
	ItemIDs       []string
	DestinationID string
}

// NewMoveItemsCommand creates a new MoveItemsCommand
func NewMoveItemsCommand(inv *application.Inventory, itemIDs []string, destinationID string) *MoveItemsCommand {
	return &MoveItemsCommand{
		inv:           inv,
		ItemIDs:       itemIDs,
		DestinationID: destinationID,
	}
}

// Validate checks if the move operation is valid
func (c *MoveItemsCommand) Validate() error {
	if len(c.ItemIDs) == 0 {
		return &application.ValidationError{
			Field:   "itemIDs",
			Message: "at least one item ID is required",
		}
	}
	for _, id := range c.ItemIDs {
		if err := application.ValidateID("itemID", id); err != nil {
			return err
		}
	}
	if c.DestinationID != "" {
		return application.ValidateID("destinationID", c.DestinationID)
	}
	return nil
}

// Execute runs the move items command
func (c *MoveItemsCommand) Execute(ctx context.Context) (*MoveItemsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.inv.MoveItems(ctx, c.ItemIDs, domain.StringPtr(c.DestinationID)); err != nil {
		return nil, fmt.Errorf("failed to move items: %w", err)
	}

	path := c.inv.Tracker().PathOf(c.DestinationID)
	msg := fmt.Sprintf("Moved %d item(s) to %s", len(c.ItemIDs), path)
	if c.DestinationID == "" {
		msg = fmt.Sprintf("Unassigned %d item(s)", len(c.ItemIDs))
	}
	return &MoveItemsResult{
		ItemIDs: c.ItemIDs,
		Path:    path,
		Message: msg,
	}, nil
}
