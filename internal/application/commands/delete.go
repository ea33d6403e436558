package commands

import (
	"context"
	"fmt"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedIDs []string
	Message    string
}

// DeleteLocationCommand deletes a location and everything below it. It is
// refused while any location of the subtree still holds active items.
type DeleteLocationCommand struct {
	inv *application.Inventory
	ID  string
}

// NewDeleteLocationCommand creates a new DeleteLocationCommand
func NewDeleteLocationCommand(inv *application.Inventory, id string) *DeleteLocationCommand {
	return &DeleteLocationCommand{
		inv: inv,
		ID:  id,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteLocationCommand) Validate() error {
	return application.ValidateID("locationID", c.ID)
}

// Execute runs the delete command
func (c *DeleteLocationCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	loc, ok := c.inv.Tree().Get(c.ID)
	if !ok {
		return nil, domain.NewLocationError(domain.LocationNotFound, c.ID, "")
	}
	removed, err := c.inv.RemoveLocation(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", loc.Name, err)
	}

	msg := fmt.Sprintf("Deleted %s", loc.Name)
	if below := len(removed) - 1; below > 0 {
		msg = fmt.Sprintf("Deleted %s and %d location(s) below it", loc.Name, below)
	}
	return &DeleteResult{
		DeletedIDs: removed,
		Message:    msg,
	}, nil
}
