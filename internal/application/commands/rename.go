package commands

import (
	"context"
	"fmt"
	"strings"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	ID      string
	OldName string
	NewName string
	Message string
}

// RenameLocationCommand renames a location
type RenameLocationCommand struct {
	inv     *application.Inventory
	ID      string
	NewName string
}

// NewRenameLocationCommand creates a new RenameLocationCommand
func NewRenameLocationCommand(inv *application.Inventory, id, newName string) *RenameLocationCommand {
	return &RenameLocationCommand{
		inv:     inv,
		ID:      id,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameLocationCommand) Validate() error {
	if err := application.ValidateID("locationID", c.ID); err != nil {
		return err
	}
	return application.ValidateRequired("name", c.NewName)
}

// Execute runs the rename command
func (c *RenameLocationCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	current, ok := c.inv.Tree().Get(c.ID)
	if !ok {
		return nil, domain.NewLocationError(domain.LocationNotFound, c.ID, "")
	}
	newName := strings.TrimSpace(c.NewName)
	if err := c.inv.RenameLocation(ctx, c.ID, newName); err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", c.ID, err)
	}

	return &RenameResult{
		ID:      c.ID,
		OldName: current.Name,
		NewName: newName,
		Message: fmt.Sprintf("Renamed %s to %s", current.Name, newName),
	}, nil
}
