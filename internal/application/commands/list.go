package commands

import (
	"context"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// ListLocationsCommand lists the rooms, the children of a location, or every
// location of a type
type ListLocationsCommand struct {
	inv      *application.Inventory
	ParentID string
	Type     string
}

// NewListLocationsCommand creates a new ListLocationsCommand
func NewListLocationsCommand(inv *application.Inventory, parentID, locationType string) *ListLocationsCommand {
	return &ListLocationsCommand{
		inv:      inv,
		ParentID: parentID,
		Type:     locationType,
	}
}

// Execute runs the list locations command
func (c *ListLocationsCommand) Execute(ctx context.Context) ([]domain.StorageLocation, error) {
	tree := c.inv.Tree()
	if c.Type != "" {
		t, err := application.ValidateLocationType("type", c.Type)
		if err != nil {
			return nil, err
		}
		return tree.AllOfType(t), nil
	}
	if c.ParentID == "" {
		return tree.Roots(), nil
	}
	if !tree.Contains(c.ParentID) {
		return nil, domain.NewLocationError(domain.LocationNotFound, c.ParentID, "")
	}
	return tree.ChildrenOf(c.ParentID), nil
}

// ListItemsCommand lists active items, the items under a location, or the trash
type ListItemsCommand struct {
	inv        *application.Inventory
	LocationID string
	Trashed    bool
}

// NewListItemsCommand creates a new ListItemsCommand
func NewListItemsCommand(inv *application.Inventory, locationID string, trashed bool) *ListItemsCommand {
	return &ListItemsCommand{
		inv:        inv,
		LocationID: locationID,
		Trashed:    trashed,
	}
}

// Execute runs the list items command
func (c *ListItemsCommand) Execute(ctx context.Context) ([]application.LocatedItem, error) {
	switch {
	case c.Trashed:
		return c.inv.ListTrash(ctx)
	case c.LocationID != "":
		return c.inv.ItemsUnderLocation(ctx, c.LocationID)
	default:
		return c.inv.ListItems(ctx)
	}
}

// BuildTreeCommand builds the location tree, optionally from one location
type BuildTreeCommand struct {
	inv    *application.Inventory
	RootID string
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(inv *application.Inventory, rootID string) *BuildTreeCommand {
	return &BuildTreeCommand{inv: inv, RootID: rootID}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) ([]*application.TreeNode, error) {
	return c.inv.BuildTree(c.RootID)
}
