package commands

import (
	"context"
	"fmt"
	"strings"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// CreateLocationResult contains the result of creating a location
type CreateLocationResult struct {
	Location domain.StorageLocation
	Path     string
	Message  string
}

// CreateLocationCommand creates a room, or a location under a parent
type CreateLocationCommand struct {
	inv      *application.Inventory
	Name     string
	Type     string
	ParentID string
}

// NewCreateLocationCommand creates a new CreateLocationCommand
func NewCreateLocationCommand(inv *application.Inventory, name, locationType, parentID string) *CreateLocationCommand {
	return &CreateLocationCommand{
		inv:      inv,
		Name:     name,
		Type:     locationType,
		ParentID: parentID,
	}
}

// Validate checks the input. Placement and containment are checked by the
// hierarchy when the command runs.
func (c *CreateLocationCommand) Validate() error {
	if err := application.ValidateRequired("name", c.Name); err != nil {
		return err
	}
	if _, err := application.ValidateLocationType("type", c.Type); err != nil {
		return err
	}
	if c.ParentID != "" {
		return application.ValidateID("parentID", c.ParentID)
	}
	return nil
}

// Execute runs the create location command
func (c *CreateLocationCommand) Execute(ctx context.Context) (*CreateLocationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	locationType, _ := domain.ParseLocationType(c.Type)

	loc, err := c.inv.AddLocation(ctx, strings.TrimSpace(c.Name), locationType, domain.StringPtr(c.ParentID))
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	path := c.inv.Tracker().PathOf(loc.ID)
	msg := fmt.Sprintf("Created %s %s", loc.Type, loc.Name)
	if loc.ParentID != nil {
		msg = fmt.Sprintf("Created %s %s in %s", loc.Type, loc.Name, c.inv.Tracker().PathOf(*loc.ParentID))
	}
	return &CreateLocationResult{
		Location: loc,
		Path:     path,
		Message:  msg,
	}, nil
}

// AddItemResult contains the result of adding an item
type AddItemResult struct {
	Item    *domain.InventoryItem
	Message string
}

// AddItemCommand adds an item, classifying it when no type is given
type AddItemCommand struct {
	inv          *application.Inventory
	Title        string
	Type         string
	Series       string
	Volume       int
	Condition    string
	Publisher    string
	ISBN         string
	Notes        string
	Description  string
	LocationID   string
	CustomFields map[string]string
}

// NewAddItemCommand creates a new AddItemCommand
func NewAddItemCommand(inv *application.Inventory, title, locationID string) *AddItemCommand {
	return &AddItemCommand{
		inv:        inv,
		Title:      title,
		LocationID: locationID,
	}
}

// Validate checks if the item can be added
func (c *AddItemCommand) Validate() error {
	if err := application.ValidateRequired("title", c.Title); err != nil {
		return err
	}
	if _, err := application.ValidateCollectionType("type", c.Type); err != nil {
		return err
	}
	if _, err := domain.ParseCondition(c.Condition); err != nil {
		return &application.ValidationError{Field: "condition", Message: err.Error()}
	}
	if c.Volume < 0 {
		return &application.ValidationError{Field: "volume", Message: "volume cannot be negative"}
	}
	if c.Volume > 0 && strings.TrimSpace(c.Series) == "" {
		return &application.ValidationError{Field: "volume", Message: "a volume needs a series"}
	}
	if c.LocationID != "" {
		return application.ValidateID("locationID", c.LocationID)
	}
	return nil
}

// Execute runs the add item command
func (c *AddItemCommand) Execute(ctx context.Context) (*AddItemResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	collectionType, _ := application.ValidateCollectionType("type", c.Type)
	condition, _ := domain.ParseCondition(c.Condition)
	item := &domain.InventoryItem{
		Title:        strings.TrimSpace(c.Title),
		Type:         collectionType,
		Series:       domain.StringPtr(strings.TrimSpace(c.Series)),
		Condition:    condition,
		Publisher:    strings.TrimSpace(c.Publisher),
		ISBN:         strings.TrimSpace(c.ISBN),
		Notes:        c.Notes,
		LocationID:   domain.StringPtr(c.LocationID),
		CustomFields: c.CustomFields,
	}
	if c.Volume > 0 {
		v := c.Volume
		item.Volume = &v
	}

	if err := c.inv.AddItem(ctx, item, c.Description); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	msg := fmt.Sprintf("Added %s %s", item.Type, item.DisplayTitle())
	if item.LocationID != nil {
		msg += " to " + c.inv.Tracker().PathOf(*item.LocationID)
	}
	return &AddItemResult{
		Item:    item,
		Message: msg,
	}, nil
}
