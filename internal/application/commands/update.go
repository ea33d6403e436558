package commands

import (
	"context"
	"fmt"
	"strings"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

// UpdateItemResult contains the result of editing an item
type UpdateItemResult struct {
	Item    *domain.InventoryItem
	Message string
}

// UpdateItemCommand edits an item. Nil fields are left unchanged; an empty
// series or a zero volume clears them, an empty location unassigns the item.
type UpdateItemCommand struct {
	inv        *application.Inventory
	ItemID     string
	Title      *string
	Type       *string
	Series     *string
	Volume     *int
	Condition  *string
	Publisher  *string
	ISBN       *string
	Notes      *string
	LocationID *string
}

// NewUpdateItemCommand creates a new UpdateItemCommand
func NewUpdateItemCommand(inv *application.Inventory, itemID string) *UpdateItemCommand {
	return &UpdateItemCommand{
		inv:    inv,
		ItemID: itemID,
	}
}

// Validate checks the edited fields
func (c *UpdateItemCommand) Validate() error {
	if err := application.ValidateID("itemID", c.ItemID); err != nil {
		return err
	}
	if c.Title == nil && c.Type == nil && c.Series == nil && c.Volume == nil && c.Condition == nil &&
		c.Publisher == nil && c.ISBN == nil && c.Notes == nil && c.LocationID == nil {
		return &application.ValidationError{Field: "itemID", Message: "nothing to change"}
	}
	if c.Title != nil {
		if err := application.ValidateRequired("title", *c.Title); err != nil {
			return err
		}
	}
	if c.Type != nil {
		if err := application.ValidateRequired("type", *c.Type); err != nil {
			return err
		}
		if _, err := application.ValidateCollectionType("type", *c.Type); err != nil {
			return err
		}
	}
	if c.Condition != nil {
		if _, err := domain.ParseCondition(*c.Condition); err != nil {
			return &application.ValidationError{Field: "condition", Message: err.Error()}
		}
	}
	if c.Volume != nil && *c.Volume < 0 {
		return &application.ValidationError{Field: "volume", Message: "volume cannot be negative"}
	}
	if c.LocationID != nil && *c.LocationID != "" {
		return application.ValidateID("locationID", *c.LocationID)
	}
	return nil
}

// Execute loads the item, applies the changes and stores it
func (c *UpdateItemCommand) Execute(ctx context.Context) (*UpdateItemResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	item, err := c.inv.GetItem(ctx, c.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	c.apply(item)
	if item.Volume != nil && item.Series == nil {
		return nil, &application.ValidationError{Field: "volume", Message: "a volume needs a series"}
	}

	if err := c.inv.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	msg := "Updated " + item.DisplayTitle()
	if item.LocationID != nil {
		msg += " in " + c.inv.Tracker().PathOf(*item.LocationID)
	}
	return &UpdateItemResult{
		Item:    item,
		Message: msg,
	}, nil
}

func (c *UpdateItemCommand) apply(item *domain.InventoryItem) {
	if c.Title != nil {
		item.Title = strings.TrimSpace(*c.Title)
	}
	if c.Type != nil {
		item.Type, _ = domain.ParseCollectionType(*c.Type)
	}
	if c.Series != nil {
		item.Series = domain.StringPtr(strings.TrimSpace(*c.Series))
	}
	if c.Volume != nil {
		item.Volume = nil
		if *c.Volume > 0 {
			v := *c.Volume
			item.Volume = &v
		}
	}
	if c.Condition != nil {
		item.Condition, _ = domain.ParseCondition(*c.Condition)
	}
	if c.Publisher != nil {
		item.Publisher = strings.TrimSpace(*c.Publisher)
	}
	if c.ISBN != nil {
		item.ISBN = strings.TrimSpace(*c.ISBN)
	}
	if c.Notes != nil {
		item.Notes = *c.Notes
	}
	if c.LocationID != nil {
		item.LocationID = domain.StringPtr(*c.LocationID)
	}
}
