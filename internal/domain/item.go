package domain

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// CollectionType is the literature/media category of an item
type CollectionType string

const (
	CollectionBook  CollectionType = "book"
	CollectionManga CollectionType = "manga"
	CollectionComic CollectionType = "comic"
	CollectionGame  CollectionType = "game"
)

// DefaultCollectionType is used when no classification rule matches
const DefaultCollectionType = CollectionBook

// ParseCollectionType resolves a collection type tag
func ParseCollectionType(s string) (CollectionType, error) {
	switch t := CollectionType(strings.ToLower(strings.TrimSpace(s))); t {
	case CollectionBook, CollectionManga, CollectionComic, CollectionGame:
		return t, nil
	default:
		return "", fmt.Errorf("unknown collection type: %q", s)
	}
}

// Condition describes the physical state of an item
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

// ParseCondition resolves a condition tag, defaulting to good for empty input
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ConditionGood, nil
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return c, nil
	default:
		return "", fmt.Errorf("unknown condition: %q", s)
	}
}

// InventoryItem is a single collected thing (a book, a manga volume, a game)
type InventoryItem struct {
	ID           string
	Title        string
	Type         CollectionType
	Series       *string
	Volume       *int
	Condition    Condition
	Publisher    string
	ISBN         string
	Notes        string
	LocationID   *string
	CustomFields map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// IsTrashed returns true when the item has been soft-deleted
func (i InventoryItem) IsTrashed() bool {
	return i.DeletedAt != nil
}

// Clone returns a deep copy of the item
func (i InventoryItem) Clone() InventoryItem {
	out := i
	out.Series = CloneString(i.Series)
	out.LocationID = CloneString(i.LocationID)
	if i.Volume != nil {
		v := *i.Volume
		out.Volume = &v
	}
	if i.DeletedAt != nil {
		t := *i.DeletedAt
		out.DeletedAt = &t
	}
	out.CustomFields = maps.Clone(i.CustomFields)
	return out
}

// DisplayTitle renders "Series #Volume" style titles for serial items
func (i InventoryItem) DisplayTitle() string {
	if i.Series != nil && i.Volume != nil {
		return fmt.Sprintf("%s #%d", *i.Series, *i.Volume)
	}
	return i.Title
}
