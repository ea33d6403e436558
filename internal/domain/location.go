package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// LocationCategory groups location types by what they can hold
type LocationCategory string

const (
	CategoryRoom      LocationCategory = "room"
	CategoryFurniture LocationCategory = "furniture"
	CategoryContainer LocationCategory = "container"
)

// LocationType is the concrete kind of a storage location (bookshelf, box, ...)
type LocationType string

const (
	LocationRoom      LocationType = "room"
	LocationBookshelf LocationType = "bookshelf"
	LocationCabinet   LocationType = "cabinet"
	LocationDresser   LocationType = "dresser"
	LocationDesk      LocationType = "desk"
	LocationBox       LocationType = "box"
	LocationBin       LocationType = "bin"
	LocationDrawer    LocationType = "drawer"
)

var locationCategories = map[LocationType]LocationCategory{
	LocationRoom:      CategoryRoom,
	LocationBookshelf: CategoryFurniture,
	LocationCabinet:   CategoryFurniture,
	LocationDresser:   CategoryFurniture,
	LocationDesk:      CategoryFurniture,
	LocationBox:       CategoryContainer,
	LocationBin:       CategoryContainer,
	LocationDrawer:    CategoryContainer,
}

// containment is fixed: rooms hold furniture and containers, furniture holds
// containers, containers hold nothing.
var containment = map[LocationCategory][]LocationCategory{
	CategoryRoom:      {CategoryFurniture, CategoryContainer},
	CategoryFurniture: {CategoryContainer},
	CategoryContainer: nil,
}

// LocationTypes returns every known location type in display order
func LocationTypes() []LocationType {
	return []LocationType{
		LocationRoom,
		LocationBookshelf, LocationCabinet, LocationDresser, LocationDesk,
		LocationBox, LocationBin, LocationDrawer,
	}
}

// ParseLocationType resolves a type tag as stored or typed by a user
func ParseLocationType(s string) (LocationType, error) {
	t := LocationType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := locationCategories[t]; !ok {
		return "", fmt.Errorf("unknown location type: %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known location type
func (t LocationType) Valid() bool {
	_, ok := locationCategories[t]
	return ok
}

// Category returns the containment category of the type
func (t LocationType) Category() LocationCategory {
	return locationCategories[t]
}

// CanContain reports whether a location of type t may directly hold child
func (t LocationType) CanContain(child LocationType) bool {
	if !t.Valid() || !child.Valid() {
		return false
	}
	return slices.Contains(containment[t.Category()], child.Category())
}

// StorageLocation is a node in the location forest.
// ChildIDs is derived from the children's ParentID and is never persisted.
type StorageLocation struct {
	ID        string
	Name      string
	Type      LocationType
	ParentID  *string
	ChildIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsRoot returns true for locations without a parent
func (l StorageLocation) IsRoot() bool {
	return l.ParentID == nil
}

// Parent returns the parent id or "" for roots
func (l StorageLocation) Parent() string {
	if l.ParentID == nil {
		return ""
	}
	return *l.ParentID
}

// Clone returns a deep copy safe to hand out of the store
func (l StorageLocation) Clone() StorageLocation {
	out := l
	out.ParentID = CloneString(l.ParentID)
	out.ChildIDs = slices.Clone(l.ChildIDs)
	if l.DeletedAt != nil {
		t := *l.DeletedAt
		out.DeletedAt = &t
	}
	return out
}

// SameParent compares two optional parent references
func SameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CloneString copies an optional string
func CloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SortLocations sorts locations by name, then ID
func SortLocations(locations []StorageLocation) {
	slices.SortFunc(locations, func(a, b StorageLocation) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
