package ports

import (
	"context"

	"scaffale/internal/domain"
)

// ListReport describes rows skipped while streaming a listing
type ListReport struct {
	Decoded int
	Skipped int
}

// LocationRepository maps storage locations to durable rows.
// It carries no hierarchy logic; the hierarchy store validates first.
type LocationRepository interface {
	Insert(ctx context.Context, loc domain.StorageLocation) error
	Update(ctx context.Context, loc domain.StorageLocation) error
	// Delete removes the given rows; callers order ids leaf-first
	Delete(ctx context.Context, ids ...string) error
	Get(ctx context.Context, id string) (*domain.StorageLocation, error)
	// List streams every location; rows that fail to decode are skipped and counted
	List(ctx context.Context) ([]domain.StorageLocation, ListReport, error)
}

// LocationObserver is told about structural changes once they are durable
type LocationObserver interface {
	OnLocationRenamed(id, oldName, newName string)
	OnLocationMoved(id string, oldParent, newParent *string)
	OnLocationRemoved(ids []string)
}

// LocationTree is the in-memory hierarchy the application reads and mutates.
// Mutations validate first, then write durably, then update memory.
type LocationTree interface {
	Add(ctx context.Context, loc domain.StorageLocation) (domain.StorageLocation, error)
	Update(ctx context.Context, loc domain.StorageLocation) (domain.StorageLocation, error)
	Move(ctx context.Context, id string, newParentID *string) error
	Rename(ctx context.Context, id, name string) error
	// Remove deletes the location and its whole subtree, leaf-first, and
	// returns the removed ids
	Remove(ctx context.Context, id string) ([]string, error)

	Get(id string) (domain.StorageLocation, bool)
	Contains(id string) bool
	ChildrenOf(id string) []domain.StorageLocation
	DescendantsOf(id string) []domain.StorageLocation
	// SubtreeIDs returns id followed by the ids of all its descendants
	SubtreeIDs(id string) []string
	AncestorsOf(id string) []domain.StorageLocation
	PathTo(id, sep string) string
	AllOfType(t domain.LocationType) []domain.StorageLocation
	Roots() []domain.StorageLocation
	Snapshot() []domain.StorageLocation

	// WithLocations checks every id exists and runs fn while no location can
	// be moved or removed
	WithLocations(ctx context.Context, ids []string, fn func(ctx context.Context) error) error
}
