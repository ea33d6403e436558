package application

import (
	"slices"
	"sync"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// ItemTracker keeps the location of every active item in memory together
// with cached breadcrumbs, and follows location changes it is told about.
type ItemTracker struct {
	mu       sync.RWMutex
	tree     ports.LocationTree
	sep      string
	location map[string]string // item id -> location id, "" when unassigned
	paths    map[string]string // location id -> breadcrumb
	gen      uint64            // bumped whenever cached breadcrumbs are dropped
}

// Ensure ItemTracker implements LocationObserver
var _ ports.LocationObserver = (*ItemTracker)(nil)

// NewItemTracker creates an empty tracker reading breadcrumbs from tree
func NewItemTracker(tree ports.LocationTree, sep string) *ItemTracker {
	return &ItemTracker{
		tree:     tree,
		sep:      sep,
		location: make(map[string]string),
		paths:    make(map[string]string),
	}
}

// Reset replaces the tracked state with the given items
func (t *ItemTracker) Reset(items []domain.InventoryItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = make(map[string]string, len(items))
	t.paths = make(map[string]string)
	t.gen++
	for _, item := range items {
		if !item.IsTrashed() {
			t.location[item.ID] = derefID(item.LocationID)
		}
	}
}

// Track records an item's current location. Trashed items are forgotten.
func (t *ItemTracker) Track(item domain.InventoryItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if item.IsTrashed() {
		delete(t.location, item.ID)
		return
	}
	t.location[item.ID] = derefID(item.LocationID)
}

// Forget drops an item
func (t *ItemTracker) Forget(itemID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.location, itemID)
}

// Assign moves tracked items to a location ("" unassigns them)
func (t *ItemTracker) Assign(itemIDs []string, locationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range itemIDs {
		t.location[id] = locationID
	}
}

// LocationOf returns the tracked location of an item
func (t *ItemTracker) LocationOf(itemID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	loc, ok := t.location[itemID]
	return loc, ok
}

// ItemsUnder returns the sorted ids of items assigned to any of the locations
func (t *ItemTracker) ItemsUnder(locationIDs []string) []string {
	want := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		want[id] = true
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for itemID, loc := range t.location {
		if loc != "" && want[loc] {
			out = append(out, itemID)
		}
	}
	slices.Sort(out)
	return out
}

// CountIn returns the number of items assigned directly to a location
func (t *ItemTracker) CountIn(locationID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, loc := range t.location {
		if loc == locationID {
			n++
		}
	}
	return n
}

// PathOf returns the breadcrumb of a location, cached until it changes.
// A breadcrumb computed while an invalidation ran is returned but not cached.
func (t *ItemTracker) PathOf(locationID string) string {
	if locationID == "" {
		return ""
	}
	t.mu.RLock()
	path, ok := t.paths[locationID]
	gen := t.gen
	t.mu.RUnlock()
	if ok {
		return path
	}

	path = t.tree.PathTo(locationID, t.sep)
	if path == "" {
		return ""
	}
	t.mu.Lock()
	if t.gen == gen {
		t.paths[locationID] = path
	}
	t.mu.Unlock()
	return path
}

// OnLocationRenamed drops cached breadcrumbs of the location and below
func (t *ItemTracker) OnLocationRenamed(id, _, _ string) {
	t.invalidate(t.tree.SubtreeIDs(id))
}

// OnLocationMoved drops cached breadcrumbs of the location and below
func (t *ItemTracker) OnLocationMoved(id string, _, _ *string) {
	t.invalidate(t.tree.SubtreeIDs(id))
}

// OnLocationRemoved unassigns items left in removed locations
func (t *ItemTracker) OnLocationRemoved(ids []string) {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for itemID, loc := range t.location {
		if gone[loc] {
			t.location[itemID] = ""
		}
	}
	for _, id := range ids {
		delete(t.paths, id)
	}
	t.gen++
}

func (t *ItemTracker) invalidate(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		delete(t.paths, id)
	}
	t.gen++
}

func derefID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}
