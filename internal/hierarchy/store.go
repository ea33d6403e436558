// Package hierarchy holds the in-memory location forest. Every location is
// kept in one map keyed by id and nodes refer to each other by id only.
package hierarchy

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// DefaultPathSeparator joins breadcrumb segments in PathTo
const DefaultPathSeparator = " › "

// Store is the single source of truth for the location hierarchy.
// Mutations are serialized: each one validates against memory, writes
// durably inside one transaction and only then updates memory.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*domain.StorageLocation

	repo      ports.LocationRepository
	items     ports.ItemCounter
	tx        ports.Transactor
	observers []ports.LocationObserver

	log zerolog.Logger
	now func() time.Time
	sep string
}

// Ensure Store implements LocationTree
var _ ports.LocationTree = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithObserver registers an observer told about renames, moves and removals
func WithObserver(o ports.LocationObserver) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// WithLogger sets the store logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides time.Now for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPathSeparator sets the default breadcrumb separator
func WithPathSeparator(sep string) Option {
	return func(s *Store) {
		if sep != "" {
			s.sep = sep
		}
	}
}

// New creates an empty store. items may be nil, in which case removals skip
// the item guard.
func New(repo ports.LocationRepository, items ports.ItemCounter, tx ports.Transactor, opts ...Option) *Store {
	s := &Store{
		nodes: make(map[string]*domain.StorageLocation),
		repo:  repo,
		items: items,
		tx:    tx,
		log:   zerolog.Nop(),
		now:   time.Now,
		sep:   DefaultPathSeparator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory forest with the persisted locations.
// Only locations reachable from a room root through valid containment are
// admitted; the rest are logged and counted as skipped. A room whose parent
// is missing becomes a root.
func (s *Store) Load(ctx context.Context) (ports.ListReport, error) {
	locations, report, err := s.repo.List(ctx)
	if err != nil {
		return report, err
	}

	byID := make(map[string]domain.StorageLocation, len(locations))
	byParent := make(map[string][]domain.StorageLocation)
	var queue []string
	for _, loc := range locations {
		loc.ChildIDs = nil
		byID[loc.ID] = loc
	}
	for _, loc := range locations {
		switch {
		case loc.ParentID == nil && loc.Type.Category() == domain.CategoryRoom:
			queue = append(queue, loc.ID)
		case loc.ParentID != nil:
			if _, ok := byID[*loc.ParentID]; ok {
				byParent[*loc.ParentID] = append(byParent[*loc.ParentID], loc)
				continue
			}
			if loc.Type.Category() == domain.CategoryRoom {
				s.log.Warn().Str("id", loc.ID).Str("parent", *loc.ParentID).Msg("room has a missing parent, loading it as a root")
				loc.ParentID = nil
				byID[loc.ID] = loc
				queue = append(queue, loc.ID)
			}
		}
	}

	nodes := make(map[string]*domain.StorageLocation, len(byID))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		loc := byID[id]
		nodes[id] = &loc
		for _, child := range byParent[id] {
			if !loc.Type.CanContain(child.Type) {
				continue
			}
			loc.ChildIDs = append(loc.ChildIDs, child.ID)
			queue = append(queue, child.ID)
		}
	}

	for _, loc := range locations {
		if _, ok := nodes[loc.ID]; !ok {
			report.Skipped++
			report.Decoded--
			s.log.Warn().Str("id", loc.ID).Str("type", string(loc.Type)).Str("parent", loc.Parent()).
				Msg("skipping location outside the hierarchy")
		}
	}

	s.mu.Lock()
	s.nodes = nodes
	s.mu.Unlock()

	s.log.Debug().Int("locations", len(nodes)).Int("skipped", report.Skipped).Msg("hierarchy loaded")
	return report, nil
}

// Add validates and persists a new location, then links it into the tree.
// A missing ID is generated.
func (s *Store) Add(ctx context.Context, loc domain.StorageLocation) (domain.StorageLocation, error) {
	if loc.ID == "" {
		loc.ID = domain.NewID()
	}
	loc.Name = strings.TrimSpace(loc.Name)
	loc.ChildIDs = nil

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAdd(loc); err != nil {
		s.log.Debug().Err(err).Msg("add rejected")
		return domain.StorageLocation{}, err
	}

	now := s.now()
	loc.CreatedAt, loc.UpdatedAt = now, now
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, loc)
	})
	if err != nil {
		return domain.StorageLocation{}, err
	}

	node := loc.Clone()
	s.nodes[loc.ID] = &node
	if loc.ParentID != nil {
		parent := s.nodes[*loc.ParentID]
		parent.ChildIDs = append(parent.ChildIDs, loc.ID)
	}
	s.log.Debug().Str("id", loc.ID).Str("type", string(loc.Type)).Msg("location added")
	return node.Clone(), nil
}

// Update replaces name, type and parent of an existing location. Parent and
// type changes are checked for cycles and containment, including against the
// location's current children.
func (s *Store) Update(ctx context.Context, loc domain.StorageLocation) (domain.StorageLocation, error) {
	s.mu.Lock()
	updated, events, err := s.update(ctx, loc)
	s.mu.Unlock()
	if err != nil {
		return domain.StorageLocation{}, err
	}
	s.notify(events)
	return updated, nil
}

// Move re-parents a location. A nil parent is only valid for rooms.
func (s *Store) Move(ctx context.Context, id string, newParentID *string) error {
	s.mu.Lock()
	current, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return domain.NewLocationError(domain.LocationNotFound, id, "")
	}
	next := current.Clone()
	next.ParentID = domain.CloneString(newParentID)
	_, events, err := s.update(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(events)
	return nil
}

// Rename changes the display name of a location
func (s *Store) Rename(ctx context.Context, id, name string) error {
	s.mu.Lock()
	current, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return domain.NewLocationError(domain.LocationNotFound, id, "")
	}
	next := current.Clone()
	next.Name = name
	_, events, err := s.update(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(events)
	return nil
}

// update runs with the write lock held and returns the events to publish
// once it is released
func (s *Store) update(ctx context.Context, loc domain.StorageLocation) (domain.StorageLocation, []event, error) {
	current, ok := s.nodes[loc.ID]
	if !ok {
		return domain.StorageLocation{}, nil, domain.NewLocationError(domain.LocationNotFound, loc.ID, "")
	}
	loc.Name = strings.TrimSpace(loc.Name)

	if err := s.validateUpdate(*current, loc); err != nil {
		s.log.Debug().Err(err).Str("id", loc.ID).Msg("update rejected")
		return domain.StorageLocation{}, nil, err
	}

	moved := !domain.SameParent(current.ParentID, loc.ParentID)
	renamed := current.Name != loc.Name
	if !moved && !renamed && current.Type == loc.Type {
		return current.Clone(), nil, nil
	}

	next := current.Clone()
	next.Name = loc.Name
	next.Type = loc.Type
	next.ParentID = domain.CloneString(loc.ParentID)
	next.UpdatedAt = s.now()

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, next)
	})
	if err != nil {
		return domain.StorageLocation{}, nil, err
	}

	oldParent := current.ParentID
	if moved {
		if oldParent != nil {
			s.unlink(*oldParent, loc.ID)
		}
		if next.ParentID != nil {
			parent := s.nodes[*next.ParentID]
			parent.ChildIDs = append(parent.ChildIDs, loc.ID)
		}
	}
	oldName := current.Name
	*current = next

	var events []event
	if renamed {
		events = append(events, event{kind: eventRenamed, id: loc.ID, oldName: oldName, newName: next.Name})
	}
	if moved {
		events = append(events, event{kind: eventMoved, id: loc.ID, oldParent: oldParent, newParent: domain.CloneString(next.ParentID)})
	}
	s.log.Debug().Str("id", loc.ID).Bool("renamed", renamed).Bool("moved", moved).Msg("location updated")
	return next.Clone(), events, nil
}

// Remove deletes a location and every descendant, leaf-first, in one
// transaction. It fails with HasItems when any location of the subtree
// holds active items. Trashed items left in the subtree are unassigned.
func (s *Store) Remove(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	if _, ok := s.nodes[id]; !ok {
		s.mu.Unlock()
		return nil, domain.NewLocationError(domain.LocationNotFound, id, "")
	}

	ids := s.postOrder(id)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if s.items != nil {
			n, err := s.items.CountActiveIn(ctx, ids)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.NewLocationError(domain.HasItems, id, "%d item(s) in this location or below", n)
			}
			if _, err := s.items.ClearLocation(ctx, ids); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, ids...)
	})
	if err != nil {
		s.mu.Unlock()
		s.log.Debug().Err(err).Str("id", id).Msg("remove rejected")
		return nil, err
	}

	if parent := s.nodes[id].ParentID; parent != nil {
		s.unlink(*parent, id)
	}
	for _, removed := range ids {
		delete(s.nodes, removed)
	}
	s.mu.Unlock()

	s.log.Debug().Str("id", id).Int("count", len(ids)).Msg("locations removed")
	s.notify([]event{{kind: eventRemoved, ids: slices.Clone(ids)}})
	return ids, nil
}

// RemoveSubtree is Remove under its explicit name
func (s *Store) RemoveSubtree(ctx context.Context, id string) ([]string, error) {
	return s.Remove(ctx, id)
}

// WithLocations checks that every id exists and runs fn while holding the
// read lock, so none of the locations can be moved or removed meanwhile.
// fn must not call back into the store.
func (s *Store) WithLocations(ctx context.Context, ids []string, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		if _, ok := s.nodes[id]; !ok {
			return domain.NewLocationError(domain.LocationNotFound, id, "")
		}
	}
	return fn(ctx)
}

func (s *Store) unlink(parentID, childID string) {
	parent, ok := s.nodes[parentID]
	if !ok {
		return
	}
	parent.ChildIDs = slices.DeleteFunc(parent.ChildIDs, func(id string) bool { return id == childID })
}

// postOrder returns the subtree of id with every child before its parent
func (s *Store) postOrder(id string) []string {
	var out []string
	var walk func(string)
	walk = func(id string) {
		for _, child := range s.nodes[id].ChildIDs {
			walk(child)
		}
		out = append(out, id)
	}
	walk(id)
	return out
}
