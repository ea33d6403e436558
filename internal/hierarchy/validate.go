package hierarchy

import (
	"errors"
	"fmt"

	"scaffale/internal/domain"
)

func (s *Store) validateAdd(loc domain.StorageLocation) error {
	if _, exists := s.nodes[loc.ID]; exists {
		return domain.NewLocationError(domain.DuplicateID, loc.ID, "")
	}
	if loc.Name == "" {
		return domain.NewLocationError(domain.EmptyName, loc.ID, "")
	}
	if err := checkPlacement(loc); err != nil {
		return err
	}
	if loc.ParentID == nil {
		return nil
	}
	parent, ok := s.nodes[*loc.ParentID]
	if !ok {
		return domain.NewLocationError(domain.ParentNotFound, loc.ID, "parent %s", *loc.ParentID)
	}
	return checkContainment(*parent, loc)
}

// validateUpdate checks next against the current tree. The order of checks
// is fixed: parent lookup, cycle, placement, then containment.
func (s *Store) validateUpdate(current, next domain.StorageLocation) error {
	if next.Name == "" {
		return domain.NewLocationError(domain.EmptyName, next.ID, "")
	}
	if !next.Type.Valid() {
		return domain.NewLocationError(domain.InvalidPlacement, next.ID, "unknown location type %q", next.Type)
	}

	parentChanged := !domain.SameParent(current.ParentID, next.ParentID)
	typeChanged := current.Type != next.Type
	if !parentChanged && !typeChanged {
		return nil
	}

	var parent *domain.StorageLocation
	if next.ParentID != nil {
		p, ok := s.nodes[*next.ParentID]
		if !ok {
			return domain.NewLocationError(domain.ParentNotFound, next.ID, "parent %s", *next.ParentID)
		}
		if s.wouldCycle(next.ID, *next.ParentID) {
			return domain.NewLocationError(domain.CircularReference, next.ID, "%s is inside %s", *next.ParentID, next.ID)
		}
		parent = p
	}
	if err := checkPlacement(next); err != nil {
		return err
	}
	if parent != nil {
		if err := checkContainment(*parent, next); err != nil {
			return err
		}
	}
	if typeChanged {
		for _, childID := range current.ChildIDs {
			child := s.nodes[childID]
			if !next.Type.CanContain(child.Type) {
				return domain.NewLocationError(domain.InvalidChildType, next.ID,
					"a %s cannot hold its %s %q", next.Type, child.Type, child.Name)
			}
		}
	}
	return nil
}

// wouldCycle walks up from newParentID and reports whether id is met
// before reaching a root
func (s *Store) wouldCycle(id, newParentID string) bool {
	seen := make(map[string]bool)
	for cur := newParentID; cur != ""; {
		if cur == id {
			return true
		}
		if seen[cur] {
			return true
		}
		seen[cur] = true
		node, ok := s.nodes[cur]
		if !ok {
			return false
		}
		cur = node.Parent()
	}
	return false
}

// checkPlacement enforces that rooms, and only rooms, are roots
func checkPlacement(loc domain.StorageLocation) error {
	if !loc.Type.Valid() {
		return domain.NewLocationError(domain.InvalidPlacement, loc.ID, "unknown location type %q", loc.Type)
	}
	isRoom := loc.Type.Category() == domain.CategoryRoom
	switch {
	case isRoom && loc.ParentID != nil:
		return domain.NewLocationError(domain.InvalidPlacement, loc.ID, "a room cannot have a parent")
	case !isRoom && loc.ParentID == nil:
		return domain.NewLocationError(domain.InvalidPlacement, loc.ID, "a %s needs a parent", loc.Type)
	}
	return nil
}

func checkContainment(parent, child domain.StorageLocation) error {
	if !parent.Type.CanContain(child.Type) {
		return domain.NewLocationError(domain.InvalidChildType, child.ID, "a %s cannot hold a %s", parent.Type, child.Type)
	}
	return nil
}

// Validate checks the whole forest: no cycles, every parent exists and may
// hold its child, and child lists agree with parent references
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	for id, loc := range s.nodes {
		if loc.ParentID == nil {
			if err := checkPlacement(*loc); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		parent, ok := s.nodes[*loc.ParentID]
		if !ok {
			errs = append(errs, domain.NewLocationError(domain.ParentNotFound, id, "parent %s", *loc.ParentID))
			continue
		}
		if s.wouldCycle(id, *loc.ParentID) {
			errs = append(errs, domain.NewLocationError(domain.CircularReference, id, ""))
		}
		if err := checkContainment(*parent, *loc); err != nil {
			errs = append(errs, err)
		}
		if count(parent.ChildIDs, id) != 1 {
			errs = append(errs, fmt.Errorf("%s is listed %d times under %s", id, count(parent.ChildIDs, id), parent.ID))
		}
	}
	for id, loc := range s.nodes {
		for _, childID := range loc.ChildIDs {
			child, ok := s.nodes[childID]
			if !ok || child.Parent() != id {
				errs = append(errs, fmt.Errorf("%s lists %s as a child but it is not", id, childID))
			}
		}
	}
	return errors.Join(errs...)
}

func count(ids []string, id string) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}
