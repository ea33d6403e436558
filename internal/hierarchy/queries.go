package hierarchy

import (
	"slices"
	"strings"

	"scaffale/internal/domain"
)

// Every read returns copies, so callers may keep results after the tree
// changes.

// Get returns a copy of the location
func (s *Store) Get(id string) (domain.StorageLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.nodes[id]
	if !ok {
		return domain.StorageLocation{}, false
	}
	return loc.Clone(), true
}

// Contains reports whether the location exists
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Len returns the number of locations
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// ChildrenOf returns the direct children sorted by name
func (s *Store) ChildrenOf(id string) []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.childrenOf(id)
}

func (s *Store) childrenOf(id string) []domain.StorageLocation {
	node, ok := s.nodes[id]
	if !ok {
		return nil
	}
	out := make([]domain.StorageLocation, 0, len(node.ChildIDs))
	for _, childID := range node.ChildIDs {
		out = append(out, s.nodes[childID].Clone())
	}
	domain.SortLocations(out)
	return out
}

// DescendantsOf returns every location below id, depth-first with
// siblings sorted by name. id itself is not included.
func (s *Store) DescendantsOf(id string) []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.StorageLocation
	var walk func(string)
	walk = func(id string) {
		for _, child := range s.childrenOf(id) {
			out = append(out, child)
			walk(child.ID)
		}
	}
	walk(id)
	return out
}

// SubtreeIDs returns id followed by the ids of all its descendants, or nil
// when id is unknown
func (s *Store) SubtreeIDs(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	out := []string{id}
	for i := 0; i < len(out); i++ {
		out = append(out, s.nodes[out[i]].ChildIDs...)
	}
	return out
}

// AncestorsOf returns the chain above id, root first
func (s *Store) AncestorsOf(id string) []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ancestorsOf(id)
}

func (s *Store) ancestorsOf(id string) []domain.StorageLocation {
	node, ok := s.nodes[id]
	if !ok {
		return nil
	}
	var out []domain.StorageLocation
	seen := map[string]bool{id: true}
	for cur := node.Parent(); cur != "" && !seen[cur]; {
		seen[cur] = true
		parent, ok := s.nodes[cur]
		if !ok {
			break
		}
		out = append(out, parent.Clone())
		cur = parent.Parent()
	}
	slices.Reverse(out)
	return out
}

// PathTo returns the breadcrumb from the root down to id, e.g.
// "Study › Tall shelf › Box". An empty sep uses the store separator.
func (s *Store) PathTo(id, sep string) string {
	if sep == "" {
		sep = s.sep
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return ""
	}
	ancestors := s.ancestorsOf(id)
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	names = append(names, node.Name)
	return strings.Join(names, sep)
}

// AllOfType returns every location of the given type sorted by name
func (s *Store) AllOfType(t domain.LocationType) []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StorageLocation
	for _, loc := range s.nodes {
		if loc.Type == t {
			out = append(out, loc.Clone())
		}
	}
	domain.SortLocations(out)
	return out
}

// Roots returns the rooms at the top of the forest sorted by name
func (s *Store) Roots() []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.StorageLocation
	for _, loc := range s.nodes {
		if loc.IsRoot() {
			out = append(out, loc.Clone())
		}
	}
	domain.SortLocations(out)
	return out
}

// Snapshot returns a copy of every location sorted by name
func (s *Store) Snapshot() []domain.StorageLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.StorageLocation, 0, len(s.nodes))
	for _, loc := range s.nodes {
		out = append(out, loc.Clone())
	}
	domain.SortLocations(out)
	return out
}
