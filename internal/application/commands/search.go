package commands

import (
	"context"
	"sort"
	"strings"

	"scaffale/internal/application"
)

// HitKind tells a location hit from an item hit
type HitKind string

const (
	HitLocation HitKind = "location"
	HitItem     HitKind = "item"
)

// SearchHit is a location or item matching a query
type SearchHit struct {
	Kind HitKind
	ID   string
	Name string
	// Path is the breadcrumb of the location, or of the item's location
	Path string
}

// SearchResult wraps a SearchHit with a relevance score
type SearchResult struct {
	SearchHit
	Score int
}

// SearchCommand searches locations and active items with fuzzy matching
type SearchCommand struct {
	inv   *application.Inventory
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(inv *application.Inventory, query string) *SearchCommand {
	return &SearchCommand{
		inv:   inv,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	query := strings.TrimSpace(c.Query)
	if len(query) < 2 {
		return nil, nil
	}

	var hits []SearchHit
	for _, loc := range c.inv.Tree().Snapshot() {
		hits = append(hits, SearchHit{
			Kind: HitLocation,
			ID:   loc.ID,
			Name: loc.Name,
			Path: c.inv.Tracker().PathOf(loc.ID),
		})
	}

	items, err := c.inv.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, li := range items {
		hits = append(hits, SearchHit{
			Kind: HitItem,
			ID:   li.Item.ID,
			Name: li.Item.DisplayTitle(),
			Path: li.Path,
		})
	}

	return FuzzySort(hits, query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10 // consecutive chars
		}
		if i == 0 {
			score += 15 // start of string
		}
		if i > 0 && isWordBoundary(target[i-1]) {
			score += 10
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isWordBoundary(b byte) bool {
	switch b {
	case ' ', '-', '#', '>':
		return true
	}
	return false
}

// FuzzySort scores hits against the query, drops non-matches and sorts by
// score descending. The name counts fully, the breadcrumb at half weight.
func FuzzySort(hits []SearchHit, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(hits))

	for _, h := range hits {
		best := max(FuzzyScore(h.Name, query), FuzzyScore(h.Path, query)/2)
		if best > 0 {
			scored = append(scored, SearchResult{
				SearchHit: h,
				Score:     best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return strings.ToLower(scored[i].Name) < strings.ToLower(scored[j].Name)
	})

	return scored
}
