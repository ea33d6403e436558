package application

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// pausingTree serves a single location and can hold the first PathTo call
// after the breadcrumb is computed.
type pausingTree struct {
	ports.LocationTree

	mu       sync.Mutex
	name     string
	pause    bool
	computed chan struct{}
	release  chan struct{}
}

func newPausingTree(name string) *pausingTree {
	return &pausingTree{
		name:     name,
		pause:    true,
		computed: make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (p *pausingTree) PathTo(string, string) string {
	p.mu.Lock()
	path, pause := p.name, p.pause
	p.pause = false
	p.mu.Unlock()
	if pause {
		close(p.computed)
		<-p.release
	}
	return path
}

func (p *pausingTree) SubtreeIDs(id string) []string {
	return []string{id}
}

func (p *pausingTree) rename(name string) {
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
}

func TestItemTracker_PathOfRacingRename(t *testing.T) {
	tree := newPausingTree("Study")
	tracker := NewItemTracker(tree, " > ")

	done := make(chan string)
	go func() { done <- tracker.PathOf("room") }()

	<-tree.computed
	tree.rename("Library")
	tracker.OnLocationRenamed("room", "Study", "Library")
	close(tree.release)

	assert.Equal(t, "Study", <-done, "the racing read returns what it computed")
	assert.Equal(t, "Library", tracker.PathOf("room"), "but does not cache it")
}

func TestItemTracker_PathOfRacingRemove(t *testing.T) {
	tree := newPausingTree("Study")
	tracker := NewItemTracker(tree, " > ")

	done := make(chan string)
	go func() { done <- tracker.PathOf("room") }()

	<-tree.computed
	tree.rename("")
	tracker.OnLocationRemoved([]string{"room"})
	close(tree.release)

	<-done
	assert.Empty(t, tracker.PathOf("room"))
}

func TestItemTracker_TrackAndRemove(t *testing.T) {
	tracker := NewItemTracker(newPausingTree("Study"), " > ")
	trashedAt := time.Now()

	tracker.Reset([]domain.InventoryItem{
		{ID: "a", LocationID: domain.StringPtr("room")},
		{ID: "b"},
		{ID: "c", LocationID: domain.StringPtr("room"), DeletedAt: &trashedAt},
	})

	loc, ok := tracker.LocationOf("a")
	require.True(t, ok)
	assert.Equal(t, "room", loc)
	_, ok = tracker.LocationOf("c")
	assert.False(t, ok, "trashed items are not tracked")
	assert.Equal(t, 1, tracker.CountIn("room"))

	tracker.OnLocationRemoved([]string{"room"})
	loc, ok = tracker.LocationOf("a")
	require.True(t, ok)
	assert.Empty(t, loc)
}
