package application

import (
	"sync"

	"github.com/rs/zerolog"

	"scaffale/internal/ports"
)

// Coordinator relays location events from the hierarchy to the components
// that keep item state. It is the only path from locations to items.
type Coordinator struct {
	mu        sync.RWMutex
	observers []ports.LocationObserver
	log       zerolog.Logger
}

// Ensure Coordinator implements LocationObserver
var _ ports.LocationObserver = (*Coordinator)(nil)

// NewCoordinator creates a coordinator with no observers
func NewCoordinator(log zerolog.Logger) *Coordinator {
	return &Coordinator{log: log}
}

// Register adds an observer. Observers are called in registration order.
func (c *Coordinator) Register(o ports.LocationObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

func (c *Coordinator) snapshot() []ports.LocationObserver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ports.LocationObserver(nil), c.observers...)
}

// OnLocationRenamed implements ports.LocationObserver
func (c *Coordinator) OnLocationRenamed(id, oldName, newName string) {
	c.log.Info().Str("location", id).Str("from", oldName).Str("to", newName).Msg("location renamed")
	for _, o := range c.snapshot() {
		o.OnLocationRenamed(id, oldName, newName)
	}
}

// OnLocationMoved implements ports.LocationObserver
func (c *Coordinator) OnLocationMoved(id string, oldParent, newParent *string) {
	c.log.Info().Str("location", id).Str("from", parentLabel(oldParent)).Str("to", parentLabel(newParent)).Msg("location moved")
	for _, o := range c.snapshot() {
		o.OnLocationMoved(id, oldParent, newParent)
	}
}

// OnLocationRemoved implements ports.LocationObserver
func (c *Coordinator) OnLocationRemoved(ids []string) {
	c.log.Info().Strs("locations", ids).Msg("locations removed")
	for _, o := range c.snapshot() {
		o.OnLocationRemoved(ids)
	}
}

func parentLabel(id *string) string {
	if id == nil {
		return "root"
	}
	return *id
}
