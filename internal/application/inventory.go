package application

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// Inventory is the entry point for adapters: locations go through the
// hierarchy, items through the repository, and item state is tracked in
// memory from both.
type Inventory struct {
	tree    ports.LocationTree
	items   ports.ItemRepository
	rules   ports.ClassificationRepository
	tracker *ItemTracker
	log     zerolog.Logger
}

// NewInventory wires the facade. The tracker is registered with coord so it
// follows location changes.
func NewInventory(tree ports.LocationTree, items ports.ItemRepository, rules ports.ClassificationRepository,
	coord *Coordinator, sep string, log zerolog.Logger) *Inventory {
	tracker := NewItemTracker(tree, sep)
	if coord != nil {
		coord.Register(tracker)
	}
	return &Inventory{
		tree:    tree,
		items:   items,
		rules:   rules,
		tracker: tracker,
		log:     log,
	}
}

// Tree returns the location hierarchy
func (inv *Inventory) Tree() ports.LocationTree {
	return inv.tree
}

// Tracker returns the in-memory item state
func (inv *Inventory) Tracker() *ItemTracker {
	return inv.tracker
}

// Load reads every active item into the tracker
func (inv *Inventory) Load(ctx context.Context) error {
	items, report, err := inv.items.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}
	if report.Skipped > 0 {
		inv.log.Warn().Int("skipped", report.Skipped).Msg("some items could not be read")
	}
	inv.tracker.Reset(items)
	return nil
}

// AddLocation creates a location under parentID (nil for a room)
func (inv *Inventory) AddLocation(ctx context.Context, name string, typ domain.LocationType, parentID *string) (domain.StorageLocation, error) {
	return inv.tree.Add(ctx, domain.StorageLocation{
		Name:     name,
		Type:     typ,
		ParentID: domain.CloneString(parentID),
	})
}

// RenameLocation renames a location
func (inv *Inventory) RenameLocation(ctx context.Context, id, name string) error {
	return inv.tree.Rename(ctx, id, name)
}

// MoveLocation re-parents a location
func (inv *Inventory) MoveLocation(ctx context.Context, id string, parentID *string) error {
	return inv.tree.Move(ctx, id, parentID)
}

// RemoveLocation removes a location and everything below it
func (inv *Inventory) RemoveLocation(ctx context.Context, id string) ([]string, error) {
	return inv.tree.Remove(ctx, id)
}

// Classify picks a collection type for an item from the rule table
func (inv *Inventory) Classify(ctx context.Context, title, publisher, description string) (domain.CollectionType, error) {
	return inv.rules.Classify(ctx, title, publisher, description)
}

// ListRules returns the classification rules in evaluation order
func (inv *Inventory) ListRules(ctx context.Context) ([]domain.ClassificationRule, error) {
	return inv.rules.ListRules(ctx)
}

// AddRule stores a classification rule
func (inv *Inventory) AddRule(ctx context.Context, rule *domain.ClassificationRule) error {
	return inv.rules.AddRule(ctx, rule)
}

// DeleteRule removes a classification rule
func (inv *Inventory) DeleteRule(ctx context.Context, id int64) error {
	return inv.rules.DeleteRule(ctx, id)
}

// AddItem stores a new item. Without a type it is classified from its
// title, publisher and the given description.
func (inv *Inventory) AddItem(ctx context.Context, item *domain.InventoryItem, description string) error {
	if err := inv.classifyIfUntyped(ctx, item, description); err != nil {
		return err
	}
	err := inv.tree.WithLocations(ctx, locationIDs(item), func(ctx context.Context) error {
		return inv.items.Save(ctx, item)
	})
	if err != nil {
		return err
	}
	inv.tracker.Track(*item)
	return nil
}

// GetItem loads an item, trashed or not
func (inv *Inventory) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return inv.items.Get(ctx, id)
}

// UpdateItem overwrites an item, checking its location exists
func (inv *Inventory) UpdateItem(ctx context.Context, item *domain.InventoryItem) error {
	err := inv.tree.WithLocations(ctx, locationIDs(item), func(ctx context.Context) error {
		return inv.items.Update(ctx, item)
	})
	if err != nil {
		return err
	}
	inv.tracker.Track(*item)
	return nil
}

// BatchSave stores every item or none. Untyped items are classified first.
func (inv *Inventory) BatchSave(ctx context.Context, items []*domain.InventoryItem) error {
	var ids []string
	for _, item := range items {
		if err := inv.classifyIfUntyped(ctx, item, ""); err != nil {
			return err
		}
		for _, id := range locationIDs(item) {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	err := inv.tree.WithLocations(ctx, ids, func(ctx context.Context) error {
		return inv.items.BatchSave(ctx, items)
	})
	if err != nil {
		return err
	}
	for _, item := range items {
		inv.tracker.Track(*item)
	}
	return nil
}

// MoveItems assigns items to a location, or unassigns them when locationID
// is nil. The location is checked and held while every item is updated in
// one transaction.
func (inv *Inventory) MoveItems(ctx context.Context, itemIDs []string, locationID *string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	var ids []string
	if locationID != nil {
		ids = []string{*locationID}
	}
	err := inv.tree.WithLocations(ctx, ids, func(ctx context.Context) error {
		return inv.items.MoveToLocation(ctx, itemIDs, locationID)
	})
	if err != nil {
		return err
	}
	inv.tracker.Assign(itemIDs, derefID(locationID))
	inv.log.Debug().Int("items", len(itemIDs)).Str("location", derefID(locationID)).Msg("items moved")
	return nil
}

// TrashItem moves an item to the trash
func (inv *Inventory) TrashItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := inv.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsTrashed() {
		return nil, &TrashError{ID: id, Reason: ErrAlreadyTrashed}
	}
	if err := inv.items.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	inv.tracker.Forget(id)
	return item, nil
}

// RestoreItem takes an item out of the trash
func (inv *Inventory) RestoreItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := inv.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsTrashed() {
		return nil, &TrashError{ID: id, Reason: ErrNotTrashed}
	}
	if err := inv.items.Restore(ctx, id); err != nil {
		return nil, err
	}
	item.DeletedAt = nil
	inv.tracker.Track(*item)
	return item, nil
}

// EmptyTrash permanently deletes every trashed item
func (inv *Inventory) EmptyTrash(ctx context.Context) (int, error) {
	return inv.items.PurgeAllDeleted(ctx)
}

// TrashCount returns the number of trashed items
func (inv *Inventory) TrashCount(ctx context.Context) (int, error) {
	return inv.items.TrashCount(ctx)
}

// ListItems returns every active item with its location breadcrumb
func (inv *Inventory) ListItems(ctx context.Context) ([]LocatedItem, error) {
	items, _, err := inv.items.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return inv.locate(items), nil
}

// ListTrash returns trashed items, most recent first
func (inv *Inventory) ListTrash(ctx context.Context) ([]LocatedItem, error) {
	items, _, err := inv.items.ListTrashed(ctx)
	if err != nil {
		return nil, err
	}
	return inv.locate(items), nil
}

// ItemsUnderLocation returns the active items in a location or any location
// below it. The result is a copy detached from the tree.
func (inv *Inventory) ItemsUnderLocation(ctx context.Context, id string) ([]LocatedItem, error) {
	ids := inv.tree.SubtreeIDs(id)
	if ids == nil {
		return nil, domain.NewLocationError(domain.LocationNotFound, id, "")
	}
	items, err := inv.items.ListByLocation(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	return inv.locate(items), nil
}

// BuildTree returns the forest below rootID, or every room when rootID is "",
// with the number of active items held directly by each location
func (inv *Inventory) BuildTree(rootID string) ([]*TreeNode, error) {
	var roots []domain.StorageLocation
	if rootID == "" {
		roots = inv.tree.Roots()
	} else {
		root, ok := inv.tree.Get(rootID)
		if !ok {
			return nil, domain.NewLocationError(domain.LocationNotFound, rootID, "")
		}
		roots = []domain.StorageLocation{root}
	}

	nodes := make([]*TreeNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, inv.buildNode(root))
	}
	return nodes, nil
}

func (inv *Inventory) buildNode(loc domain.StorageLocation) *TreeNode {
	node := &TreeNode{
		Location:  loc,
		Path:      inv.tracker.PathOf(loc.ID),
		ItemCount: inv.tracker.CountIn(loc.ID),
	}
	for _, child := range inv.tree.ChildrenOf(loc.ID) {
		node.Children = append(node.Children, inv.buildNode(child))
	}
	return node
}

// FindLocations returns locations whose name or breadcrumb contains query,
// case-insensitively
func (inv *Inventory) FindLocations(query string) []domain.StorageLocation {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []domain.StorageLocation
	for _, loc := range inv.tree.Snapshot() {
		if query == "" || strings.Contains(strings.ToLower(inv.tracker.PathOf(loc.ID)), query) {
			out = append(out, loc)
		}
	}
	return out
}

func (inv *Inventory) locate(items []domain.InventoryItem) []LocatedItem {
	out := make([]LocatedItem, 0, len(items))
	for _, item := range items {
		out = append(out, LocatedItem{Item: item, Path: inv.tracker.PathOf(derefID(item.LocationID))})
	}
	return out
}

func (inv *Inventory) classifyIfUntyped(ctx context.Context, item *domain.InventoryItem, description string) error {
	if item.Type != "" {
		return nil
	}
	t, err := inv.rules.Classify(ctx, item.Title, item.Publisher, description)
	if err != nil {
		return fmt.Errorf("failed to classify %q: %w", item.Title, err)
	}
	item.Type = t
	return nil
}

func locationIDs(item *domain.InventoryItem) []string {
	if item.LocationID == nil {
		return nil
	}
	return []string{*item.LocationID}
}
