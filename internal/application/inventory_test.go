package application_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/adapters/sqlite"
	"scaffale/internal/application"
	"scaffale/internal/domain"
	"scaffale/internal/hierarchy"
)

type harness struct {
	inv   *application.Inventory
	items *sqlite.ItemRepository
	room  domain.StorageLocation
	shelf domain.StorageLocation
	box   domain.StorageLocation
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	g, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "scaffale.db"))
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })

	coord := application.NewCoordinator(zerolog.Nop())
	items := sqlite.NewItemRepository(g)
	store := hierarchy.New(sqlite.NewLocationRepository(g), items, g, hierarchy.WithObserver(coord))
	inv := application.NewInventory(store, items, sqlite.NewRuleRepository(g), coord, " > ", zerolog.Nop())
	require.NoError(t, inv.Load(ctx))

	h := &harness{inv: inv, items: items}
	h.room, err = inv.AddLocation(ctx, "Study", domain.LocationRoom, nil)
	require.NoError(t, err)
	h.shelf, err = inv.AddLocation(ctx, "Shelf", domain.LocationBookshelf, &h.room.ID)
	require.NoError(t, err)
	h.box, err = inv.AddLocation(ctx, "Box", domain.LocationBox, &h.shelf.ID)
	require.NoError(t, err)
	return h
}

func TestInventory_AddItemClassifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		item        domain.InventoryItem
		description string
		want        domain.CollectionType
	}{
		{
			name: "explicit type wins",
			item: domain.InventoryItem{Title: "One Piece", Type: domain.CollectionBook, Publisher: "VIZ Media"},
			want: domain.CollectionBook,
		},
		{
			name: "publisher rule",
			item: domain.InventoryItem{Title: "One Piece", Publisher: "VIZ Media"},
			want: domain.CollectionManga,
		},
		{
			name:        "description rule",
			item:        domain.InventoryItem{Title: "Maus"},
			description: "Pulitzer-winning graphic novel",
			want:        domain.CollectionComic,
		},
		{
			name: "default",
			item: domain.InventoryItem{Title: "Dune"},
			want: domain.DefaultCollectionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			item.LocationID = domain.StringPtr(h.box.ID)
			require.NoError(t, h.inv.AddItem(ctx, &item, tt.description))
			assert.Equal(t, tt.want, item.Type)

			loc, ok := h.inv.Tracker().LocationOf(item.ID)
			require.True(t, ok)
			assert.Equal(t, h.box.ID, loc)
		})
	}
}

func TestInventory_AddItemUnknownLocation(t *testing.T) {
	h := newHarness(t)
	item := &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr(domain.NewID())}

	err := h.inv.AddItem(context.Background(), item, "")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	items, err := h.inv.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInventory_MoveItems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := &domain.InventoryItem{Title: "A", Type: domain.CollectionBook, LocationID: domain.StringPtr(h.box.ID)}
	b := &domain.InventoryItem{Title: "B", Type: domain.CollectionBook}
	require.NoError(t, h.inv.BatchSave(ctx, []*domain.InventoryItem{a, b}))

	require.NoError(t, h.inv.MoveItems(ctx, []string{a.ID, b.ID}, &h.shelf.ID))
	want := []string{a.ID, b.ID}
	slices.Sort(want)
	assert.Equal(t, want, h.inv.Tracker().ItemsUnder([]string{h.shelf.ID}))

	under, err := h.inv.ItemsUnderLocation(ctx, h.room.ID)
	require.NoError(t, err)
	require.Len(t, under, 2)
	assert.Equal(t, "Study > Shelf", under[0].Path)

	err = h.inv.MoveItems(ctx, []string{a.ID}, domain.StringPtr(domain.NewID()))
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	err = h.inv.MoveItems(ctx, []string{a.ID, domain.NewID()}, &h.box.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	got, err := h.items.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, h.shelf.ID, *got.LocationID, "a failed bulk move changes nothing")

	require.NoError(t, h.inv.MoveItems(ctx, []string{a.ID}, nil))
	loc, _ := h.inv.Tracker().LocationOf(a.ID)
	assert.Empty(t, loc)
}

func TestInventory_TrashLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item := &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr(h.box.ID)}
	require.NoError(t, h.inv.AddItem(ctx, item, ""))

	_, err := h.inv.RemoveLocation(ctx, h.box.ID)
	assert.ErrorIs(t, err, domain.ErrHasItems)

	_, err = h.inv.TrashItem(ctx, item.ID)
	require.NoError(t, err)
	_, err = h.inv.TrashItem(ctx, item.ID)
	assert.ErrorIs(t, err, application.ErrAlreadyTrashed)

	n, err := h.inv.TrashCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	restored, err := h.inv.RestoreItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsTrashed())
	_, err = h.inv.RestoreItem(ctx, item.ID)
	assert.ErrorIs(t, err, application.ErrNotTrashed)

	_, err = h.inv.TrashItem(ctx, item.ID)
	require.NoError(t, err)
	removed, err := h.inv.RemoveLocation(ctx, h.box.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{h.box.ID}, removed)

	trash, err := h.inv.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Nil(t, trash[0].Item.LocationID)

	purged, err := h.inv.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestInventory_RenameRefreshesPaths(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item := &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr(h.box.ID)}
	require.NoError(t, h.inv.AddItem(ctx, item, ""))
	assert.Equal(t, "Study > Shelf > Box", h.inv.Tracker().PathOf(h.box.ID))

	require.NoError(t, h.inv.RenameLocation(ctx, h.shelf.ID, "Tall shelf"))
	assert.Equal(t, "Study > Tall shelf > Box", h.inv.Tracker().PathOf(h.box.ID))

	other, err := h.inv.AddLocation(ctx, "Attic", domain.LocationRoom, nil)
	require.NoError(t, err)
	require.NoError(t, h.inv.MoveLocation(ctx, h.shelf.ID, &other.ID))

	items, err := h.inv.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Attic > Tall shelf > Box", items[0].Path)
}

func TestInventory_BuildTree(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.inv.AddItem(ctx, &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: &h.box.ID}, ""))

	roots, err := h.inv.BuildTree("")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	var lines []string
	roots[0].Walk(func(n *application.TreeNode, depth int) {
		lines = append(lines, n.Location.Name)
		if n.Location.ID == h.box.ID {
			assert.Equal(t, 1, n.ItemCount)
			assert.Equal(t, 2, depth)
		}
	})
	assert.Equal(t, []string{"Study", "Shelf", "Box"}, lines)

	_, err = h.inv.BuildTree("ghost")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	found := h.inv.FindLocations("shelf")
	require.Len(t, found, 2, "the shelf and the box below it match")
}

func TestInventory_UpdateItem(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	item := &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr(h.box.ID)}
	require.NoError(t, h.inv.AddItem(ctx, item, ""))

	ghost := item.Clone()
	ghost.LocationID = domain.StringPtr(domain.NewID())
	ghost.Title = "Dune Messiah"
	err := h.inv.UpdateItem(ctx, &ghost)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	stored, err := h.inv.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", stored.Title, "a rejected update leaves the row alone")
	assert.Equal(t, h.box.ID, *stored.LocationID)

	stored.LocationID = domain.StringPtr(h.shelf.ID)
	stored.Condition = domain.ConditionFair
	require.NoError(t, h.inv.UpdateItem(ctx, stored))

	stored, err = h.inv.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, h.shelf.ID, *stored.LocationID)
	assert.Equal(t, domain.ConditionFair, stored.Condition)
	loc, ok := h.inv.Tracker().LocationOf(item.ID)
	require.True(t, ok)
	assert.Equal(t, h.shelf.ID, loc)

	_, err = h.inv.TrashItem(ctx, item.ID)
	require.NoError(t, err)
	trashed, err := h.inv.GetItem(ctx, item.ID)
	require.NoError(t, err)
	trashed.Title = "Dune (worn)"
	require.NoError(t, h.inv.UpdateItem(ctx, trashed))

	_, ok = h.inv.Tracker().LocationOf(item.ID)
	assert.False(t, ok, "editing a trashed item does not bring it back")
	trash, err := h.inv.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, "Dune (worn)", trash[0].Item.Title)
}
