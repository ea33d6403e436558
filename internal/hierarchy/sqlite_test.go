package hierarchy_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/adapters/sqlite"
	"scaffale/internal/domain"
	"scaffale/internal/hierarchy"
)

func TestHierarchyOverSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scaffale.db")
	g, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer g.Close()

	locations := sqlite.NewLocationRepository(g)
	items := sqlite.NewItemRepository(g)
	store := hierarchy.New(locations, items, g)

	add := func(id, name string, typ domain.LocationType, parent string) error {
		_, err := store.Add(ctx, domain.StorageLocation{ID: id, Name: name, Type: typ, ParentID: domain.StringPtr(parent)})
		return err
	}
	require.NoError(t, add("R", "Study", domain.LocationRoom, ""))
	require.NoError(t, add("B", "Bookshelf", domain.LocationBookshelf, "R"))
	require.NoError(t, add("X", "Box", domain.LocationBox, "B"))

	assert.ErrorIs(t, add("Y", "Inner box", domain.LocationBox, "X"), domain.ErrInvalidChildType)
	assert.ErrorIs(t, store.Move(ctx, "R", domain.StringPtr("B")), domain.ErrCircularReference)

	item := &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr("X")}
	require.NoError(t, items.Save(ctx, item))

	_, err = store.Remove(ctx, "X")
	assert.ErrorIs(t, err, domain.ErrHasItems)
	_, err = store.Remove(ctx, "R")
	assert.ErrorIs(t, err, domain.ErrHasItems, "items below a location guard it too")
	_, err = locations.Get(ctx, "X")
	require.NoError(t, err, "a guarded removal leaves the rows in place")

	// trashed items do not guard a location
	require.NoError(t, items.SoftDelete(ctx, item.ID))
	removed, err := store.Remove(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, removed)

	trashed, err := items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, trashed.LocationID, "trashed items lose their removed location")

	// a fresh store sees the same forest
	reloaded := hierarchy.New(locations, items, g)
	report, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Decoded)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, store.Snapshot()[0].ID, reloaded.Snapshot()[0].ID)
	assert.Equal(t, "Study › Bookshelf", reloaded.PathTo("B", ""))
	assert.NoError(t, reloaded.Validate())
}

func TestRemovalIsAtomicOverSQLite(t *testing.T) {
	ctx := context.Background()
	g, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "scaffale.db"))
	require.NoError(t, err)
	defer g.Close()

	locations := sqlite.NewLocationRepository(g)
	items := sqlite.NewItemRepository(g)
	store := hierarchy.New(locations, items, g)

	for _, loc := range []domain.StorageLocation{
		{ID: "R", Name: "Study", Type: domain.LocationRoom},
		{ID: "B", Name: "Shelf", Type: domain.LocationBookshelf, ParentID: domain.StringPtr("R")},
		{ID: "X", Name: "Box", Type: domain.LocationBox, ParentID: domain.StringPtr("B")},
		{ID: "Z", Name: "Other box", Type: domain.LocationBox, ParentID: domain.StringPtr("B")},
	} {
		_, err := store.Add(ctx, loc)
		require.NoError(t, err)
	}
	require.NoError(t, items.Save(ctx, &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr("Z")}))

	_, err = store.Remove(ctx, "B")
	assert.ErrorIs(t, err, domain.ErrHasItems)

	all, _, err := locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4, "no row of the subtree is deleted")
	assert.Equal(t, 4, store.Len())
}
