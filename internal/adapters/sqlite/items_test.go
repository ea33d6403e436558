package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/domain"
)

func seedShelf(t *testing.T, g *Gateway) {
	t.Helper()
	repo := NewLocationRepository(g)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newLocation("room-1", "Study", domain.LocationRoom, "")))
	require.NoError(t, repo.Insert(ctx, newLocation("shelf-1", "Shelf", domain.LocationBookshelf, "room-1")))
	require.NoError(t, repo.Insert(ctx, newLocation("box-1", "Box", domain.LocationBox, "shelf-1")))
}

func volume(n int) *int { return &n }

func TestItemRepository_SaveAndGet(t *testing.T) {
	g := openTestGateway(t)
	seedShelf(t, g)
	repo := NewItemRepository(g)
	ctx := context.Background()

	item := &domain.InventoryItem{
		Title:        "  Berserk Vol. 1 ",
		Type:         domain.CollectionManga,
		Series:       domain.StringPtr("Berserk"),
		Volume:       volume(1),
		Publisher:    "Dark Horse",
		LocationID:   domain.StringPtr("shelf-1"),
		CustomFields: map[string]string{"signed": "no", "edition": "deluxe"},
	}
	require.NoError(t, repo.Save(ctx, item))
	require.NotEmpty(t, item.ID)
	assert.Equal(t, "Berserk Vol. 1", item.Title)
	assert.Equal(t, domain.ConditionGood, item.Condition)

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Berserk Vol. 1", got.Title)
	assert.Equal(t, domain.CollectionManga, got.Type)
	require.NotNil(t, got.Volume)
	assert.Equal(t, 1, *got.Volume)
	assert.Equal(t, "Dark Horse", got.Publisher)
	assert.Equal(t, "", got.ISBN)
	assert.Equal(t, map[string]string{"signed": "no", "edition": "deluxe"}, got.CustomFields)
	assert.False(t, got.IsTrashed())

	got.CustomFields = map[string]string{"signed": "yes"}
	got.Condition = domain.ConditionFair
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"signed": "yes"}, again.CustomFields)
	assert.Equal(t, domain.ConditionFair, again.Condition)
}

func TestItemRepository_SaveRejects(t *testing.T) {
	g := openTestGateway(t)
	repo := NewItemRepository(g)
	ctx := context.Background()

	tests := []struct {
		name string
		item *domain.InventoryItem
		want error
	}{
		{
			name: "empty title",
			item: &domain.InventoryItem{Title: "   ", Type: domain.CollectionBook},
			want: domain.ErrInvalidInput,
		},
		{
			name: "unknown type",
			item: &domain.InventoryItem{Title: "Dune", Type: "vinyl"},
			want: domain.ErrInvalidInput,
		},
		{
			name: "missing location",
			item: &domain.InventoryItem{Title: "Dune", Type: domain.CollectionBook, LocationID: domain.StringPtr("ghost")},
			want: domain.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Save(ctx, tt.item)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := repo.Get(ctx, "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.InventoryItem{ID: "does-not-exist", Title: "X", Type: domain.CollectionBook}), domain.ErrItemNotFound)
}

func TestItemRepository_ListTrashedNewestFirst(t *testing.T) {
	g := openTestGateway(t)
	repo := NewItemRepository(g)
	ctx := context.Background()

	first := &domain.InventoryItem{Title: "First", Type: domain.CollectionBook}
	second := &domain.InventoryItem{Title: "Second", Type: domain.CollectionBook}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	repo.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	require.NoError(t, repo.SoftDelete(ctx, second.ID))

	trashed, _, err := repo.ListTrashed(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 2)
	assert.Equal(t, second.ID, trashed[0].ID)
	assert.Equal(t, first.ID, trashed[1].ID)
	assert.True(t, base.Equal(*trashed[1].DeletedAt))
}

func TestFormatTimeSortsAsText(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC)
	later := []time.Time{base.Add(time.Nanosecond), base.Add(500 * time.Millisecond), base.Add(time.Second)}

	prev := formatTime(base)
	for _, ts := range later {
		cur := formatTime(ts)
		assert.Len(t, cur, len(prev))
		assert.Less(t, prev, cur)
		parsed, err := parseTime(cur)
		require.NoError(t, err)
		assert.True(t, ts.Equal(parsed))
		prev = cur
	}
}

func TestItemRepository_TrashRoundTrip(t *testing.T) {
	g := openTestGateway(t)
	seedShelf(t, g)
	repo := NewItemRepository(g)
	ctx := context.Background()

	item := &domain.InventoryItem{
		Title:        "Dune",
		Type:         domain.CollectionBook,
		LocationID:   domain.StringPtr("shelf-1"),
		CustomFields: map[string]string{"shelf": "top"},
	}
	require.NoError(t, repo.Save(ctx, item))

	require.NoError(t, repo.SoftDelete(ctx, item.ID))
	require.NoError(t, repo.SoftDelete(ctx, item.ID), "trashing twice is a no-op")

	active, _, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	trashed, _, err := repo.ListTrashed(ctx)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].IsTrashed())
	assert.Equal(t, "top", trashed[0].CustomFields["shelf"])

	n, err := repo.TrashCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Restore(ctx, item.ID))
	require.NoError(t, repo.Restore(ctx, item.ID), "restoring an active item is a no-op")

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.IsTrashed())
	assert.Equal(t, "shelf-1", *got.LocationID)

	assert.ErrorIs(t, repo.SoftDelete(ctx, "ghost"), domain.ErrItemNotFound)
	assert.ErrorIs(t, repo.Restore(ctx, "ghost"), domain.ErrItemNotFound)
}

func TestItemRepository_PurgeAllDeleted(t *testing.T) {
	g := openTestGateway(t)
	repo := NewItemRepository(g)
	ctx := context.Background()

	keep := &domain.InventoryItem{Title: "Keep", Type: domain.CollectionBook}
	drop := &domain.InventoryItem{Title: "Drop", Type: domain.CollectionBook, CustomFields: map[string]string{"k": "v"}}
	require.NoError(t, repo.Save(ctx, keep))
	require.NoError(t, repo.Save(ctx, drop))
	require.NoError(t, repo.SoftDelete(ctx, drop.ID))

	n, err := repo.PurgeAllDeleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	_, err = repo.Get(ctx, keep.ID)
	assert.NoError(t, err)

	var fields int
	require.NoError(t, g.ScanRow(ctx, `SELECT COUNT(*) FROM custom_fields WHERE item_id = ?`, []any{drop.ID}, &fields))
	assert.Zero(t, fields)

	n, err = repo.PurgeAllDeleted(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestItemRepository_BatchSaveIsAtomic(t *testing.T) {
	g := openTestGateway(t)
	repo := NewItemRepository(g)
	ctx := context.Background()

	batch := []*domain.InventoryItem{
		{Title: "Berserk 1", Type: domain.CollectionManga, Series: domain.StringPtr("Berserk"), Volume: volume(1)},
		{Title: "Berserk 2", Type: domain.CollectionManga, Series: domain.StringPtr("Berserk"), Volume: volume(2)},
		{Title: "Berserk 2 again", Type: domain.CollectionManga, Series: domain.StringPtr("Berserk"), Volume: volume(2)},
	}
	err := repo.BatchSave(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	active, _, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active, "no item of a failed batch is stored")

	ok := []*domain.InventoryItem{
		{Title: "B", Type: domain.CollectionBook},
		{Title: "a", Type: domain.CollectionBook},
	}
	require.NoError(t, repo.BatchSave(ctx, ok))
	active, report, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].Title, "listing sorts case-insensitively by title")
	assert.Equal(t, 2, report.Decoded)
}

func TestItemRepository_MoveAndCounts(t *testing.T) {
	g := openTestGateway(t)
	seedShelf(t, g)
	repo := NewItemRepository(g)
	ctx := context.Background()

	a := &domain.InventoryItem{Title: "A", Type: domain.CollectionBook, LocationID: domain.StringPtr("shelf-1")}
	b := &domain.InventoryItem{Title: "B", Type: domain.CollectionBook, LocationID: domain.StringPtr("shelf-1")}
	c := &domain.InventoryItem{Title: "C", Type: domain.CollectionBook, LocationID: domain.StringPtr("box-1")}
	for _, it := range []*domain.InventoryItem{a, b, c} {
		require.NoError(t, repo.Save(ctx, it))
	}
	require.NoError(t, repo.SoftDelete(ctx, c.ID))

	n, err := repo.CountActiveIn(ctx, []string{"shelf-1", "box-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "trashed items are not counted")

	require.NoError(t, repo.MoveToLocation(ctx, []string{a.ID, b.ID}, domain.StringPtr("box-1")))
	inBox, err := repo.ListByLocation(ctx, []string{"box-1"}, false)
	require.NoError(t, err)
	assert.Len(t, inBox, 2)
	withTrash, err := repo.ListByLocation(ctx, []string{"box-1"}, true)
	require.NoError(t, err)
	assert.Len(t, withTrash, 3)

	err = repo.MoveToLocation(ctx, []string{a.ID, c.ID}, domain.StringPtr("shelf-1"))
	assert.True(t, errors.Is(err, domain.ErrItemNotFound), "moving a trashed item fails")
	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "box-1", *got.LocationID, "failed move leaves every item in place")

	cleared, err := repo.ClearLocation(ctx, []string{"box-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)
	got, err = repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LocationID)

	n, err = repo.CountActiveIn(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
