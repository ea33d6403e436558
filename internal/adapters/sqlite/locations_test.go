package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/domain"
)

func newLocation(id, name string, typ domain.LocationType, parent string) domain.StorageLocation {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return domain.StorageLocation{
		ID:        id,
		Name:      name,
		Type:      typ,
		ParentID:  domain.StringPtr(parent),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLocationRepository_RoundTrip(t *testing.T) {
	g := openTestGateway(t)
	repo := NewLocationRepository(g)
	ctx := context.Background()

	room := newLocation("room-1", "Study", domain.LocationRoom, "")
	shelf := newLocation("shelf-1", "Tall shelf", domain.LocationBookshelf, "room-1")
	require.NoError(t, repo.Insert(ctx, room))
	require.NoError(t, repo.Insert(ctx, shelf))

	got, err := repo.Get(ctx, "shelf-1")
	require.NoError(t, err)
	assert.Equal(t, "Tall shelf", got.Name)
	assert.Equal(t, domain.LocationBookshelf, got.Type)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "room-1", *got.ParentID)
	assert.True(t, got.CreatedAt.Equal(shelf.CreatedAt))

	root, err := repo.Get(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	shelf.Name = "Short shelf"
	shelf.UpdatedAt = shelf.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, shelf))

	got, err = repo.Get(ctx, "shelf-1")
	require.NoError(t, err)
	assert.Equal(t, "Short shelf", got.Name)

	all, report, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, report.Decoded)
	assert.Zero(t, report.Skipped)
}

func TestLocationRepository_Errors(t *testing.T) {
	g := openTestGateway(t)
	repo := NewLocationRepository(g)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newLocation("room-1", "Study", domain.LocationRoom, "")))

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "get missing",
			run: func() error {
				_, err := repo.Get(ctx, "nope")
				return err
			},
			want: domain.ErrLocationNotFound,
		},
		{
			name: "update missing",
			run: func() error {
				return repo.Update(ctx, newLocation("nope", "X", domain.LocationRoom, ""))
			},
			want: domain.ErrLocationNotFound,
		},
		{
			name: "duplicate primary key",
			run: func() error {
				return repo.Insert(ctx, newLocation("room-1", "Again", domain.LocationRoom, ""))
			},
			want: domain.ErrConstraintViolation,
		},
		{
			name: "dangling parent",
			run: func() error {
				return repo.Insert(ctx, newLocation("box-1", "Box", domain.LocationBox, "ghost"))
			},
			want: domain.ErrConstraintViolation,
		},
		{
			name: "delete parent before child",
			run: func() error {
				if err := repo.Insert(ctx, newLocation("box-2", "Box", domain.LocationBox, "room-1")); err != nil {
					return err
				}
				return repo.Delete(ctx, "room-1", "box-2")
			},
			want: domain.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// the failed delete left both rows in place
	_, err := repo.Get(ctx, "room-1")
	assert.NoError(t, err)
	_, err = repo.Get(ctx, "box-2")
	assert.NoError(t, err)
}

func TestLocationRepository_DeleteLeafFirst(t *testing.T) {
	g := openTestGateway(t)
	repo := NewLocationRepository(g)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newLocation("room-1", "Study", domain.LocationRoom, "")))
	require.NoError(t, repo.Insert(ctx, newLocation("shelf-1", "Shelf", domain.LocationBookshelf, "room-1")))
	require.NoError(t, repo.Insert(ctx, newLocation("box-1", "Box", domain.LocationBox, "shelf-1")))

	require.NoError(t, repo.Delete(ctx, "box-1", "shelf-1", "room-1"))

	all, _, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLocationRepository_ListSkipsBadRows(t *testing.T) {
	g := openTestGateway(t)
	repo := NewLocationRepository(g)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newLocation("room-1", "Study", domain.LocationRoom, "")))
	_, err := g.Exec(ctx, `
		INSERT INTO locations (id, name, type, created_at, updated_at)
		VALUES ('odd', 'Odd', 'spaceship', ?, ?)
	`, formatTime(time.Now()), formatTime(time.Now()))
	require.NoError(t, err)
	_, err = g.Exec(ctx, `
		INSERT INTO locations (id, name, type, created_at, updated_at)
		VALUES ('bad-time', 'Bad', 'room', 'yesterday', 'today')
	`)
	require.NoError(t, err)

	all, report, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "room-1", all[0].ID)
	assert.Equal(t, 1, report.Decoded)
	assert.Equal(t, 2, report.Skipped)

	_, err = repo.Get(ctx, "odd")
	assert.ErrorIs(t, err, domain.ErrInvalidData)
}
