package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// LocationRepository implements ports.LocationRepository
type LocationRepository struct {
	g *Gateway
}

// Ensure LocationRepository implements LocationRepository
var _ ports.LocationRepository = (*LocationRepository)(nil)

// NewLocationRepository creates a repository over the gateway
func NewLocationRepository(g *Gateway) *LocationRepository {
	return &LocationRepository{g: g}
}

const locationColumns = `id, name, type, parent_id, created_at, updated_at, deleted_at`

type locationRow struct {
	id        string
	name      string
	typ       string
	parentID  sql.NullString
	createdAt string
	updatedAt string
	deletedAt sql.NullString
}

func (r *locationRow) scanTargets() []any {
	return []any{&r.id, &r.name, &r.typ, &r.parentID, &r.createdAt, &r.updatedAt, &r.deletedAt}
}

func (r *locationRow) decode() (domain.StorageLocation, error) {
	const op = "decode location"
	if strings.TrimSpace(r.name) == "" {
		return domain.StorageLocation{}, invalidData(op, fmt.Sprintf("location %s has no name", r.id), nil)
	}
	typ, err := domain.ParseLocationType(r.typ)
	if err != nil {
		return domain.StorageLocation{}, invalidData(op, fmt.Sprintf("location %s", r.id), err)
	}
	created, err := parseTime(r.createdAt)
	if err != nil {
		return domain.StorageLocation{}, invalidData(op, fmt.Sprintf("location %s created_at", r.id), err)
	}
	updated, err := parseTime(r.updatedAt)
	if err != nil {
		return domain.StorageLocation{}, invalidData(op, fmt.Sprintf("location %s updated_at", r.id), err)
	}
	deleted, err := parseNullableTime(r.deletedAt)
	if err != nil {
		return domain.StorageLocation{}, invalidData(op, fmt.Sprintf("location %s deleted_at", r.id), err)
	}

	loc := domain.StorageLocation{
		ID:        r.id,
		Name:      r.name,
		Type:      typ,
		CreatedAt: created,
		UpdatedAt: updated,
		DeletedAt: deleted,
	}
	if r.parentID.Valid && r.parentID.String != "" {
		loc.ParentID = domain.StringPtr(r.parentID.String)
	}
	return loc, nil
}

// Insert stores a new location row
func (r *LocationRepository) Insert(ctx context.Context, loc domain.StorageLocation) error {
	_, err := r.g.Exec(ctx, `
		INSERT INTO locations (id, name, type, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, loc.ID, loc.Name, string(loc.Type), nullableString(loc.ParentID), formatTime(loc.CreatedAt), formatTime(loc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert location %s: %w", loc.ID, err)
	}
	return nil
}

// Update overwrites name, type and parent of an existing row
func (r *LocationRepository) Update(ctx context.Context, loc domain.StorageLocation) error {
	res, err := r.g.Exec(ctx, `
		UPDATE locations SET name = ?, type = ?, parent_id = ?, updated_at = ?
		WHERE id = ?
	`, loc.Name, string(loc.Type), nullableString(loc.ParentID), formatTime(loc.UpdatedAt), loc.ID)
	if err != nil {
		return fmt.Errorf("update location %s: %w", loc.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NewLocationError(domain.LocationNotFound, loc.ID, "")
	}
	return nil
}

// Delete removes rows in the given order inside one transaction
func (r *LocationRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.g.InTx(ctx, func(ctx context.Context) error {
		for _, id := range ids {
			res, err := r.g.Exec(ctx, `DELETE FROM locations WHERE id = ?`, id)
			if err != nil {
				return fmt.Errorf("delete location %s: %w", id, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return domain.NewLocationError(domain.LocationNotFound, id, "")
			}
		}
		return nil
	})
}

// Get loads one location, or a LocationNotFound error
func (r *LocationRepository) Get(ctx context.Context, id string) (*domain.StorageLocation, error) {
	var row locationRow
	err := r.g.ScanRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, []any{id}, row.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewLocationError(domain.LocationNotFound, id, "")
	}
	if err != nil {
		return nil, fmt.Errorf("get location %s: %w", id, err)
	}
	loc, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// List streams every location. Rows that cannot be decoded are skipped,
// logged and counted in the report rather than failing the listing.
func (r *LocationRepository) List(ctx context.Context) ([]domain.StorageLocation, ports.ListReport, error) {
	var report ports.ListReport
	rows, err := r.g.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY created_at, id`)
	if err != nil {
		return nil, report, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.StorageLocation
	for rows.Next() {
		var row locationRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			report.Skipped++
			r.g.log.Warn().Err(err).Msg("skipping unreadable location row")
			continue
		}
		loc, err := row.decode()
		if err != nil {
			report.Skipped++
			r.g.log.Warn().Err(err).Str("id", row.id).Msg("skipping undecodable location row")
			continue
		}
		out = append(out, loc)
		report.Decoded++
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("list locations: %w", translate("select locations", err))
	}
	return out, report, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
