package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

// ItemRepository implements ports.ItemRepository
type ItemRepository struct {
	g   *Gateway
	now func() time.Time
}

// Ensure ItemRepository implements ItemRepository
var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a repository over the gateway
func NewItemRepository(g *Gateway) *ItemRepository {
	return &ItemRepository{g: g, now: time.Now}
}

const itemColumns = `id, title, type, series, volume, condition, publisher, isbn, notes,
	location_id, created_at, updated_at, deleted_at`

type itemRow struct {
	id         string
	title      string
	typ        string
	series     sql.NullString
	volume     sql.NullInt64
	condition  string
	publisher  sql.NullString
	isbn       sql.NullString
	notes      sql.NullString
	locationID sql.NullString
	createdAt  string
	updatedAt  string
	deletedAt  sql.NullString
}

func (r *itemRow) scanTargets() []any {
	return []any{
		&r.id, &r.title, &r.typ, &r.series, &r.volume, &r.condition,
		&r.publisher, &r.isbn, &r.notes, &r.locationID,
		&r.createdAt, &r.updatedAt, &r.deletedAt,
	}
}

func (r *itemRow) decode() (domain.InventoryItem, error) {
	const op = "decode item"
	if strings.TrimSpace(r.title) == "" {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s has no title", r.id), nil)
	}
	typ, err := domain.ParseCollectionType(r.typ)
	if err != nil {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s", r.id), err)
	}
	cond, err := domain.ParseCondition(r.condition)
	if err != nil {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s", r.id), err)
	}
	created, err := parseTime(r.createdAt)
	if err != nil {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s created_at", r.id), err)
	}
	updated, err := parseTime(r.updatedAt)
	if err != nil {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s updated_at", r.id), err)
	}
	deleted, err := parseNullableTime(r.deletedAt)
	if err != nil {
		return domain.InventoryItem{}, invalidData(op, fmt.Sprintf("item %s deleted_at", r.id), err)
	}

	item := domain.InventoryItem{
		ID:        r.id,
		Title:     r.title,
		Type:      typ,
		Condition: cond,
		Publisher: r.publisher.String,
		ISBN:      r.isbn.String,
		Notes:     r.notes.String,
		CreatedAt: created,
		UpdatedAt: updated,
		DeletedAt: deleted,
	}
	if r.series.Valid {
		item.Series = domain.StringPtr(r.series.String)
	}
	if r.volume.Valid {
		v := int(r.volume.Int64)
		item.Volume = &v
	}
	if r.locationID.Valid {
		item.LocationID = domain.StringPtr(r.locationID.String)
	}
	return item, nil
}

func prepareItem(item *domain.InventoryItem) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return invalidInput("save item", "title is required", nil)
	}
	if _, err := domain.ParseCollectionType(string(item.Type)); err != nil {
		return invalidInput("save item", err.Error(), err)
	}
	cond, err := domain.ParseCondition(string(item.Condition))
	if err != nil {
		return invalidInput("save item", err.Error(), err)
	}
	item.Condition = cond
	return nil
}

// Save inserts a new item and its custom fields. A missing ID is generated.
func (r *ItemRepository) Save(ctx context.Context, item *domain.InventoryItem) error {
	if item.ID == "" {
		item.ID = domain.NewID()
	}
	if err := prepareItem(item); err != nil {
		return err
	}
	now := r.now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	return r.g.InTx(ctx, func(ctx context.Context) error {
		_, err := r.g.Exec(ctx, `
			INSERT INTO items (id, title, type, series, volume, condition, publisher, isbn, notes,
				location_id, created_at, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, item.ID, item.Title, string(item.Type), nullableString(item.Series), nullableInt(item.Volume),
			string(item.Condition), emptyAsNull(item.Publisher), emptyAsNull(item.ISBN), emptyAsNull(item.Notes),
			nullableString(item.LocationID), formatTime(item.CreatedAt), formatTime(item.UpdatedAt),
			formatNullableTime(item.DeletedAt))
		if err != nil {
			return fmt.Errorf("save item %s: %w", item.ID, err)
		}
		return r.writeCustomFields(ctx, item.ID, item.CustomFields)
	})
}

// Update overwrites an existing item and replaces its custom fields
func (r *ItemRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	if err := prepareItem(item); err != nil {
		return err
	}
	item.UpdatedAt = r.now()

	return r.g.InTx(ctx, func(ctx context.Context) error {
		res, err := r.g.Exec(ctx, `
			UPDATE items SET title = ?, type = ?, series = ?, volume = ?, condition = ?,
				publisher = ?, isbn = ?, notes = ?, location_id = ?, updated_at = ?
			WHERE id = ?
		`, item.Title, string(item.Type), nullableString(item.Series), nullableInt(item.Volume),
			string(item.Condition), emptyAsNull(item.Publisher), emptyAsNull(item.ISBN), emptyAsNull(item.Notes),
			nullableString(item.LocationID), formatTime(item.UpdatedAt), item.ID)
		if err != nil {
			return fmt.Errorf("update item %s: %w", item.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("update item %s: %w", item.ID, domain.ErrItemNotFound)
		}
		if _, err := r.g.Exec(ctx, `DELETE FROM custom_fields WHERE item_id = ?`, item.ID); err != nil {
			return fmt.Errorf("update item %s: %w", item.ID, err)
		}
		return r.writeCustomFields(ctx, item.ID, item.CustomFields)
	})
}

func (r *ItemRepository) writeCustomFields(ctx context.Context, itemID string, fields map[string]string) error {
	for key, value := range fields {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, err := r.g.Exec(ctx, `
			INSERT INTO custom_fields (item_id, key, value) VALUES (?, ?, ?)
		`, itemID, key, value); err != nil {
			return fmt.Errorf("save custom field %q of item %s: %w", key, itemID, err)
		}
	}
	return nil
}

// Get loads an item (trashed or not) with its custom fields
func (r *ItemRepository) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	var row itemRow
	err := r.g.ScanRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, []any{id}, row.scanTargets()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get item %s: %w", id, domain.ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	item, err := row.decode()
	if err != nil {
		return nil, err
	}
	fields, err := r.customFields(ctx, `WHERE item_id = ?`, id)
	if err != nil {
		return nil, err
	}
	item.CustomFields = fields[id]
	return &item, nil
}

// SoftDelete moves an item to the trash. Trashing a trashed item is a no-op.
func (r *ItemRepository) SoftDelete(ctx context.Context, id string) error {
	now := formatTime(r.now())
	res, err := r.g.Exec(ctx, `
		UPDATE items SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
	`, now, now, id)
	if err != nil {
		return fmt.Errorf("trash item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.requireExists(ctx, id)
	}
	return nil
}

// Restore takes an item out of the trash. Restoring an active item is a no-op.
func (r *ItemRepository) Restore(ctx context.Context, id string) error {
	res, err := r.g.Exec(ctx, `
		UPDATE items SET deleted_at = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NOT NULL
	`, formatTime(r.now()), id)
	if err != nil {
		return fmt.Errorf("restore item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.requireExists(ctx, id)
	}
	return nil
}

func (r *ItemRepository) requireExists(ctx context.Context, id string) error {
	var one int
	err := r.g.ScanRow(ctx, `SELECT 1 FROM items WHERE id = ?`, []any{id}, &one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
	}
	return err
}

// PurgeAllDeleted hard-deletes every trashed item and its custom fields
func (r *ItemRepository) PurgeAllDeleted(ctx context.Context) (int, error) {
	var purged int
	err := r.g.InTx(ctx, func(ctx context.Context) error {
		if _, err := r.g.Exec(ctx, `
			DELETE FROM custom_fields WHERE item_id IN (SELECT id FROM items WHERE deleted_at IS NOT NULL)
		`); err != nil {
			return fmt.Errorf("purge custom fields: %w", err)
		}
		res, err := r.g.Exec(ctx, `DELETE FROM items WHERE deleted_at IS NOT NULL`)
		if err != nil {
			return fmt.Errorf("purge items: %w", err)
		}
		n, _ := res.RowsAffected()
		purged = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

// TrashCount returns the number of trashed items
func (r *ItemRepository) TrashCount(ctx context.Context) (int, error) {
	var n int
	if err := r.g.ScanRow(ctx, `SELECT COUNT(*) FROM items WHERE deleted_at IS NOT NULL`, nil, &n); err != nil {
		return 0, fmt.Errorf("count trash: %w", err)
	}
	return n, nil
}

// ListActive lists items not in the trash, ordered by title
func (r *ItemRepository) ListActive(ctx context.Context) ([]domain.InventoryItem, ports.ListReport, error) {
	return r.list(ctx, `WHERE deleted_at IS NULL`, byTitle)
}

// ListTrashed lists items in the trash, most recently trashed first
func (r *ItemRepository) ListTrashed(ctx context.Context) ([]domain.InventoryItem, ports.ListReport, error) {
	return r.list(ctx, `WHERE deleted_at IS NOT NULL`, byTrashedAt)
}

// ListByLocation lists items assigned directly to any of the locations
func (r *ItemRepository) ListByLocation(ctx context.Context, locationIDs []string, includeTrashed bool) ([]domain.InventoryItem, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	where := `WHERE location_id IN (` + placeholders(len(locationIDs)) + `)`
	if !includeTrashed {
		where += ` AND deleted_at IS NULL`
	}
	items, _, err := r.list(ctx, where, byTitle, stringArgs(locationIDs)...)
	return items, err
}

const (
	byTitle     = ` ORDER BY title COLLATE NOCASE, id`
	byTrashedAt = ` ORDER BY deleted_at DESC, id`
)

func (r *ItemRepository) list(ctx context.Context, where, order string, args ...any) ([]domain.InventoryItem, ports.ListReport, error) {
	var report ports.ListReport
	rows, err := r.g.Query(ctx, `SELECT `+itemColumns+` FROM items `+where+order, args...)
	if err != nil {
		return nil, report, fmt.Errorf("list items: %w", err)
	}

	var items []domain.InventoryItem
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			report.Skipped++
			r.g.log.Warn().Err(err).Msg("skipping unreadable item row")
			continue
		}
		item, err := row.decode()
		if err != nil {
			report.Skipped++
			r.g.log.Warn().Err(err).Str("id", row.id).Msg("skipping undecodable item row")
			continue
		}
		items = append(items, item)
		report.Decoded++
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, report, fmt.Errorf("list items: %w", translate("select items", err))
	}

	if len(items) == 0 {
		return items, report, nil
	}
	fields, err := r.customFields(ctx, `WHERE item_id IN (SELECT id FROM items `+where+`)`, args...)
	if err != nil {
		return nil, report, err
	}
	for i := range items {
		items[i].CustomFields = fields[items[i].ID]
	}
	return items, report, nil
}

func (r *ItemRepository) customFields(ctx context.Context, where string, args ...any) (map[string]map[string]string, error) {
	rows, err := r.g.Query(ctx, `SELECT item_id, key, value FROM custom_fields `+where+` ORDER BY item_id, key`, args...)
	if err != nil {
		return nil, fmt.Errorf("load custom fields: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var itemID, key, value string
		if err := rows.Scan(&itemID, &key, &value); err != nil {
			return nil, fmt.Errorf("load custom fields: %w", translate("select custom_fields", err))
		}
		if out[itemID] == nil {
			out[itemID] = make(map[string]string)
		}
		out[itemID][key] = value
	}
	return out, translate("select custom_fields", rows.Err())
}

// BatchSave stores all items in one transaction; any failure stores none
func (r *ItemRepository) BatchSave(ctx context.Context, items []*domain.InventoryItem) error {
	return r.g.InTx(ctx, func(ctx context.Context) error {
		for i, item := range items {
			if err := r.Save(ctx, item); err != nil {
				return fmt.Errorf("batch item %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// MoveToLocation reassigns active items in one transaction. A nil location
// unassigns them. Any unknown or trashed item aborts the whole move.
func (r *ItemRepository) MoveToLocation(ctx context.Context, itemIDs []string, locationID *string) error {
	now := formatTime(r.now())
	return r.g.InTx(ctx, func(ctx context.Context) error {
		for _, id := range itemIDs {
			res, err := r.g.Exec(ctx, `
				UPDATE items SET location_id = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL
			`, nullableString(locationID), now, id)
			if err != nil {
				return fmt.Errorf("move item %s: %w", id, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("move item %s: %w", id, domain.ErrItemNotFound)
			}
		}
		return nil
	})
}

// CountActiveIn counts non-trashed items assigned to any of the locations
func (r *ItemRepository) CountActiveIn(ctx context.Context, locationIDs []string) (int, error) {
	if len(locationIDs) == 0 {
		return 0, nil
	}
	var n int
	err := r.g.ScanRow(ctx, `
		SELECT COUNT(*) FROM items
		WHERE deleted_at IS NULL AND location_id IN (`+placeholders(len(locationIDs))+`)
	`, stringArgs(locationIDs), &n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ClearLocation unassigns every item left in the locations
func (r *ItemRepository) ClearLocation(ctx context.Context, locationIDs []string) (int, error) {
	if len(locationIDs) == 0 {
		return 0, nil
	}
	args := append([]any{formatTime(r.now())}, stringArgs(locationIDs)...)
	res, err := r.g.Exec(ctx, `
		UPDATE items SET location_id = NULL, updated_at = ?
		WHERE location_id IN (`+placeholders(len(locationIDs))+`)
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("clear item locations: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func emptyAsNull(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
