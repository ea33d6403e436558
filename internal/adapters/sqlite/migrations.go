package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"scaffale/internal/domain"
)

// CurrentSchemaVersion is the version a freshly migrated database reports
const CurrentSchemaVersion = 3

const schemaVersionKey = "schema_version"

type migration struct {
	version int
	name    string
	up      func(ctx context.Context, g *Gateway) error
}

var migrations = []migration{
	{version: 1, name: "core tables", up: migrateCoreTables},
	{version: 2, name: "soft delete and item details", up: migrateItemDetails},
	{version: 3, name: "seed classification rules", up: seedClassificationRules},
}

// Migrate applies every pending migration in order, each in its own
// transaction together with the version bump.
func (g *Gateway) Migrate(ctx context.Context) error {
	if _, err := g.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create metadata table: %w", err)
	}

	current, err := g.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		g.log.Info().Int("version", m.version).Str("migration", m.name).Msg("applying migration")
		err := g.InTx(ctx, func(ctx context.Context) error {
			if err := m.up(ctx, g); err != nil {
				return err
			}
			return g.setSchemaVersion(ctx, m.version)
		})
		if err != nil {
			return fmt.Errorf("migrate to v%d (%s): %w", m.version, m.name, err)
		}
		current = m.version
	}
	return nil
}

// SchemaVersion returns the stored schema version, 0 for a new database
func (g *Gateway) SchemaVersion(ctx context.Context) (int, error) {
	var raw string
	err := g.ScanRow(ctx, `SELECT value FROM metadata WHERE key = ?`, []any{schemaVersionKey}, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidData("read schema version", fmt.Sprintf("schema version %q", raw), err)
	}
	return v, nil
}

func (g *Gateway) setSchemaVersion(ctx context.Context, v int) error {
	_, err := g.Exec(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, schemaVersionKey, strconv.Itoa(v))
	return err
}

func migrateCoreTables(ctx context.Context, g *Gateway) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL CHECK (length(trim(name)) > 0),
			type TEXT NOT NULL,
			parent_id TEXT REFERENCES locations(id),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_locations_parent ON locations(parent_id)`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			series TEXT,
			volume INTEGER,
			condition TEXT NOT NULL DEFAULT 'good',
			location_id TEXT REFERENCES locations(id),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			deleted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_location ON items(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_deleted ON items(deleted_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_series_volume
			ON items(series, volume)
			WHERE deleted_at IS NULL AND series IS NOT NULL`,
		`CREATE TABLE IF NOT EXISTS custom_fields (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			UNIQUE (item_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS classification_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern TEXT NOT NULL,
			pattern_type TEXT NOT NULL,
			priority INTEGER NOT NULL DEFAULT 0,
			media_type TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := g.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func migrateItemDetails(ctx context.Context, g *Gateway) error {
	columns := []struct {
		table, column, ddl string
	}{
		{"locations", "deleted_at", "TEXT"},
		{"items", "publisher", "TEXT"},
		{"items", "isbn", "TEXT"},
		{"items", "notes", "TEXT"},
	}
	for _, c := range columns {
		exists, err := g.columnExists(ctx, c.table, c.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := g.Exec(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.column, c.ddl)); err != nil {
			return err
		}
	}
	return nil
}

func seedClassificationRules(ctx context.Context, g *Gateway) error {
	var count int
	if err := g.ScanRow(ctx, `SELECT COUNT(*) FROM classification_rules`, nil, &count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	now := formatTime(time.Now())
	for _, r := range domain.DefaultClassificationRules() {
		if _, err := g.Exec(ctx, `
			INSERT INTO classification_rules (pattern, pattern_type, priority, media_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.Pattern, string(r.PatternType), r.Priority, string(r.MediaType), now, now); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := g.Query(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, translate("table info", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, translate("table info", rows.Err())
}

// timeLayout is fixed-width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
