package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"scaffale/internal/config"
	"scaffale/internal/ports"
)

const memoryPath = ":memory:"

// Gateway owns the SQLite connection. There is a single connection: writes
// are serialized and a transaction bound to a context sees its own changes.
type Gateway struct {
	db          *sql.DB
	path        string
	log         zerolog.Logger
	busyTimeout time.Duration
	savepoints  atomic.Uint64
}

// Ensure Gateway implements Transactor
var _ ports.Transactor = (*Gateway)(nil)

// Option configures a Gateway
type Option func(*Gateway)

// WithLogger routes statement and error logs to l
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithBusyTimeout sets how long SQLite waits on a lock before reporting Busy
func WithBusyTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.busyTimeout = d }
}

// Open opens (creating if needed) the database at path and migrates it
func Open(ctx context.Context, path string, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		log:         zerolog.Nop(),
		busyTimeout: time.Duration(config.DefaultBusyTimeoutMS) * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}

	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	path = config.ExpandHome(path)
	g.path = path

	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", g.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	g.db = db

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", translate("ping", err))
	}

	if err := g.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	g.log.Debug().Str("path", path).Msg("database ready")
	return g, nil
}

func (g *Gateway) dsn() string {
	pragmas := []string{
		"_pragma=foreign_keys(1)",
		fmt.Sprintf("_pragma=busy_timeout(%d)", g.busyTimeout.Milliseconds()),
	}
	if g.path != memoryPath {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)", "_pragma=synchronous(NORMAL)")
	}
	return g.path + "?" + strings.Join(pragmas, "&")
}

// Path returns the database file path
func (g *Gateway) Path() string {
	return g.path
}

// Close closes the database connection
func (g *Gateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn picks the transaction bound to ctx, if it belongs to this gateway.
// Statements inside a transaction ignore cancellation of ctx.
func (g *Gateway) conn(ctx context.Context) (execer, context.Context) {
	if t := txFrom(ctx); t != nil && t.gw == g {
		return t.tx, context.WithoutCancel(ctx)
	}
	return g.db, ctx
}

// Exec runs a statement that returns no rows
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c, ctx := g.conn(ctx)
	start := time.Now()
	res, err := c.ExecContext(ctx, query, args...)
	g.trace(query, start, err)
	if err != nil {
		return nil, translate(statementOp(query), err)
	}
	return res, nil
}

// Query runs a statement returning rows; the caller closes them
func (g *Gateway) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	c, ctx := g.conn(ctx)
	start := time.Now()
	rows, err := c.QueryContext(ctx, query, args...)
	g.trace(query, start, err)
	if err != nil {
		return nil, translate(statementOp(query), err)
	}
	return rows, nil
}

// QueryRow runs a single-row query; Scan errors are not translated
func (g *Gateway) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	c, ctx := g.conn(ctx)
	return c.QueryRowContext(ctx, query, args...)
}

// ScanRow runs a single-row query and scans it, translating failures
func (g *Gateway) ScanRow(ctx context.Context, query string, args []any, dest ...any) error {
	start := time.Now()
	err := g.QueryRow(ctx, query, args...).Scan(dest...)
	if err != nil && err != sql.ErrNoRows {
		g.trace(query, start, err)
		return translate(statementOp(query), err)
	}
	g.trace(query, start, nil)
	return err
}

func (g *Gateway) trace(query string, start time.Time, err error) {
	if err != nil {
		g.log.Error().Err(err).Str("op", statementOp(query)).Dur("took", time.Since(start)).Msg("statement failed")
		return
	}
	g.log.Debug().Str("op", statementOp(query)).Dur("took", time.Since(start)).Msg("statement")
}

// statementOp names a statement by its verb and target table for logs and errors
func statementOp(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "statement"
	}
	verb := strings.ToLower(fields[0])
	for i := 0; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE", "TABLE", "INDEX":
			rest := fields[i+1:]
			for len(rest) > 1 && isGuardWord(rest[0]) {
				rest = rest[1:]
			}
			return verb + " " + strings.Trim(rest[0], "(")
		}
	}
	return verb
}

func isGuardWord(s string) bool {
	switch strings.ToUpper(s) {
	case "IF", "NOT", "EXISTS":
		return true
	}
	return false
}

// placeholders returns "?, ?, ?" for n parameters
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
