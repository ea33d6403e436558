package sqlite

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"scaffale/internal/domain"
)

// translate maps a driver error onto the store error taxonomy.
// sql.ErrNoRows and already-translated errors pass through unchanged.
func translate(op string, err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	var se *domain.StoreError
	if errors.As(err, &se) {
		return err
	}
	var le *domain.LocationError
	if errors.As(err, &le) {
		return err
	}

	kind := domain.QueryFailed
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		kind = kindForCode(sqliteErr.Code())
	}
	return &domain.StoreError{Kind: kind, Op: op, Detail: err.Error(), Err: err}
}

// kindForCode uses the primary result code; extended codes carry it in the low byte
func kindForCode(code int) domain.StoreErrorKind {
	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return domain.ConstraintViolation
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return domain.Busy
	case sqlite3.SQLITE_FULL:
		return domain.DiskFull
	case sqlite3.SQLITE_ERROR:
		// syntax errors and unknown tables/columns surface while preparing
		return domain.PrepareFailed
	default:
		return domain.QueryFailed
	}
}

func invalidData(op, detail string, err error) error {
	return &domain.StoreError{Kind: domain.InvalidData, Op: op, Detail: detail, Err: err}
}

// invalidInput rejects a value handed to a write before it reaches the database
func invalidInput(op, detail string, err error) error {
	return &domain.StoreError{Kind: domain.InvalidInput, Op: op, Detail: detail, Err: err}
}
