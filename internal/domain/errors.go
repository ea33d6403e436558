package domain

import (
	"errors"
	"fmt"
)

// LocationErrorKind enumerates hierarchy validation failures.
// These are expected rejections of user intent, not defects.
type LocationErrorKind int

const (
	DuplicateID LocationErrorKind = iota + 1
	LocationNotFound
	ParentNotFound
	InvalidChildType
	InvalidPlacement
	CircularReference
	EmptyName
	HasItems
)

func (k LocationErrorKind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate id"
	case LocationNotFound:
		return "location not found"
	case ParentNotFound:
		return "parent not found"
	case InvalidChildType:
		return "invalid child type"
	case InvalidPlacement:
		return "invalid placement"
	case CircularReference:
		return "circular reference"
	case EmptyName:
		return "empty name"
	case HasItems:
		return "location has items"
	default:
		return "unknown location error"
	}
}

// Sentinels for errors.Is against a *LocationError of the same kind
var (
	ErrDuplicateID       = &LocationError{Kind: DuplicateID}
	ErrLocationNotFound  = &LocationError{Kind: LocationNotFound}
	ErrParentNotFound    = &LocationError{Kind: ParentNotFound}
	ErrInvalidChildType  = &LocationError{Kind: InvalidChildType}
	ErrInvalidPlacement  = &LocationError{Kind: InvalidPlacement}
	ErrCircularReference = &LocationError{Kind: CircularReference}
	ErrEmptyName         = &LocationError{Kind: EmptyName}
	ErrHasItems          = &LocationError{Kind: HasItems}
)

// LocationError is returned by the hierarchy store before any durable write
type LocationError struct {
	Kind   LocationErrorKind
	ID     string
	Detail string
}

func (e *LocationError) Error() string {
	msg := e.Kind.String()
	if e.ID != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.ID)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

func (e *LocationError) Is(target error) bool {
	t, ok := target.(*LocationError)
	return ok && t.Kind == e.Kind
}

// NewLocationError builds a LocationError with an optional formatted detail
func NewLocationError(kind LocationErrorKind, id, format string, args ...any) *LocationError {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return &LocationError{Kind: kind, ID: id, Detail: detail}
}

// StoreErrorKind enumerates persistence failures
type StoreErrorKind int

const (
	PrepareFailed StoreErrorKind = iota + 1
	ConstraintViolation
	Busy
	DiskFull
	QueryFailed
	InvalidData
	InvalidInput
)

func (k StoreErrorKind) String() string {
	switch k {
	case PrepareFailed:
		return "prepare failed"
	case ConstraintViolation:
		return "constraint violation"
	case Busy:
		return "database busy"
	case DiskFull:
		return "disk full"
	case QueryFailed:
		return "query failed"
	case InvalidData:
		return "invalid data"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown store error"
	}
}

// Sentinels for errors.Is against a *StoreError of the same kind
var (
	ErrPrepareFailed       = &StoreError{Kind: PrepareFailed}
	ErrConstraintViolation = &StoreError{Kind: ConstraintViolation}
	ErrBusy                = &StoreError{Kind: Busy}
	ErrDiskFull            = &StoreError{Kind: DiskFull}
	ErrQueryFailed         = &StoreError{Kind: QueryFailed}
	ErrInvalidData         = &StoreError{Kind: InvalidData}
	ErrInvalidInput        = &StoreError{Kind: InvalidInput}
)

// StoreError wraps a backing-store failure with its translated kind
type StoreError struct {
	Kind   StoreErrorKind
	Op     string
	Detail string
	Err    error
}

func (e *StoreError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	return ok && t.Kind == e.Kind
}

// Retryable is true only for lock contention
func (e *StoreError) Retryable() bool {
	return e.Kind == Busy
}

// IsRetryable reports whether err carries a Busy store error
func IsRetryable(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Retryable()
}

// ErrItemNotFound is returned when an item lookup misses
var ErrItemNotFound = errors.New("item not found")
