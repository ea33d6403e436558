package application

import (
	"errors"
	"fmt"

	"scaffale/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrAlreadyTrashed = errors.New("already in trash")
	ErrNotTrashed     = errors.New("not in trash")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TrashError represents a trash or restore that cannot happen
type TrashError struct {
	ID     string
	Reason error
}

func (e *TrashError) Error() string {
	return fmt.Sprintf("%s: %s", e.ID, e.Reason)
}

func (e *TrashError) Is(target error) bool {
	return target == e.Reason
}

// MoveError represents a move-related failure
type MoveError struct {
	SourceID string
	DestID   string
	Reason   string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.SourceID, e.DestID, e.Reason)
}

// UserMessage turns any error into a sentence fit to show a user.
// Backend text only appears for constraint and prepare failures.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	var moveErr *MoveError
	if errors.As(err, &moveErr) {
		return moveErr.Error()
	}
	var trashErr *TrashError
	if errors.As(err, &trashErr) {
		return fmt.Sprintf("Item %s is %s", trashErr.ID, trashErr.Reason)
	}

	var locErr *domain.LocationError
	if errors.As(err, &locErr) {
		return locationMessage(locErr)
	}

	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		switch storeErr.Kind {
		case domain.Busy:
			return "The database is busy, try again in a moment"
		case domain.DiskFull:
			return "The disk is full, nothing was saved"
		case domain.ConstraintViolation:
			return "That change conflicts with existing data (" + storeErr.Detail + ")"
		case domain.PrepareFailed:
			return "The database rejected the request (" + storeErr.Detail + ")"
		case domain.InvalidData:
			return "Some stored data could not be read"
		case domain.InvalidInput:
			return "Rejected: " + storeErr.Detail
		default:
			return "The database could not complete the request"
		}
	}

	if errors.Is(err, domain.ErrItemNotFound) {
		return "Item not found"
	}
	return err.Error()
}

func locationMessage(e *domain.LocationError) string {
	switch e.Kind {
	case domain.DuplicateID:
		return "A location with that ID already exists"
	case domain.LocationNotFound:
		return "Location not found"
	case domain.ParentNotFound:
		return "The parent location does not exist"
	case domain.InvalidChildType:
		if e.Detail != "" {
			return "That location cannot go there: " + e.Detail
		}
		return "That location cannot go there"
	case domain.InvalidPlacement:
		if e.Detail != "" {
			return "Invalid placement: " + e.Detail
		}
		return "Invalid placement"
	case domain.CircularReference:
		return "A location cannot be moved inside itself"
	case domain.EmptyName:
		return "A location needs a name"
	case domain.HasItems:
		return "Move or trash the items stored here first"
	default:
		return e.Error()
	}
}
