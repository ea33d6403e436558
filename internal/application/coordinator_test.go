package application

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"scaffale/internal/domain"
)

type eventLog struct {
	events []string
}

func (l *eventLog) OnLocationRenamed(id, oldName, newName string) {
	l.events = append(l.events, fmt.Sprintf("renamed %s %s->%s", id, oldName, newName))
}

func (l *eventLog) OnLocationMoved(id string, oldParent, newParent *string) {
	l.events = append(l.events, fmt.Sprintf("moved %s %s->%s", id, parentLabel(oldParent), parentLabel(newParent)))
}

func (l *eventLog) OnLocationRemoved(ids []string) {
	l.events = append(l.events, "removed "+strings.Join(ids, ","))
}

func TestCoordinatorFansOut(t *testing.T) {
	var buf bytes.Buffer
	c := NewCoordinator(zerolog.New(&buf))
	first, second := &eventLog{}, &eventLog{}
	c.Register(first)
	c.Register(second)

	c.OnLocationRenamed("b", "Shelf", "Tall shelf")
	c.OnLocationMoved("x", domain.StringPtr("b"), domain.StringPtr("c"))
	c.OnLocationMoved("r", nil, nil)
	c.OnLocationRemoved([]string{"x", "b"})

	want := []string{
		"renamed b Shelf->Tall shelf",
		"moved x b->c",
		"moved r root->root",
		"removed x,b",
	}
	assert.Equal(t, want, first.events)
	assert.Equal(t, want, second.events)
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"), "one log line per event")
	assert.Contains(t, buf.String(), `"message":"location renamed"`)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "validation",
			err:  &ValidationError{Field: "name", Message: "name is required"},
			want: "name is required",
		},
		{
			name: "wrapped has items",
			err:  fmt.Errorf("remove: %w", domain.NewLocationError(domain.HasItems, "x", "2 item(s)")),
			want: "Move or trash the items stored here first",
		},
		{
			name: "cycle",
			err:  domain.NewLocationError(domain.CircularReference, "r", ""),
			want: "A location cannot be moved inside itself",
		},
		{
			name: "containment with detail",
			err:  domain.NewLocationError(domain.InvalidChildType, "y", "a box cannot hold a box"),
			want: "That location cannot go there: a box cannot hold a box",
		},
		{
			name: "busy",
			err:  &domain.StoreError{Kind: domain.Busy, Detail: "database is locked"},
			want: "The database is busy, try again in a moment",
		},
		{
			name: "constraint keeps detail",
			err:  &domain.StoreError{Kind: domain.ConstraintViolation, Detail: "UNIQUE constraint failed"},
			want: "That change conflicts with existing data (UNIQUE constraint failed)",
		},
		{
			name: "query failure hides detail",
			err:  &domain.StoreError{Kind: domain.QueryFailed, Detail: "disk I/O error"},
			want: "The database could not complete the request",
		},
		{
			name: "rejected input keeps detail",
			err:  fmt.Errorf("failed to add item: %w", &domain.StoreError{Kind: domain.InvalidInput, Op: "save item", Detail: "title is required"}),
			want: "Rejected: title is required",
		},
		{
			name: "unreadable row",
			err:  &domain.StoreError{Kind: domain.InvalidData, Op: "list items", Detail: "item x created_at"},
			want: "Some stored data could not be read",
		},
		{
			name: "item not found",
			err:  fmt.Errorf("get item 1: %w", domain.ErrItemNotFound),
			want: "Item not found",
		},
		{
			name: "trash",
			err:  &TrashError{ID: "i1", Reason: ErrAlreadyTrashed},
			want: "Item i1 is already in trash",
		},
		{
			name: "plain",
			err:  errors.New("something else"),
			want: "something else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
