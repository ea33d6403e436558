package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffale/internal/application"
	"scaffale/internal/domain"
)

func TestRenderTree(t *testing.T) {
	box := &application.TreeNode{Location: domain.StorageLocation{ID: "b", Name: "Box", Type: domain.LocationBox}, ItemCount: 2}
	shelf := &application.TreeNode{
		Location: domain.StorageLocation{ID: "s", Name: "Shelf", Type: domain.LocationBookshelf},
		Children: []*application.TreeNode{box},
	}
	desk := &application.TreeNode{Location: domain.StorageLocation{ID: "d", Name: "Desk", Type: domain.LocationDesk}}
	room := &application.TreeNode{
		Location: domain.StorageLocation{ID: "r", Name: "Study", Type: domain.LocationRoom},
		Children: []*application.TreeNode{shelf, desk},
	}

	var buf bytes.Buffer
	RenderTree(&buf, []*application.TreeNode{room}, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Study")
	assert.Contains(t, lines[1], "├──")
	assert.Contains(t, lines[1], "Shelf")
	assert.Contains(t, lines[2], "│")
	assert.Contains(t, lines[2], "└──")
	assert.Contains(t, lines[2], "[2]")
	assert.Contains(t, lines[3], "└──")
	assert.Contains(t, lines[3], "Desk")
	assert.NotContains(t, buf.String(), "  s\n")
}

func TestRenderTreeWithIDs(t *testing.T) {
	room := &application.TreeNode{Location: domain.StorageLocation{ID: "room-id", Name: "Study", Type: domain.LocationRoom}}

	var buf bytes.Buffer
	RenderTree(&buf, []*application.TreeNode{room}, true)
	assert.Contains(t, buf.String(), "room-id")
}

func TestRenderItems(t *testing.T) {
	series := "Berserk"
	vol := 3
	now := time.Now()
	items := []application.LocatedItem{
		{Item: domain.InventoryItem{ID: "1", Title: "Dune", Type: domain.CollectionBook}, Path: "Study > Shelf"},
		{Item: domain.InventoryItem{ID: "2", Title: "Berserk", Series: &series, Volume: &vol, Type: domain.CollectionManga, DeletedAt: &now}},
	}

	var buf bytes.Buffer
	RenderItems(&buf, items)
	out := buf.String()

	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "Study > Shelf")
	assert.Contains(t, out, "Berserk #3")
	assert.Contains(t, out, "unassigned")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderItems(&buf, nil)
	RenderLocations(&buf, nil, func(string) string { return "" })
	RenderRules(&buf, nil)
	assert.Equal(t, 3, strings.Count(buf.String(), "No "))
}
