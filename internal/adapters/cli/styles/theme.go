package styles

import (
	"github.com/charmbracelet/lipgloss"

	"scaffale/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Blue      = lipgloss.Color("#60A5FA")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	// Tree node styles, one per location category
	NodeRoom = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	NodeFurniture = lipgloss.NewStyle().
			Foreground(Secondary)

	NodeContainer = lipgloss.NewStyle().
			Foreground(Blue)

	NodeItem = lipgloss.NewStyle()

	NodeTrashed = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	TreeBranch = lipgloss.NewStyle().Foreground(Muted)

	Count = lipgloss.NewStyle().
		Foreground(Warning)

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// ForLocation returns the node style for a location type
func ForLocation(t domain.LocationType) lipgloss.Style {
	switch t.Category() {
	case domain.CategoryRoom:
		return NodeRoom
	case domain.CategoryFurniture:
		return NodeFurniture
	case domain.CategoryContainer:
		return NodeContainer
	default:
		return NodeItem
	}
}
