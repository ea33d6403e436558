// Package cli renders inventory listings for the terminal.
package cli

import (
	"fmt"
	"io"
	"strings"

	"scaffale/internal/adapters/cli/styles"
	"scaffale/internal/application"
	"scaffale/internal/domain"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipe       = "│   "
	space      = "    "
)

// RenderTree writes the forest with box-drawing branches. Each location
// shows its type and, when non-zero, the number of items it holds directly.
func RenderTree(w io.Writer, roots []*application.TreeNode, showIDs bool) {
	for _, root := range roots {
		fmt.Fprintln(w, nodeLine(root, showIDs))
		renderChildren(w, root.Children, "", showIDs)
	}
}

func renderChildren(w io.Writer, children []*application.TreeNode, prefix string, showIDs bool) {
	for i, child := range children {
		branch, next := branchMid, pipe
		if i == len(children)-1 {
			branch, next = branchLast, space
		}
		fmt.Fprintf(w, "%s%s\n", styles.TreeBranch.Render(prefix+branch), nodeLine(child, showIDs))
		renderChildren(w, child.Children, prefix+next, showIDs)
	}
}

func nodeLine(n *application.TreeNode, showIDs bool) string {
	var sb strings.Builder
	sb.WriteString(styles.ForLocation(n.Location.Type).Render(n.Location.Name))
	sb.WriteString(styles.MutedText.Render(" (" + string(n.Location.Type) + ")"))
	if n.ItemCount > 0 {
		sb.WriteString(styles.Count.Render(fmt.Sprintf(" [%d]", n.ItemCount)))
	}
	if showIDs {
		sb.WriteString(styles.MutedText.Render("  " + n.Location.ID))
	}
	return sb.String()
}

// RenderLocations writes one location per line with its breadcrumb
func RenderLocations(w io.Writer, locations []domain.StorageLocation, pathOf func(id string) string) {
	if len(locations) == 0 {
		fmt.Fprintln(w, styles.MutedText.Render("No locations."))
		return
	}
	for _, loc := range locations {
		fmt.Fprintf(w, "%s  %s  %s\n",
			loc.ID,
			styles.ForLocation(loc.Type).Render(string(loc.Type)),
			pathOf(loc.ID))
	}
}

// RenderItems writes one item per line: ID, type, display title and location
func RenderItems(w io.Writer, items []application.LocatedItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, styles.MutedText.Render("No items."))
		return
	}
	for _, li := range items {
		style := styles.NodeItem
		if li.Item.IsTrashed() {
			style = styles.NodeTrashed
		}
		where := li.Path
		if where == "" {
			where = "unassigned"
		}
		fmt.Fprintf(w, "%s  %-5s  %s  %s\n",
			li.Item.ID,
			li.Item.Type,
			style.Render(li.Item.DisplayTitle()),
			styles.MutedText.Render(where))
	}
}

// RenderRules writes classification rules in evaluation order
func RenderRules(w io.Writer, rules []domain.ClassificationRule) {
	if len(rules) == 0 {
		fmt.Fprintln(w, styles.MutedText.Render("No rules."))
		return
	}
	for _, r := range rules {
		fmt.Fprintf(w, "%4d  %3d  %-20s  %-6s  %s\n", r.ID, r.Priority, r.PatternType, r.MediaType, r.Pattern)
	}
}
