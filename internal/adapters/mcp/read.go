package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scaffale/internal/adapters/cli"
	"scaffale/internal/application"
	"scaffale/internal/application/commands"
	"scaffale/internal/domain"
)

// RegisterReadTools adds all read-only inventory tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, inv *application.Inventory) {
	s.AddTool(treeTool(), treeHandler(inv))
	s.AddTool(listLocationsTool(), listLocationsHandler(inv))
	s.AddTool(locationPathTool(), locationPathHandler(inv))
	s.AddTool(listItemsTool(), listItemsHandler(inv))
	s.AddTool(listTrashTool(), listTrashHandler(inv))
	s.AddTool(searchTool(), searchHandler(inv))
	s.AddTool(classifyTool(), classifyHandler(inv))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the location hierarchy as a tree, with location IDs and the number of items each location holds."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name to start from. Omit for every room."),
		),
	)
}

func treeHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rootID, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		roots, err := commands.NewBuildTreeCommand(inv, rootID).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(roots) == 0 {
			return mcp.NewToolResultText("No locations."), nil
		}
		var buf bytes.Buffer
		cli.RenderTree(&buf, roots, true)
		return mcp.NewToolResultText(buf.String()), nil
	}
}

// --- list_locations ---

func listLocationsTool() mcp.Tool {
	return mcp.NewTool("list_locations",
		mcp.WithDescription("List locations. Without arguments lists rooms. With a parent lists its direct children. With a type lists every location of that type."),
		mcp.WithString("parent",
			mcp.Description("Parent location ID, path or unique name"),
		),
		mcp.WithString("type",
			mcp.Description("Location type: room, bookshelf, cabinet, dresser, desk, box, bin or drawer"),
		),
	)
}

func listLocationsHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parentID, err := commands.ResolveLocationID(inv, req.GetString("parent", ""))
		if err != nil {
			return toolError(err)
		}
		locations, err := commands.NewListLocationsCommand(inv, parentID, req.GetString("type", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(locations, func(l domain.StorageLocation) string {
			return fmt.Sprintf("%s  %s  %s", l.ID, l.Type, inv.Tracker().PathOf(l.ID))
		})
	}
}

// --- location_path ---

func locationPathTool() mcp.Tool {
	return mcp.NewTool("location_path",
		mcp.WithDescription("Get the full path of a location, from its room down."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name"),
			mcp.Required(),
		),
	)
}

func locationPathHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref := req.GetString("location", "")
		if ref == "" {
			return toolError(fmt.Errorf("location is required"))
		}
		loc, err := commands.ResolveLocation(inv, ref)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(inv.Tracker().PathOf(loc.ID)), nil
	}
}

// --- list_items ---

func listItemsTool() mcp.Tool {
	return mcp.NewTool("list_items",
		mcp.WithDescription("List active items with their location path. With a location lists only the items stored in it or below it."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name"),
		),
	)
}

func listItemsHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		locationID, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		items, err := commands.NewListItemsCommand(inv, locationID, false).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(items, formatItem)
	}
}

// --- list_trash ---

func listTrashTool() mcp.Tool {
	return mcp.NewTool("list_trash",
		mcp.WithDescription("List trashed items, most recently trashed first."),
	)
}

func listTrashHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := commands.NewListItemsCommand(inv, "", true).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(items, formatItem)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search locations and items by keyword. Returns matches ranked by relevance with their IDs."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
	)
}

func searchHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchCommand(inv, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  %s  %s\n", r.Kind, r.ID, r.Name, r.Path)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- classify ---

func classifyTool() mcp.Tool {
	return mcp.NewTool("classify",
		mcp.WithDescription("Guess the collection type (book, manga, comic, game) of an item from its title, publisher and description."),
		mcp.WithString("title", mcp.Description("Item title")),
		mcp.WithString("publisher", mcp.Description("Publisher")),
		mcp.WithString("description", mcp.Description("Free-form description")),
	)
}

func classifyHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t, err := commands.NewClassifyCommand(inv,
			req.GetString("title", ""),
			req.GetString("publisher", ""),
			req.GetString("description", ""),
		).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(t)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(application.UserMessage(err)), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatItem(li application.LocatedItem) string {
	where := li.Path
	if where == "" {
		where = "unassigned"
	}
	return fmt.Sprintf("%s  %s  %s  %s", li.Item.ID, li.Item.Type, li.Item.DisplayTitle(), where)
}
