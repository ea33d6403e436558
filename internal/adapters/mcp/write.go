package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scaffale/internal/application"
	"scaffale/internal/application/commands"
)

// RegisterWriteTools adds all inventory-changing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, inv *application.Inventory) {
	s.AddTool(addLocationTool(), addLocationHandler(inv))
	s.AddTool(renameLocationTool(), renameLocationHandler(inv))
	s.AddTool(moveLocationTool(), moveLocationHandler(inv))
	s.AddTool(removeLocationTool(), removeLocationHandler(inv))
	s.AddTool(addItemTool(), addItemHandler(inv))
	s.AddTool(moveItemsTool(), moveItemsHandler(inv))
	s.AddTool(trashItemTool(), trashItemHandler(inv))
	s.AddTool(restoreItemTool(), restoreItemHandler(inv))
}

// --- add_location ---

func addLocationTool() mcp.Tool {
	return mcp.NewTool("add_location",
		mcp.WithDescription("Create a location. Rooms have no parent; furniture goes in a room; containers go in a room or in furniture."),
		mcp.WithString("name",
			mcp.Description("Name of the new location"),
			mcp.Required(),
		),
		mcp.WithString("type",
			mcp.Description("room, bookshelf, cabinet, dresser, desk, box, bin or drawer"),
			mcp.Required(),
		),
		mcp.WithString("parent",
			mcp.Description("Parent location ID, path or unique name. Omit for a room."),
		),
	)
}

func addLocationHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parentID, err := commands.ResolveLocationID(inv, req.GetString("parent", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewCreateLocationCommand(inv,
			req.GetString("name", ""),
			req.GetString("type", ""),
			parentID,
		).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (id %s)", result.Message, result.Location.ID)), nil
	}
}

// --- rename_location ---

func renameLocationTool() mcp.Tool {
	return mcp.NewTool("rename_location",
		mcp.WithDescription("Rename a location."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
			mcp.Required(),
		),
	)
}

func renameLocationHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewRenameLocationCommand(inv, id, req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move_location ---

func moveLocationTool() mcp.Tool {
	return mcp.NewTool("move_location",
		mcp.WithDescription("Move a location, with everything inside it, under a new parent. Omit the destination to move a room back to the top level."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name to move"),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("New parent location ID, path or unique name"),
		),
	)
}

func moveLocationHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		destID, err := commands.ResolveLocationID(inv, req.GetString("destination", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewMoveLocationCommand(inv, id, destID).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- remove_location ---

func removeLocationTool() mcp.Tool {
	return mcp.NewTool("remove_location",
		mcp.WithDescription("Delete a location and every location below it. Refused while any of them holds items."),
		mcp.WithString("location",
			mcp.Description("Location ID, path or unique name"),
			mcp.Required(),
		),
	)
}

func removeLocationHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewDeleteLocationCommand(inv, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- add_item ---

func addItemTool() mcp.Tool {
	return mcp.NewTool("add_item",
		mcp.WithDescription("Add an item to the collection. The type is guessed from the classification rules when omitted."),
		mcp.WithString("title",
			mcp.Description("Item title"),
			mcp.Required(),
		),
		mcp.WithString("type", mcp.Description("book, manga, comic or game")),
		mcp.WithString("series", mcp.Description("Series the item belongs to")),
		mcp.WithString("publisher", mcp.Description("Publisher")),
		mcp.WithString("isbn", mcp.Description("ISBN")),
		mcp.WithString("description", mcp.Description("Text used only to guess the type")),
		mcp.WithString("location", mcp.Description("Location ID, path or unique name")),
	)
}

func addItemHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		locationID, err := commands.ResolveLocationID(inv, req.GetString("location", ""))
		if err != nil {
			return toolError(err)
		}
		add := commands.NewAddItemCommand(inv, req.GetString("title", ""), locationID)
		add.Type = req.GetString("type", "")
		add.Series = req.GetString("series", "")
		add.Publisher = req.GetString("publisher", "")
		add.ISBN = req.GetString("isbn", "")
		add.Description = req.GetString("description", "")

		result, err := add.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (id %s)", result.Message, result.Item.ID)), nil
	}
}

// --- move_items ---

func moveItemsTool() mcp.Tool {
	return mcp.NewTool("move_items",
		mcp.WithDescription("Move items to a location. Either all of them move or none does. Omit the destination to unassign them."),
		mcp.WithString("item_ids",
			mcp.Description("Comma-separated item IDs"),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("Location ID, path or unique name"),
		),
	)
}

func moveItemsHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		destID, err := commands.ResolveLocationID(inv, req.GetString("destination", ""))
		if err != nil {
			return toolError(err)
		}
		result, err := commands.NewMoveItemsCommand(inv, splitIDs(req.GetString("item_ids", "")), destID).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- trash_item ---

func trashItemTool() mcp.Tool {
	return mcp.NewTool("trash_item",
		mcp.WithDescription("Move an item to the trash. It can be restored until the trash is emptied."),
		mcp.WithString("item_id",
			mcp.Description("Item ID"),
			mcp.Required(),
		),
	)
}

func trashItemHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewTrashItemCommand(inv, req.GetString("item_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- restore_item ---

func restoreItemTool() mcp.Tool {
	return mcp.NewTool("restore_item",
		mcp.WithDescription("Take an item out of the trash."),
		mcp.WithString("item_id",
			mcp.Description("Item ID"),
			mcp.Required(),
		),
	)
}

func restoreItemHandler(inv *application.Inventory) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRestoreItemCommand(inv, req.GetString("item_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
