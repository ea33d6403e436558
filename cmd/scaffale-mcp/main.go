package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "scaffale/internal/adapters/mcp"
	"scaffale/internal/bootstrap"
	"scaffale/internal/config"
)

func main() {
	v, err := config.New()
	if err != nil {
		log.Fatalf("scaffale-mcp: %v", err)
	}
	dbFlag := flag.String("database", v.GetString(config.KeyDatabase), "path to the inventory database")
	flag.Parse()
	v.Set(config.KeyDatabase, *dbFlag)

	// stdout carries the protocol, logs go to stderr or the configured file
	app, err := bootstrap.Open(context.Background(), v, os.Stderr)
	if err != nil {
		log.Fatalf("scaffale-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"scaffale-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, app.Inventory)
	mcpadapter.RegisterWriteTools(mcpServer, app.Inventory)

	err = server.ServeStdio(mcpServer)
	app.Close()
	if err != nil {
		log.Fatalf("scaffale-mcp: %v", err)
	}
}
