// lyfter-mcp exposes the training data as MCP tools over stdio, querying
// the database directly. Point an MCP client at this binary with the same
// config file the server uses.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/JohnZolton/lyfter-sub000/internal/config"
	"github.com/JohnZolton/lyfter-sub000/internal/mcp"
	"github.com/JohnZolton/lyfter-sub000/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	userID := flag.Int("user", 1, "user ID to scope queries to")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := storage.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := mcp.New(db, Version, log)

	log.Info("MCP server on stdio", "user", *userID)
	err = mcpserver.ServeStdio(srv, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
