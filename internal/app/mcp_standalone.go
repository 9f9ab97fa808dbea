package app

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"blockdoc/internal/editor"
	mcpserver "blockdoc/internal/mcp"
	"blockdoc/internal/service"
	"blockdoc/internal/storage"
	"blockdoc/internal/store"
	"blockdoc/internal/watcher"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until the
// transport closes.
func ServeMCP() {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "blockdoc")
	dbPath := filepath.Join(dataDir, "blockdoc.db")
	templatesDir := filepath.Join(dataDir, "templates")

	db, err := storage.New(dbPath, templatesDir)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	emitter := noopEmitter{}

	reg := builtinRegistry()
	st := store.New(reg)
	surface := editor.NewSurface(st, reg)

	templates := watcher.NewTemplateLibrary()
	if err := templates.LoadDir(templatesDir); err != nil {
		log.Printf("Template load: %v", err)
	}

	lists := service.NewListService(st, reg, surface, emitter)
	documents := service.NewDocumentService(storage.NewDocumentStore(db), st, emitter)

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Emitter:   emitter,
		Lists:     lists,
		Documents: documents,
		Store:     st,
		Registry:  reg,
		Templates: templates,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
