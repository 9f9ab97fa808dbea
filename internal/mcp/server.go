package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"blockdoc/internal/registry"
	"blockdoc/internal/service"
	"blockdoc/internal/store"
	"blockdoc/internal/watcher"
)

// Server is the MCP server for the block editor. It exposes tools and
// resources so AI agents can inspect and edit the nested block tree.
type Server struct {
	mcp     *server.MCPServer
	emitter service.EventEmitter

	// Services (injected from app layer)
	lists     *service.ListService
	documents *service.DocumentService
	store     *store.Store
	registry  *registry.Registry
	templates *watcher.TemplateLibrary

	// Active document context (set by set_active_document tool)
	activeDocID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter   service.EventEmitter
	Lists     *service.ListService
	Documents *service.DocumentService
	Store     *store.Store
	Registry  *registry.Registry
	Templates *watcher.TemplateLibrary
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter:   deps.Emitter,
		lists:     deps.Lists,
		documents: deps.Documents,
		store:     deps.Store,
		registry:  deps.Registry,
		templates: deps.Templates,
	}

	s.mcp = server.NewMCPServer(
		"blockdoc-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerDocumentTools()
	s.registerBlockTools()
	s.registerSettingsTools()
	s.registerTemplateTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireBlockID extracts a non-empty blockId argument.
func requireBlockID(req mcp.CallToolRequest) (string, error) {
	blockID := req.GetString("blockId", "")
	if blockID == "" {
		return "", fmt.Errorf("blockId is required")
	}
	return blockID, nil
}
