package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockdoc/internal/domain"
)

func (s *Server) registerTemplateTools() {
	// ── list_templates ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the named templates loaded from the template directory"),
	), s.handleListTemplates)

	// ── apply_template ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_template",
		mcp.WithDescription("Apply a template to a block's nested list. Pass a library template by name, or an inline JSON array of template nodes. An empty list is filled from the template; with lock 'all' the list is reconciled to match it."),
		mcp.WithString("blockId", mcp.Description("Block ID (optional, defaults to the document root)")),
		mcp.WithString("name", mcp.Description("Name of a loaded library template")),
		mcp.WithString("template", mcp.Description("Inline template: JSON array of {type, attributes?, children?} nodes")),
		mcp.WithString("templateLock", mcp.Description("Lock to apply with: all, insert, or none (optional)")),
	), s.handleApplyTemplate)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.templates.Names())
}

func (s *Server) handleApplyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", domain.RootID)
	if blockID != domain.RootID {
		if _, ok := s.store.GetBlock(blockID); !ok {
			return nil, fmt.Errorf("block %q not found", blockID)
		}
	}

	var tmpl []domain.TemplateNode
	switch {
	case req.GetString("name", "") != "":
		name := req.GetString("name", "")
		t, ok := s.templates.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q (have %v)", name, s.templates.Names())
		}
		tmpl = t
	case req.GetString("template", "") != "":
		if err := json.Unmarshal([]byte(req.GetString("template", "")), &tmpl); err != nil {
			return nil, fmt.Errorf("parse template: %w", err)
		}
	default:
		return nil, fmt.Errorf("either name or template is required")
	}

	lock, err := parseLock(req.GetString("templateLock", ""))
	if err != nil {
		return nil, err
	}
	if lock != "" {
		ls, _ := s.store.ListSettings(blockID)
		ls.TemplateLock = lock
		s.store.UpdateListSettings(blockID, ls)
	}

	sync := s.lists.Surface().Synchronizer()
	if err := sync.Sync(s.store, blockID, tmpl, lock, false); err != nil {
		return nil, fmt.Errorf("apply template: %w", err)
	}
	s.emitter.Emit(ctx, "blocks:changed", map[string]string{"parentId": blockID})
	return textResult(fmt.Sprintf("Applied template to %s (%d top-level nodes)", displayID(blockID), len(tmpl))), nil
}

func displayID(blockID string) string {
	if blockID == domain.RootID {
		return "document root"
	}
	return blockID
}
