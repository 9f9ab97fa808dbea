package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
)

func (s *Server) registerSettingsTools() {
	// ── get_list_settings ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_list_settings",
		mcp.WithDescription("Get the list settings of a block, both its own values and the effective values after ancestor inheritance"),
		mcp.WithString("blockId", mcp.Description("Block ID (optional, defaults to the document root)")),
	), s.handleGetListSettings)

	// ── set_list_settings ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_list_settings",
		mcp.WithDescription("Update the list settings of a block. Omitted fields keep their current value."),
		mcp.WithString("blockId", mcp.Description("Block ID (optional, defaults to the document root)")),
		mcp.WithString("allowedTypes", mcp.Description("Comma-separated allowed block types; '*' clears the restriction")),
		mcp.WithString("templateLock", mcp.Description("Template lock: all, insert, none, or inherit")),
		mcp.WithBoolean("captureToolbars", mcp.Description("Whether the list captures child toolbars")),
		mcp.WithString("orientation", mcp.Description("List orientation: horizontal or vertical")),
	), s.handleSetListSettings)
}

type listSettingsSummary struct {
	Own       domain.ListSettings `json:"own"`
	Effective domain.ListSettings `json:"effective"`
}

func (s *Server) handleGetListSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", domain.RootID)
	own, _ := s.store.ListSettings(blockID)
	return jsonResult(listSettingsSummary{
		Own:       own,
		Effective: editor.EffectiveSettings(s.store, blockID),
	})
}

func (s *Server) handleSetListSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", domain.RootID)
	if blockID != domain.RootID {
		if _, ok := s.store.GetBlock(blockID); !ok {
			return nil, fmt.Errorf("block %q not found", blockID)
		}
	}

	ls, _ := s.store.ListSettings(blockID)

	if raw := req.GetString("allowedTypes", ""); raw != "" {
		if raw == "*" {
			ls.AllowedTypes = nil
		} else {
			ls.AllowedTypes = splitTypes(raw)
		}
	}
	if raw := req.GetString("templateLock", ""); raw != "" {
		lock, err := parseLock(raw)
		if err != nil {
			return nil, err
		}
		ls.TemplateLock = lock
	}
	if args := req.GetArguments(); args != nil {
		if v, ok := args["captureToolbars"].(bool); ok {
			ls.CaptureToolbars = v
		}
	}
	if raw := req.GetString("orientation", ""); raw != "" {
		if raw != string(domain.OrientationHorizontal) && raw != string(domain.OrientationVertical) {
			return nil, fmt.Errorf("invalid orientation %q", raw)
		}
		ls.Orientation = domain.Orientation(raw)
	}

	s.store.UpdateListSettings(blockID, ls)
	s.emitter.Emit(ctx, "settings:changed", map[string]string{"blockId": blockID})
	return jsonResult(ls)
}

func splitTypes(raw string) []string {
	var types []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func parseLock(raw string) (domain.TemplateLock, error) {
	switch raw {
	case "all":
		return domain.TemplateLockAll, nil
	case "insert":
		return domain.TemplateLockInsert, nil
	case "none":
		return domain.TemplateLockNone, nil
	case "inherit", "":
		return "", nil
	}
	return "", fmt.Errorf("invalid templateLock %q (want all, insert, none, or inherit)", raw)
}
