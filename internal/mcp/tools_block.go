package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
)

func (s *Server) registerBlockTools() {
	// ── list_tree ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_tree",
		mcp.WithDescription("List the nested block tree under a block. Omit blockId for the whole document."),
		mcp.WithString("blockId", mcp.Description("Root block ID (optional, defaults to the document root)")),
	), s.handleListTree)

	// ── insert_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("insert_block",
		mcp.WithDescription("Insert a new block into a nested list. Rejected when the target list is template-locked or the type is not allowed there."),
		mcp.WithString("type",
			mcp.Description("Registered block type, e.g. doc/paragraph"),
			mcp.Required(),
		),
		mcp.WithString("parentId", mcp.Description("Parent block ID (optional, defaults to the document root)")),
		mcp.WithNumber("index", mcp.Description("Insertion index (optional, appends if omitted)")),
		mcp.WithString("attributes", mcp.Description("Initial attributes as a JSON object (optional)")),
	), s.handleInsertBlock)

	// ── remove_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_block",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a block and everything nested inside it. Rejected when the block's list is template-locked."),
		mcp.WithString("blockId", mcp.Description("Block ID to remove"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveBlock)

	// ── update_block_attributes ────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_block_attributes",
		mcp.WithDescription("Merge attributes into a block. Attribute edits bypass template locks."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("attributes",
			mcp.Description("Attributes to merge, as a JSON object"),
			mcp.Required(),
		),
	), s.handleUpdateBlockAttributes)

	// ── select_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("select_block",
		mcp.WithDescription("Move the editor selection to a block"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleSelectBlock)

	// ── set_navigation_mode ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_navigation_mode",
		mcp.WithDescription("Toggle navigation mode. In navigation mode nested lists are click-through regardless of viewport size."),
		mcp.WithBoolean("enabled", mcp.Description("Whether navigation mode is on"), mcp.Required()),
	), s.handleSetNavigationMode)

	// ── get_block_context ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_block_context",
		mcp.WithDescription("Resolve the context values a block provides to its descendants, per its type's context mapping"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleGetBlockContext)
}

func boolPtr(v bool) *bool { return &v }

// blockSummary is the tree shape returned to agents.
type blockSummary struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []blockSummary `json:"children,omitempty"`
}

func summarizeBlock(b domain.Block) blockSummary {
	sum := blockSummary{ID: b.ID, Type: b.Type, Attributes: b.Attributes}
	for _, child := range b.InnerBlocks {
		sum.Children = append(sum.Children, summarizeBlock(child))
	}
	return sum
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("blockId", domain.RootID)

	var tree []blockSummary
	for _, childID := range s.store.ChildIDs(blockID) {
		if b, ok := s.store.GetBlock(childID); ok {
			tree = append(tree, summarizeBlock(b))
		}
	}
	if tree == nil && blockID != domain.RootID {
		if _, ok := s.store.GetBlock(blockID); !ok {
			return nil, fmt.Errorf("block %q not found", blockID)
		}
	}
	return jsonResult(tree)
}

func (s *Server) handleInsertBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockType := req.GetString("type", "")
	if blockType == "" {
		return nil, fmt.Errorf("type is required")
	}
	if !s.registry.Has(blockType) {
		return nil, fmt.Errorf("unknown block type %q", blockType)
	}

	parentID := req.GetString("parentId", domain.RootID)
	index := req.GetInt("index", -1)

	var attrs map[string]any
	if raw := req.GetString("attributes", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
			return nil, fmt.Errorf("parse attributes: %w", err)
		}
	}

	id, err := s.lists.InsertBlock(ctx, parentID, index, domain.Block{Type: blockType, Attributes: attrs})
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]string{"blockId": id})
}

func (s *Server) handleRemoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireBlockID(req)
	if err != nil {
		return nil, err
	}
	if err := s.lists.RemoveBlock(ctx, blockID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Removed block %s", blockID)), nil
}

func (s *Server) handleUpdateBlockAttributes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireBlockID(req)
	if err != nil {
		return nil, err
	}
	raw := req.GetString("attributes", "")
	if raw == "" {
		return nil, fmt.Errorf("attributes is required")
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("parse attributes: %w", err)
	}
	if err := s.lists.UpdateBlockAttributes(ctx, blockID, attrs); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Updated attributes on %s", blockID)), nil
}

func (s *Server) handleSelectBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireBlockID(req)
	if err != nil {
		return nil, err
	}
	if _, ok := s.store.GetBlock(blockID); !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	s.lists.SelectBlock(ctx, blockID)
	return textResult(fmt.Sprintf("Selected block %s", blockID)), nil
}

func (s *Server) handleSetNavigationMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled := req.GetBool("enabled", false)
	s.lists.SetNavigationMode(ctx, enabled)
	return textResult(fmt.Sprintf("Navigation mode: %v", enabled)), nil
}

func (s *Server) handleGetBlockContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireBlockID(req)
	if err != nil {
		return nil, err
	}
	b, ok := s.store.GetBlock(blockID)
	if !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	bag := editor.ResolveContext(s.registry.Get(b.Type), b.Attributes)
	if bag == nil {
		return textResult(fmt.Sprintf("Block type %s provides no context", b.Type)), nil
	}
	return jsonResult(bag)
}
