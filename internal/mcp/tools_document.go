package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDocumentTools() {
	// ── list_documents ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all saved documents"),
	), s.handleListDocuments)

	// ── create_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new empty document"),
		mcp.WithString("name", mcp.Description("Name of the new document"), mcp.Required()),
	), s.handleCreateDocument)

	// ── set_active_document ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_document",
		mcp.WithDescription("Set the active document for subsequent save_document / load_document calls"),
		mcp.WithString("documentId", mcp.Description("ID of the document to make active"), mcp.Required()),
	), s.handleSetActiveDocument)

	// ── save_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Save the live block tree into a document"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to the active document)")),
	), s.handleSaveDocument)

	// ── load_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("load_document",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace the live block tree with a document's saved state"),
		mcp.WithString("documentId", mcp.Description("Document ID (optional, defaults to the active document)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleLoadDocument)
}

// resolveDocID returns the documentId from tool args or falls back to
// the active document.
func (s *Server) resolveDocID(req mcp.CallToolRequest) (string, error) {
	if docID := req.GetString("documentId", ""); docID != "" {
		return docID, nil
	}
	if s.activeDocID != "" {
		return s.activeDocID, nil
	}
	return "", fmt.Errorf("no documentId provided and no active document set (use set_active_document first)")
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.documents.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return jsonResult(docs)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	doc, err := s.documents.CreateDocument(name)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	// Auto-set as active document
	s.activeDocID = doc.ID
	return jsonResult(doc)
}

func (s *Server) handleSetActiveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID := req.GetString("documentId", "")
	if docID == "" {
		return nil, fmt.Errorf("documentId is required")
	}
	s.activeDocID = docID
	return textResult(fmt.Sprintf("Active document set to %s", docID)), nil
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := s.resolveDocID(req)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, docID); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Saved document %s", docID)), nil
}

func (s *Server) handleLoadDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := s.resolveDocID(req)
	if err != nil {
		return nil, err
	}
	state, err := s.documents.Load(ctx, docID)
	if err != nil {
		return nil, err
	}
	s.activeDocID = docID
	return textResult(fmt.Sprintf("Loaded document %s (%d top-level blocks)", docID, len(state.Blocks))), nil
}
