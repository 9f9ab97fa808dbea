package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"blockdoc/internal/domain"
	"blockdoc/internal/registry"
)

func (s *Server) registerResources() {
	// ── blockdoc://documents ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"blockdoc://documents",
		"All Documents",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentsResource)

	// ── blockdoc://tree ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"blockdoc://tree",
		"Live Block Tree",
		mcp.WithMIMEType("application/json"),
	), s.handleTreeResource)

	// ── blockdoc://block-types ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"blockdoc://block-types",
		"Registered Block Types",
		mcp.WithMIMEType("application/json"),
	), s.handleBlockTypesResource)
}

func (s *Server) handleDocumentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs, err := s.documents.ListDocuments()
	if err != nil {
		return nil, err
	}
	data, _ := json.MarshalIndent(docs, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blockdoc://documents",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleTreeResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var tree []blockSummary
	for _, childID := range s.store.ChildIDs(domain.RootID) {
		if b, ok := s.store.GetBlock(childID); ok {
			tree = append(tree, summarizeBlock(b))
		}
	}
	data, _ := json.MarshalIndent(tree, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blockdoc://tree",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

type blockTypeSummary struct {
	Name            string            `json:"name"`
	ProvidesContext map[string]string `json:"providesContext,omitempty"`
	UsesContext     []string          `json:"usesContext,omitempty"`
	AllowedBlocks   []string          `json:"allowedBlocks,omitempty"`
	HasTemplate     bool              `json:"hasTemplate"`
}

func (s *Server) handleBlockTypesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var types []blockTypeSummary
	s.registry.ForEach(func(desc *registry.Descriptor) {
		types = append(types, blockTypeSummary{
			Name:            desc.Name,
			ProvidesContext: desc.ProvidesContext,
			UsesContext:     desc.UsesContext,
			AllowedBlocks:   desc.AllowedBlocks,
			HasTemplate:     len(desc.DefaultTemplate) > 0,
		})
	})
	data, _ := json.MarshalIndent(types, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "blockdoc://block-types",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
