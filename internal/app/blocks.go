package app

import (
	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
	"blockdoc/internal/registry"
)

// builtinRegistry registers the block types the app ships with.
func builtinRegistry() *registry.Registry {
	reg := registry.New()

	// Wrapper for whole-document lists. Reserved: never overlaid.
	reg.Register(&registry.Descriptor{Name: editor.NonOverlayType})

	reg.Register(&registry.Descriptor{Name: "doc/group"})
	reg.Register(&registry.Descriptor{Name: "doc/paragraph"})
	reg.Register(&registry.Descriptor{Name: "doc/heading"})
	reg.Register(&registry.Descriptor{Name: "doc/quote"})
	reg.Register(&registry.Descriptor{Name: "doc/image"})

	reg.Register(&registry.Descriptor{
		Name:          "doc/buttons",
		AllowedBlocks: []string{"doc/button"},
	})
	reg.Register(&registry.Descriptor{Name: "doc/button"})

	reg.Register(&registry.Descriptor{
		Name:            "doc/columns",
		ProvidesContext: map[string]string{"columns": "doc/columns-count"},
		DefaultTemplate: []domain.TemplateNode{
			{Type: "doc/column"},
			{Type: "doc/column"},
		},
	})
	reg.Register(&registry.Descriptor{
		Name:        "doc/column",
		UsesContext: []string{"doc/columns-count"},
	})

	return reg
}
