package editor_test

import (
	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
	"blockdoc/internal/registry"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// Shared test fixtures for the editor package
// ─────────────────────────────────────────────────────────────

// newTestRegistry registers the block types the tests render.
func newTestRegistry() *registry.Registry {
	reg := registry.New()
	reg.Register(&registry.Descriptor{Name: editor.NonOverlayType})
	reg.Register(&registry.Descriptor{Name: "doc/group"})
	reg.Register(&registry.Descriptor{Name: "doc/paragraph"})
	reg.Register(&registry.Descriptor{Name: "doc/button"})
	reg.Register(&registry.Descriptor{
		Name:            "doc/columns",
		ProvidesContext: map[string]string{"columns": "doc/columns-count"},
	})
	reg.Register(&registry.Descriptor{
		Name:        "doc/column",
		UsesContext: []string{"doc/columns-count"},
	})
	return reg
}

func newTestEnv() (*store.Store, *registry.Registry) {
	reg := newTestRegistry()
	return store.New(reg), reg
}

// insertOne puts a single block into the store and returns its id.
func insertOne(st *store.Store, parentID string, b domain.Block) string {
	ids, err := st.InsertBlocks(parentID, -1, []domain.Block{b})
	if err != nil {
		panic(err)
	}
	return ids[0]
}
