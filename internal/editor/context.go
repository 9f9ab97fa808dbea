package editor

import (
	"blockdoc/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Context Resolver — derived context for descendant blocks
// ─────────────────────────────────────────────────────────────

// ContextBag is the derived key→value data a block exposes to its
// descendants. Purely ephemeral: recomputed on every render from the
// block's current attributes, never persisted.
type ContextBag map[string]any

// ResolveContext derives the context bag for a block from its type
// descriptor and current attributes. Each (attribute → context-key)
// pair declared by the descriptor yields one entry keyed by the
// context key and holding the attribute's current value.
//
// Returns nil when the descriptor is absent or declares no mapping, so
// callers introduce no context scope (and no extra re-render surface)
// for types that provide nothing.
func ResolveContext(desc *registry.Descriptor, attrs map[string]any) ContextBag {
	if desc == nil || len(desc.ProvidesContext) == 0 {
		return nil
	}
	bag := make(ContextBag, len(desc.ProvidesContext))
	for attr, key := range desc.ProvidesContext {
		if attrs == nil {
			bag[key] = nil
			continue
		}
		bag[key] = attrs[attr]
	}
	return bag
}
