package registry

import (
	"fmt"
	"sync"

	"blockdoc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Block Type Registry — closed registry of block capabilities
// ─────────────────────────────────────────────────────────────

// Descriptor is the static registry entry for one block type.
// Capability checks ("does this type provide context?") are lookups
// against this record, never per-type code paths.
type Descriptor struct {
	// Name is the block type name, e.g. "doc/columns".
	Name string

	// ProvidesContext maps attribute names to the context keys their
	// current values are exposed under to descendant blocks.
	ProvidesContext map[string]string

	// UsesContext lists the context keys this type consumes.
	UsesContext []string

	// AllowedBlocks, when non-nil, restricts which types may be
	// inserted as direct children of this type.
	AllowedBlocks []string

	// DefaultTemplate is applied to a fresh block of this type when
	// the caller supplies no explicit template.
	DefaultTemplate []domain.TemplateNode
}

// Registry manages registered block type descriptors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Panics on duplicate registration.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[d.Name]; exists {
		panic(fmt.Sprintf("block registry: duplicate registration for type %q", d.Name))
	}
	r.types[d.Name] = d
}

// Get returns the descriptor for a type name, or nil when the type is
// unregistered. Callers treat nil as "no capabilities".
func (r *Registry) Get(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[name]
}

// Has reports whether a type name is registered.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// ForEach iterates all registered descriptors. Used by the MCP server
// to describe available block types to agents.
func (r *Registry) ForEach(fn func(*Descriptor)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.types {
		fn(d)
	}
}
