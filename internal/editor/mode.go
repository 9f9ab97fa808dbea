package editor

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"blockdoc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Controlled/Uncontrolled Mode Selector
// ─────────────────────────────────────────────────────────────

// ListMode says who owns a nested list's contents on this render pass.
type ListMode int

const (
	// Uncontrolled lists manage themselves through the shared store.
	Uncontrolled ListMode = iota
	// Controlled lists mirror an external value; local edits go
	// through the caller's change callback instead of the store.
	Controlled
)

func (m ListMode) String() string {
	if m == Controlled {
		return "controlled"
	}
	return "uncontrolled"
}

// ResolveMode picks the mode for one render pass. There is no stored
// mode: the decision is remade from input presence every pass, so
// toggling the inputs between passes toggles behavior immediately.
// A half-supplied pair (value without callback, or the reverse) is the
// documented fallback to Uncontrolled.
func ResolveMode(value []domain.Block, onChange func([]domain.Block)) ListMode {
	if value != nil && onChange != nil {
		return Controlled
	}
	return Uncontrolled
}

// SyncControlled mirrors the external value into the list when the
// live contents differ. The external value is the source of truth on
// mount and on every external change.
func SyncControlled(st domain.Store, rootID string, value []domain.Block) error {
	current := childTrees(st, rootID)
	if blockListsEqual(current, value) {
		return nil
	}
	if err := st.ReplaceInnerBlocks(rootID, value); err != nil {
		return fmt.Errorf("controlled sync: %w", err)
	}
	return nil
}

// ControlledWriter is the mutation handle for a controlled list: each
// edit computes the would-be child list and hands it to the change
// callback; the shared store is never touched directly.
type ControlledWriter struct {
	store    domain.BlockReader
	rootID   string
	onChange func([]domain.Block)
}

// NewControlledWriter builds a writer routing edits on rootID's list
// through onChange.
func NewControlledWriter(store domain.BlockReader, rootID string, onChange func([]domain.Block)) *ControlledWriter {
	return &ControlledWriter{store: store, rootID: rootID, onChange: onChange}
}

// InsertBlocks splices blocks into the mirrored value at index (-1
// appends) and emits the result. Ids are minted here so the caller's
// value stays stable across echoes.
func (w *ControlledWriter) InsertBlocks(parentID string, index int, blocks []domain.Block) ([]string, error) {
	if parentID != w.rootID {
		return nil, fmt.Errorf("controlled insert: parent %q is outside the controlled list", parentID)
	}
	inserted := make([]domain.Block, len(blocks))
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		inserted[i] = mintIDs(b)
		ids[i] = inserted[i].ID
	}
	current := childTrees(w.store, w.rootID)
	if index < 0 || index > len(current) {
		index = len(current)
	}
	next := make([]domain.Block, 0, len(current)+len(inserted))
	next = append(next, current[:index]...)
	next = append(next, inserted...)
	next = append(next, current[index:]...)
	w.onChange(next)
	return ids, nil
}

// ReplaceInnerBlocks emits blocks as the new value outright.
func (w *ControlledWriter) ReplaceInnerBlocks(parentID string, blocks []domain.Block) error {
	if parentID != w.rootID {
		return fmt.Errorf("controlled replace: parent %q is outside the controlled list", parentID)
	}
	w.onChange(blocks)
	return nil
}

// RemoveBlock drops a block (anywhere in the mirrored subtree) and
// emits the remainder.
func (w *ControlledWriter) RemoveBlock(id string) error {
	current := childTrees(w.store, w.rootID)
	next, removed := removeFromTrees(current, id)
	if !removed {
		return fmt.Errorf("controlled remove: unknown block %q", id)
	}
	w.onChange(next)
	return nil
}

// UpdateBlockAttributes merges attrs into a mirrored block and emits
// the updated value.
func (w *ControlledWriter) UpdateBlockAttributes(id string, attrs map[string]any) error {
	current := childTrees(w.store, w.rootID)
	next, found := patchAttrs(current, id, attrs)
	if !found {
		return fmt.Errorf("controlled update: unknown block %q", id)
	}
	w.onChange(next)
	return nil
}

// ── helpers ────────────────────────────────────────────────

// childTrees resolves the current child subtrees of rootID.
func childTrees(st domain.BlockReader, rootID string) []domain.Block {
	ids := st.ChildIDs(rootID)
	trees := make([]domain.Block, 0, len(ids))
	for _, id := range ids {
		if b, ok := st.GetBlock(id); ok {
			trees = append(trees, b)
		}
	}
	return trees
}

func mintIDs(b domain.Block) domain.Block {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	inner := make([]domain.Block, len(b.InnerBlocks))
	for i, c := range b.InnerBlocks {
		inner[i] = mintIDs(c)
	}
	b.InnerBlocks = inner
	return b
}

func removeFromTrees(blocks []domain.Block, id string) ([]domain.Block, bool) {
	out := make([]domain.Block, 0, len(blocks))
	removed := false
	for _, b := range blocks {
		if b.ID == id {
			removed = true
			continue
		}
		if inner, ok := removeFromTrees(b.InnerBlocks, id); ok {
			b.InnerBlocks = inner
			removed = true
		}
		out = append(out, b)
	}
	return out, removed
}

func patchAttrs(blocks []domain.Block, id string, attrs map[string]any) ([]domain.Block, bool) {
	found := false
	for i, b := range blocks {
		if b.ID == id {
			merged := make(map[string]any, len(b.Attributes)+len(attrs))
			for k, v := range b.Attributes {
				merged[k] = v
			}
			for k, v := range attrs {
				merged[k] = v
			}
			blocks[i].Attributes = merged
			found = true
			continue
		}
		if inner, ok := patchAttrs(b.InnerBlocks, id, attrs); ok {
			blocks[i].InnerBlocks = inner
			found = true
		}
	}
	return blocks, found
}

// blockListsEqual compares two block lists structurally. Ids take part
// only when both sides carry one; external values are allowed to omit
// ids and still count as mirrored.
func blockListsEqual(a, b []domain.Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !blocksEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func blocksEqual(a, b domain.Block) bool {
	if a.Type != b.Type {
		return false
	}
	if a.ID != "" && b.ID != "" && a.ID != b.ID {
		return false
	}
	if !attrsEqual(a.Attributes, b.Attributes) {
		return false
	}
	return blockListsEqual(a.InnerBlocks, b.InnerBlocks)
}

func attrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}
