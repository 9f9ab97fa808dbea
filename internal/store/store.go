package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"blockdoc/internal/domain"
	"blockdoc/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Block Store — shared mutable block tree for one document
// ─────────────────────────────────────────────────────────────
//
// All editor components read and mutate the document through this
// store. Mutations are serialized by a single mutex; readers always
// observe the state left by the last applied mutation. Listeners are
// invoked synchronously after a mutation commits.

// Change describes one committed mutation for subscribers.
type Change struct {
	// Event is one of "blocks", "attributes", "selection",
	// "navigation", "settings".
	Event string
	// IDs are the block ids (or settings root ids) involved.
	IDs []string
}

// Store holds the block tree, selection state, and per-root list
// settings for a single open document.
type Store struct {
	reg *registry.Registry

	mu       sync.RWMutex
	blocks   map[string]domain.Block // InnerBlocks always nil here
	parent   map[string]string
	children map[string][]string // keyed by parent id, RootID included
	settings map[string]domain.ListSettings

	selected   string
	navigation bool

	nextListener int
	listeners    map[int]func(Change)
}

// New creates an empty store validating block types against reg.
func New(reg *registry.Registry) *Store {
	return &Store{
		reg:       reg,
		blocks:    make(map[string]domain.Block),
		parent:    make(map[string]string),
		children:  make(map[string][]string),
		settings:  make(map[string]domain.ListSettings),
		listeners: make(map[int]func(Change)),
	}
}

// Subscribe registers a change listener and returns an unsubscribe
// function. Listeners run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
}

// ── Reads ──────────────────────────────────────────────────

// GetBlock returns a block with its inner blocks resolved recursively.
func (s *Store) GetBlock(id string) (domain.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.blocks[id]; !ok {
		return domain.Block{}, false
	}
	return s.resolve(id), true
}

// resolve builds the subtree for id. Caller holds at least RLock.
func (s *Store) resolve(id string) domain.Block {
	b := s.blocks[id]
	b.Attributes = copyAttrs(b.Attributes)
	for _, childID := range s.children[id] {
		b.InnerBlocks = append(b.InnerBlocks, s.resolve(childID))
	}
	return b
}

// GetBlockName returns the type name for an id.
func (s *Store) GetBlockName(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[id]
	return b.Type, ok
}

// ChildIDs returns the ordered child ids of a block. Use
// domain.RootID for the top-level list.
func (s *Store) ChildIDs(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.children[id]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// ParentID returns the parent of a block. ok is false for unknown ids
// and for blocks at the top level.
func (s *Store) ParentID(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parent[id]
	if !ok || p == domain.RootID {
		return "", false
	}
	return p, true
}

// ── Selection and navigation ───────────────────────────────

// SelectBlock marks a block as the current selection. An empty id
// clears the selection.
func (s *Store) SelectBlock(id string) {
	s.mu.Lock()
	if s.selected == id {
		s.mu.Unlock()
		return
	}
	s.selected = id
	s.mu.Unlock()
	s.notify(Change{Event: "selection", IDs: []string{id}})
}

// SelectedBlock returns the currently selected block id, if any.
func (s *Store) SelectedBlock() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

func (s *Store) IsBlockSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id != "" && s.selected == id
}

// HasSelectedInnerBlock reports whether a child (deep: any descendant)
// of id is selected.
func (s *Store) HasSelectedInnerBlock(id string, deep bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return false
	}
	if !deep {
		p := s.parent[s.selected]
		return p == id
	}
	for p, ok := s.parent[s.selected]; ok; p, ok = s.parent[p] {
		if p == id {
			return true
		}
	}
	return false
}

// SetNavigationMode toggles navigation mode for the document.
func (s *Store) SetNavigationMode(on bool) {
	s.mu.Lock()
	if s.navigation == on {
		s.mu.Unlock()
		return
	}
	s.navigation = on
	s.mu.Unlock()
	s.notify(Change{Event: "navigation"})
}

func (s *Store) IsNavigationMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.navigation
}

// ── Mutations ──────────────────────────────────────────────

// InsertBlocks inserts block trees under parentID at index (-1
// appends). Unknown block types anywhere in the trees reject the whole
// mutation. Returns the ids of the inserted top-level blocks.
func (s *Store) InsertBlocks(parentID string, index int, blocks []domain.Block) ([]string, error) {
	s.mu.Lock()
	if parentID != domain.RootID {
		if _, ok := s.blocks[parentID]; !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("insert blocks: unknown parent %q", parentID)
		}
	}
	for i := range blocks {
		if err := s.validateTree(&blocks[i]); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("insert blocks: %w", err)
		}
	}

	ids := make([]string, 0, len(blocks))
	var all []string
	for i := range blocks {
		id := s.link(parentID, blocks[i], &all)
		ids = append(ids, id)
	}

	order := s.children[parentID]
	if index < 0 || index > len(order) {
		index = len(order)
	}
	merged := make([]string, 0, len(order)+len(ids))
	merged = append(merged, order[:index]...)
	merged = append(merged, ids...)
	merged = append(merged, order[index:]...)
	s.children[parentID] = merged
	s.mu.Unlock()

	s.notify(Change{Event: "blocks", IDs: all})
	return ids, nil
}

// validateTree checks every type in a tree against the registry.
// Caller holds the lock.
func (s *Store) validateTree(b *domain.Block) error {
	if !s.reg.Has(b.Type) {
		return fmt.Errorf("unknown block type %q", b.Type)
	}
	if b.ID != "" {
		if _, exists := s.blocks[b.ID]; exists {
			return fmt.Errorf("block id %q already in use", b.ID)
		}
	}
	for i := range b.InnerBlocks {
		if err := s.validateTree(&b.InnerBlocks[i]); err != nil {
			return err
		}
	}
	return nil
}

// link stores a block tree under parentID without touching the
// parent's order slice, collecting every stored id into all.
// Caller holds the lock.
func (s *Store) link(parentID string, b domain.Block, all *[]string) string {
	id := b.ID
	if id == "" {
		id = uuid.NewString()
	}
	inner := b.InnerBlocks
	b.ID = id
	b.InnerBlocks = nil
	b.Attributes = copyAttrs(b.Attributes)
	s.blocks[id] = b
	s.parent[id] = parentID
	*all = append(*all, id)
	for _, child := range inner {
		childID := s.link(id, child, all)
		s.children[id] = append(s.children[id], childID)
	}
	return id
}

// ReplaceInnerBlocks replaces the entire child list of parentID with
// the given block trees. Existing children are removed with their
// descendants; their settings and selection are dropped.
func (s *Store) ReplaceInnerBlocks(parentID string, blocks []domain.Block) error {
	s.mu.Lock()
	if parentID != domain.RootID {
		if _, ok := s.blocks[parentID]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("replace inner blocks: unknown parent %q", parentID)
		}
	}
	// Ids carried over from the previous child set are legal: the old
	// set is deleted before the new one is validated.
	s.clearChildren(parentID)
	for i := range blocks {
		if err := s.validateTree(&blocks[i]); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("replace inner blocks: %w", err)
		}
	}

	var all []string
	ids := make([]string, 0, len(blocks))
	for i := range blocks {
		ids = append(ids, s.link(parentID, blocks[i], &all))
	}
	s.children[parentID] = ids
	s.mu.Unlock()

	s.notify(Change{Event: "blocks", IDs: append([]string{parentID}, all...)})
	return nil
}

// RemoveBlock removes a block and all its descendants.
func (s *Store) RemoveBlock(id string) error {
	s.mu.Lock()
	if _, ok := s.blocks[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("remove block: unknown block %q", id)
	}
	parentID := s.parent[id]
	order := s.children[parentID]
	kept := make([]string, 0, len(order))
	for _, cid := range order {
		if cid != id {
			kept = append(kept, cid)
		}
	}
	s.children[parentID] = kept
	removed := s.deleteSubtree(id)
	s.mu.Unlock()

	s.notify(Change{Event: "blocks", IDs: removed})
	return nil
}

// deleteSubtree removes id and descendants from every map, clearing
// selection and settings that pointed inside. Caller holds the lock.
func (s *Store) deleteSubtree(id string) []string {
	removed := []string{id}
	for _, cid := range s.children[id] {
		removed = append(removed, s.deleteSubtree(cid)...)
	}
	delete(s.blocks, id)
	delete(s.parent, id)
	delete(s.children, id)
	delete(s.settings, id)
	if s.selected == id {
		s.selected = ""
	}
	return removed
}

// clearChildren deletes the current children of parentID with their
// descendants. Caller holds the lock.
func (s *Store) clearChildren(parentID string) {
	for _, cid := range s.children[parentID] {
		s.deleteSubtree(cid)
	}
	s.children[parentID] = nil
}

// UpdateBlockAttributes merges attrs into a block's attribute map.
func (s *Store) UpdateBlockAttributes(id string, attrs map[string]any) error {
	s.mu.Lock()
	b, ok := s.blocks[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update attributes: unknown block %q", id)
	}
	merged := copyAttrs(b.Attributes)
	if merged == nil {
		merged = make(map[string]any, len(attrs))
	}
	for k, v := range attrs {
		merged[k] = v
	}
	b.Attributes = merged
	s.blocks[id] = b
	s.mu.Unlock()

	s.notify(Change{Event: "attributes", IDs: []string{id}})
	return nil
}

// ── List settings ──────────────────────────────────────────

// ListSettings returns the stored settings for a nested-list root.
func (s *Store) ListSettings(rootID string) (domain.ListSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.settings[rootID]
	return ls, ok
}

// UpdateListSettings stores merged settings for a root. Writes that
// change nothing are dropped so re-renders never thrash listeners.
func (s *Store) UpdateListSettings(rootID string, ls domain.ListSettings) {
	s.mu.Lock()
	if cur, ok := s.settings[rootID]; ok && cur.Equal(ls) {
		s.mu.Unlock()
		return
	}
	s.settings[rootID] = ls
	s.mu.Unlock()
	s.notify(Change{Event: "settings", IDs: []string{rootID}})
}

// ── Snapshots ──────────────────────────────────────────────

// Snapshot captures the full document state for persistence.
func (s *Store) Snapshot() domain.DocumentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := domain.DocumentState{}
	for _, id := range s.children[domain.RootID] {
		state.Blocks = append(state.Blocks, s.resolve(id))
	}
	if len(s.settings) > 0 {
		state.Settings = make(map[string]domain.ListSettings, len(s.settings))
		for k, v := range s.settings {
			state.Settings[k] = v
		}
	}
	return state
}

// Restore replaces the whole document with a snapshot.
func (s *Store) Restore(state domain.DocumentState) error {
	if err := s.ReplaceInnerBlocks(domain.RootID, state.Blocks); err != nil {
		return fmt.Errorf("restore document: %w", err)
	}
	s.mu.Lock()
	s.settings = make(map[string]domain.ListSettings, len(state.Settings))
	for k, v := range state.Settings {
		if _, ok := s.blocks[k]; ok || k == domain.RootID {
			s.settings[k] = v
		}
	}
	s.mu.Unlock()
	s.notify(Change{Event: "settings"})
	return nil
}

// ── helpers ────────────────────────────────────────────────

func copyAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
