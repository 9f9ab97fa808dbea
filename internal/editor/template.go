package editor

import (
	"encoding/json"
	"fmt"
	"sync"

	"blockdoc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Template Synchronizer — reconcile children against a template
// ─────────────────────────────────────────────────────────────

// TemplateSynchronizer keeps nested lists in line with their declared
// templates. On the first association of a root with a non-empty
// template and no existing children it synthesizes the template's
// blocks; afterwards it only keeps enforcing the template when the
// lock mode is "all". Re-running with identical inputs is a no-op.
type TemplateSynchronizer struct {
	// ReapplyInsertions controls what happens when the template grows
	// after mount under lock "insert": when true, positions the
	// template gained are appended (never replacing user edits); when
	// false the changed template is ignored, like lock "none".
	ReapplyInsertions bool

	mu      sync.Mutex
	applied map[string]string // rootID → fingerprint of last seen template
}

// NewTemplateSynchronizer creates a synchronizer with the default
// policy (template changes under lock "insert" are ignored).
func NewTemplateSynchronizer() *TemplateSynchronizer {
	return &TemplateSynchronizer{applied: make(map[string]string)}
}

// Sync reconciles the children of rootID against tmpl under the given
// lock mode. updateSelection moves the selection to the first block a
// template-driven insertion creates. Safe to call on every render
// pass; errors come only from rejected store mutations.
func (ts *TemplateSynchronizer) Sync(st domain.Store, rootID string, tmpl []domain.TemplateNode, lock domain.TemplateLock, updateSelection bool) error {
	// A root removed between scheduling and execution must not be
	// resynthesized from a stale template.
	if rootID != domain.RootID {
		if _, ok := st.GetBlockName(rootID); !ok {
			ts.Forget(rootID)
			return nil
		}
	}

	// An absent template associates nothing; the first non-empty
	// template to arrive still counts as the first association.
	if len(tmpl) == 0 {
		return nil
	}

	fp := fingerprint(tmpl)
	ts.mu.Lock()
	prev, seen := ts.applied[rootID]
	ts.applied[rootID] = fp
	ts.mu.Unlock()

	children := st.ChildIDs(rootID)

	if !seen {
		// First association. Existing children win: a template is
		// never applied retroactively over user content.
		if len(children) > 0 {
			return nil
		}
		return ts.synthesize(st, rootID, tmpl, updateSelection)
	}

	switch lock {
	case domain.TemplateLockAll:
		// The template stays authoritative: reconcile by position on
		// every pass, skipping when the shape already matches.
		if matchesByPosition(st, children, tmpl) {
			return nil
		}
		return ts.reconcile(st, rootID, children, tmpl)
	case domain.TemplateLockInsert:
		if !ts.ReapplyInsertions || fp == prev {
			return nil
		}
		if len(tmpl) <= len(children) {
			return nil
		}
		add := blocksFromTemplate(tmpl[len(children):])
		_, err := st.InsertBlocks(rootID, -1, add)
		if err != nil {
			return fmt.Errorf("template sync: append: %w", err)
		}
		return nil
	default:
		// Unlocked lists take the template exactly once; later user
		// edits are never overwritten.
		return nil
	}
}

// Forget drops the synchronizer's memory of a root, typically after
// the block is removed. The next association counts as first mount.
func (ts *TemplateSynchronizer) Forget(rootID string) {
	ts.mu.Lock()
	delete(ts.applied, rootID)
	ts.mu.Unlock()
}

func (ts *TemplateSynchronizer) synthesize(st domain.Store, rootID string, tmpl []domain.TemplateNode, updateSelection bool) error {
	ids, err := st.InsertBlocks(rootID, 0, blocksFromTemplate(tmpl))
	if err != nil {
		return fmt.Errorf("template sync: insert: %w", err)
	}
	if updateSelection && len(ids) > 0 {
		st.SelectBlock(ids[0])
	}
	return nil
}

// reconcile rebuilds the child list position by position: a child
// whose type matches the template node at its position is kept as-is
// (edits to its attributes survive), everything else is replaced by a
// freshly synthesized block. Extra children fall off the end.
func (ts *TemplateSynchronizer) reconcile(st domain.Store, rootID string, children []string, tmpl []domain.TemplateNode) error {
	next := make([]domain.Block, 0, len(tmpl))
	for i, node := range tmpl {
		if i < len(children) {
			if cur, ok := st.GetBlock(children[i]); ok && cur.Type == node.Type {
				next = append(next, cur)
				continue
			}
		}
		next = append(next, blockFromTemplate(node))
	}
	if err := st.ReplaceInnerBlocks(rootID, next); err != nil {
		return fmt.Errorf("template sync: reconcile: %w", err)
	}
	return nil
}

// matchesByPosition reports whether the child types already line up
// with the template, so a locked list avoids rewriting itself.
func matchesByPosition(st domain.BlockReader, children []string, tmpl []domain.TemplateNode) bool {
	if len(children) != len(tmpl) {
		return false
	}
	for i, id := range children {
		name, ok := st.GetBlockName(id)
		if !ok || name != tmpl[i].Type {
			return false
		}
	}
	return true
}

// blocksFromTemplate synthesizes block trees matching template nodes.
// Ids are left empty for the store to mint.
func blocksFromTemplate(tmpl []domain.TemplateNode) []domain.Block {
	blocks := make([]domain.Block, 0, len(tmpl))
	for _, node := range tmpl {
		blocks = append(blocks, blockFromTemplate(node))
	}
	return blocks
}

func blockFromTemplate(node domain.TemplateNode) domain.Block {
	b := domain.Block{Type: node.Type}
	if len(node.Attributes) > 0 {
		b.Attributes = make(map[string]any, len(node.Attributes))
		for k, v := range node.Attributes {
			b.Attributes[k] = v
		}
	}
	if len(node.Children) > 0 {
		b.InnerBlocks = blocksFromTemplate(node.Children)
	}
	return b
}

// fingerprint produces a stable identity for a template. JSON map keys
// marshal sorted, so equal templates always fingerprint equal.
func fingerprint(tmpl []domain.TemplateNode) string {
	if len(tmpl) == 0 {
		return ""
	}
	data, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Sprintf("unmarshalable:%d", len(tmpl))
	}
	return string(data)
}
