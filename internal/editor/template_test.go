package editor_test

import (
	"testing"

	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// Template Synchronizer tests
// ─────────────────────────────────────────────────────────────

var buttonsTemplate = []domain.TemplateNode{
	{Type: "doc/paragraph", Attributes: map[string]any{"placeholder": "Write…"}},
	{Type: "doc/button"},
}

func TestSync_SynthesizesOnFirstAssociation(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if len(children) != 2 {
		t.Fatalf("expected 2 synthesized children, got %d", len(children))
	}
	if name, _ := st.GetBlockName(children[0]); name != "doc/paragraph" {
		t.Errorf("expected first child doc/paragraph, got %q", name)
	}
	b, _ := st.GetBlock(children[0])
	if b.Attributes["placeholder"] != "Write…" {
		t.Errorf("expected template attributes on synthesized block, got %v", b.Attributes)
	}
}

func TestSync_IdempotentAcrossRenders(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
		t.Fatal(err)
	}

	var blockEvents int
	unsub := st.Subscribe(func(c store.Change) {
		if c.Event == "blocks" {
			blockEvents++
		}
	})
	defer unsub()

	for i := 0; i < 3; i++ {
		if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
			t.Fatal(err)
		}
	}
	if blockEvents != 0 {
		t.Errorf("expected re-renders with identical template to be no-ops, got %d mutations", blockEvents)
	}
}

func TestSync_NeverAppliesRetroactively(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	existing := insertOne(st, root, domain.Block{Type: "doc/button"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if len(children) != 1 || children[0] != existing {
		t.Errorf("expected existing user content untouched, got %v", children)
	}
}

func TestSync_LockAllRevertsForeignInsertion(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockAll, false); err != nil {
		t.Fatal(err)
	}
	// Direct user insertion bypassing the lock.
	if _, err := st.InsertBlocks(root, 1, []domain.Block{{Type: "doc/group"}}); err != nil {
		t.Fatal(err)
	}

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockAll, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if len(children) != 2 {
		t.Fatalf("expected template shape restored, got %d children", len(children))
	}
	types := []string{}
	for _, id := range children {
		name, _ := st.GetBlockName(id)
		types = append(types, name)
	}
	if types[0] != "doc/paragraph" || types[1] != "doc/button" {
		t.Errorf("expected [doc/paragraph doc/button], got %v", types)
	}
}

func TestSync_LockAllKeepsMatchingChildrenEdits(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockAll, false); err != nil {
		t.Fatal(err)
	}
	first := st.ChildIDs(root)[0]
	if err := st.UpdateBlockAttributes(first, map[string]any{"content": "edited"}); err != nil {
		t.Fatal(err)
	}

	// Template change that keeps position 0's type: the edited block
	// survives, position 1 is replaced.
	changed := []domain.TemplateNode{
		{Type: "doc/paragraph", Attributes: map[string]any{"placeholder": "Write…"}},
		{Type: "doc/group"},
	}
	if err := ts.Sync(st, root, changed, domain.TemplateLockAll, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if children[0] != first {
		t.Errorf("expected matching child kept by position, got new id %q", children[0])
	}
	b, _ := st.GetBlock(children[0])
	if b.Attributes["content"] != "edited" {
		t.Errorf("expected user edit to survive reconciliation, got %v", b.Attributes)
	}
	if name, _ := st.GetBlockName(children[1]); name != "doc/group" {
		t.Errorf("expected mismatched position replaced, got %q", name)
	}
}

func TestSync_UnlockedUserEditsPersist(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
		t.Fatal(err)
	}
	inserted := insertOne(st, root, domain.Block{Type: "doc/group"})

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if len(children) != 3 || children[2] != inserted {
		t.Errorf("expected direct insertion to persist without a lock, got %v", children)
	}
}

func TestSync_LockInsertIgnoresTemplateGrowthByDefault(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockInsert, false); err != nil {
		t.Fatal(err)
	}
	grown := append(append([]domain.TemplateNode{}, buttonsTemplate...), domain.TemplateNode{Type: "doc/group"})
	if err := ts.Sync(st, root, grown, domain.TemplateLockInsert, false); err != nil {
		t.Fatal(err)
	}

	if n := len(st.ChildIDs(root)); n != 2 {
		t.Errorf("expected grown template ignored under default policy, got %d children", n)
	}
}

func TestSync_LockInsertReappliesAdditionsWhenConfigured(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()
	ts.ReapplyInsertions = true

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockInsert, false); err != nil {
		t.Fatal(err)
	}
	first := st.ChildIDs(root)[0]
	if err := st.UpdateBlockAttributes(first, map[string]any{"content": "mine"}); err != nil {
		t.Fatal(err)
	}

	grown := append(append([]domain.TemplateNode{}, buttonsTemplate...), domain.TemplateNode{Type: "doc/group"})
	if err := ts.Sync(st, root, grown, domain.TemplateLockInsert, false); err != nil {
		t.Fatal(err)
	}

	children := st.ChildIDs(root)
	if len(children) != 3 {
		t.Fatalf("expected the addition appended, got %d children", len(children))
	}
	if children[0] != first {
		t.Errorf("expected existing blocks untouched, got %v", children)
	}
	b, _ := st.GetBlock(first)
	if b.Attributes["content"] != "mine" {
		t.Errorf("expected user edit untouched by additions, got %v", b.Attributes)
	}
	if name, _ := st.GetBlockName(children[2]); name != "doc/group" {
		t.Errorf("expected appended block doc/group, got %q", name)
	}
}

func TestSync_UpdatesSelectionWhenAsked(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockNone, true); err != nil {
		t.Fatal(err)
	}
	selected, ok := st.SelectedBlock()
	if !ok || selected != st.ChildIDs(root)[0] {
		t.Errorf("expected selection on first synthesized block, got %q", selected)
	}
}

func TestSync_RemovedRootIsIgnored(t *testing.T) {
	st, _ := newTestEnv()
	root := insertOne(st, domain.RootID, domain.Block{Type: "doc/group"})
	ts := editor.NewTemplateSynchronizer()

	if err := st.RemoveBlock(root); err != nil {
		t.Fatal(err)
	}
	if err := ts.Sync(st, root, buttonsTemplate, domain.TemplateLockAll, false); err != nil {
		t.Fatal(err)
	}
	if n := len(st.ChildIDs(root)); n != 0 {
		t.Errorf("expected no synthesis for an unmounted root, got %d children", n)
	}
}
