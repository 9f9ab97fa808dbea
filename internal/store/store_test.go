package store_test

import (
	"testing"

	"blockdoc/internal/domain"
	"blockdoc/internal/registry"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// Block store tests
// ─────────────────────────────────────────────────────────────

func newStore() *store.Store {
	reg := registry.New()
	reg.Register(&registry.Descriptor{Name: "doc/group"})
	reg.Register(&registry.Descriptor{Name: "doc/paragraph"})
	return store.New(reg)
}

func TestInsertBlocks_MintsIDsAndPreservesOrder(t *testing.T) {
	st := newStore()
	ids, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{
		{Type: "doc/paragraph"},
		{Type: "doc/group"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] == "" || ids[1] == "" {
		t.Fatalf("expected two minted ids, got %v", ids)
	}
	children := st.ChildIDs(domain.RootID)
	if len(children) != 2 || children[0] != ids[0] || children[1] != ids[1] {
		t.Errorf("expected insertion order preserved, got %v", children)
	}
}

func TestInsertBlocks_AtIndex(t *testing.T) {
	st := newStore()
	first, _ := st.InsertBlocks(domain.RootID, -1, []domain.Block{{Type: "doc/paragraph"}, {Type: "doc/paragraph"}})
	mid, err := st.InsertBlocks(domain.RootID, 1, []domain.Block{{Type: "doc/group"}})
	if err != nil {
		t.Fatal(err)
	}
	children := st.ChildIDs(domain.RootID)
	want := []string{first[0], mid[0], first[1]}
	for i := range want {
		if children[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, children)
		}
	}
}

func TestInsertBlocks_RejectsUnknownType(t *testing.T) {
	st := newStore()
	_, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{{Type: "doc/mystery"}})
	if err == nil {
		t.Fatal("expected unknown type to reject the mutation")
	}
	if n := len(st.ChildIDs(domain.RootID)); n != 0 {
		t.Errorf("rejected insert must not leave partial state, got %d children", n)
	}
}

func TestInsertBlocks_RejectsUnknownNestedType(t *testing.T) {
	st := newStore()
	_, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type:        "doc/group",
		InnerBlocks: []domain.Block{{Type: "doc/mystery"}},
	}})
	if err == nil {
		t.Fatal("expected nested unknown type to reject the whole tree")
	}
}

func TestGetBlock_ResolvesSubtree(t *testing.T) {
	st := newStore()
	ids, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type: "doc/group",
		InnerBlocks: []domain.Block{
			{Type: "doc/paragraph", Attributes: map[string]any{"content": "hi"}},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	b, ok := st.GetBlock(ids[0])
	if !ok {
		t.Fatal("expected block to exist")
	}
	if len(b.InnerBlocks) != 1 || b.InnerBlocks[0].Attributes["content"] != "hi" {
		t.Errorf("expected resolved inner blocks, got %+v", b)
	}
}

func TestRemoveBlock_CascadesAndClearsState(t *testing.T) {
	st := newStore()
	ids, _ := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type:        "doc/group",
		InnerBlocks: []domain.Block{{Type: "doc/paragraph"}},
	}})
	group := ids[0]
	child := st.ChildIDs(group)[0]
	st.SelectBlock(child)
	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockAll})

	if err := st.RemoveBlock(group); err != nil {
		t.Fatal(err)
	}

	if _, ok := st.GetBlock(child); ok {
		t.Error("expected descendant removed by cascade")
	}
	if _, ok := st.SelectedBlock(); ok {
		t.Error("expected selection inside the subtree cleared")
	}
	if _, ok := st.ListSettings(group); ok {
		t.Error("expected settings slot dropped with the block")
	}
}

func TestReplaceInnerBlocks_SwapsChildSet(t *testing.T) {
	st := newStore()
	ids, _ := st.InsertBlocks(domain.RootID, -1, []domain.Block{{Type: "doc/group"}})
	group := ids[0]
	if _, err := st.InsertBlocks(group, -1, []domain.Block{{Type: "doc/paragraph"}}); err != nil {
		t.Fatal(err)
	}
	old := st.ChildIDs(group)[0]

	err := st.ReplaceInnerBlocks(group, []domain.Block{
		{ID: "kept", Type: "doc/paragraph"},
		{Type: "doc/group"},
	})
	if err != nil {
		t.Fatal(err)
	}
	children := st.ChildIDs(group)
	if len(children) != 2 || children[0] != "kept" {
		t.Fatalf("expected replacement child set, got %v", children)
	}
	if _, ok := st.GetBlock(old); ok {
		t.Error("expected previous children removed")
	}
}

func TestHasSelectedInnerBlock_ShallowVsDeep(t *testing.T) {
	st := newStore()
	ids, _ := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type: "doc/group",
		InnerBlocks: []domain.Block{{
			Type:        "doc/group",
			InnerBlocks: []domain.Block{{Type: "doc/paragraph"}},
		}},
	}})
	outer := ids[0]
	mid := st.ChildIDs(outer)[0]
	leaf := st.ChildIDs(mid)[0]

	st.SelectBlock(leaf)
	if st.HasSelectedInnerBlock(outer, false) {
		t.Error("shallow check must not see a grandchild selection")
	}
	if !st.HasSelectedInnerBlock(outer, true) {
		t.Error("deep check must see a grandchild selection")
	}
	if !st.HasSelectedInnerBlock(mid, false) {
		t.Error("shallow check should see a direct child selection")
	}
}

func TestUpdateBlockAttributes_Merges(t *testing.T) {
	st := newStore()
	ids, _ := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type:       "doc/paragraph",
		Attributes: map[string]any{"content": "a", "align": "left"},
	}})
	if err := st.UpdateBlockAttributes(ids[0], map[string]any{"content": "b"}); err != nil {
		t.Fatal(err)
	}
	b, _ := st.GetBlock(ids[0])
	if b.Attributes["content"] != "b" || b.Attributes["align"] != "left" {
		t.Errorf("expected merged attributes, got %v", b.Attributes)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	st := newStore()
	if _, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{{
		Type:        "doc/group",
		InnerBlocks: []domain.Block{{Type: "doc/paragraph", Attributes: map[string]any{"content": "x"}}},
	}}); err != nil {
		t.Fatal(err)
	}
	group := st.ChildIDs(domain.RootID)[0]
	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockInsert})

	snap := st.Snapshot()

	other := newStore()
	if err := other.Restore(snap); err != nil {
		t.Fatal(err)
	}
	if n := len(other.ChildIDs(domain.RootID)); n != 1 {
		t.Fatalf("expected restored top-level block, got %d", n)
	}
	ls, ok := other.ListSettings(group)
	if !ok || ls.TemplateLock != domain.TemplateLockInsert {
		t.Errorf("expected settings restored, got %v (ok=%v)", ls, ok)
	}
}

func TestSubscribe_NotifiesAndUnsubscribes(t *testing.T) {
	st := newStore()
	var events []store.Change
	unsub := st.Subscribe(func(c store.Change) { events = append(events, c) })

	if _, err := st.InsertBlocks(domain.RootID, -1, []domain.Block{{Type: "doc/group"}}); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Event != "blocks" {
		t.Fatalf("expected one blocks event, got %v", events)
	}

	unsub()
	st.SetNavigationMode(true)
	if len(events) != 1 {
		t.Errorf("expected no events after unsubscribe, got %v", events)
	}
}
