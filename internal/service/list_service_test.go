package service_test

import (
	"context"
	"testing"

	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
	"blockdoc/internal/registry"
	"blockdoc/internal/service"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// ListService unit tests
// ─────────────────────────────────────────────────────────────

func newListService() (*service.ListService, *store.Store, *service.MockEmitter) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{Name: "doc/group"})
	reg.Register(&registry.Descriptor{Name: "doc/paragraph"})
	reg.Register(&registry.Descriptor{
		Name:          "doc/buttons",
		AllowedBlocks: []string{"doc/button"},
	})
	reg.Register(&registry.Descriptor{Name: "doc/button"})
	st := store.New(reg)
	emitter := &service.MockEmitter{}
	surface := editor.NewSurface(st, reg)
	return service.NewListService(st, reg, surface, emitter), st, emitter
}

func TestInsertBlock_EmitsAndInserts(t *testing.T) {
	svc, st, emitter := newListService()
	ctx := context.Background()

	id, err := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.GetBlock(id); !ok {
		t.Fatal("expected inserted block in store")
	}
	if len(emitter.Events) != 1 || emitter.Events[0].Event != "blocks:changed" {
		t.Errorf("expected blocks:changed event, got %v", emitter.Events)
	}
}

func TestInsertBlock_RespectsTemplateLock(t *testing.T) {
	svc, st, _ := newListService()
	ctx := context.Background()

	group, err := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	if err != nil {
		t.Fatal(err)
	}
	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockInsert})

	if _, err := svc.InsertBlock(ctx, group, -1, domain.Block{Type: "doc/paragraph"}); err == nil {
		t.Error("expected insertion into a locked list to be rejected")
	}
}

func TestInsertBlock_LockInheritsFromAncestor(t *testing.T) {
	svc, st, _ := newListService()
	ctx := context.Background()

	outer, _ := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	st.UpdateListSettings(outer, domain.ListSettings{TemplateLock: domain.TemplateLockAll})
	inner, err := st.InsertBlocks(outer, -1, []domain.Block{{Type: "doc/group"}})
	if err != nil {
		t.Fatal(err)
	}

	// The inner list never set a lock; it inherits "all".
	if _, err := svc.InsertBlock(ctx, inner[0], -1, domain.Block{Type: "doc/paragraph"}); err == nil {
		t.Error("expected inherited lock to reject insertion")
	}
}

func TestInsertBlock_RespectsAllowedTypes(t *testing.T) {
	svc, st, _ := newListService()
	ctx := context.Background()

	group, _ := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	st.UpdateListSettings(group, domain.ListSettings{AllowedTypes: []string{"doc/paragraph"}})

	if _, err := svc.InsertBlock(ctx, group, -1, domain.Block{Type: "doc/button"}); err == nil {
		t.Error("expected disallowed type to be rejected")
	}
	if _, err := svc.InsertBlock(ctx, group, -1, domain.Block{Type: "doc/paragraph"}); err != nil {
		t.Errorf("expected allowed type to insert, got %v", err)
	}
}

func TestInsertBlock_RespectsParentCapability(t *testing.T) {
	svc, _, _ := newListService()
	ctx := context.Background()

	buttons, err := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/buttons"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.InsertBlock(ctx, buttons, -1, domain.Block{Type: "doc/paragraph"}); err == nil {
		t.Error("expected parent capability to reject foreign child type")
	}
	if _, err := svc.InsertBlock(ctx, buttons, -1, domain.Block{Type: "doc/button"}); err != nil {
		t.Errorf("expected accepted child type to insert, got %v", err)
	}
}

func TestRemoveBlock_RespectsLockAndForgets(t *testing.T) {
	svc, st, _ := newListService()
	ctx := context.Background()

	group, _ := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	child, _ := svc.InsertBlock(ctx, group, -1, domain.Block{Type: "doc/paragraph"})

	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockAll})
	if err := svc.RemoveBlock(ctx, child); err == nil {
		t.Error("expected removal from a locked list to be rejected")
	}

	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockNone})
	if err := svc.RemoveBlock(ctx, child); err != nil {
		t.Fatalf("expected removal from unlocked list, got %v", err)
	}
	if _, ok := st.GetBlock(child); ok {
		t.Error("expected block removed from store")
	}
}

func TestUpdateBlockAttributes_IgnoresLocks(t *testing.T) {
	svc, st, _ := newListService()
	ctx := context.Background()

	group, _ := svc.InsertBlock(ctx, domain.RootID, -1, domain.Block{Type: "doc/group"})
	child, _ := svc.InsertBlock(ctx, group, -1, domain.Block{Type: "doc/paragraph"})
	st.UpdateListSettings(group, domain.ListSettings{TemplateLock: domain.TemplateLockAll})

	if err := svc.UpdateBlockAttributes(ctx, child, map[string]any{"content": "hi"}); err != nil {
		t.Fatalf("attribute edits are content, not structure: %v", err)
	}
	b, _ := st.GetBlock(child)
	if b.Attributes["content"] != "hi" {
		t.Errorf("expected attribute update applied, got %v", b.Attributes)
	}
}
