package service

import (
	"context"
	"fmt"

	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
	"blockdoc/internal/registry"
	"blockdoc/internal/store"
)

// ─────────────────────────────────────────────────────────────
// List Service — business logic for nested block lists
// ─────────────────────────────────────────────────────────────

// ListService fronts the editor surface for the app and MCP layers:
// render passes go straight through, structural mutations are checked
// against the effective list settings first.
type ListService struct {
	store   *store.Store
	reg     *registry.Registry
	surface *editor.Surface
	emitter EventEmitter
}

// NewListService creates a ListService around a document's store.
func NewListService(st *store.Store, reg *registry.Registry, surface *editor.Surface, emitter EventEmitter) *ListService {
	return &ListService{store: st, reg: reg, surface: surface, emitter: emitter}
}

// Surface exposes the underlying render surface.
func (s *ListService) Surface() *editor.Surface {
	return s.surface
}

// Render runs a render pass for the nested list inside blockID.
func (s *ListService) Render(blockID string, opts editor.ListOptions) (*domain.RenderNode, error) {
	return s.surface.Render(blockID, opts)
}

// MergeProps is the render entry point for callers that own the
// wrapper element.
func (s *ListService) MergeProps(blockID string, props domain.ElementProps, opts editor.ListOptions) (domain.ElementProps, *domain.RenderNode, error) {
	return s.surface.MergeProps(blockID, props, opts)
}

// RenderContent renders just the nested content for display contexts.
func (s *ListService) RenderContent(blockID string) *domain.RenderNode {
	return s.surface.RenderContent(blockID)
}

// InsertBlock inserts a block under parentID at index after checking
// the effective lock and allowed-type policy for that list.
func (s *ListService) InsertBlock(ctx context.Context, parentID string, index int, b domain.Block) (string, error) {
	if err := s.checkInsertable(parentID, b.Type); err != nil {
		return "", err
	}
	ids, err := s.store.InsertBlocks(parentID, index, []domain.Block{b})
	if err != nil {
		return "", fmt.Errorf("insert block: %w", err)
	}
	s.emitter.Emit(ctx, "blocks:changed", map[string]string{"parentId": parentID})
	return ids[0], nil
}

// RemoveBlock removes a block unless its list is locked.
func (s *ListService) RemoveBlock(ctx context.Context, id string) error {
	parentID, _ := s.store.ParentID(id)
	ls := editor.EffectiveSettings(s.store, parentID)
	if ls.TemplateLock == domain.TemplateLockAll || ls.TemplateLock == domain.TemplateLockInsert {
		return fmt.Errorf("remove block: list %q is locked (%s)", parentID, ls.TemplateLock)
	}
	if err := s.store.RemoveBlock(id); err != nil {
		return err
	}
	// The removed subtree must not be resynthesized from stale
	// template state if an id is ever reused.
	s.surface.Synchronizer().Forget(id)
	s.emitter.Emit(ctx, "blocks:changed", map[string]string{"parentId": parentID})
	return nil
}

// UpdateBlockAttributes merges attributes into a block. Attribute
// edits are content, not structure: locks do not apply.
func (s *ListService) UpdateBlockAttributes(ctx context.Context, id string, attrs map[string]any) error {
	if err := s.store.UpdateBlockAttributes(id, attrs); err != nil {
		return err
	}
	s.emitter.Emit(ctx, "block:attributes-updated", map[string]string{"blockId": id})
	return nil
}

// SelectBlock moves the selection.
func (s *ListService) SelectBlock(ctx context.Context, id string) {
	s.store.SelectBlock(id)
	s.emitter.Emit(ctx, "selection:changed", map[string]string{"blockId": id})
}

// SetNavigationMode toggles navigation mode.
func (s *ListService) SetNavigationMode(ctx context.Context, on bool) {
	s.store.SetNavigationMode(on)
	s.emitter.Emit(ctx, "navigation:changed", map[string]bool{"enabled": on})
}

// DocumentState snapshots the live document for the frontend.
func (s *ListService) DocumentState() domain.DocumentState {
	return s.store.Snapshot()
}

// checkInsertable validates a child type against the effective
// settings of the target list and the parent type's capability.
func (s *ListService) checkInsertable(parentID, childType string) error {
	ls := editor.EffectiveSettings(s.store, parentID)
	if ls.TemplateLock == domain.TemplateLockAll || ls.TemplateLock == domain.TemplateLockInsert {
		return fmt.Errorf("insert block: list %q is locked (%s)", parentID, ls.TemplateLock)
	}
	if ls.AllowedTypes != nil && !containsType(ls.AllowedTypes, childType) {
		return fmt.Errorf("insert block: type %q is not allowed in list %q", childType, parentID)
	}
	if parentID != domain.RootID {
		if name, ok := s.store.GetBlockName(parentID); ok {
			if desc := s.reg.Get(name); desc != nil && desc.AllowedBlocks != nil {
				if !containsType(desc.AllowedBlocks, childType) {
					return fmt.Errorf("insert block: type %q is not accepted by %q", childType, name)
				}
			}
		}
	}
	return nil
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
