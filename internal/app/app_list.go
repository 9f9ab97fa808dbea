package app

import (
	"blockdoc/internal/domain"
	"blockdoc/internal/editor"
)

// ============================================================
// Nested Lists
// ============================================================

// ListOptionsInput is the frontend-facing shape of per-list options.
// Templates are referenced by library name; controlled mode stays a
// backend concern and is not exposed over the bindings.
type ListOptionsInput struct {
	AllowedTypes    []string `json:"allowedTypes,omitempty"`
	TemplateName    string   `json:"templateName,omitempty"`
	TemplateLock    string   `json:"templateLock,omitempty"`
	CaptureToolbars bool     `json:"captureToolbars"`
	Orientation     string   `json:"orientation,omitempty"`
	Appender        string   `json:"appender,omitempty"`
	TagName         string   `json:"tagName,omitempty"`

	TemplateInsertUpdatesSelection bool `json:"templateInsertUpdatesSelection"`
}

func (a *App) listOptions(input ListOptionsInput) editor.ListOptions {
	opts := editor.ListOptions{
		AllowedTypes:    input.AllowedTypes,
		TemplateLock:    domain.TemplateLock(input.TemplateLock),
		CaptureToolbars: input.CaptureToolbars,
		Orientation:     domain.Orientation(input.Orientation),
		Appender:        editor.Appender(input.Appender),
		TagName:         input.TagName,

		TemplateInsertUpdatesSelection: input.TemplateInsertUpdatesSelection,
	}
	if input.TemplateName != "" {
		if tmpl, ok := a.templates.Get(input.TemplateName); ok {
			opts.Template = tmpl
		}
	}
	return opts
}

// RenderList runs a render pass for the nested list inside blockID and
// returns the wrapper node tree for the frontend to paint.
func (a *App) RenderList(blockID string, input ListOptionsInput) (*domain.RenderNode, error) {
	return a.lists.Render(blockID, a.listOptions(input))
}

// RenderListContent renders just the nested content, without editing
// affordances. Used for previews.
func (a *App) RenderListContent(blockID string) *domain.RenderNode {
	return a.lists.RenderContent(blockID)
}

// MergeListProps returns merged wrapper-element props for frontends
// that own the wrapper element themselves.
func (a *App) MergeListProps(blockID string, props domain.ElementProps, input ListOptionsInput) (domain.ElementProps, *domain.RenderNode, error) {
	return a.lists.MergeProps(blockID, props, a.listOptions(input))
}

// InsertBlock inserts a new block under parentID at index (-1 appends).
func (a *App) InsertBlock(parentID string, index int, blockType string, attrs map[string]any) (string, error) {
	return a.lists.InsertBlock(a.ctx, parentID, index, domain.Block{Type: blockType, Attributes: attrs})
}

// RemoveBlock removes a block and its subtree.
func (a *App) RemoveBlock(id string) error {
	return a.lists.RemoveBlock(a.ctx, id)
}

// UpdateBlockAttributes merges attributes into a block.
func (a *App) UpdateBlockAttributes(id string, attrs map[string]any) error {
	return a.lists.UpdateBlockAttributes(a.ctx, id, attrs)
}

// SelectBlock moves the editor selection.
func (a *App) SelectBlock(id string) {
	a.lists.SelectBlock(a.ctx, id)
}

// SetNavigationMode toggles navigation mode.
func (a *App) SetNavigationMode(on bool) {
	a.lists.SetNavigationMode(a.ctx, on)
}

// GetListSettings returns the effective settings of a list after
// ancestor inheritance.
func (a *App) GetListSettings(blockID string) domain.ListSettings {
	return editor.EffectiveSettings(a.store, blockID)
}

// UpdateListSettings overwrites a list's own settings.
func (a *App) UpdateListSettings(blockID string, ls domain.ListSettings) {
	a.store.UpdateListSettings(blockID, ls)
	a.Emit(a.ctx, "settings:changed", map[string]string{"blockId": blockID})
}

// ListTemplates returns the names of the loaded template files.
func (a *App) ListTemplates() []string {
	return a.templates.Names()
}

// ResizeViewport records the new window size. Width feeds the overlay
// click-through breakpoint; both dimensions are persisted for the next
// session.
func (a *App) ResizeViewport(width, height int) error {
	a.surface.SetViewportWidth(width)
	return a.viewport.SaveViewportSize(width, height)
}
