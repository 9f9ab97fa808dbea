package editor

import (
	"strings"
	"sync"

	"blockdoc/internal/domain"
	"blockdoc/internal/registry"
)

// ─────────────────────────────────────────────────────────────
// Nested List Surface — render entry points for nested blocks
// ─────────────────────────────────────────────────────────────

// NonOverlayType is the reserved wrapper type that never shows an
// inert overlay over its children.
const NonOverlayType = "doc/root"

// MediumBreakpoint is the viewport width (px) below which overlays
// become click-through even outside navigation mode.
const MediumBreakpoint = 782

// Appender identifies a reusable appender configuration. These are
// values handed back to the frontend, not behaviors.
type Appender string

const (
	// AppenderDefault is the standard inline appender placeholder.
	AppenderDefault Appender = "default"
	// AppenderButton is the explicit button appender placeholder.
	AppenderButton Appender = "button"
)

const (
	defaultTagName  = "div"
	baseListClass   = "nested-block-list"
	overlayClass    = "has-overlay"
	captureClass    = "is-capturing-toolbar"
	horizontalClass = "is-horizontal"
)

// ListOptions are the caller-supplied options for one nested list.
type ListOptions struct {
	AllowedTypes    []string
	Template        []domain.TemplateNode
	TemplateLock    domain.TemplateLock
	CaptureToolbars bool
	Orientation     domain.Orientation

	// Value and OnChange switch the list to controlled mode when both
	// are present on the same render pass.
	Value    []domain.Block
	OnChange func([]domain.Block)

	// Appender, when set, adds an appender placeholder to the list.
	Appender Appender

	// TagName overrides the wrapper element ("div" by default).
	TagName string

	// TemplateInsertUpdatesSelection moves selection to the first
	// block a template synthesis inserts.
	TemplateInsertUpdatesSelection bool
}

// Surface renders nested block lists. One Surface serves a whole
// document; per-root reconciliation state lives in the synchronizer.
type Surface struct {
	store domain.Store
	reg   *registry.Registry
	sync  *TemplateSynchronizer

	mu            sync.Mutex
	viewportWidth int
}

// NewSurface creates a Surface over a store and type registry.
func NewSurface(store domain.Store, reg *registry.Registry) *Surface {
	return &Surface{
		store:         store,
		reg:           reg,
		sync:          NewTemplateSynchronizer(),
		viewportWidth: 1280,
	}
}

// Synchronizer exposes the template synchronizer so the host can set
// reconciliation policy and forget removed roots.
func (s *Surface) Synchronizer() *TemplateSynchronizer {
	return s.sync
}

// SetViewportWidth records the current viewport width for the
// click-through gate. Called by the host on window resize.
func (s *Surface) SetViewportWidth(w int) {
	s.mu.Lock()
	s.viewportWidth = w
	s.mu.Unlock()
}

func (s *Surface) smallViewport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewportWidth < MediumBreakpoint
}

// Render runs one full render pass for the nested list inside blockID
// and returns the wrapper node. Side effects (controlled sync,
// settings propagation, template reconciliation) run first, in that
// order, so the synchronizer sees the lock the propagator wrote.
func (s *Surface) Render(blockID string, opts ListOptions) (*domain.RenderNode, error) {
	list, hasOverlay, clickThrough, err := s.renderList(blockID, opts)
	if err != nil {
		return nil, err
	}

	classes := []string{baseListClass}
	if hasOverlay {
		classes = append(classes, overlayClass)
	}
	if opts.CaptureToolbars {
		classes = append(classes, captureClass)
	}
	if list.Orientation == domain.OrientationHorizontal {
		classes = append(classes, horizontalClass)
	}

	tag := opts.TagName
	if tag == "" {
		tag = defaultTagName
	}

	node := &domain.RenderNode{
		TagName:      tag,
		ClassName:    strings.Join(classes, " "),
		BlockID:      blockID,
		Orientation:  list.Orientation,
		ClickThrough: clickThrough,
		Context:      list.Context,
		Children:     list.Children,
	}
	if name, ok := s.store.GetBlockName(blockID); ok {
		node.BlockType = name
	}
	return node, nil
}

// MergeProps is the entry point for callers that own their wrapper
// element: it augments the supplied props (class names merged, ref
// forwarded untouched) and returns the renderable list as a child.
func (s *Surface) MergeProps(blockID string, props domain.ElementProps, opts ListOptions) (domain.ElementProps, *domain.RenderNode, error) {
	list, hasOverlay, clickThrough, err := s.renderList(blockID, opts)
	if err != nil {
		return props, nil, err
	}

	classes := []string{baseListClass}
	if props.ClassName != "" {
		classes = append([]string{props.ClassName}, classes...)
	}
	if hasOverlay {
		classes = append(classes, overlayClass)
	}
	if opts.CaptureToolbars {
		classes = append(classes, captureClass)
	}
	merged := props
	merged.ClassName = strings.Join(classes, " ")
	if merged.TagName == "" {
		merged.TagName = defaultTagName
	}
	list.ClickThrough = clickThrough
	return merged, list, nil
}

// Writer returns the mutation handle for a list on this render pass:
// the shared store when uncontrolled, a callback-routing writer when
// the (value, onChange) pair puts the list in controlled mode.
func (s *Surface) Writer(blockID string, opts ListOptions) domain.BlockWriter {
	if ResolveMode(opts.Value, opts.OnChange) == Controlled {
		return NewControlledWriter(s.store, blockID, opts.OnChange)
	}
	return s.store
}

// RenderContent is the content-only path: just the nested content,
// wrapped in the block's context when its type provides one, with no
// editor affordances (no overlay, no appender, no settings or template
// side effects).
func (s *Surface) RenderContent(blockID string) *domain.RenderNode {
	node := &domain.RenderNode{BlockID: blockID}
	name, ok := s.store.GetBlockName(blockID)
	if ok {
		node.BlockType = name
		if b, found := s.store.GetBlock(blockID); found {
			if bag := ResolveContext(s.reg.Get(name), b.Attributes); bag != nil {
				node.Context = bag
			}
		}
	}
	for _, childID := range s.store.ChildIDs(blockID) {
		childType, _ := s.store.GetBlockName(childID)
		node.Children = append(node.Children, domain.RenderNode{
			BlockID:   childID,
			BlockType: childType,
		})
	}
	return node
}

// renderList performs the shared side-effect pipeline and builds the
// inner list node plus the overlay flags.
func (s *Surface) renderList(blockID string, opts ListOptions) (*domain.RenderNode, bool, bool, error) {
	mode := ResolveMode(opts.Value, opts.OnChange)
	if mode == Controlled {
		if err := SyncControlled(s.store, blockID, opts.Value); err != nil {
			return nil, false, false, err
		}
	}

	name, known := s.store.GetBlockName(blockID)
	desc := s.reg.Get(name)

	// An absent root renders an empty list with no enhancements; no
	// settings slot is invented for it either.
	if known || blockID == domain.RootID {
		PropagateSettings(s.store, blockID, opts)
	}

	tmpl := opts.Template
	if tmpl == nil && desc != nil {
		tmpl = desc.DefaultTemplate
	}
	lock := opts.TemplateLock
	if lock == "" {
		lock = EffectiveSettings(s.store, blockID).TemplateLock
	}
	if err := s.sync.Sync(s.store, blockID, tmpl, lock, opts.TemplateInsertUpdatesSelection); err != nil {
		return nil, false, false, err
	}

	list := &domain.RenderNode{
		BlockID:     blockID,
		Orientation: EffectiveSettings(s.store, blockID).Orientation,
	}
	if known {
		if b, ok := s.store.GetBlock(blockID); ok {
			list.Context = map[string]any(ResolveContext(desc, b.Attributes))
		}
	}
	for _, childID := range s.store.ChildIDs(blockID) {
		childType, _ := s.store.GetBlockName(childID)
		list.Children = append(list.Children, domain.RenderNode{
			BlockID:   childID,
			BlockType: childType,
		})
	}
	if opts.Appender != "" {
		list.Children = append(list.Children, domain.RenderNode{Appender: string(opts.Appender)})
	}

	// Overlay: inert layer over unselected nested content. Unknown
	// blocks render with no overlay state at all.
	hasOverlay := false
	if known {
		hasOverlay = name != NonOverlayType &&
			!s.store.IsBlockSelected(blockID) &&
			!s.store.HasSelectedInnerBlock(blockID, true)
	}
	clickThrough := hasOverlay && (s.store.IsNavigationMode() || s.smallViewport())
	return list, hasOverlay, clickThrough, nil
}
