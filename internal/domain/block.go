package domain

// Block is a unit of editable content: an opaque id, a type name, a
// bag of attributes, and (when resolved as a tree) its inner blocks.
// Blocks are owned by the shared block store; InnerBlocks is populated
// on reads and flattened again on writes.
type Block struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Attributes  map[string]any `json:"attributes"`
	InnerBlocks []Block        `json:"innerBlocks,omitempty"`
}

// RootID is the id of the implicit document root. The root is not a
// real block; it only anchors the top-level block list.
const RootID = ""

// BlockReader is the read side of the block store.
type BlockReader interface {
	// GetBlock returns the block with the given id, with InnerBlocks
	// resolved recursively. ok is false when the id is unknown.
	GetBlock(id string) (Block, bool)
	// GetBlockName returns just the type name for an id.
	GetBlockName(id string) (string, bool)
	// ChildIDs returns the ordered child ids of a block (or of the
	// document root for RootID).
	ChildIDs(id string) []string
	// ParentID returns the parent of a block. ok is false for unknown
	// ids and for top-level blocks.
	ParentID(id string) (string, bool)
}

// SelectionReader exposes the selection and navigation-mode state the
// overlay computation depends on.
type SelectionReader interface {
	IsBlockSelected(id string) bool
	// HasSelectedInnerBlock reports whether any child (deep: any
	// descendant) of id is selected.
	HasSelectedInnerBlock(id string, deep bool) bool
	IsNavigationMode() bool
}

// BlockWriter is the mutation side of the block store. All writes are
// synchronous; a rejected mutation surfaces as an error to the caller.
type BlockWriter interface {
	// InsertBlocks inserts blocks under parentID at index. index == -1
	// appends. Blocks with empty ids are assigned fresh ones; the
	// assigned top-level ids are returned in order.
	InsertBlocks(parentID string, index int, blocks []Block) ([]string, error)
	// ReplaceInnerBlocks replaces the entire child list of parentID.
	ReplaceInnerBlocks(parentID string, blocks []Block) error
	// RemoveBlock removes a block and, cascading, its descendants.
	RemoveBlock(id string) error
	UpdateBlockAttributes(id string, attrs map[string]any) error
}

// SelectionWriter moves the selection. Template-driven insertions use
// it when the caller asked for focus to follow the insertion.
type SelectionWriter interface {
	// SelectBlock marks a block as selected; empty id clears.
	SelectBlock(id string)
}

// SettingsAccess reads and writes the per-root list settings slot.
type SettingsAccess interface {
	// ListSettings returns the stored settings for a nested-list root.
	// ok is false when nothing has been propagated for that root yet.
	ListSettings(rootID string) (ListSettings, bool)
	// UpdateListSettings stores merged settings for a root. A write
	// that changes nothing must not notify listeners.
	UpdateListSettings(rootID string, s ListSettings)
}

// Store is the full collaborator handle injected into the editor
// components. Tests substitute a store seeded however they need.
type Store interface {
	BlockReader
	SelectionReader
	SelectionWriter
	BlockWriter
	SettingsAccess
}
