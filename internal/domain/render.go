package domain

// RenderNode is the serializable render tree handed to the frontend.
// The backend decides structure, class names, and context scope; the
// frontend turns nodes into DOM.
type RenderNode struct {
	// TagName of the wrapper element. Empty for non-element nodes
	// (block placeholders, appenders).
	TagName string `json:"tagName,omitempty"`

	ClassName string `json:"className,omitempty"`

	// BlockID and BlockType identify the block a node stands for.
	// Rendering of the block's own content is the frontend's job.
	BlockID   string `json:"blockId,omitempty"`
	BlockType string `json:"blockType,omitempty"`

	// Context is the context bag wrapping Children, present only when
	// the parent block's type provides context.
	Context map[string]any `json:"context,omitempty"`

	Orientation Orientation `json:"orientation,omitempty"`

	// ClickThrough marks an overlay that stays visible but lets
	// pointer events pass to the children underneath.
	ClickThrough bool `json:"clickThrough,omitempty"`

	// Appender, when non-empty, marks an appender placeholder node.
	Appender string `json:"appender,omitempty"`

	Children []RenderNode `json:"children,omitempty"`
}

// ElementProps are caller-supplied element properties for the
// props-merging entry point: the caller owns the wrapper element and
// the editor augments what it was given.
type ElementProps struct {
	TagName   string            `json:"tagName,omitempty"`
	ClassName string            `json:"className,omitempty"`
	Ref       string            `json:"ref,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// DocumentState is a full snapshot of a document: the top-level block
// trees plus every propagated list-settings record. Returned to the
// frontend to render a document and round-tripped through persistence.
type DocumentState struct {
	Blocks   []Block                 `json:"blocks"`
	Settings map[string]ListSettings `json:"settings,omitempty"`
}
