package domain

// TemplateNode declares one expected child in a nested-list template:
// a block type, attribute defaults, and nested expectations. Templates
// describe shape only; they are compared against actual child blocks
// and never stored as block state.
type TemplateNode struct {
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []TemplateNode `json:"children,omitempty"`
}
