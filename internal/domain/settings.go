package domain

// TemplateLock is the policy governing structural edits against a
// template. The zero value means "unset": the nested list inherits the
// lock of its nearest ancestor.
type TemplateLock string

const (
	// TemplateLockAll forbids all structural edits; the template keeps
	// enforcing the child set after mount.
	TemplateLockAll TemplateLock = "all"
	// TemplateLockInsert forbids inserting or removing blocks but
	// allows moving them; the template is applied once.
	TemplateLockInsert TemplateLock = "insert"
	// TemplateLockNone explicitly disables locking. Distinct from the
	// zero value, which inherits.
	TemplateLockNone TemplateLock = "none"
)

// Orientation is the layout direction of a nested list. Empty means
// unset (inherit, ultimately vertical).
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// ListSettings is the inheritable settings record stored per
// nested-list root. Zero-valued fields count as unset and fall back to
// the nearest ancestor's resolved value.
type ListSettings struct {
	// AllowedTypes restricts which block types may be inserted into
	// the list. nil means unset; an empty non-nil slice forbids all.
	AllowedTypes []string `json:"allowedTypes,omitempty"`

	TemplateLock TemplateLock `json:"templateLock,omitempty"`

	// CaptureToolbars makes the parent block render its children's
	// toolbars in its own toolbar area. Not inherited; defaults false.
	CaptureToolbars bool `json:"captureToolbars,omitempty"`

	Orientation Orientation `json:"orientation,omitempty"`
}

// Equal reports whether two settings records are identical, including
// allowed-type order. Used for the propagator's no-thrash skip.
func (s ListSettings) Equal(o ListSettings) bool {
	if s.TemplateLock != o.TemplateLock ||
		s.CaptureToolbars != o.CaptureToolbars ||
		s.Orientation != o.Orientation {
		return false
	}
	if (s.AllowedTypes == nil) != (o.AllowedTypes == nil) {
		return false
	}
	if len(s.AllowedTypes) != len(o.AllowedTypes) {
		return false
	}
	for i, t := range s.AllowedTypes {
		if o.AllowedTypes[i] != t {
			return false
		}
	}
	return true
}
