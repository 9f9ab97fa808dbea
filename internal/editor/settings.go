package editor

import (
	"blockdoc/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Settings Propagator — inheritable settings for nested lists
// ─────────────────────────────────────────────────────────────

// PropagateSettings merges the caller's list options into the stored
// settings slot for rootID. Fields the caller leaves unset fall back
// to the nearest ancestor's resolved value rather than a hard default,
// so a subtree's effective settings are always a pure function of what
// the nearest ancestor propagated.
//
// The store drops writes whose merged result equals what is already
// stored, which keeps repeated render passes from thrashing listeners.
func PropagateSettings(st domain.Store, rootID string, opts ListOptions) {
	merged := domain.ListSettings{
		AllowedTypes:    opts.AllowedTypes,
		TemplateLock:    opts.TemplateLock,
		CaptureToolbars: opts.CaptureToolbars,
		Orientation:     opts.Orientation,
	}
	if merged.AllowedTypes == nil || merged.TemplateLock == "" || merged.Orientation == "" {
		ancestor := resolveAncestorSettings(st, rootID)
		if merged.AllowedTypes == nil {
			merged.AllowedTypes = ancestor.AllowedTypes
		}
		if merged.TemplateLock == "" {
			merged.TemplateLock = ancestor.TemplateLock
		}
		if merged.Orientation == "" {
			merged.Orientation = ancestor.Orientation
		}
	}
	st.UpdateListSettings(rootID, merged)
}

// EffectiveSettings returns the settings governing the list rooted at
// rootID: the stored record when one has been propagated, otherwise
// the nearest ancestor's resolved values.
func EffectiveSettings(st domain.Store, rootID string) domain.ListSettings {
	if ls, ok := st.ListSettings(rootID); ok {
		return ls
	}
	return resolveAncestorSettings(st, rootID)
}

// resolveAncestorSettings walks up the block tree collecting the first
// explicit value for each setting. The document root's settings slot
// (domain.RootID) acts as the outermost fallback.
func resolveAncestorSettings(st domain.Store, rootID string) domain.ListSettings {
	var out domain.ListSettings
	id := rootID
	for {
		pid, ok := st.ParentID(id)
		if !ok {
			pid = domain.RootID
		}
		if ls, found := st.ListSettings(pid); found {
			if out.AllowedTypes == nil {
				out.AllowedTypes = ls.AllowedTypes
			}
			if out.TemplateLock == "" {
				out.TemplateLock = ls.TemplateLock
			}
			if out.Orientation == "" {
				out.Orientation = ls.Orientation
			}
		}
		if pid == domain.RootID {
			return out
		}
		id = pid
	}
}
