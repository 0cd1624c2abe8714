package domain

import "time"

// Snapshot is the persisted form of a wizard session.
// The document itself is not stored: it is re-parsed from the raw texts,
// which keeps snapshots valid across parser fixes.
type Snapshot struct {
	// ID identifies the session in a store.
	ID string `json:"id"`

	// ArchiveName is the fallback manifest name (usually the archive file name).
	ArchiveName string `json:"archive_name,omitempty"`

	// Root is the archive-relative directory holding the fomod folder.
	Root string `json:"root,omitempty"`

	ModuleConfig []byte `json:"module_config"`
	Info         []byte `json:"info,omitempty"`

	// Selections is SelectionState.Export output.
	Selections map[string]map[string][]int `json:"selections"`

	// Cursor is the document index of the current step.
	Cursor int `json:"cursor"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted session when a store encrypts at rest.
	// The other payload fields are empty in that case.
	Sealed []byte `json:"sealed,omitempty"`
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.ModuleConfig = append([]byte(nil), s.ModuleConfig...)
	if s.Info != nil {
		out.Info = append([]byte(nil), s.Info...)
	}
	if s.Sealed != nil {
		out.Sealed = append([]byte(nil), s.Sealed...)
	}
	out.Selections = make(map[string]map[string][]int, len(s.Selections))
	for step, groups := range s.Selections {
		g := make(map[string][]int, len(groups))
		for group, idx := range groups {
			g[group] = append([]int(nil), idx...)
		}
		out.Selections[step] = g
	}
	return &out
}
