package domain

import "sort"

// FlagMap holds flag values compiled from selections. It is always derived,
// never edited directly.
type FlagMap map[string]string

// Get returns the flag value, or "" when the flag was never set.
func (f FlagMap) Get(name string) string {
	return f[name]
}

// SelectionState records which options are selected, keyed by step name and
// group name. Options are referenced by their index within the group, so
// reads always come back in document order whatever the insertion order was.
type SelectionState struct {
	sets map[string]map[string]map[int]struct{}
}

// NewSelectionState returns an empty selection state.
func NewSelectionState() *SelectionState {
	return &SelectionState{sets: make(map[string]map[string]map[int]struct{})}
}

func (s *SelectionState) group(step, group string, create bool) map[int]struct{} {
	if s.sets == nil {
		if !create {
			return nil
		}
		s.sets = make(map[string]map[string]map[int]struct{})
	}
	groups, ok := s.sets[step]
	if !ok {
		if !create {
			return nil
		}
		groups = make(map[string]map[int]struct{})
		s.sets[step] = groups
	}
	set, ok := groups[group]
	if !ok {
		if !create {
			return nil
		}
		set = make(map[int]struct{})
		groups[group] = set
	}
	return set
}

// Has reports whether option idx of the group is selected.
func (s *SelectionState) Has(step, group string, idx int) bool {
	_, ok := s.group(step, group, false)[idx]
	return ok
}

// Add selects option idx. It returns false when it was already selected.
func (s *SelectionState) Add(step, group string, idx int) bool {
	set := s.group(step, group, true)
	if _, ok := set[idx]; ok {
		return false
	}
	set[idx] = struct{}{}
	return true
}

// Remove deselects option idx. It returns false when it was not selected.
func (s *SelectionState) Remove(step, group string, idx int) bool {
	set := s.group(step, group, false)
	if _, ok := set[idx]; !ok {
		return false
	}
	delete(set, idx)
	return true
}

// Clear empties the group.
func (s *SelectionState) Clear(step, group string) {
	set := s.group(step, group, false)
	for k := range set {
		delete(set, k)
	}
}

// Count returns the number of selected options in the group.
func (s *SelectionState) Count(step, group string) int {
	return len(s.group(step, group, false))
}

// Selected returns the selected option indices in ascending (document) order.
func (s *SelectionState) Selected(step, group string) []int {
	set := s.group(step, group, false)
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy.
func (s *SelectionState) Clone() *SelectionState {
	out := NewSelectionState()
	for step, groups := range s.sets {
		for group, set := range groups {
			dst := out.group(step, group, true)
			for k := range set {
				dst[k] = struct{}{}
			}
		}
	}
	return out
}

// Export flattens the state into a serializable map. Empty groups are kept
// so an explicit "nothing selected" survives a round trip.
func (s *SelectionState) Export() map[string]map[string][]int {
	out := make(map[string]map[string][]int, len(s.sets))
	for step, groups := range s.sets {
		g := make(map[string][]int, len(groups))
		for group := range groups {
			g[group] = s.Selected(step, group)
		}
		out[step] = g
	}
	return out
}

// ImportSelection rebuilds a state produced by Export.
func ImportSelection(data map[string]map[string][]int) *SelectionState {
	out := NewSelectionState()
	for step, groups := range data {
		for group, indices := range groups {
			set := out.group(step, group, true)
			for _, idx := range indices {
				set[idx] = struct{}{}
			}
		}
	}
	return out
}
