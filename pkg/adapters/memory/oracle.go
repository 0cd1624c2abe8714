package memory

import (
	"strings"

	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// Oracle implements ports.FileOracle over a fixed table of file states.
// Lookups ignore case and slash direction; unknown paths are missing, or
// answered by the fallback when one is set.
type Oracle struct {
	states   map[string]domain.FileState
	fallback ports.FileOracle
}

// NewOracle creates an oracle from path → state.
func NewOracle(states map[string]domain.FileState) *Oracle {
	o := &Oracle{states: make(map[string]domain.FileState, len(states))}
	for path, state := range states {
		o.Set(path, state)
	}
	return o
}

// NewActiveOracle creates an oracle where every listed file is active.
func NewActiveOracle(active ...string) *Oracle {
	o := NewOracle(nil)
	for _, path := range active {
		o.Set(path, domain.FileActive)
	}
	return o
}

// WithFallback makes paths absent from the table resolve through next.
func (o *Oracle) WithFallback(next ports.FileOracle) *Oracle {
	o.fallback = next
	return o
}

// Set records the state of path. It is not safe to call concurrently with StateOf.
func (o *Oracle) Set(path string, state domain.FileState) {
	o.states[key(path)] = state
}

// StateOf implements ports.FileOracle.
func (o *Oracle) StateOf(path string) domain.FileState {
	if state, ok := o.states[key(path)]; ok {
		return state
	}
	if o.fallback != nil {
		return o.fallback.StateOf(path)
	}
	return domain.FileMissing
}

func key(path string) string {
	return strings.ToLower(domain.NormalizePath(path))
}
