package runtime

import (
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// Context is what a dependency is evaluated against.
type Context struct {
	Flags domain.FlagMap
	Files ports.FileOracle
}

// stateOf asks the oracle about path. Without an oracle every file is missing.
func (c Context) stateOf(path string) domain.FileState {
	if c.Files == nil {
		return domain.FileMissing
	}
	return c.Files.StateOf(path)
}
