package ports

import "github.com/aretw0/fomod/pkg/domain"

// DocumentParser turns raw module configuration markup into the typed document tree.
// Implementations must be pure: the same input always yields the same output.
type DocumentParser interface {
	// ParseModule parses fomod/ModuleConfig.xml.
	// Structural problems are reported as *domain.ConfigurationError.
	ParseModule(raw []byte) (*domain.Document, error)

	// ParseInfo parses fomod/info.xml.
	ParseInfo(raw []byte) (*domain.ModuleInfo, error)
}

// FileOracle answers file dependency checks.
type FileOracle interface {
	// StateOf reports whether path is missing, present but inactive, or active.
	StateOf(path string) domain.FileState
}

// FileOracleFunc adapts a plain function to FileOracle.
type FileOracleFunc func(path string) domain.FileState

// StateOf implements FileOracle.
func (f FileOracleFunc) StateOf(path string) domain.FileState {
	return f(path)
}
