package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrModuleNotFound is returned when an archive has no module configuration.
var ErrModuleNotFound = errors.New("module configuration not found")

// ErrSessionExists is returned when creating a session whose ID is already stored.
var ErrSessionExists = errors.New("session already exists")

// ErrInvalidSession is returned for a session ID a store cannot hold.
var ErrInvalidSession = errors.New("invalid session")

// ErrUnknownOption is returned when a step/group/option triple does not exist in the document.
var ErrUnknownOption = errors.New("unknown option")

// ConfigurationError reports a malformed module configuration.
// Callers must not start a wizard from a document that failed with it.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid module configuration: " + e.Problems[0]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid module configuration (%d problems):\n", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}
	return b.String()
}

// Add records a problem.
func (e *ConfigurationError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// OrNil returns e when at least one problem was recorded, nil otherwise.
func (e *ConfigurationError) OrNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
