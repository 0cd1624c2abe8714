package domain

import (
	"path"
	"strings"
)

// Install maps an archive path to a destination path.
// Priority is kept textual as in the source format; see Rank.
type Install struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
	Priority    string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Folder      bool   `json:"folder,omitempty" yaml:"folder,omitempty"`
}

// Target returns the destination, defaulting to the source.
// A folder merged into the destination root carries Destination ".".
func (i Install) Target() string {
	if i.Destination == "" {
		return i.Source
	}
	return i.Destination
}

// Rank parses Priority leniently: surrounding whitespace is ignored, an
// optional sign and the leading run of digits are read and anything after
// them is dropped. No digits at all yields 0.
func (i Install) Rank() int {
	s := strings.TrimSpace(i.Priority)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		// Saturate rather than overflow on absurd inputs.
		if n < 1<<30 {
			n = n*10 + int(r-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// PlanEntry is one line of the finalized install plan.
type PlanEntry struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Folder      bool   `json:"folder,omitempty" yaml:"folder,omitempty"`
}

// NormalizePath converts backslashes, drops empty and "." segments and
// returns a slash-separated relative path.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s == "" || s == "." {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return ""
	}
	return path.Join(kept...)
}

// Escapes reports whether p climbs above the directory it is relative to once
// normalized, or names a drive or volume. Such paths are never installable.
func Escapes(p string) bool {
	n := NormalizePath(p)
	if n == ".." || strings.HasPrefix(n, "../") {
		return true
	}
	first, _, _ := strings.Cut(n, "/")
	return strings.Contains(first, ":")
}
