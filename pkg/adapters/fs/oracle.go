// Package fs answers file dependencies from a game data directory.
package fs

import (
	"bufio"
	"fmt"
	"io"
	iofs "io/fs"
	"strings"

	"github.com/aretw0/fomod/pkg/domain"
)

// Oracle implements ports.FileOracle. A file is Active when it appears in the
// active plugin list, Inactive when it only exists in the data directory, and
// Missing otherwise. Paths compare case-insensitively with either slash.
type Oracle struct {
	present map[string]struct{}
	active  map[string]struct{}
}

// New indexes the data directory fsys once. A nil fsys means an empty directory.
func New(fsys iofs.FS, active []string) (*Oracle, error) {
	o := &Oracle{
		present: make(map[string]struct{}),
		active:  make(map[string]struct{}, len(active)),
	}
	for _, name := range active {
		o.active[key(name)] = struct{}{}
	}
	if fsys == nil {
		return o, nil
	}

	err := iofs.WalkDir(fsys, ".", func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." {
			o.present[key(p)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index data directory: %w", err)
	}
	return o, nil
}

// StateOf implements ports.FileOracle.
func (o *Oracle) StateOf(path string) domain.FileState {
	k := key(path)
	if _, ok := o.active[k]; ok {
		return domain.FileActive
	}
	if _, ok := o.present[k]; ok {
		return domain.FileInactive
	}
	return domain.FileMissing
}

// ReadPlugins parses a plugins.txt style load order: one plugin per line,
// '#' starts a comment. When any line carries the '*' active marker only the
// marked lines are returned; otherwise every listed plugin counts as active.
func ReadPlugins(r io.Reader) ([]string, error) {
	var all, marked []string
	starred := false

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, ok := strings.CutPrefix(line, "*"); ok {
			starred = true
			marked = append(marked, strings.TrimSpace(name))
			continue
		}
		all = append(all, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read plugin list: %w", err)
	}
	if starred {
		return marked, nil
	}
	return all, nil
}

func key(path string) string {
	return strings.ToLower(domain.NormalizePath(path))
}
