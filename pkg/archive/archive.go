// Package archive finds the module configuration inside an extracted archive.
//
// Archives are frequently packed with an extra top-level directory, and the
// fomod folder is spelled in every possible case, so lookups ignore case and
// accept the fomod folder at any depth. The shallowest match wins.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/aretw0/fomod/pkg/domain"
)

const (
	moduleConfigName = "fomod/moduleconfig.xml"
	infoName         = "fomod/info.xml"
)

// Layout locates the module files within an archive.
type Layout struct {
	// Root is the slash-separated directory holding the fomod folder, "" for the archive root.
	Root string

	// ModuleConfig and Info are the paths of the two XML files. Info is "" when absent.
	ModuleConfig string
	Info         string
}

// Locate walks fsys for fomod/ModuleConfig.xml. It returns
// domain.ErrModuleNotFound when the archive has none.
func Locate(fsys fs.FS) (Layout, error) {
	var found *Layout
	depth := -1

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(p)
		if lower != moduleConfigName && !strings.HasSuffix(lower, "/"+moduleConfigName) {
			return nil
		}
		if n := strings.Count(p, "/"); found == nil || n < depth {
			root := path.Dir(path.Dir(p))
			if root == "." {
				root = ""
			}
			found = &Layout{Root: root, ModuleConfig: p}
			depth = n
		}
		return nil
	})
	if err != nil {
		return Layout{}, fmt.Errorf("walk archive: %w", err)
	}
	if found == nil {
		return Layout{}, domain.ErrModuleNotFound
	}

	info, err := findInfo(fsys, path.Dir(found.ModuleConfig))
	if err != nil {
		return Layout{}, err
	}
	found.Info = info
	return *found, nil
}

// findInfo looks for info.xml next to the module configuration.
func findInfo(fsys fs.FS, dir string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), path.Base(infoName)) {
			return path.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

// Read returns the raw module configuration and info.xml (nil when absent).
func (l Layout) Read(fsys fs.FS) (moduleConfig, info []byte, err error) {
	moduleConfig, err = fs.ReadFile(fsys, l.ModuleConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("read module configuration: %w", err)
	}
	if l.Info == "" {
		return moduleConfig, nil, nil
	}
	info, err = fs.ReadFile(fsys, l.Info)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("read info: %w", err)
	}
	return moduleConfig, info, nil
}

// Rebase maps a source path from the module configuration onto the archive:
// backslashes become slashes and the result is joined to root.
func Rebase(root, source string) string {
	src := domain.NormalizePath(source)
	if root == "" {
		if src == "" {
			return "."
		}
		return src
	}
	return path.Join(root, src)
}

// Resolve finds p in fsys ignoring case, segment by segment. It returns the
// path as spelled in the archive.
func Resolve(fsys fs.FS, p string) (string, bool) {
	p = domain.NormalizePath(p)
	if p == "" {
		return ".", true
	}
	if _, err := fs.Stat(fsys, p); err == nil {
		return p, true
	}

	dir := "."
	for _, seg := range strings.Split(p, "/") {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return "", false
		}
		next := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), seg) {
				next = e.Name()
				break
			}
		}
		if next == "" {
			return "", false
		}
		dir = path.Join(dir, next)
	}
	return dir, true
}
