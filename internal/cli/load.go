package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fomod"
)

// loadSession starts a session from path: either an extracted archive
// directory (searched for fomod/ModuleConfig.xml) or a ModuleConfig.xml file,
// in which case a sibling info.xml is picked up when present.
func loadSession(eng *fomod.Engine, path string) (*fomod.Session, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return eng.LoadArchive(os.DirFS(abs), filepath.Base(abs))
	}

	moduleConfig, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	meta, err := readSibling(filepath.Dir(abs), "info.xml")
	if err != nil {
		return nil, err
	}
	return eng.Load(moduleConfig, meta)
}

// readSibling reads the file of dir whose name matches name ignoring case.
// A missing file yields nil and no error.
func readSibling(dir, name string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return os.ReadFile(filepath.Join(dir, e.Name()))
		}
	}
	return nil, nil
}
