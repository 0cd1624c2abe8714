package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupArchive writes files (slash-separated relative path to content) into a
// temporary directory laid out like an extracted module archive.
// It returns the absolute path to the temp dir and fails the test on error.
func SetupArchive(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	absPath, err := filepath.Abs(tmpDir)
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		full := filepath.Join(absPath, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755), "Failed to create %s", filepath.Dir(full))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644), "Failed to write %s", name)
	}

	return absPath
}
