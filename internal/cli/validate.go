package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/validator"
	"github.com/aretw0/fomod/pkg/archive"
	"github.com/aretw0/fomod/pkg/domain"
)

// ValidateOptions configures Validate.
type ValidateOptions struct {
	Path string
	// Strict turns lint warnings into a failure.
	Strict bool
}

// ErrLintWarnings is returned by a strict Validate that found warnings.
var ErrLintWarnings = errors.New("module has warnings")

// Validate checks the module configuration at path (a file or an archive
// directory) and prints a short report. A malformed configuration is
// returned as a *domain.ConfigurationError after its problems are listed.
// Warnings about unreachable steps or missing archive files are printed
// but only fail a strict run.
func Validate(opts ValidateOptions, w io.Writer) error {
	raw, fsys, root, err := readForLint(opts.Path)
	if err != nil {
		return err
	}

	doc, err := fomod.New().Validate(raw)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(w, "%s is invalid:\n", opts.Path)
			for _, p := range cfgErr.Problems {
				fmt.Fprintf(w, "  - %s\n", p)
			}
		}
		return err
	}

	groups, options := 0, 0
	for _, step := range doc.Steps {
		groups += len(step.Groups)
		for _, g := range step.Groups {
			options += len(g.Options)
		}
	}
	fmt.Fprintf(w, "%s is valid: %d steps, %d groups, %d options, %d conditional installs\n",
		doc.ModuleName, len(doc.Steps), groups, options, len(doc.ConditionalInstalls))

	report := validator.Lint(doc, fsys, root)
	if report.OK() {
		return nil
	}
	fmt.Fprintf(w, "%d warnings:\n", len(report.Warnings))
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "  - %s\n", warn)
	}
	if opts.Strict {
		return ErrLintWarnings
	}
	return nil
}

// readForLint reads the module configuration and, when the archive around it
// is known, returns it so install sources can be checked. A configuration
// file outside a fomod folder has no archive.
func readForLint(path string) ([]byte, fs.FS, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, "", err
	}

	if info.IsDir() {
		fsys := os.DirFS(path)
		layout, err := archive.Locate(fsys)
		if err != nil {
			return nil, nil, "", fmt.Errorf("locate module in %s: %w", path, err)
		}
		raw, _, err := layout.Read(fsys)
		if err != nil {
			return nil, nil, "", err
		}
		return raw, fsys, layout.Root, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, "", err
	}
	dir := filepath.Dir(abs)
	if !strings.EqualFold(filepath.Base(dir), "fomod") {
		return raw, nil, "", nil
	}
	return raw, os.DirFS(filepath.Dir(dir)), "", nil
}
