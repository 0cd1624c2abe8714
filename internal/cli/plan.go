package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/fomod/internal/presentation/tui"
	"github.com/aretw0/fomod/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats for Plan.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PlanOptions configures a non-interactive run.
type PlanOptions struct {
	EngineOptions
	Path        string
	ChoicesPath string
	Format      string
	LogLevel    string
}

// Plan answers the wizard from a choices file (defaults when none is given)
// and writes the resulting manifest to w.
func Plan(opts PlanOptions, w io.Writer) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	choices, err := LoadChoices(opts.ChoicesPath)
	if err != nil {
		return err
	}
	base, err := createOracle(opts.DataDir, opts.PluginsFile)
	if err != nil {
		return err
	}

	eng := createEngine(opts.EngineOptions, choicesOracle(choices, base), logger)
	sess, err := loadSession(eng, opts.Path)
	if err != nil {
		return err
	}
	if !sess.RequirementsMet() {
		logger.Warn("module requirements are not met", "module", sess.Document().ModuleName)
	}
	if err := ApplyChoices(sess, choices, logger); err != nil {
		return err
	}
	return WriteManifest(w, sess.Manifest(), opts.Format)
}

// WriteManifest encodes m in the requested format.
func WriteManifest(w io.Writer, m domain.Manifest, format string) error {
	switch format {
	case "", FormatText:
		tui.PrintManifest(w, m)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
