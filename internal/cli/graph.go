package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/fomod/internal/presentation/graph"
)

// GraphOptions configures Graph.
type GraphOptions struct {
	EngineOptions
	Path        string
	ChoicesPath string
	LogLevel    string
}

// Graph prints a Mermaid flowchart of the module. The steps visible after
// applying the choices (or the defaults) are highlighted, with the last one
// marked current.
func Graph(opts GraphOptions, w io.Writer) error {
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
	if err := ApplyChoices(sess, choices, logger); err != nil {
		return err
	}

	overlay := &graph.GraphOverlay{}
	for _, ref := range sess.VisibleSteps() {
		overlay.VisibleSteps = append(overlay.VisibleSteps, ref.Step.Name)
	}
	if ref, ok := sess.CurrentStep(); ok {
		overlay.CurrentStep = ref.Step.Name
	}

	_, err = fmt.Fprint(w, graph.GenerateMermaid(sess.Document(), overlay))
	return err
}
