package fomod

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Runner drives a session through a line-oriented text interface.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms option descriptions before outputting them.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// optionRef addresses an option by the number shown next to it.
type optionRef struct {
	group, option string
	selected      bool
}

// Run executes the wizard loop. It returns true when the user confirmed the
// last step, false when they quit or the input ended.
//
// Commands: an option number toggles it, "n" (or an empty line) moves
// forward, "b" moves back, "q" quits.
func (r *Runner) Run(s *Session) (bool, error) {
	if r.Input == nil {
		return false, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return false, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	w := r.Output

	if _, ok := s.CurrentStep(); !ok {
		// Nothing to ask: the plan is fully determined.
		return true, nil
	}

	if !r.Headless {
		fmt.Fprintf(w, "--- %s ---\n", s.Document().ModuleName)
	}

	lastRendered := -1
	for {
		ref, _ := s.CurrentStep()
		full := ref.Index != lastRendered
		refs := r.render(s, full)
		lastRendered = ref.Index

		if !r.Headless {
			fmt.Fprint(w, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && text != "") {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("input error: %w", err)
		}
		input := strings.ToLower(strings.TrimSpace(text))

		switch input {
		case "q", "quit", "exit":
			fmt.Fprintln(w, "Installation cancelled.")
			return false, nil
		case "", "n", "next":
			if !s.CanContinue() {
				fmt.Fprintln(w, "The current selection does not satisfy every group.")
				continue
			}
			if s.IsLastStep() {
				return true, nil
			}
			s.MoveForward()
		case "b", "back":
			if !s.MoveBackward() {
				fmt.Fprintln(w, "Already on the first step.")
			}
		default:
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(refs) {
				fmt.Fprintf(w, "Unknown command %q. Type an option number, n, b or q.\n", input)
				continue
			}
			target := refs[n-1]
			var changed bool
			if target.selected {
				changed = s.Deselect(ref.Step.Name, target.group, target.option)
			} else {
				changed = s.Select(ref.Step.Name, target.group, target.option)
			}
			if !changed {
				fmt.Fprintf(w, "%q cannot be changed.\n", target.option)
			}
		}
	}
}

// render prints the current step and returns the numbered options. full adds
// the step heading and option descriptions.
func (r *Runner) render(s *Session, full bool) []optionRef {
	v := s.View()
	w := r.Output
	if v.Step == nil {
		return nil
	}

	if full {
		fmt.Fprintf(w, "\n== %s (%d/%d) ==\n", v.Step.Name, v.Position+1, len(v.VisibleSteps))
	}

	var refs []optionRef
	for _, g := range v.Step.Groups {
		fmt.Fprintf(w, "%s [%s]\n", g.Name, g.Behavior)
		for _, opt := range g.Options {
			refs = append(refs, optionRef{group: g.Name, option: opt.Name, selected: opt.Selected})
			mark := " "
			if opt.Selected {
				mark = "x"
			}
			fmt.Fprintf(w, "  %d. [%s] %s (%s)\n", len(refs), mark, opt.Name, opt.Type)
			if full && opt.Description != "" {
				fmt.Fprintln(w, indent(r.renderContent(opt.Description), "       "))
			}
		}
	}
	return refs
}

func (r *Runner) renderContent(msg string) string {
	if r.Renderer == nil {
		return msg
	}
	rendered, err := r.Renderer(msg)
	if err != nil {
		return msg
	}
	return strings.TrimSpace(rendered)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
