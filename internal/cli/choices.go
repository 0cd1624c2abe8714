package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/dto"
	"github.com/aretw0/fomod/pkg/adapters/memory"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ReadChoices decodes a YAML choices document. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func ReadChoices(r io.Reader) (*dto.Choices, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &dto.Choices{}, nil
		}
		return nil, fmt.Errorf("parse choices: %w", err)
	}

	var out dto.Choices
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		ErrorUnused:      true,
		WeaklyTypedInput: true, // a single option may be written without brackets
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode choices: %w", err)
	}
	for path, state := range out.Files {
		if !domain.FileState(state).Valid() {
			return nil, fmt.Errorf("choices: file %q has unknown state %q", path, state)
		}
	}
	return &out, nil
}

// LoadChoices reads a choices file. An empty path yields empty choices.
func LoadChoices(path string) (*dto.Choices, error) {
	if path == "" {
		return &dto.Choices{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadChoices(f)
}

// choicesOracle layers the file overrides and active plugins of c over base.
// It returns base unchanged when c adds nothing.
func choicesOracle(c *dto.Choices, base ports.FileOracle) ports.FileOracle {
	if len(c.Files) == 0 && len(c.ActivePlugins) == 0 {
		return base
	}
	o := memory.NewActiveOracle(c.ActivePlugins...)
	for path, state := range c.Files {
		o.Set(path, domain.FileState(state))
	}
	if base != nil {
		o.WithFallback(base)
	}
	return o
}

// ApplyChoices walks the wizard from its current step to the last one,
// applying the scripted selections of each step as the cursor reaches it.
// Choices for steps that never become visible are reported and ignored.
func ApplyChoices(s *fomod.Session, c *dto.Choices, logger *slog.Logger) error {
	applied := make(map[string]bool, len(c.Selections))
	for {
		ref, ok := s.CurrentStep()
		if !ok {
			break
		}
		name := ref.Step.Name
		if groups, ok := c.Selections[name]; ok && !applied[name] {
			if err := applyStep(s, ref.Step, groups); err != nil {
				return err
			}
			applied[name] = true
		}

		if !s.CanContinue() {
			return fmt.Errorf("step %q: the selection does not satisfy every group", name)
		}
		if s.IsLastStep() {
			break
		}
		s.MoveForward()
	}

	var skipped []string
	for name := range c.Selections {
		if !applied[name] {
			skipped = append(skipped, name)
		}
	}
	sort.Strings(skipped)
	for _, name := range skipped {
		logger.Warn("choices ignored for a step that was never visible", "step", name)
	}
	return nil
}

func applyStep(s *fomod.Session, step *domain.Step, groups map[string][]string) error {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, groupName := range names {
		g, ok := step.Group(groupName)
		if !ok {
			return fmt.Errorf("%w: group %q in step %q", domain.ErrUnknownOption, groupName, step.Name)
		}
		wanted := make(map[string]bool, len(groups[groupName]))
		for _, opt := range groups[groupName] {
			opt = strings.TrimSpace(opt)
			if g.OptionIndex(opt) < 0 {
				return fmt.Errorf("%w: option %q in %s/%s", domain.ErrUnknownOption, opt, step.Name, groupName)
			}
			wanted[opt] = true
		}

		// Select first so at-least-one groups never pass through empty.
		for _, opt := range g.Options {
			if wanted[opt.Name] {
				s.Select(step.Name, groupName, opt.Name)
			}
		}
		for _, opt := range g.Options {
			if !wanted[opt.Name] {
				s.Deselect(step.Name, groupName, opt.Name)
			}
		}
		for opt := range wanted {
			if !s.IsSelected(step.Name, groupName, opt) {
				return fmt.Errorf("step %q: option %q in group %q cannot be selected", step.Name, opt, groupName)
			}
		}
	}
	return nil
}
