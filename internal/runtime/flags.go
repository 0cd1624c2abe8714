package runtime

import (
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// pass is the result of one forward walk over the steps.
type pass struct {
	visible []bool
	flags   domain.FlagMap
}

// walk compiles flags over steps [0, upto) in document order. Each step's
// visibility is tested against the flags of the steps before it, and a step
// that is not visible contributes nothing: its selections are dead.
func walk(doc *domain.Document, sel *domain.SelectionState, files ports.FileOracle, upto int) pass {
	if upto > len(doc.Steps) {
		upto = len(doc.Steps)
	}
	if upto < 0 {
		upto = 0
	}

	p := pass{
		visible: make([]bool, upto),
		flags:   make(domain.FlagMap),
	}
	for i := 0; i < upto; i++ {
		step := &doc.Steps[i]
		if !Evaluate(step.Visibility, Context{Flags: p.flags, Files: files}) {
			continue
		}
		p.visible[i] = true
		applyStep(p.flags, step, sel)
	}
	return p
}

// applyStep writes the flags of every selected option of step, last write wins.
func applyStep(flags domain.FlagMap, step *domain.Step, sel *domain.SelectionState) {
	for gi := range step.Groups {
		group := &step.Groups[gi]
		for _, oi := range sel.Selected(step.Name, group.Name) {
			if oi < 0 || oi >= len(group.Options) {
				continue
			}
			for _, f := range group.Options[oi].Flags {
				flags[f.Name] = f.Value
			}
		}
	}
}

// flagsOf compiles the flags of the steps in visible, in order.
func flagsOf(visible []domain.StepRef, sel *domain.SelectionState) domain.FlagMap {
	flags := make(domain.FlagMap)
	for _, ref := range visible {
		applyStep(flags, ref.Step, sel)
	}
	return flags
}

// CompileFlags returns the flags set by the selections of visible steps
// strictly before upto. The result is a fresh map owned by the caller.
func CompileFlags(doc *domain.Document, sel *domain.SelectionState, upto int, files ports.FileOracle) domain.FlagMap {
	return walk(doc, sel, files, upto).flags
}

// FinalFlags returns the flags compiled over every step.
func FinalFlags(doc *domain.Document, sel *domain.SelectionState, files ports.FileOracle) domain.FlagMap {
	return CompileFlags(doc, sel, len(doc.Steps), files)
}

// StepContext returns the evaluation context seen by the step at index.
func StepContext(doc *domain.Document, sel *domain.SelectionState, index int, files ports.FileOracle) Context {
	return Context{Flags: CompileFlags(doc, sel, index, files), Files: files}
}
