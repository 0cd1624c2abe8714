package runtime

import (
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// VisibleSteps returns, in document order, the steps whose visibility
// dependency holds for the flags compiled up to (not including) each step.
func VisibleSteps(doc *domain.Document, sel *domain.SelectionState, files ports.FileOracle) []domain.StepRef {
	p := walk(doc, sel, files, len(doc.Steps))
	out := make([]domain.StepRef, 0, len(doc.Steps))
	for i, ok := range p.visible {
		if ok {
			out = append(out, domain.StepRef{Index: i, Step: &doc.Steps[i]})
		}
	}
	return out
}

// indexOf returns the position of the step with document index step in
// visible, or -1.
func indexOf(visible []domain.StepRef, step int) int {
	for i, ref := range visible {
		if ref.Index == step {
			return i
		}
	}
	return -1
}
