package runtime

import (
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// Select adds option index opt to the named group, honoring its behavior.
// Radio groups (ExactlyOne, AtMostOne) are cleared first. SelectAll groups
// are fixed and reject the call. Selecting an already selected option is a
// no-op. It reports whether the state changed.
func Select(doc *domain.Document, sel *domain.SelectionState, step, group string, opt int) bool {
	g, ok := doc.Group(step, group)
	if !ok || opt < 0 || opt >= len(g.Options) {
		return false
	}
	if g.Behavior == domain.SelectAll {
		return false
	}
	if sel.Has(step, group, opt) {
		return false
	}
	if g.Behavior.IsRadio() {
		sel.Clear(step, group)
	}
	return sel.Add(step, group, opt)
}

// Deselect removes option index opt from the named group. SelectAll groups
// reject the call. Emptying an ExactlyOne group is allowed: the constraint
// is enforced when leaving the step, not at all times.
func Deselect(doc *domain.Document, sel *domain.SelectionState, step, group string, opt int) bool {
	g, ok := doc.Group(step, group)
	if !ok || g.Behavior == domain.SelectAll {
		return false
	}
	return sel.Remove(step, group, opt)
}

// Initialize builds the starting selection for doc. SelectAll groups are
// fully selected; elsewhere options whose resolved type is pre-selected are
// picked (only the first one in radio groups). Types are resolved step by
// step, against flags from defaults already settled in earlier steps, so no
// option ever depends on an undecided one.
func Initialize(doc *domain.Document, files ports.FileOracle) *domain.SelectionState {
	sel := domain.NewSelectionState()
	for si := range doc.Steps {
		step := &doc.Steps[si]
		ctx := StepContext(doc, sel, si, files)
		for gi := range step.Groups {
			group := &step.Groups[gi]
			if group.Behavior == domain.SelectAll {
				for oi := range group.Options {
					sel.Add(step.Name, group.Name, oi)
				}
				continue
			}
			for oi := range group.Options {
				if !ResolveType(group.Options[oi].Type, ctx).PreSelected() {
					continue
				}
				if group.Behavior.IsRadio() && sel.Count(step.Name, group.Name) > 0 {
					break
				}
				sel.Add(step.Name, group.Name, oi)
			}
		}
	}
	return sel
}

// SatisfiesConstraint reports whether count selected options meet behavior.
func SatisfiesConstraint(behavior domain.GroupBehavior, count int) bool {
	switch behavior {
	case domain.SelectAtLeastOne:
		return count >= 1
	case domain.SelectExactlyOne:
		return count == 1
	case domain.SelectAtMostOne:
		return count <= 1
	default:
		return true
	}
}

// CanContinue reports whether every group of step satisfies its constraint.
func CanContinue(step *domain.Step, sel *domain.SelectionState) bool {
	if step == nil {
		return false
	}
	for gi := range step.Groups {
		group := &step.Groups[gi]
		if !SatisfiesConstraint(group.Behavior, sel.Count(step.Name, group.Name)) {
			return false
		}
	}
	return true
}

// Sanitize drops selections that do not reference an option of doc, and
// forces SelectAll groups back to their full option set.
func Sanitize(doc *domain.Document, sel *domain.SelectionState) *domain.SelectionState {
	out := domain.NewSelectionState()
	for si := range doc.Steps {
		step := &doc.Steps[si]
		for gi := range step.Groups {
			group := &step.Groups[gi]
			if group.Behavior == domain.SelectAll {
				for oi := range group.Options {
					out.Add(step.Name, group.Name, oi)
				}
				continue
			}
			for _, oi := range sel.Selected(step.Name, group.Name) {
				if oi < 0 || oi >= len(group.Options) {
					continue
				}
				if group.Behavior.IsRadio() && out.Count(step.Name, group.Name) > 0 {
					break
				}
				out.Add(step.Name, group.Name, oi)
			}
		}
	}
	return out
}
