package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// Wizard is the stateful side of a session: one document, one selection
// state and one cursor. Every mutation recomputes the derived views before
// returning, so callers never observe stale visibility.
//
// A Wizard is not safe for concurrent use.
type Wizard struct {
	doc    *domain.Document
	sel    *domain.SelectionState
	cursor Cursor

	visible []domain.StepRef

	files  ports.FileOracle
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WizardOption configures a Wizard.
type WizardOption func(*Wizard)

// WithFileOracle sets the oracle used by file dependencies.
func WithFileOracle(files ports.FileOracle) WizardOption {
	return func(w *Wizard) {
		w.files = files
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) WizardOption {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) WizardOption {
	return func(w *Wizard) {
		w.hooks = hooks
	}
}

func newWizard(doc *domain.Document, opts []WizardOption) *Wizard {
	w := &Wizard{
		doc:    doc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWizard starts a fresh session on doc: defaults are selected and the
// cursor sits on the first visible step.
func NewWizard(doc *domain.Document, opts ...WizardOption) *Wizard {
	w := newWizard(doc, opts)
	w.sel = Initialize(doc, w.files)
	w.visible = VisibleSteps(doc, w.sel, w.files)
	w.cursor = NewCursor(w.visible)

	w.logger.Debug("wizard initialized",
		"steps", len(doc.Steps),
		"visible_steps", len(w.visible),
	)
	if w.hooks.OnSessionLoaded != nil {
		w.hooks.OnSessionLoaded(&domain.SessionEvent{
			EventBase:    w.event(domain.EventSessionLoaded),
			Steps:        len(doc.Steps),
			VisibleSteps: len(w.visible),
		})
	}
	w.emitStepEnter()
	return w
}

// RestoreWizard resumes a session from a previously exported selection and
// cursor. Selections that do not match doc are dropped.
func RestoreWizard(doc *domain.Document, sel *domain.SelectionState, cursor int, opts ...WizardOption) *Wizard {
	w := newWizard(doc, opts)
	w.sel = Sanitize(doc, sel)
	w.visible = VisibleSteps(doc, w.sel, w.files)
	w.cursor = CursorAt(cursor, w.visible)
	return w
}

func (w *Wizard) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		Module:    w.doc.ModuleName,
	}
}

func (w *Wizard) emitStepEnter() {
	ref, ok := w.CurrentStep()
	if !ok {
		return
	}
	w.logger.Debug("step enter", "step", ref.Step.Name, "index", ref.Index)
	if w.hooks.OnStepEnter != nil {
		w.hooks.OnStepEnter(&domain.StepEvent{
			EventBase: w.event(domain.EventStepEnter),
			Step:      ref.Step.Name,
			Index:     ref.Index,
		})
	}
}

// refresh recomputes visibility and re-clamps the cursor after a mutation.
func (w *Wizard) refresh() {
	before := w.cursor.Step()
	w.visible = VisibleSteps(w.doc, w.sel, w.files)
	w.cursor.Reclamp(w.visible)
	if w.cursor.Step() != before {
		w.logger.Debug("cursor re-clamped", "from", before, "to", w.cursor.Step())
		w.emitStepEnter()
	}
}

// Document returns the document the wizard runs on.
func (w *Wizard) Document() *domain.Document {
	return w.doc
}

// Selection returns a copy of the current selection state.
func (w *Wizard) Selection() *domain.SelectionState {
	return w.sel.Clone()
}

// IsSelected reports whether the option is currently selected.
func (w *Wizard) IsSelected(step, group string, opt int) bool {
	return w.sel.Has(step, group, opt)
}

// VisibleSteps returns the steps currently visible, in document order.
func (w *Wizard) VisibleSteps() []domain.StepRef {
	out := make([]domain.StepRef, len(w.visible))
	copy(out, w.visible)
	return out
}

// CurrentStep returns the step under the cursor. It is false only when no
// step is visible at all.
func (w *Wizard) CurrentStep() (domain.StepRef, bool) {
	pos := w.cursor.Position(w.visible)
	if pos < 0 {
		return domain.StepRef{}, false
	}
	return w.visible[pos], true
}

// Position returns the cursor's index within VisibleSteps, or -1.
func (w *Wizard) Position() int {
	return w.cursor.Position(w.visible)
}

// Cursor returns the document index of the current step, or -1.
func (w *Wizard) Cursor() int {
	return w.cursor.Step()
}

// CanContinue reports whether every group of the current step satisfies
// its selection constraint.
func (w *Wizard) CanContinue() bool {
	ref, ok := w.CurrentStep()
	if !ok {
		return false
	}
	return CanContinue(ref.Step, w.sel)
}

// MoveForward advances to the next visible step when CanContinue holds.
// Otherwise, or on the last step, it is a no-op.
func (w *Wizard) MoveForward() bool {
	canContinue := w.CanContinue()
	if !w.cursor.Forward(w.visible, canContinue) {
		w.logger.Debug("move forward ignored", "can_continue", canContinue, "position", w.Position())
		return false
	}
	w.emitStepEnter()
	return true
}

// MoveBackward goes back one visible step; on the first step it is a no-op.
func (w *Wizard) MoveBackward() bool {
	if !w.cursor.Backward(w.visible) {
		return false
	}
	w.emitStepEnter()
	return true
}

// Lookup resolves a step/group/option name triple to the option index.
func (w *Wizard) Lookup(step, group, option string) (int, error) {
	g, ok := w.doc.Group(step, group)
	if !ok {
		return -1, fmt.Errorf("%w: group %q in step %q", domain.ErrUnknownOption, group, step)
	}
	idx := g.OptionIndex(option)
	if idx < 0 {
		return -1, fmt.Errorf("%w: option %q in %s/%s", domain.ErrUnknownOption, option, step, group)
	}
	return idx, nil
}

// Select selects an option by name. Calls that the group behavior forbids,
// or that name no option, are rejected silently and report false.
func (w *Wizard) Select(step, group, option string) bool {
	return w.mutate(step, group, option, true)
}

// Deselect deselects an option by name, with the same rejection rules as Select.
func (w *Wizard) Deselect(step, group, option string) bool {
	return w.mutate(step, group, option, false)
}

func (w *Wizard) mutate(step, group, option string, selected bool) bool {
	ev := &domain.SelectionEvent{
		Step:     step,
		Group:    group,
		Option:   option,
		Selected: selected,
	}

	idx, err := w.Lookup(step, group, option)
	changed := false
	if err == nil {
		if selected {
			changed = Select(w.doc, w.sel, step, group, idx)
		} else {
			changed = Deselect(w.doc, w.sel, step, group, idx)
		}
	}

	if !changed {
		w.logger.Debug("selection rejected",
			"step", step, "group", group, "option", option, "select", selected, "err", err)
		if w.hooks.OnSelectionRejected != nil {
			ev.EventBase = w.event(domain.EventSelectionRejected)
			w.hooks.OnSelectionRejected(ev)
		}
		return false
	}

	if w.hooks.OnSelectionChanged != nil {
		ev.EventBase = w.event(domain.EventSelectionChanged)
		w.hooks.OnSelectionChanged(ev)
	}
	w.refresh()
	return true
}

// Flags returns the flags compiled over every visible step.
func (w *Wizard) Flags() domain.FlagMap {
	return FinalFlags(w.doc, w.sel, w.files)
}

// FlagsBefore returns the flags visible to the step at document index step.
func (w *Wizard) FlagsBefore(step int) domain.FlagMap {
	return CompileFlags(w.doc, w.sel, step, w.files)
}

// OptionType resolves the effective type of an option against the flags
// its step sees.
func (w *Wizard) OptionType(step int, option *domain.Option) domain.TypeName {
	return ResolveType(option.Type, StepContext(w.doc, w.sel, step, w.files))
}

// ResolvedFiles returns the ordered install list before deduplication.
func (w *Wizard) ResolvedFiles() []domain.Install {
	return ResolveFiles(w.doc, w.sel, w.visible, w.files)
}

// InstallPlan returns the final, ordered, deduplicated install plan.
func (w *Wizard) InstallPlan() []domain.PlanEntry {
	plan := InstallPlan(w.ResolvedFiles())
	w.logger.Debug("install plan resolved", "files", len(plan))
	if w.hooks.OnPlanResolved != nil {
		w.hooks.OnPlanResolved(&domain.PlanEvent{
			EventBase: w.event(domain.EventPlanResolved),
			Files:     len(plan),
		})
	}
	return plan
}

// RequirementsMet evaluates the module-level requirements against the file
// oracle. Flags play no part: no selection has been made at that level.
func (w *Wizard) RequirementsMet() bool {
	return Evaluate(w.doc.Requirements, Context{Flags: domain.FlagMap{}, Files: w.files})
}
