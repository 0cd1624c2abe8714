package fomod

import (
	"github.com/aretw0/fomod/internal/runtime"
	"github.com/aretw0/fomod/pkg/domain"
)

// View is a serializable picture of the session, as shown to a user or an
// agent: the current step with every option's state, plus navigation hints.
type View struct {
	SessionID    string    `json:"session_id" yaml:"session_id"`
	Module       string    `json:"module" yaml:"module"`
	Image        string    `json:"image,omitempty" yaml:"image,omitempty"`
	Step         *StepView `json:"step,omitempty" yaml:"step,omitempty"`
	Position     int       `json:"position" yaml:"position"`
	VisibleSteps []string  `json:"visible_steps" yaml:"visible_steps"`
	CanContinue  bool      `json:"can_continue" yaml:"can_continue"`
	IsLast       bool      `json:"is_last" yaml:"is_last"`
}

// StepView is one wizard page.
type StepView struct {
	Index  int         `json:"index" yaml:"index"`
	Name   string      `json:"name" yaml:"name"`
	Groups []GroupView `json:"groups" yaml:"groups"`
}

// GroupView is a group of options and whether its constraint currently holds.
type GroupView struct {
	Name      string               `json:"name" yaml:"name"`
	Behavior  domain.GroupBehavior `json:"behavior" yaml:"behavior"`
	Satisfied bool                 `json:"satisfied" yaml:"satisfied"`
	Options   []OptionView         `json:"options" yaml:"options"`
}

// OptionView is one option with its resolved type.
type OptionView struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string          `json:"image,omitempty" yaml:"image,omitempty"`
	Type        domain.TypeName `json:"type" yaml:"type"`
	Selected    bool            `json:"selected" yaml:"selected"`
}

// View renders the current state of the session.
func (s *Session) View() View {
	doc := s.wizard.Document()
	visible := s.wizard.VisibleSteps()

	v := View{
		SessionID:    s.ID,
		Module:       doc.ModuleName,
		Image:        doc.ModuleImage,
		Position:     s.wizard.Position(),
		VisibleSteps: make([]string, 0, len(visible)),
		CanContinue:  s.wizard.CanContinue(),
		IsLast:       s.IsLastStep(),
	}
	for _, ref := range visible {
		v.VisibleSteps = append(v.VisibleSteps, ref.Step.Name)
	}

	ref, ok := s.wizard.CurrentStep()
	if !ok {
		return v
	}

	sel := s.wizard.Selection()
	step := &StepView{Index: ref.Index, Name: ref.Step.Name}
	for gi := range ref.Step.Groups {
		group := &ref.Step.Groups[gi]
		gv := GroupView{
			Name:     group.Name,
			Behavior: group.Behavior,
		}
		for oi := range group.Options {
			opt := &group.Options[oi]
			gv.Options = append(gv.Options, OptionView{
				Name:        opt.Name,
				Description: opt.Description,
				Image:       opt.Image,
				Type:        s.wizard.OptionType(ref.Index, opt),
				Selected:    sel.Has(ref.Step.Name, group.Name, oi),
			})
		}
		gv.Satisfied = runtime.SatisfiesConstraint(group.Behavior, sel.Count(ref.Step.Name, group.Name))
		step.Groups = append(step.Groups, gv)
	}
	v.Step = step
	return v
}
