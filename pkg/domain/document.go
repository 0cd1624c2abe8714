package domain

// GroupBehavior defines how many options of a group may (or must) be selected.
type GroupBehavior string

const (
	SelectAtLeastOne GroupBehavior = "SelectAtLeastOne"
	SelectExactlyOne GroupBehavior = "SelectExactlyOne"
	SelectAtMostOne  GroupBehavior = "SelectAtMostOne"
	SelectAny        GroupBehavior = "SelectAny"
	SelectAll        GroupBehavior = "SelectAll"
)

// Valid reports whether b is one of the known behaviors.
func (b GroupBehavior) Valid() bool {
	switch b {
	case SelectAtLeastOne, SelectExactlyOne, SelectAtMostOne, SelectAny, SelectAll:
		return true
	}
	return false
}

// IsRadio reports whether selecting an option clears the rest of the group.
func (b GroupBehavior) IsRadio() bool {
	return b == SelectExactlyOne || b == SelectAtMostOne
}

// Document is the parsed, immutable representation of a module configuration.
// Order of steps, groups and options is exactly the source order.
type Document struct {
	ModuleName  string `json:"module_name" yaml:"module_name"`
	ModuleImage string `json:"module_image,omitempty" yaml:"module_image,omitempty"`

	// Requirements must hold before the module is installable at all.
	// Nil means no requirement.
	Requirements *Dependency `json:"requirements,omitempty" yaml:"requirements,omitempty"`

	// Steps are the wizard pages, in source order.
	Steps []Step `json:"steps" yaml:"steps"`

	// Installs are always installed, regardless of choices.
	Installs []Install `json:"installs,omitempty" yaml:"installs,omitempty"`

	// ConditionalInstalls are evaluated against the final flag map.
	ConditionalInstalls []ConditionalInstall `json:"conditional_installs,omitempty" yaml:"conditional_installs,omitempty"`
}

// Step is one wizard page.
type Step struct {
	Name string `json:"name" yaml:"name"`

	// Visibility gates the step. Nil means always visible.
	Visibility *Dependency `json:"visibility,omitempty" yaml:"visibility,omitempty"`

	Groups []Group `json:"groups" yaml:"groups"`
}

// Group clusters options governed by a single Behavior.
type Group struct {
	Name     string        `json:"name" yaml:"name"`
	Behavior GroupBehavior `json:"behavior" yaml:"behavior"`
	Options  []Option      `json:"options" yaml:"options"`
}

// Flag is a name/value assignment made by a selected option.
type Flag struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Option is a selectable choice contributing files and flags.
type Option struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string     `json:"image,omitempty" yaml:"image,omitempty"`
	Type        OptionType `json:"type" yaml:"type"`
	Installs    []Install  `json:"installs,omitempty" yaml:"installs,omitempty"`
	Flags       []Flag     `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// ConditionalInstall installs Files when Dependency holds for the final flags.
type ConditionalInstall struct {
	Dependency *Dependency `json:"dependency,omitempty" yaml:"dependency,omitempty"`
	Installs   []Install   `json:"installs" yaml:"installs"`
}

// StepRef pairs a step with its position in the document.
type StepRef struct {
	Index int
	Step  *Step
}

// StepIndex returns the document index of the named step, or -1.
func (d *Document) StepIndex(name string) int {
	for i := range d.Steps {
		if d.Steps[i].Name == name {
			return i
		}
	}
	return -1
}

// Group returns the named group of the named step.
func (d *Document) Group(step, group string) (*Group, bool) {
	si := d.StepIndex(step)
	if si < 0 {
		return nil, false
	}
	return d.Steps[si].Group(group)
}

// Group returns the named group of the step.
func (s *Step) Group(name string) (*Group, bool) {
	for i := range s.Groups {
		if s.Groups[i].Name == name {
			return &s.Groups[i], true
		}
	}
	return nil, false
}

// OptionIndex returns the index of the first option with the given name, or -1.
func (g *Group) OptionIndex(name string) int {
	for i := range g.Options {
		if g.Options[i].Name == name {
			return i
		}
	}
	return -1
}
