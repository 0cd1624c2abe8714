package domain

// DependencyKind tags the variant held by a Dependency node.
type DependencyKind string

const (
	DependencyFlag DependencyKind = "flag"
	DependencyFile DependencyKind = "file"
	DependencyAnd  DependencyKind = "and"
	DependencyOr   DependencyKind = "or"
)

// FileState is what a file oracle reports for a path.
type FileState string

const (
	FileMissing  FileState = "Missing"
	FileInactive FileState = "Inactive"
	FileActive   FileState = "Active"
)

// Valid reports whether s is a known file state.
func (s FileState) Valid() bool {
	return s == FileMissing || s == FileInactive || s == FileActive
}

// Dependency is a node of a boolean expression tree over flags and file states.
// Only the fields of the variant named by Kind are meaningful.
type Dependency struct {
	Kind DependencyKind `json:"kind" yaml:"kind"`

	// FlagCheck
	Flag  string `json:"flag,omitempty" yaml:"flag,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// FileCheck
	File  string    `json:"file,omitempty" yaml:"file,omitempty"`
	State FileState `json:"state,omitempty" yaml:"state,omitempty"`

	// And / Or
	Children []*Dependency `json:"children,omitempty" yaml:"children,omitempty"`
}

// FlagCheck holds when flags[name] == value. Absent flags read as "".
func FlagCheck(name, value string) *Dependency {
	return &Dependency{Kind: DependencyFlag, Flag: name, Value: value}
}

// FileCheck holds when the oracle reports state for path.
func FileCheck(path string, state FileState) *Dependency {
	return &Dependency{Kind: DependencyFile, File: path, State: state}
}

// And holds when every child holds. And() is true.
func And(children ...*Dependency) *Dependency {
	return &Dependency{Kind: DependencyAnd, Children: children}
}

// Or holds when any child holds. Or() is false.
func Or(children ...*Dependency) *Dependency {
	return &Dependency{Kind: DependencyOr, Children: children}
}

// Always returns a dependency that always holds.
func Always() *Dependency {
	return And()
}

// TypeName is the option type descriptor of the module format.
type TypeName string

const (
	TypeRequired      TypeName = "Required"
	TypeRecommended   TypeName = "Recommended"
	TypeOptional      TypeName = "Optional"
	TypeCouldBeUsable TypeName = "CouldBeUsable"
	TypeNotUsable     TypeName = "NotUsable"
)

// Valid reports whether t is a known type name.
func (t TypeName) Valid() bool {
	switch t {
	case TypeRequired, TypeRecommended, TypeOptional, TypeCouldBeUsable, TypeNotUsable:
		return true
	}
	return false
}

// PreSelected reports whether an option of this type starts selected.
func (t TypeName) PreSelected() bool {
	return t == TypeRequired || t == TypeRecommended
}

// TypePattern overrides the default type when Dependency holds.
type TypePattern struct {
	Dependency *Dependency `json:"dependency,omitempty" yaml:"dependency,omitempty"`
	Type       TypeName    `json:"type" yaml:"type"`
}

// OptionType is a possibly dependency-guarded option type.
// The first pattern whose dependency holds wins; otherwise Default applies.
type OptionType struct {
	Default  TypeName      `json:"default" yaml:"default"`
	Patterns []TypePattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// StaticType returns an unconditional option type.
func StaticType(name TypeName) OptionType {
	return OptionType{Default: name}
}
