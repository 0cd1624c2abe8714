package runtime

import "github.com/aretw0/fomod/pkg/domain"

// Evaluate reports whether dep holds in ctx. A nil dependency always holds.
// Evaluation has no side effects, so short-circuiting is unobservable.
func Evaluate(dep *domain.Dependency, ctx Context) bool {
	if dep == nil {
		return true
	}

	switch dep.Kind {
	case domain.DependencyFlag:
		return ctx.Flags.Get(dep.Flag) == dep.Value
	case domain.DependencyFile:
		return ctx.stateOf(dep.File) == dep.State
	case domain.DependencyAnd:
		for _, child := range dep.Children {
			if !Evaluate(child, ctx) {
				return false
			}
		}
		return true
	case domain.DependencyOr:
		for _, child := range dep.Children {
			if Evaluate(child, ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ResolveType returns the effective type of an option: the first pattern whose
// dependency holds, else the default.
func ResolveType(t domain.OptionType, ctx Context) domain.TypeName {
	for _, p := range t.Patterns {
		if Evaluate(p.Dependency, ctx) {
			return p.Type
		}
	}
	if t.Default == "" {
		return domain.TypeOptional
	}
	return t.Default
}
