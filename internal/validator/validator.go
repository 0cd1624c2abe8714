// Package validator looks for mistakes in a module that parse fine but make
// parts of the wizard unreachable or the install plan incomplete.
package validator

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/aretw0/fomod/internal/presentation/graph"
	"github.com/aretw0/fomod/pkg/archive"
	"github.com/aretw0/fomod/pkg/domain"
)

// Report lists the warnings found by Lint, in document order.
type Report struct {
	Warnings []string
}

// OK reports whether nothing was found.
func (r *Report) OK() bool {
	return len(r.Warnings) == 0
}

func (r *Report) add(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// setter records where a flag value is assigned.
type setter struct {
	step  int
	value string
}

// Lint checks doc for flag and option mistakes and for install paths that
// leave their directory. When fsys is not nil, every install source is also
// looked up in the archive under root.
func Lint(doc *domain.Document, fsys fs.FS, root string) *Report {
	r := &Report{}
	setters := collectSetters(doc)

	checkFlags := func(dep *domain.Dependency, where string, before int) {
		for _, fc := range flagChecks(dep) {
			sets, ok := setters[fc.Flag]
			if !ok {
				r.add("%s checks flag %q but no option sets it", where, fc.Flag)
				continue
			}
			if fc.Value == "" {
				continue
			}
			valueSet, setEarlier := false, false
			for _, s := range sets {
				if s.value == fc.Value {
					valueSet = true
					if s.step < before {
						setEarlier = true
					}
				}
			}
			switch {
			case !valueSet:
				r.add("%s checks flag %q for %q but no option sets that value", where, fc.Flag, fc.Value)
			case !setEarlier:
				r.add("%s checks flag %q for %q which is only set on this or later steps (%s)",
					where, fc.Flag, fc.Value, graph.Describe(dep))
			}
		}
	}

	checkFlags(doc.Requirements, "module dependencies", 0)
	for i := range doc.Steps {
		step := &doc.Steps[i]
		checkFlags(step.Visibility, fmt.Sprintf("step %q visibility", step.Name), i)

		for gi := range step.Groups {
			g := &step.Groups[gi]
			seen := make(map[string]bool, len(g.Options))
			for oi := range g.Options {
				opt := &g.Options[oi]
				if seen[opt.Name] {
					r.add("step %q, group %q: duplicate option %q cannot be addressed by name", step.Name, g.Name, opt.Name)
				}
				seen[opt.Name] = true
				for _, p := range opt.Type.Patterns {
					checkFlags(p.Dependency, fmt.Sprintf("option %q type pattern", opt.Name), i)
				}
				checkSources(r, fsys, root, opt.Installs, fmt.Sprintf("option %q", opt.Name))
			}
			if g.Behavior == domain.SelectAll && len(g.Options) > 1 {
				for oi := range g.Options {
					if t := g.Options[oi].Type; len(t.Patterns) == 0 && t.Default == domain.TypeNotUsable {
						r.add("step %q, group %q: option %q is NotUsable in a SelectAll group", step.Name, g.Name, g.Options[oi].Name)
					}
				}
			}
		}
	}

	for i, ci := range doc.ConditionalInstalls {
		where := fmt.Sprintf("conditional install %d", i+1)
		checkFlags(ci.Dependency, where, len(doc.Steps))
		checkSources(r, fsys, root, ci.Installs, where)
	}
	checkSources(r, fsys, root, doc.Installs, "required install files")
	return r
}

func collectSetters(doc *domain.Document) map[string][]setter {
	out := make(map[string][]setter)
	for i := range doc.Steps {
		for _, g := range doc.Steps[i].Groups {
			for _, opt := range g.Options {
				for _, f := range opt.Flags {
					out[f.Name] = append(out[f.Name], setter{step: i, value: f.Value})
				}
			}
		}
	}
	return out
}

// flagChecks returns the flag leaves of dep, sorted by flag then value.
func flagChecks(dep *domain.Dependency) []*domain.Dependency {
	var out []*domain.Dependency
	var walk func(*domain.Dependency)
	walk = func(d *domain.Dependency) {
		if d == nil {
			return
		}
		if d.Kind == domain.DependencyFlag {
			out = append(out, d)
		}
		for _, c := range d.Children {
			walk(c)
		}
	}
	walk(dep)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Flag != out[j].Flag {
			return out[i].Flag < out[j].Flag
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func checkSources(r *Report, fsys fs.FS, root string, installs []domain.Install, where string) {
	for _, in := range installs {
		if domain.Escapes(in.Destination) {
			r.add("%s: destination %q points outside the install directory", where, in.Destination)
		}
		if domain.Escapes(in.Source) {
			r.add("%s: source %q points outside the archive", where, in.Source)
			continue
		}
		if fsys == nil {
			continue
		}
		src := archive.Rebase(root, in.Source)
		if _, ok := archive.Resolve(fsys, src); !ok {
			kind := "file"
			if in.Folder {
				kind = "folder"
			}
			r.add("%s: %s %q is not in the archive", where, kind, in.Source)
		}
	}
}
