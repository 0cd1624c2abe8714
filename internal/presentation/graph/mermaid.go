package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fomod/pkg/domain"
)

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	// VisibleSteps are the names of the steps the session currently shows.
	VisibleSteps []string
	CurrentStep  string
}

// GenerateMermaid produces a Mermaid flowchart of a module: the start node,
// one node per install step in document order, and the install plan node fed
// by the conditional installs. Step visibility conditions label the edges.
//
// Shapes:
// - Start: ((Circle))
// - Step: [Rectangle]
// - Conditional install: [/Parallelogram/]
// - Install plan: [[Subroutine]]
//
// With an overlay, visible steps, the current one and hidden ones are styled.
func GenerateMermaid(doc *domain.Document, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    start((\"%s\"))\n", escape(doc.ModuleName))

	prev := "start"
	for i, step := range doc.Steps {
		id := stepID(i)
		options := 0
		for _, g := range step.Groups {
			options += len(g.Options)
		}
		fmt.Fprintf(&sb, "    %s[\"%s <br/> %d groups, %d options\"]\n", id, escape(step.Name), len(step.Groups), options)

		arrow := "-->"
		if step.Visibility != nil {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(Describe(step.Visibility)))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", prev, arrow, id)
		prev = id
	}

	sb.WriteString("    install[[\"Install plan\"]]\n")
	fmt.Fprintf(&sb, "    %s --> install\n", prev)

	for i, ci := range doc.ConditionalInstalls {
		id := fmt.Sprintf("cond_%d", i)
		fmt.Fprintf(&sb, "    %s[/\"%d files\"/]\n", id, len(ci.Installs))
		fmt.Fprintf(&sb, "    %s -. \"%s\" .-> install\n", id, escape(Describe(ci.Dependency)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 4,color:#757575;\n")

		visible := make(map[string]bool, len(overlay.VisibleSteps))
		for _, name := range overlay.VisibleSteps {
			visible[name] = true
		}
		for i, step := range doc.Steps {
			class := "hidden"
			switch {
			case step.Name == overlay.CurrentStep:
				class = "current"
			case visible[step.Name]:
				class = "visited"
			}
			fmt.Fprintf(&sb, "    class %s %s;\n", stepID(i), class)
		}
	}

	return sb.String()
}

// Describe renders a dependency tree as a compact boolean expression.
func Describe(dep *domain.Dependency) string {
	if dep == nil {
		return "always"
	}
	switch dep.Kind {
	case domain.DependencyFlag:
		return fmt.Sprintf("%s = %s", dep.Flag, dep.Value)
	case domain.DependencyFile:
		return fmt.Sprintf("%s is %s", dep.File, dep.State)
	case domain.DependencyAnd, domain.DependencyOr:
		if len(dep.Children) == 0 {
			if dep.Kind == domain.DependencyAnd {
				return "always"
			}
			return "never"
		}
		if len(dep.Children) == 1 {
			return Describe(dep.Children[0])
		}
		sep := " AND "
		if dep.Kind == domain.DependencyOr {
			sep = " OR "
		}
		parts := make([]string, len(dep.Children))
		for i, c := range dep.Children {
			s := Describe(c)
			if (c.Kind == domain.DependencyAnd || c.Kind == domain.DependencyOr) && len(c.Children) > 1 {
				s = "(" + s + ")"
			}
			parts[i] = s
		}
		return strings.Join(parts, sep)
	default:
		return string(dep.Kind)
	}
}

func stepID(i int) string {
	return fmt.Sprintf("step_%d", i)
}

// escape keeps labels inside their double quotes.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
