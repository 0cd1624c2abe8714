package runtime

import (
	"sort"
	"strings"

	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// ResolveFiles merges the unconditional installs, the installs of options
// selected in visible steps, and the conditional installs whose dependency
// holds for the flags of those same steps. The result is stably sorted by
// descending priority, so equal priorities keep document order.
//
// Selections in steps absent from visible are ignored, both for files and
// for flags.
func ResolveFiles(doc *domain.Document, sel *domain.SelectionState, visible []domain.StepRef, files ports.FileOracle) []domain.Install {
	out := make([]domain.Install, 0, len(doc.Installs))
	out = append(out, doc.Installs...)

	for _, ref := range visible {
		step := ref.Step
		for gi := range step.Groups {
			group := &step.Groups[gi]
			for _, oi := range sel.Selected(step.Name, group.Name) {
				if oi < 0 || oi >= len(group.Options) {
					continue
				}
				out = append(out, group.Options[oi].Installs...)
			}
		}
	}

	if len(doc.ConditionalInstalls) > 0 {
		ctx := Context{Flags: flagsOf(visible, sel), Files: files}
		for _, ci := range doc.ConditionalInstalls {
			if Evaluate(ci.Dependency, ctx) {
				out = append(out, ci.Installs...)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rank() > out[j].Rank()
	})
	return out
}

// InstallPlan turns resolved installs into plan entries, keeping only the
// first file per destination. Installs arrive highest priority first, so the
// higher priority wins a conflict. Paths are compared after slash
// normalization and case folding. Folders merge into their destination, so
// only exact duplicates of a folder mapping are dropped.
func InstallPlan(installs []domain.Install) []domain.PlanEntry {
	seen := make(map[string]struct{}, len(installs))
	out := make([]domain.PlanEntry, 0, len(installs))
	for _, in := range installs {
		target := in.Target()
		key := "file:" + strings.ToLower(domain.NormalizePath(target))
		if in.Folder {
			key = "folder:" + strings.ToLower(domain.NormalizePath(in.Source)) + ">" + strings.ToLower(domain.NormalizePath(target))
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.PlanEntry{
			Source:      in.Source,
			Destination: target,
			Folder:      in.Folder,
		})
	}
	return out
}
