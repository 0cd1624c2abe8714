package fomod

import (
	"log/slog"
	"time"

	"github.com/aretw0/fomod/internal/runtime"
	"github.com/aretw0/fomod/pkg/archive"
	"github.com/aretw0/fomod/pkg/domain"
)

// Session is one run of the install wizard over one document.
// A Session is not safe for concurrent use; hosts serving several clients
// serialize access per session (see pkg/session).
type Session struct {
	// ID identifies the session in a store.
	ID string

	wizard *runtime.Wizard
	info   *domain.ModuleInfo

	moduleConfig []byte
	rawInfo      []byte
	archiveName  string
	root         string

	logger *slog.Logger
}

// Document returns the parsed module configuration.
func (s *Session) Document() *domain.Document {
	return s.wizard.Document()
}

// Info returns the package metadata, or nil when none was shipped.
func (s *Session) Info() *domain.ModuleInfo {
	return s.info
}

// Root returns the archive directory holding the fomod folder.
func (s *Session) Root() string {
	return s.root
}

// SetArchive records the archive name and root for a session started with
// Load rather than LoadArchive.
func (s *Session) SetArchive(name, root string) {
	s.archiveName = name
	s.root = root
}

// VisibleSteps returns the steps currently shown, in document order.
func (s *Session) VisibleSteps() []domain.StepRef {
	return s.wizard.VisibleSteps()
}

// CurrentStep returns the step under the cursor. It is false only when the
// module has no visible step at all.
func (s *Session) CurrentStep() (domain.StepRef, bool) {
	return s.wizard.CurrentStep()
}

// Position returns the index of the current step within VisibleSteps, or -1.
func (s *Session) Position() int {
	return s.wizard.Position()
}

// IsLastStep reports whether the cursor is on the last visible step.
func (s *Session) IsLastStep() bool {
	pos := s.wizard.Position()
	return pos < 0 || pos == len(s.wizard.VisibleSteps())-1
}

// CanContinue reports whether the current step's constraints are satisfied.
func (s *Session) CanContinue() bool {
	return s.wizard.CanContinue()
}

// MoveForward advances one visible step. It is a no-op, reporting false, when
// CanContinue does not hold or the cursor is on the last step.
func (s *Session) MoveForward() bool {
	return s.wizard.MoveForward()
}

// MoveBackward goes back one visible step. It is a no-op on the first step.
func (s *Session) MoveBackward() bool {
	return s.wizard.MoveBackward()
}

// Select selects an option. Selections the group forbids are ignored and
// report false; so do names that match no option.
func (s *Session) Select(step, group, option string) bool {
	return s.wizard.Select(step, group, option)
}

// Deselect deselects an option, with the same rules as Select.
func (s *Session) Deselect(step, group, option string) bool {
	return s.wizard.Deselect(step, group, option)
}

// IsSelected reports whether the named option is selected.
func (s *Session) IsSelected(step, group, option string) bool {
	idx, err := s.wizard.Lookup(step, group, option)
	if err != nil {
		return false
	}
	return s.wizard.IsSelected(step, group, idx)
}

// OptionType resolves the effective type of the named option for the flags
// its step currently sees.
func (s *Session) OptionType(step, group, option string) (domain.TypeName, error) {
	idx, err := s.wizard.Lookup(step, group, option)
	if err != nil {
		return "", err
	}
	doc := s.wizard.Document()
	si := doc.StepIndex(step)
	g, _ := doc.Steps[si].Group(group)
	return s.wizard.OptionType(si, &g.Options[idx]), nil
}

// Flags returns the flags compiled from every visible step.
func (s *Session) Flags() domain.FlagMap {
	return s.wizard.Flags()
}

// RequirementsMet reports whether the module-level dependencies hold.
func (s *Session) RequirementsMet() bool {
	return s.wizard.RequirementsMet()
}

// InstallPlan returns the resolved, ordered, deduplicated file list.
// Sources are as written in the module configuration.
func (s *Session) InstallPlan() []domain.PlanEntry {
	return s.wizard.InstallPlan()
}

// Manifest builds what a host installer needs: identity, metadata and the
// install plan with sources rebased onto the archive and slashes normalized.
// Entries whose source or destination leave their directory are dropped.
func (s *Session) Manifest() domain.Manifest {
	doc := s.wizard.Document()
	m := domain.Manifest{
		Name:       doc.ModuleName,
		Version:    domain.DefaultVersion,
		Categories: []string{},
	}
	if s.archiveName != "" {
		m.Name = s.archiveName
	}
	if s.info != nil {
		if s.info.Name != "" {
			m.Name = s.info.Name
		}
		if s.info.Version != "" {
			m.Version = s.info.Version
		}
		m.Author = s.info.Author
		m.Website = s.info.Website
		m.Description = s.info.Description
		if len(s.info.Groups) > 0 {
			m.Categories = append(m.Categories, s.info.Groups...)
		}
	}

	plan := s.wizard.InstallPlan()
	m.Files = make([]domain.PlanEntry, 0, len(plan))
	for _, entry := range plan {
		src := archive.Rebase(s.root, entry.Source)
		if domain.Escapes(entry.Source) || domain.Escapes(src) || domain.Escapes(entry.Destination) {
			s.logger.Warn("dropping install entry outside its directory",
				"source", entry.Source, "destination", entry.Destination)
			continue
		}
		dest := domain.NormalizePath(entry.Destination)
		if dest == "" {
			dest = "."
		}
		m.Files = append(m.Files, domain.PlanEntry{
			Source:      src,
			Destination: dest,
			Folder:      entry.Folder,
		})
	}
	return m
}

// Snapshot captures the session for a store.
func (s *Session) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		ID:           s.ID,
		ArchiveName:  s.archiveName,
		Root:         s.root,
		ModuleConfig: s.moduleConfig,
		Info:         s.rawInfo,
		Selections:   s.wizard.Selection().Export(),
		Cursor:       s.wizard.Cursor(),
		UpdatedAt:    time.Now().UTC(),
	}
}
