package fomod

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/aretw0/fomod/internal/compiler"
	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/internal/runtime"
	"github.com/aretw0/fomod/pkg/archive"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the library.
// It turns raw module configurations into wizard sessions.
type Engine struct {
	parser ports.DocumentParser
	files  ports.FileOracle
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithParser injects a custom DocumentParser instead of the built-in XML parser.
func WithParser(p ports.DocumentParser) Option {
	return func(e *Engine) {
		e.parser = p
	}
}

// WithFileOracle sets the oracle answering file dependencies.
// Without one every file reads as missing.
func WithFileOracle(files ports.FileOracle) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so the runtime never receives nil.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.parser == nil {
		eng.parser = compiler.NewParser(compiler.WithLogger(eng.logger))
	}
	return eng
}

// Load parses a module configuration and its optional info.xml (nil or empty
// to skip) and starts a fresh session on it. A malformed configuration fails
// with a *domain.ConfigurationError and no session.
func (e *Engine) Load(moduleConfig, info []byte) (*Session, error) {
	doc, meta, err := e.parse(moduleConfig, info)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With("module", doc.ModuleName)
	s := &Session{
		ID:           uuid.NewString(),
		moduleConfig: moduleConfig,
		rawInfo:      info,
		info:         meta,
		logger:       logger,
	}
	s.wizard = runtime.NewWizard(doc, e.wizardOptions(logger)...)
	logger.Debug("session started", "session", s.ID, "visible_steps", len(s.wizard.VisibleSteps()))
	return s, nil
}

// LoadArchive locates fomod/ModuleConfig.xml in an extracted archive and
// starts a session on it. name labels the archive and is the manifest name
// of last resort. Plan sources are rebased onto the directory holding the
// fomod folder.
func (e *Engine) LoadArchive(fsys fs.FS, name string) (*Session, error) {
	layout, err := archive.Locate(fsys)
	if err != nil {
		return nil, fmt.Errorf("locate module in %s: %w", name, err)
	}
	moduleConfig, info, err := layout.Read(fsys)
	if err != nil {
		return nil, err
	}

	s, err := e.Load(moduleConfig, info)
	if err != nil {
		return nil, err
	}
	s.archiveName = name
	s.root = layout.Root
	return s, nil
}

// Restore resumes a session from a snapshot. Selections that no longer match
// the document are dropped and the cursor is re-clamped.
func (e *Engine) Restore(snap *domain.Snapshot) (*Session, error) {
	doc, meta, err := e.parse(snap.ModuleConfig, snap.Info)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", snap.ID, err)
	}

	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger := e.logger.With("module", doc.ModuleName)
	s := &Session{
		ID:           id,
		moduleConfig: snap.ModuleConfig,
		rawInfo:      snap.Info,
		info:         meta,
		archiveName:  snap.ArchiveName,
		root:         snap.Root,
		logger:       logger,
	}
	sel := domain.ImportSelection(snap.Selections)
	s.wizard = runtime.RestoreWizard(doc, sel, snap.Cursor, e.wizardOptions(logger)...)
	logger.Debug("session restored", "session", s.ID, "cursor", s.wizard.Cursor())
	return s, nil
}

// Validate parses a module configuration without starting a session.
func (e *Engine) Validate(moduleConfig []byte) (*domain.Document, error) {
	return e.parser.ParseModule(moduleConfig)
}

func (e *Engine) parse(moduleConfig, info []byte) (*domain.Document, *domain.ModuleInfo, error) {
	doc, err := e.parser.ParseModule(moduleConfig)
	if err != nil {
		return nil, nil, err
	}

	var meta *domain.ModuleInfo
	if len(info) > 0 {
		meta, err = e.parser.ParseInfo(info)
		if err != nil {
			// Metadata only feeds the manifest, which has fallbacks.
			e.logger.Warn("ignoring unreadable info.xml", "module", doc.ModuleName, "err", err)
			meta = nil
		}
	}
	return doc, meta, nil
}

func (e *Engine) wizardOptions(logger *slog.Logger) []runtime.WizardOption {
	return []runtime.WizardOption{
		runtime.WithFileOracle(e.files),
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(e.hooks),
	}
}
