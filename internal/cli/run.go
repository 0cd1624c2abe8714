package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/presentation/tui"
	"github.com/aretw0/fomod/pkg/adapters/file"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	EngineOptions
	Path     string
	Format   string
	LogLevel string
	Headless bool

	// SessionID enables Stop & Resume: the wizard is saved under this ID
	// when the user quits and picked up again on the next run.
	SessionID  string
	SessionDir string
	Fresh      bool

	// Renderer formats option descriptions; nil prints them verbatim.
	Renderer fomod.ContentRenderer
}

// Run drives the wizard interactively on in/out and prints the manifest
// once the last step is confirmed.
func Run(opts RunOptions, in io.Reader, out io.Writer) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}
	files, err := createOracle(opts.DataDir, opts.PluginsFile)
	if err != nil {
		return err
	}
	eng := createEngine(opts.EngineOptions, files, logger)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	var store ports.SessionStore
	if opts.SessionID != "" {
		store = file.New(opts.SessionDir)
	}
	sess, resumed, err := openSession(sigCtx, eng, store, opts)
	if err != nil {
		return err
	}

	if !opts.Headless {
		tui.PrintBanner(out, fomod.Version)
	}
	if resumed {
		logger.Info("Session Resumed", "session_id", sess.ID)
		if ref, ok := sess.CurrentStep(); ok {
			printSystemMessage(out, "Resuming session '%s' at step '%s'.", sess.ID, ref.Step.Name)
		}
	}
	if !sess.RequirementsMet() {
		printSystemMessage(out, "Warning: the requirements of this module are not met.")
	}

	r := fomod.NewRunner()
	r.Input = NewInterruptibleReader(in, sigCtx.Done())
	r.Output = out
	r.Headless = opts.Headless
	r.Renderer = opts.Renderer

	confirmed, runErr := r.Run(sess)
	if sigCtx.Err() != nil && runErr == nil {
		runErr = sigCtx.Err()
	}

	if store != nil {
		if err := persist(store, sess, confirmed); err != nil {
			logger.Warn("Failed to persist session", "session_id", sess.ID, "err", err)
		}
	}

	if runErr != nil {
		if isInterrupted(runErr) {
			if sig := sigCtx.Signal(); sig != nil {
				logger.Info("Interrupted by signal", "signal", sig.String(), "session_id", sess.ID)
			}
			if ref, ok := sess.CurrentStep(); ok {
				printSystemMessage(out, "Interrupted at step '%s'.", ref.Step.Name)
			}
			return nil
		}
		return runErr
	}
	if !confirmed {
		return nil
	}
	return WriteManifest(out, sess.Manifest(), opts.Format)
}

// openSession loads the module and, when a stored session exists, carries
// its selections and cursor over. Selections that no longer fit an edited
// module are dropped by Restore.
func openSession(ctx context.Context, eng *fomod.Engine, store ports.SessionStore, opts RunOptions) (*fomod.Session, bool, error) {
	sess, err := loadSession(eng, opts.Path)
	if err != nil {
		return nil, false, err
	}
	if store == nil {
		return sess, false, nil
	}
	sess.ID = opts.SessionID

	if opts.Fresh {
		if err := store.Delete(ctx, opts.SessionID); err != nil {
			return nil, false, fmt.Errorf("reset session: %w", err)
		}
		return sess, false, nil
	}

	stored, err := store.Load(ctx, opts.SessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return sess, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	snap := sess.Snapshot()
	snap.Selections = stored.Selections
	snap.Cursor = stored.Cursor
	resumed, err := eng.Restore(snap)
	if err != nil {
		return nil, false, err
	}
	return resumed, true, nil
}

// persist keeps an unfinished session for later and forgets a finished one.
func persist(store ports.SessionStore, sess *fomod.Session, finished bool) error {
	ctx := context.Background()
	if finished {
		return store.Delete(ctx, sess.ID)
	}
	return store.Save(ctx, sess.Snapshot())
}
