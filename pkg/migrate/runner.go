package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pinport/pinport/pkg/arc"
	"github.com/pinport/pinport/pkg/backup"
	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/match"
	"github.com/pinport/pinport/pkg/mozlz4"
	"github.com/pinport/pinport/pkg/profile"
	"github.com/pinport/pinport/pkg/zen"
)

// Runner encapsulates pipeline execution. It is stateless except for
// the logger; the interaction seams travel in Options, so one Runner
// can serve interactive and non-interactive runs alike.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner logging through logger. A nil logger
// falls back to the default logger.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete source → target → match → plan → write
// pipeline. With opts.DryRun the result carries the plan and nothing
// is backed up or written. A declined confirmation returns a UserAbort
// error and leaves the profile untouched.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()

	result := &Result{}

	// Stage 1: Source
	parseStart := time.Now()
	spaces, err := r.ReadSource(opts)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)

	bm, fl, loose := bookmarks.Count(spaces)
	r.Logger.Info("parsed sidebar",
		"spaces", len(spaces),
		"bookmarks", bm+loose,
		"folders", fl,
		"duration", result.Stats.ParseTime)

	// Stage 2: Target
	prof, err := r.FindProfile(opts)
	if err != nil {
		return nil, err
	}
	_, workspaces, err := r.ReadTarget(prof)
	if err != nil {
		return nil, fmt.Errorf("read target: %w", err)
	}
	r.Logger.Info("located profile", "profile", prof.Name, "workspaces", len(workspaces))

	// Stage 3: Match
	names := make([]string, 0, len(spaces))
	for _, space := range spaces {
		names = append(names, space.Name)
	}
	matched := match.Match(names, workspaces)
	r.Logger.Info("matched spaces",
		"matched", len(matched.Resolved),
		"unresolved", len(matched.Unresolved))

	assign, err := match.Resolve(ctx, matched, workspaces, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("resolve spaces: %w", err)
	}

	// Stage 4: Plan
	plan := buildPlan(spaces, assign, workspaces)
	result.Plan = plan
	result.Stats.Spaces = plan.Migrated()
	result.Stats.Bookmarks = plan.Bookmarks
	result.Stats.Folders = plan.Folders
	result.Stats.Standalone = plan.Standalone
	r.Logger.Info("planned migration",
		"spaces", plan.Migrated(),
		"bookmarks", plan.Bookmarks+plan.Standalone)

	if opts.DryRun {
		return result, nil
	}

	// Stage 5: Write
	if opts.Confirm != nil {
		ok, err := opts.Confirm(plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeAborted, "migration cancelled")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writeStart := time.Now()
	backups, err := backup.NewManager(prof).Snapshot(opts.Now())
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	result.Backups = backups
	r.Logger.Info("backed up session stores", "files", len(backups))

	written, err := r.writeStores(prof, spaces, assign, opts)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Written = written
	result.Stats.WriteTime = time.Since(writeStart)
	r.Logger.Info("wrote pinned records",
		"files", len(written),
		"duration", result.Stats.WriteTime)

	return result, nil
}

// ReadSource parses the Arc sidebar into the canonical forest.
func (r *Runner) ReadSource(opts Options) ([]bookmarks.Space, error) {
	path := opts.SidebarPath
	if path == "" {
		var err error
		path, err = profile.ArcSidebarPath()
		if err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read sidebar %s", path)
	}
	return arc.Parse(data, arc.Options{
		IncludeUnpinned: opts.IncludeUnpinned,
		Logger:          r.logf,
	})
}

// FindProfile locates the target Zen profile.
func (r *Runner) FindProfile(opts Options) (*profile.ZenProfile, error) {
	if opts.ProfileDir != "" {
		return profile.ZenProfileAt(opts.ProfileDir)
	}
	return profile.FindZenProfile()
}

// ReadTarget decodes the profile's sessions store and returns it
// together with its workspace listing.
func (r *Runner) ReadTarget(prof *profile.ZenProfile) (*zen.Document, []zen.Workspace, error) {
	doc, err := readStore(prof.SessionsPath(), zen.LayoutSessions)
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.Workspaces(), nil
}

// store pairs a decoded session document with its file path. touch
// marks the documents whose timestamp is bumped on write; the rolling
// recovery copy keeps its original one.
type store struct {
	path  string
	doc   *zen.Document
	touch bool
}

// loadStores re-reads every session store of the profile and returns
// them in write order together with the union of their record ids.
func (r *Runner) loadStores(prof *profile.ZenProfile) ([]store, map[string]bool, error) {
	recovery, err := readStore(prof.RecoveryPath(), zen.LayoutRecovery)
	if err != nil {
		return nil, nil, err
	}
	stores := []store{{path: prof.RecoveryPath(), doc: recovery, touch: true}}

	if data, err := mozlz4.ReadFile(prof.RecoveryBackupPath()); err == nil {
		bak, err := zen.Decode(data, zen.LayoutRecovery)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filepath.Base(prof.RecoveryBackupPath()), err)
		}
		stores = append(stores, store{path: prof.RecoveryBackupPath(), doc: bak, touch: false})
	} else if !os.IsNotExist(err) {
		return nil, nil, err
	}

	sessions, err := readStore(prof.SessionsPath(), zen.LayoutSessions)
	if err != nil {
		return nil, nil, err
	}
	stores = append(stores, store{path: prof.SessionsPath(), doc: sessions, touch: true})

	existing := make(map[string]bool)
	for _, st := range stores {
		for id := range st.doc.ExistingIDs() {
			existing[id] = true
		}
	}
	return stores, existing, nil
}

// writeStores synthesizes the pinned records once and writes them into
// every session store. All documents are cleaned, updated and encoded
// before the first byte reaches disk, so an encoding failure never
// leaves the stores out of step.
func (r *Runner) writeStores(prof *profile.ZenProfile, spaces []bookmarks.Space, assign map[string]string, opts Options) ([]string, error) {
	stores, existing, err := r.loadStores(prof)
	if err != nil {
		return nil, err
	}

	graph := zen.Synthesize(spaces, assign, existing, zen.SynthOptions{Now: opts.Now})
	zen.PropagateEmptyTabIDs(graph)
	r.Logger.Debug("synthesized pinned records",
		"folders", len(graph.Folders),
		"tabs", len(graph.Tabs))

	now := opts.Now()
	payloads := make([][]byte, len(stores))
	for i, st := range stores {
		if err := zen.CleanPinned(st.doc, zen.Options{Logger: r.logf}); err != nil {
			return nil, fmt.Errorf("clean %s: %w", filepath.Base(st.path), err)
		}
		if st.touch {
			st.doc.Touch(now)
		}
		if err := zen.ApplyPinned(st.doc, graph); err != nil {
			return nil, fmt.Errorf("apply %s: %w", filepath.Base(st.path), err)
		}
		payloads[i], err = st.doc.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", filepath.Base(st.path), err)
		}
	}

	written := make([]string, 0, len(stores))
	for i, st := range stores {
		if err := mozlz4.WriteFile(st.path, payloads[i]); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(st.path), err)
		}
		written = append(written, st.path)
	}
	return written, nil
}

// readStore reads and decodes one mozlz4 session store.
func readStore(path string, layout zen.Layout) (*zen.Document, error) {
	data, err := mozlz4.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "session store %s", path)
		}
		return nil, err
	}
	doc, err := zen.Decode(data, layout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// logf adapts the logger to the parser diagnostics callbacks.
func (r *Runner) logf(msg string, args ...any) {
	r.Logger.Debugf(msg, args...)
}
