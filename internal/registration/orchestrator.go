package registration

import (
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/ncreg/pkg/ignore"
	"github.com/fulmenhq/ncreg/pkg/listfile"
	"github.com/fulmenhq/ncreg/pkg/logger"
	"github.com/fulmenhq/ncreg/pkg/safeio"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// State is the orchestrator's position in a run.
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateRestoring
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateRestoring:
		return "restoring"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Status summarizes how a run ended.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusPlanned   Status = "planned"
	StatusSkipped   Status = "skipped"
	StatusRestored  Status = "restored"
	StatusNoBackup  Status = "no-backup"
)

// Options configures an Orchestrator.
type Options struct {
	// BaseDir is the project root every other path is relative to.
	BaseDir  string
	Paths    Paths
	PathMode PathMode
	// KeepDuplicates disables de-duplication of discovered paths.
	KeepDuplicates bool
	// DryRun computes the manifest without touching the filesystem.
	DryRun bool
	// Filesystem overrides the default osfs rooted at BaseDir.
	Filesystem billy.Filesystem
	Logger     Logger
}

// Result describes one Generate or Uninstall run.
type Result struct {
	Status Status `json:"status"`
	// Reason is set when Status is StatusSkipped.
	Reason         error            `json:"-"`
	Manifest       string           `json:"manifest"`
	Backup         string           `json:"backup"`
	BackedUp       bool             `json:"backedUp"`
	Restored       bool             `json:"restored"`
	Discovered     int              `json:"discovered"`
	Entries        []string         `json:"entries,omitempty"`
	Excluded       []string         `json:"excluded,omitempty"`
	Ignored        []string         `json:"ignored,omitempty"`
	FailedPatterns []PatternFailure `json:"-"`
}

// Orchestrator runs generation and restore against one base directory.
type Orchestrator struct {
	opts     Options
	baseDir  string
	fs       billy.Filesystem
	log      Logger
	expander *Expander
	backups  *BackupManager
	writer   *ManifestWriter
	state    State
}

// New validates opts and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.BaseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	baseDir, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	mode, err := ParsePathMode(string(opts.PathMode))
	if err != nil {
		return nil, err
	}
	opts.PathMode = mode
	opts.Paths = opts.Paths.withDefaults()

	fs := opts.Filesystem
	if fs == nil {
		fs = osfs.New(baseDir)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Orchestrator{
		opts:     opts,
		baseDir:  baseDir,
		fs:       fs,
		log:      log,
		expander: NewExpander(log),
		backups:  NewBackupManager(fs),
		writer:   NewManifestWriter(fs, mode),
		state:    StateIdle,
	}, nil
}

// Paths returns the resolved file locations.
func (o *Orchestrator) Paths() Paths { return o.opts.Paths }

// BaseDir returns the absolute base directory.
func (o *Orchestrator) BaseDir() string { return o.baseDir }

// Filesystem returns the filesystem rooted at the base directory.
func (o *Orchestrator) Filesystem() billy.Filesystem { return o.fs }

// State returns where the last run got to.
func (o *Orchestrator) State() State { return o.state }

// Generate rebuilds the manifest. A missing glob list is reported as
// StatusSkipped with a nil error and leaves the filesystem untouched.
func (o *Orchestrator) Generate() (*Result, error) {
	o.state = StateGenerating
	defer func() { o.state = StateDone }()

	p := o.opts.Paths
	res := &Result{Manifest: p.Manifest, Backup: p.Backup}

	ok, err := safeio.Exists(o.fs, p.GlobList)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p.GlobList, err)
	}
	if !ok {
		o.log.Warn("Glob list not found, skipping manifest generation", logger.String("path", p.GlobList))
		res.Status = StatusSkipped
		res.Reason = fmt.Errorf("%w: %s", ErrMissingGlobList, p.GlobList)
		return res, nil
	}

	patterns, err := listfile.Load(o.fs, p.GlobList)
	if err != nil {
		return nil, &ConfigError{Path: p.GlobList, Err: err}
	}
	exclusions, err := o.loadExclusions()
	if err != nil {
		return nil, err
	}
	ignores, err := ignore.Load(o.fs, p.Ignore)
	if err != nil {
		return nil, &ConfigError{Path: p.Ignore, Err: err}
	}

	if !o.opts.DryRun {
		res.BackedUp, err = o.backups.BackupIfNeeded(p.Manifest, p.Backup)
		if err != nil {
			return nil, err
		}
		if res.BackedUp {
			o.log.Info("Backed up previous manifest", logger.String("from", p.Manifest), logger.String("to", p.Backup))
		}
	}

	expansion := o.expander.Expand(o.baseDir, patterns)
	res.FailedPatterns = expansion.Failed
	res.Discovered = len(expansion.Paths)

	discovered := expansion.Paths
	if !o.opts.KeepDuplicates {
		discovered = Deduplicate(discovered)
	}

	kept, excluded := NewExclusionFilter(exclusions).Filter(discovered)
	kept, ignored := o.dropIgnored(ignores, kept)
	normalizer := NewNormalizer(o.baseDir, o.opts.PathMode)
	res.Entries = normalizer.Normalize(kept)
	res.Excluded = normalizer.Normalize(excluded)
	res.Ignored = normalizer.Normalize(ignored)

	if o.opts.DryRun {
		o.log.Info("Planned manifest", logger.String("path", p.Manifest), logger.Int("entries", len(res.Entries)))
		res.Status = StatusPlanned
		return res, nil
	}

	if err := o.writer.Write(p.Manifest, res.Entries); err != nil {
		return nil, err
	}
	o.log.Info("Wrote manifest",
		logger.String("path", p.Manifest),
		logger.Int("entries", len(res.Entries)),
		logger.Int("excluded", len(res.Excluded)),
		logger.Int("ignored", len(res.Ignored)))
	res.Status = StatusGenerated
	return res, nil
}

// dropIgnored splits paths on the ignore matcher, testing each path
// relative to the base directory.
func (o *Orchestrator) dropIgnored(m *ignore.Matcher, paths []string) (kept, ignored []string) {
	if m.Empty() {
		return paths, nil
	}
	kept = make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(o.baseDir, p)
		if err == nil && m.IsIgnored(rel) {
			o.log.Debug("Ignored registration file", logger.String("path", p))
			ignored = append(ignored, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, ignored
}

func (o *Orchestrator) loadExclusions() ([]string, error) {
	p := o.opts.Paths.Exclude
	ok, err := safeio.Exists(o.fs, p)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if !ok {
		o.log.Debug("No exclusion list", logger.String("path", p))
		return nil, nil
	}
	entries, err := listfile.Load(o.fs, p)
	if err != nil {
		return nil, &ConfigError{Path: p, Err: err}
	}
	return entries, nil
}

// Uninstall puts the backed-up manifest back. Without a backup it reports
// StatusNoBackup and changes nothing.
func (o *Orchestrator) Uninstall() (*Result, error) {
	o.state = StateRestoring
	defer func() { o.state = StateDone }()

	p := o.opts.Paths
	res := &Result{Manifest: p.Manifest, Backup: p.Backup, Status: StatusNoBackup}
	if o.opts.DryRun {
		ok, err := safeio.Exists(o.fs, p.Backup)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p.Backup, err)
		}
		if ok {
			res.Status = StatusPlanned
		}
		return res, nil
	}

	restored, err := o.backups.Restore(p.Manifest, p.Backup)
	if err != nil {
		return nil, err
	}
	if restored {
		o.log.Info("Restored manifest from backup", logger.String("path", p.Manifest))
		res.Status = StatusRestored
		res.Restored = true
	} else {
		o.log.Debug("No manifest backup to restore", logger.String("path", p.Backup))
	}
	return res, nil
}
