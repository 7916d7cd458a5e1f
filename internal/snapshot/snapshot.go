package snapshot

import (
	"context"
	"strings"
	"time"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/git"
	"github.com/bashhack/gitwip/internal/logger"
	"github.com/bashhack/gitwip/internal/message"
)

// timestampLayout renders UTC time with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// VCS is the subset of git primitives the recorder needs.
type VCS interface {
	Status(ctx context.Context) (git.Status, error)
	DiffSummary(ctx context.Context, path string) (git.DiffStat, error)
	Add(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
}

// Options controls how snapshot commits are written.
type Options struct {
	// Prefix starts every snapshot message and marks it for squashing.
	Prefix string

	// AutoGenerate selects a synthesized conventional message over Template.
	AutoGenerate bool

	// Template is the fixed message used when AutoGenerate is off.
	Template string

	// Push enables pushing Branch to Remote after each snapshot.
	Push   bool
	Remote string
	Branch string
}

// Recorder turns a set of changed paths into one snapshot commit.
type Recorder struct {
	opts        Options
	vcs         VCS
	synthesizer *message.Synthesizer
	logger      logger.Logger
	now         func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithSynthesizer overrides the default message synthesizer.
func WithSynthesizer(s *message.Synthesizer) Option {
	return func(r *Recorder) {
		if s != nil {
			r.synthesizer = s
		}
	}
}

// WithClock overrides the time source used for template timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a Recorder.
func NewRecorder(opts Options, vcs VCS, log logger.Logger, options ...Option) *Recorder {
	r := &Recorder{
		opts:        opts,
		vcs:         vcs,
		synthesizer: message.NewSynthesizer(),
		logger:      log,
		now:         time.Now,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Record commits the current changes and reports whether a commit was made.
//
// A nil changedPaths asks the recorder to query the working tree status for
// the full change set; a non-nil slice is used as given. An empty change set
// is not an error. Push failures are logged and do not affect the result.
func (r *Recorder) Record(ctx context.Context, changedPaths []string) (bool, error) {
	paths := changedPaths
	if paths == nil {
		st, err := r.vcs.Status(ctx)
		if err != nil {
			r.logger.Error("Failed to get changed files: %v", err)
			return false, err
		}
		paths = st.AllPaths()
	}

	if len(paths) == 0 {
		r.logger.Info("No changes to commit")
		return false, nil
	}

	msg := r.message(ctx, paths)

	if err := r.vcs.Add(ctx, paths); err != nil {
		r.logger.Error("Failed to stage changes: %v", err)
		r.logger.WarningToUser("Failed to stage changes: %v", err)
		return false, vcsError("add", err)
	}

	if err := r.vcs.Commit(ctx, msg); err != nil {
		r.logger.Error("Failed to commit changes: %v", err)
		r.logger.WarningToUser("Failed to commit changes: %v", err)
		return false, vcsError("commit", err)
	}

	r.logger.Info("Auto-saved changes with message: %s", msg)
	r.logger.Success("%s", msg)

	if r.opts.Push {
		if err := r.vcs.Push(ctx, r.opts.Remote, r.opts.Branch); err != nil {
			r.logger.Warning("Failed to push changes: %v", err)
			r.logger.WarningToUser("Failed to push to %s/%s: %v", r.opts.Remote, r.opts.Branch, err)
		} else {
			r.logger.Info("Pushed changes to %s/%s", r.opts.Remote, r.opts.Branch)
		}
	}

	return true, nil
}

func (r *Recorder) message(ctx context.Context, paths []string) string {
	if !r.opts.AutoGenerate {
		return r.opts.Prefix + " " + r.opts.Template + " [" + r.timestamp() + "]"
	}
	return r.opts.Prefix + " " + r.synthesizer.Synthesize(r.changeRecords(ctx, paths))
}

// changeRecords collects per-file numstats. Paths git cannot diff, such as
// untracked files, or that report no delta count as a single insertion.
func (r *Recorder) changeRecords(ctx context.Context, paths []string) []message.ChangeRecord {
	records := make([]message.ChangeRecord, 0, len(paths))
	for _, p := range paths {
		stat, err := r.vcs.DiffSummary(ctx, p)
		if err != nil || (stat.Insertions == 0 && stat.Deletions == 0 && !stat.IsBinary) {
			if err != nil && !gitwipErrors.Is(err, git.ErrNoDiff) {
				r.logger.Info("No diff summary for %s: %v", p, err)
			}
			records = append(records, message.ChangeRecord{Path: p, Insertions: 1})
			continue
		}
		records = append(records, message.ChangeRecord{
			Path:       p,
			Insertions: stat.Insertions,
			Deletions:  stat.Deletions,
			IsBinary:   stat.IsBinary,
		})
	}
	return records
}

func (r *Recorder) timestamp() string {
	ts := r.now().UTC().Format(timestampLayout)
	return strings.NewReplacer(":", "-", ".", "-").Replace(ts)
}

// vcsError makes sure a failure surfaces as a git operation error even when
// the VCS implementation returned something else.
func vcsError(operation string, err error) error {
	if gitwipErrors.Is(err, gitwipErrors.ErrGitOperationFailed) {
		return err
	}
	return gitwipErrors.NewGitError(operation, nil,
		gitwipErrors.Errorf("%w: %w", gitwipErrors.ErrGitOperationFailed, err), "")
}
