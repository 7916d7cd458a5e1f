package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/git"
	"github.com/bashhack/gitwip/internal/logger"
	"github.com/bashhack/gitwip/internal/prompt"
	"github.com/bashhack/gitwip/internal/watcher"
)

// Watcher is a source of file change events.
type Watcher interface {
	Run(ctx context.Context) error
	Events() <-chan watcher.Event
	Errors() <-chan error
}

// Recorder creates snapshot commits. A nil path set means "query the
// working tree".
type Recorder interface {
	Record(ctx context.Context, changedPaths []string) (bool, error)
}

// Collapser squashes the snapshot run at the tip of history.
type Collapser interface {
	FindAutoCommits(ctx context.Context) ([]git.Commit, error)
	Collapse(ctx context.Context, finalMessage string) (bool, error)
}

// Options tunes the orchestrator.
type Options struct {
	// MaxFailures is how many consecutive identical snapshot errors are
	// tolerated before Watch gives up. 0 means never give up.
	MaxFailures int

	// ProductName is the default scope offered when finalizing.
	ProductName string
}

// Stats describes a session.
type Stats struct {
	Snapshots int
	NoChanges int
	Failures  int
	Squashed  int
	StartTime time.Time
}

// Orchestrator feeds file change events into the recorder and runs the
// interactive finalize flow.
type Orchestrator struct {
	opts      Options
	watcher   Watcher
	recorder  Recorder
	collapser Collapser
	prompter  prompt.Prompter
	logger    logger.Logger

	mu    sync.Mutex
	stats Stats
}

// errorState tracks consecutive identical failures.
type errorState struct {
	consecutiveErrors int
	lastErrorMsg      string
}

// New creates an Orchestrator. The watcher and recorder may be nil when only
// Finalize is used, and the collapser and prompter when only Watch is used.
func New(opts Options, w Watcher, r Recorder, c Collapser, p prompt.Prompter, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		opts:      opts,
		watcher:   w,
		recorder:  r,
		collapser: c,
		prompter:  p,
		logger:    log,
		stats:     Stats{StartTime: time.Now()},
	}
}

// Watch records a snapshot after file changes until ctx is cancelled.
//
// Snapshots never overlap: a single worker runs them one after the other,
// and events arriving while a snapshot is in flight collapse into exactly
// one follow-up run, since every run commits the whole change set. A
// snapshot already in progress when ctx is cancelled is allowed to finish.
// Watch returns nil on cancellation and an error wrapping
// ErrGitOperationFailed once MaxFailures is exceeded.
func (o *Orchestrator) Watch(ctx context.Context) error {
	if o.watcher == nil || o.recorder == nil {
		return gitwipErrors.New("orchestrator has no watcher or recorder")
	}

	g, gctx := errgroup.WithContext(ctx)
	pending := make(chan struct{}, 1)

	g.Go(func() error {
		return o.watcher.Run(gctx)
	})

	g.Go(func() error {
		defer close(pending)
		return o.eventLoop(gctx, pending)
	})

	g.Go(func() error {
		state := &errorState{}
		for range pending {
			if gctx.Err() != nil {
				return nil
			}
			if err := o.tryOperation(state, func() error {
				return o.snapshot(context.WithoutCancel(gctx))
			}); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// eventLoop turns watcher events into at most one pending snapshot request.
func (o *Orchestrator) eventLoop(ctx context.Context, pending chan<- struct{}) error {
	events := o.watcher.Events()
	errs := o.watcher.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			o.logger.Info("File %s has been changed (%s)", ev.Path, ev.Op)
			select {
			case pending <- struct{}{}:
			default:
				// a snapshot is already queued and will pick this change up
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			o.logger.WarningToUser("Watcher error: %v", err)
		}
	}
}

func (o *Orchestrator) snapshot(ctx context.Context) error {
	committed, err := o.recorder.Record(ctx, nil)

	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case err != nil:
		o.stats.Failures++
	case committed:
		o.stats.Snapshots++
	default:
		o.stats.NoChanges++
	}
	return err
}

// tryOperation executes the provided operation function and tracks errors.
// Returns an error only once the same error has repeated more than
// MaxFailures times in a row.
func (o *Orchestrator) tryOperation(state *errorState, operation func() error) error {
	err := operation()
	if err == nil {
		state.consecutiveErrors = 0
		state.lastErrorMsg = ""
		return nil
	}

	o.logger.Error("Error in operation: %v", err)
	o.logger.WarningToUser("Error occurred: %v", err)

	currentErrorMsg := err.Error()
	if currentErrorMsg == state.lastErrorMsg {
		state.consecutiveErrors++
	} else {
		state.consecutiveErrors = 1
		state.lastErrorMsg = currentErrorMsg
	}

	// Using '>' instead of '>=' so MaxFailures = 1 tolerates one failure
	if o.opts.MaxFailures > 0 && state.consecutiveErrors > o.opts.MaxFailures {
		o.logger.Error("Reached maximum number of consecutive errors (%d). Stopping gitwip.", o.opts.MaxFailures)
		o.logger.WarningToUser("Too many consecutive errors (same error %d times in a row). Stopping gitwip.", state.consecutiveErrors)
		return gitwipErrors.Wrap(gitwipErrors.ErrGitOperationFailed,
			fmt.Sprintf("maximum failures (%d) exceeded with error: %v", o.opts.MaxFailures, err))
	}
	return nil
}

// Finalize asks for a conventional commit message and squashes the snapshot
// run into it. It returns false with a nil error when there is nothing to
// squash.
func (o *Orchestrator) Finalize(ctx context.Context) (bool, error) {
	if o.collapser == nil || o.prompter == nil {
		return false, gitwipErrors.New("orchestrator has no collapser or prompter")
	}

	commits, err := o.collapser.FindAutoCommits(ctx)
	if err != nil {
		o.logger.WarningToUser("Failed to read history: %v", err)
		return false, err
	}
	if len(commits) == 0 {
		o.logger.InfoToUser("No auto-commits found to squash.")
		return false, nil
	}

	o.logger.InfoToUser("Found %d auto-commits to squash.", len(commits))

	answers, err := o.prompter.Ask(ctx, prompt.Answers{Type: "feat", Scope: o.opts.ProductName})
	if err != nil {
		if gitwipErrors.Is(err, gitwipErrors.ErrPromptAborted) {
			o.logger.WarningToUser("Squash cancelled, auto-commits left as they are.")
		}
		return false, err
	}

	finalMessage, err := answers.Message()
	if err != nil {
		o.logger.WarningToUser("Invalid commit message: %v", err)
		return false, err
	}

	ok, err := o.collapser.Collapse(ctx, finalMessage)
	if err != nil {
		o.logger.WarningToUser("Failed to squash commits: %v", err)
		return false, err
	}
	if ok {
		o.mu.Lock()
		o.stats.Squashed += len(commits)
		o.mu.Unlock()
		o.logger.Success("Squashed %d auto-commits into: %s", len(commits), finalMessage)
	}
	return ok, nil
}

// Stats returns a copy of the session statistics.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// PrintSummary prints a summary of the gitwip session
func (o *Orchestrator) PrintSummary() {
	stats := o.Stats()
	duration := time.Since(stats.StartTime)
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	o.logger.StatusMessage("")
	o.logger.StatusMessage("---------------------------------------------")
	o.logger.StatusMessage("📊 gitwip Session Summary")
	o.logger.StatusMessage("---------------------------------------------")
	o.logger.StatusMessage("✅ Snapshots recorded: %d", stats.Snapshots)
	if stats.Failures > 0 {
		o.logger.StatusMessage("⚠️  Failed snapshots: %d", stats.Failures)
	}
	if stats.Squashed > 0 {
		o.logger.StatusMessage("🧹 Auto-commits squashed: %d", stats.Squashed)
	}
	o.logger.StatusMessage("⏱️  Session duration: %dh %dm %ds", hours, minutes, seconds)
	o.logger.StatusMessage("---------------------------------------------")
	o.logger.StatusMessage("🛑 gitwip terminated at %s", time.Now().Format("2006-01-02 15:04:05"))
}
