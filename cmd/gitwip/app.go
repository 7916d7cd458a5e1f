package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/viper"

	"github.com/bashhack/gitwip/internal/config"
	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/git"
	"github.com/bashhack/gitwip/internal/lock"
	"github.com/bashhack/gitwip/internal/logger"
	"github.com/bashhack/gitwip/internal/message"
	"github.com/bashhack/gitwip/internal/orchestrator"
	"github.com/bashhack/gitwip/internal/prompt"
	"github.com/bashhack/gitwip/internal/snapshot"
	"github.com/bashhack/gitwip/internal/squash"
	"github.com/bashhack/gitwip/internal/watcher"
)

// Session watches a repository and squashes its snapshots
type Session interface {
	Watch(ctx context.Context) error
	Finalize(ctx context.Context) (bool, error)
	PrintSummary()
}

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// SessionFactory builds a Session for a finalized configuration. The
// watcher is only created when watch is true.
type SessionFactory func(cfg *config.Config, log logger.Logger, p prompt.Prompter, watch bool) (Session, error)

// AppOptions contains app configuration and dependencies.
// This struct allows injection of both required and optional dependencies,
// enabling flexible configuration and easier testing.
type AppOptions struct {
	// Config holds the application configuration settings (optional).
	// When nil it is loaded from Viper as each command starts.
	Config *config.Config

	// Viper is the settings registry command-line flags are bound to
	// (optional, a fresh instance is created if nil).
	Viper *viper.Viper

	// VersionInfo is reported by the version command.
	VersionInfo config.VersionInfo

	// Optional components

	// Logger provides logging functionality (optional, a default will be created if nil).
	Logger logger.Logger

	// Locker manages repository locking (optional, a default will be created if nil).
	// Used to prevent multiple gitwip instances from running on the same repository.
	Locker Locker

	// Session runs the watch and squash flows (optional, built by NewSession if nil).
	Session Session

	// NewSession builds the default Session (optional, defaults to newDefaultSession).
	NewSession SessionFactory

	// Prompter asks for the final commit message (optional, an interactive
	// form is used if nil).
	Prompter prompt.Prompter

	// I/O dependencies

	// Stdout is the writer for standard output (optional, defaults to os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error output (optional, defaults to os.Stderr).
	Stderr io.Writer

	// System dependencies

	// Exit is the function to terminate the application (optional, defaults to os.Exit).
	Exit func(code int)

	// ExecLookPath is used to find executables in PATH (optional, defaults to exec.LookPath).
	ExecLookPath func(file string) (string, error)

	// IsRepository checks if a path is a valid Git repository (optional, defaults to git.IsRepository).
	IsRepository func(ctx context.Context, path string) (bool, error)
}

// App is the main gitwip application.
// It orchestrates all components and manages the application lifecycle,
// handling initialization, command execution, and cleanup.
type App struct {
	Config  *config.Config
	Logger  logger.Logger
	Locker  Locker
	Session Session

	// Prompter asks for the final commit message when squashing.
	Prompter prompt.Prompter

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	viper        *viper.Viper
	versionInfo  config.VersionInfo
	newSession   SessionFactory
	exit         func(code int)
	execLookPath func(file string) (string, error)
	isRepository func(ctx context.Context, path string) (bool, error)
	initialized  bool
	lockHeld     bool
}

// NewDefaultApp creates an App with standard dependencies.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	return NewApp(AppOptions{
		VersionInfo:  versionInfo,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
		IsRepository: git.IsRepository,
	})
}

// NewApp creates an App with custom dependencies specified in opts.
// For any optional dependencies that are nil, this function will create
// appropriate defaults.
func NewApp(opts AppOptions) *App {
	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Session:      opts.Session,
		Prompter:     opts.Prompter,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		viper:        opts.Viper,
		versionInfo:  opts.VersionInfo,
		newSession:   opts.NewSession,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
		isRepository: opts.IsRepository,
	}

	// Set defaults for nil dependencies
	if app.viper == nil {
		app.viper = viper.New()
	}
	if app.versionInfo == (config.VersionInfo{}) {
		app.versionInfo = config.New().VersionInfo
	}
	if app.newSession == nil {
		app.newSession = newDefaultSession
	}
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}
	if app.isRepository == nil {
		app.isRepository = git.IsRepository
	}

	return app
}

// LoadConfig reads the configuration from the bound Viper instance unless
// one was injected.
func (a *App) LoadConfig(configFile string) error {
	if a.Config != nil {
		a.Config.VersionInfo = a.versionInfo
		return nil
	}

	cfg, err := config.Load(a.viper, configFile)
	if err != nil {
		return err
	}
	cfg.VersionInfo = a.versionInfo
	a.Config = cfg
	return nil
}

// Initialize finalizes the configuration, creates the logger and lock, and
// verifies the environment
func (a *App) Initialize(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if a.Config == nil {
		if err := a.LoadConfig(""); err != nil {
			return err
		}
	}

	if err := a.Config.Finalize(); err != nil {
		// Config.Finalize already returns typed errors, only wrap the
		// ones that don't carry a sentinel
		if gitwipErrors.Is(err, gitwipErrors.ErrInvalidConfiguration) || gitwipErrors.Is(err, gitwipErrors.ErrNotGitRepository) {
			return err
		}
		return gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(a.Config.Debug, a.Config.LogFile, a.Config.Verbose)
	}

	if err := a.checkRequiredCommands(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error: %v. Please install it and try again.\n", err)
		return err
	}

	isRepo, err := a.isRepository(ctx, a.Config.RepoPath)
	if err != nil {
		a.Logger.Warning("Failed to check if path is a git repository: %v", err)
		return gitwipErrors.Wrap(gitwipErrors.ErrGitOperationFailed, err.Error())
	}
	if !isRepo {
		return gitwipErrors.ErrNotGitRepository
	}
	a.Logger.Info("Git repository verified: %s", a.Config.RepoPath)

	if a.Locker == nil {
		a.Locker = lock.New(a.Config.RepoPath)
	}

	if a.Prompter == nil {
		a.Prompter = prompt.NewFormPrompter(os.Getenv("ACCESSIBLE") != "")
	}

	a.initialized = true
	return nil
}

// Start watches the repository and records snapshots until ctx is
// cancelled. With squash_on_exit set, the squash flow runs afterwards.
func (a *App) Start(ctx context.Context) error {
	if err := a.prepare(ctx, true); err != nil {
		return err
	}

	a.displayStartupInfo()

	watchErr := a.Session.Watch(ctx)

	if watchErr == nil && a.Config.SquashOnExit {
		a.Logger.InfoToUser("Squashing auto-commits before exit...")
		// the watch context is already cancelled at this point
		if _, err := a.Session.Finalize(context.WithoutCancel(ctx)); err != nil &&
			!gitwipErrors.Is(err, gitwipErrors.ErrPromptAborted) {
			a.Logger.Error("Squash on exit failed: %v", err)
			a.Session.PrintSummary()
			return err
		}
	}

	a.Session.PrintSummary()
	return watchErr
}

// Squash collapses the snapshot run at the tip of history into one
// conventional commit. A cancelled prompt is not an error.
func (a *App) Squash(ctx context.Context) error {
	if err := a.prepare(ctx, false); err != nil {
		return err
	}

	if _, err := a.Session.Finalize(ctx); err != nil {
		if gitwipErrors.Is(err, gitwipErrors.ErrPromptAborted) {
			return nil
		}
		return err
	}
	return nil
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "gitwip %s (%s) built on %s\n",
		a.versionInfo.Version,
		a.versionInfo.Commit,
		a.versionInfo.Date)
}

// prepare initializes the app, takes the repository lock and builds the
// session.
func (a *App) prepare(ctx context.Context, watch bool) error {
	if err := a.Initialize(ctx); err != nil {
		return err
	}

	if err := a.Locker.Acquire(); err != nil {
		// Locker.Acquire already returns a properly wrapped error
		if gitwipErrors.Is(err, gitwipErrors.ErrAlreadyRunning) {
			return err
		}
		return gitwipErrors.Wrap(gitwipErrors.ErrLockAcquisitionFailure, err.Error())
	}
	a.lockHeld = true

	if a.Session == nil {
		session, err := a.newSession(a.Config, a.Logger, a.Prompter, watch)
		if err != nil {
			return err
		}
		a.Session = session
	}
	return nil
}

// displayStartupInfo outputs the active configuration to the user
func (a *App) displayStartupInfo() {
	a.Logger.StatusMessage("🔄 gitwip watching %s", a.Config.RepoPath)
	a.Logger.StatusMessage("📝 Commit prefix: %s", a.Config.AutoCommitPrefix)
	if a.Config.AutoGenerateMessages {
		a.Logger.StatusMessage("🤖 Messages: generated from changes")
	} else {
		a.Logger.StatusMessage("🤖 Messages: %q with timestamp", a.Config.CommitMessage)
	}
	if a.Config.Push {
		a.Logger.StatusMessage("🚀 Pushing to %s/%s after each snapshot", a.Config.Remote, a.Config.Branch)
	}
	if a.Config.SquashOnExit {
		a.Logger.StatusMessage("🧹 Squashing auto-commits on exit")
	}
	if a.Config.ConfigFile != "" {
		a.Logger.StatusMessage("⚙️  Config file: %s", a.Config.ConfigFile)
	}
	a.Logger.StatusMessage("❓ Press Ctrl+C to stop and view session summary")
}

// checkRequiredCommands verifies git is available in PATH
func (a *App) checkRequiredCommands() error {
	_, err := a.execLookPath("git")
	if err != nil {
		return fmt.Errorf("git is not found in PATH")
	}
	return nil
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	if a.Locker != nil && a.lockHeld {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
		a.lockHeld = false
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return gitwipErrors.Join(errs...)
	}
	return nil
}

// CleanupOnSignal releases locks and shows a summary when shutdown is forced
func (a *App) CleanupOnSignal() {
	if a.Session != nil {
		a.Session.PrintSummary()
	}
	if err := a.Close(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "❌ Error during cleanup: %v\n", err)
	}
}

// newDefaultSession wires the git-backed recorder, collapser and watcher
// into an orchestrator.
func newDefaultSession(cfg *config.Config, log logger.Logger, p prompt.Prompter, watch bool) (Session, error) {
	repo := git.NewRepository(cfg.RepoPath)

	synthesizer := message.NewSynthesizer(message.WithCategoryTable(cfg.CategoryTable()))
	recorder := snapshot.NewRecorder(snapshot.Options{
		Prefix:       cfg.AutoCommitPrefix,
		AutoGenerate: cfg.AutoGenerateMessages,
		Template:     cfg.CommitMessage,
		Push:         cfg.Push,
		Remote:       cfg.Remote,
		Branch:       cfg.Branch,
	}, repo, log, snapshot.WithSynthesizer(synthesizer))

	collapser := squash.NewCollapser(cfg.AutoCommitPrefix, repo, log)

	opts := orchestrator.Options{
		MaxFailures: cfg.MaxFailures,
		ProductName: cfg.ProductName,
	}

	if !watch {
		return orchestrator.New(opts, nil, nil, collapser, p, log), nil
	}

	w, err := watcher.New(cfg.RepoPath, log)
	if err != nil {
		return nil, gitwipErrors.Wrap(err, "failed to start file watcher")
	}
	return &watchSession{
		Orchestrator: orchestrator.New(opts, w, recorder, collapser, p, log),
		watcher:      w,
	}, nil
}

// watchSession closes the file watcher once watching ends.
type watchSession struct {
	*orchestrator.Orchestrator
	watcher *watcher.Watcher
}

func (s *watchSession) Watch(ctx context.Context) error {
	defer func() { _ = s.watcher.Close() }()
	return s.Orchestrator.Watch(ctx)
}
