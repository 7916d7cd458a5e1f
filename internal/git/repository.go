package git

import (
	"context"
	"os/exec"
	"strings"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// ResetMode selects how `git reset` treats the index and working tree.
type ResetMode string

const (
	// ResetSoft moves HEAD only; index and working tree are kept.
	ResetSoft ResetMode = "soft"
	// ResetMixed moves HEAD and resets the index.
	ResetMixed ResetMode = "mixed"
	// ResetHard moves HEAD and discards index and working tree changes.
	ResetHard ResetMode = "hard"
)

// Repository runs git primitives against a single working tree.
// All commands are issued as `git -C <path> ...` through the executor.
type Repository struct {
	path     string
	executor CommandExecutor
}

// NewRepository creates a Repository backed by the os/exec executor.
func NewRepository(path string) *Repository {
	return NewRepositoryWithExecutor(path, NewExecExecutor())
}

// NewRepositoryWithExecutor creates a Repository with a custom executor.
func NewRepositoryWithExecutor(path string, executor CommandExecutor) *Repository {
	return &Repository{
		path:     path,
		executor: executor,
	}
}

// Path returns the working tree path the repository operates on.
func (r *Repository) Path() string {
	return r.path
}

// Add stages the given paths, including deletions.
func (r *Repository) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	return r.runGitCommand(ctx, args...)
}

// Commit records the staged changes with the given message.
func (r *Repository) Commit(ctx context.Context, message string) error {
	return r.runGitCommand(ctx, "commit", "-m", message)
}

// Push sends the branch to the remote.
func (r *Repository) Push(ctx context.Context, remote, branch string) error {
	return r.runGitCommand(ctx, "push", remote, branch)
}

// Status reports the working tree state, with untracked files listed
// individually rather than collapsed into their directory.
func (r *Repository) Status(ctx context.Context) (Status, error) {
	output, err := r.runGitCommandWithOutput(ctx, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return Status{}, err
	}
	return parseStatus(output), nil
}

// DiffSummary returns the numstat of path against HEAD. It returns
// ErrNoDiff when git reports nothing for the path, which is the case for
// untracked files.
func (r *Repository) DiffSummary(ctx context.Context, path string) (DiffStat, error) {
	output, err := r.runGitCommandWithOutput(ctx, "diff", "--numstat", "HEAD", "--", path)
	if err != nil {
		return DiffStat{}, err
	}
	return parseNumstat(path, output)
}

// Log returns the commits reachable from HEAD, newest first. A repository
// without commits yields an empty history.
func (r *Repository) Log(ctx context.Context) ([]Commit, error) {
	output, err := r.runGitCommandWithOutput(ctx, "log", "--format="+logFormat)
	if err != nil {
		var gitErr *gitwipErrors.GitError
		if gitwipErrors.As(err, &gitErr) && strings.Contains(gitErr.Output, "does not have any commits yet") {
			return nil, nil
		}
		return nil, err
	}
	return parseLog(output), nil
}

// Reset moves HEAD to ref using the given mode.
func (r *Repository) Reset(ctx context.Context, mode ResetMode, ref string) error {
	switch mode {
	case ResetSoft, ResetMixed, ResetHard:
	default:
		return gitwipErrors.NewGitError("reset", []string{string(mode), ref},
			gitwipErrors.Wrapf(gitwipErrors.ErrGitOperationFailed, "unknown reset mode %q", mode), "")
	}
	return r.runGitCommand(ctx, "reset", "--"+string(mode), ref)
}

// TopLevel returns the absolute path of the working tree root.
func (r *Repository) TopLevel(ctx context.Context) (string, error) {
	output, err := r.runGitCommandWithOutput(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// runGitCommand executes a git command in the repository directory with context.
func (r *Repository) runGitCommand(ctx context.Context, args ...string) error {
	allArgs := append([]string{"-C", r.path}, args...)
	return r.executor.ExecuteWithContext(ctx, "git", allArgs...)
}

// runGitCommandWithOutput executes a git command and returns its output with context.
func (r *Repository) runGitCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	allArgs := append([]string{"-C", r.path}, args...)
	return r.executor.ExecuteWithContextAndOutput(ctx, "git", allArgs...)
}

// IsRepository checks if the given path is a git repository
// Returns true if it is a repository, false otherwise.
// If path is not a repository due to git exit code 128, returns (false, nil).
// For other errors (git not found, permission issues, etc), returns (false, err).
func IsRepository(ctx context.Context, path string) (bool, error) {
	executor := NewExecExecutor()
	if err := executor.ExecuteWithContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree"); err != nil {
		// Exit code 128 is git's generic fatal error code. For this command it
		// almost always means the directory is outside any repository, and
		// every other repository problem is just as fatal to gitwip.
		var exitErr *exec.ExitError
		if gitwipErrors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return false, nil
		}

		// git binary missing, permissions, etc
		return false, err
	}
	return true, nil
}
