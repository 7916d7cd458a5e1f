package git

import (
	"bytes"
	"context"
	"os/exec"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// CommandExecutor runs external commands on behalf of a Repository.
type CommandExecutor interface {
	// ExecuteWithContext runs a command and discards its output
	ExecuteWithContext(ctx context.Context, name string, args ...string) error

	// ExecuteWithContextAndOutput runs a command and returns its stdout
	ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error)
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// ExecuteWithContext implements CommandExecutor.ExecuteWithContext
func (e *ExecExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	_, err := e.ExecuteWithContextAndOutput(ctx, name, args...)
	return err
}

// ExecuteWithContextAndOutput implements CommandExecutor.ExecuteWithContextAndOutput.
// A failing command is reported as a *errors.GitError wrapping
// ErrGitOperationFailed, with stderr attached as its output.
func (e *ExecExecutor) ExecuteWithContextAndOutput(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", gitwipErrors.NewGitError(operation(args), args,
			gitwipErrors.Errorf("%w: %w", gitwipErrors.ErrGitOperationFailed, err), stderr.String())
	}

	return stdout.String(), nil
}

// operation picks the git subcommand out of an argument list, skipping
// the "-C <path>" prefix added by Repository.
func operation(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-C" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
