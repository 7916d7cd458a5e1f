// Package git provides the git primitives gitwip builds on.
//
// Every operation shells out to the git executable through a
// CommandExecutor, so tests can substitute a fake and production code can
// rely on whatever git the user has configured (hooks, signing, credential
// helpers). The Repository type exposes add, commit, push, status, numstat
// diff summary, log and reset; parsing of their machine-readable output
// lives in parse.go.
//
// Failures are reported as *errors.GitError values wrapping
// errors.ErrGitOperationFailed, with git's stderr attached.
//
// The package requires a functional git installation in the system PATH.
package git
