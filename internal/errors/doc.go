// Package errors provides error handling utilities for gitwip.
//
// It defines the sentinel errors used across the module and a small set of
// typed errors that carry context while still unwrapping to a sentinel:
//
//   - FormatError: a commit message outside the conventional commit grammar
//     (unwraps to ErrInvalidCommitFormat)
//   - GitError: a failed git command, with its arguments and stderr output
//     (the command executor wraps ErrGitOperationFailed)
//   - LockError: a failure acquiring or releasing the repository lock
//   - ConfigError: an invalid configuration value
//
// # Usage
//
//	if err != nil {
//	    return errors.Wrap(err, "failed to stage changes")
//	}
//
//	if errors.Is(err, errors.ErrInvalidCommitFormat) {
//	    // reject the message, nothing was mutated
//	}
//
// The helpers are thin wrappers over the standard library so errors created
// here work with errors.Is and errors.As from any package.
package errors
