// Package lock provides a per-repository single-instance lock.
//
// The lock file is named after a hash of the repository path and lives in
// the system temp directory. It holds the PID of the owning process so a
// refused caller can say who is in the way.
package lock
