// Package snapshot records work-in-progress commits.
//
// A Recorder stages the changed paths of a working tree and commits them
// under a configurable prefix, either with a message synthesized from the
// per-file diff statistics or with a fixed template stamped with the current
// time. The prefix is what later lets the squash package find the snapshot
// run at the tip of history.
package snapshot
