// Package orchestrator wires file change events to the snapshot recorder and
// the finalize request to the history collapser.
//
// # Concurrency Model
//
// Watch runs three goroutines under an errgroup: the watcher pump, an event
// loop, and a single snapshot worker. The event loop never blocks on the
// worker; it sets a one-slot pending flag instead, so any number of events
// received during a snapshot result in one more snapshot afterwards. The git
// index is therefore only ever touched by one snapshot at a time.
//
// Finalize is meant to run when no Watch is active. The lock package
// enforces that across processes.
package orchestrator
