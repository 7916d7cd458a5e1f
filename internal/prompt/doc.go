// Package prompt asks the user for the type, scope and title of the commit
// that replaces a run of snapshots.
package prompt
