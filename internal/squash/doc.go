// Package squash collapses the snapshot commits at the tip of history into
// one conventional commit using a soft reset onto the parent of the oldest
// snapshot.
package squash
