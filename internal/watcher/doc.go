// Package watcher reports file changes below a working tree using fsnotify.
//
// fsnotify watches single directories, so the Watcher walks the tree on
// start and adds every directory created afterwards. Hidden paths, most
// importantly .git, are skipped so that gitwip's own commits do not feed
// back into new snapshots.
package watcher
