// Package gitwip is an automatic work-in-progress committer for Git
//
// gitwip watches a working tree and commits each change as it happens. Every
// snapshot commit carries a prefix (WIP: by default) and a conventional
// message generated from the changed files, such as
//
//	WIP: feat(auth): modify 3 files (1 added, 2 updated, 0 deleted)
//
// Once the work is done, the run of snapshots at the tip of the branch is
// squashed into a single conventional commit whose type, scope and title
// are asked for interactively or given on the command line.
//
// # Quick Start
//
//	cd /path/to/your/repo
//	gitwip start           # commit as you work, Ctrl+C to stop
//	gitwip squash          # collapse the snapshots into one commit
//
// # Packages
//
// The command lives in cmd/gitwip. The internal packages are:
//
//   - internal/watcher: recursive file system watching
//   - internal/snapshot: turning the working tree state into one commit
//   - internal/message: generated conventional message synthesis
//   - internal/conventional: commit type validation and formatting
//   - internal/squash: finding and collapsing snapshot runs
//   - internal/orchestrator: serialized snapshots and the squash flow
//   - internal/git: the git command line wrapper
//   - internal/config, internal/lock, internal/logger, internal/errors,
//     internal/prompt: supporting infrastructure
//
// See the cmd/gitwip package documentation for flags and configuration.
package gitwip
