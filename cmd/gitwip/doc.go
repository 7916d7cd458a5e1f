// Package main implements gitwip, an automatic work-in-progress committer
//
// gitwip watches a Git working tree and commits every change as soon as it
// lands on disk. Each snapshot commit starts with a configurable prefix and
// carries a conventional message generated from the changed files, so the
// history stays readable while you work. When you are done, the run of
// snapshots at the tip of the branch is squashed into one conventional
// commit.
//
// # Basic Usage
//
//	gitwip start                      # Watch the current repository
//	gitwip start --push               # Push every snapshot to origin/main
//	gitwip start --squash-on-exit     # Squash snapshots when stopped
//	gitwip squash                     # Squash interactively
//	gitwip squash --title "add login" # Squash without prompting
//	gitwip version                    # Print version information
//
// # Configuration
//
// Settings are read from, in increasing precedence, built-in defaults, a
// .gitwip.yaml file in the repository root (or --config), environment
// variables and command-line flags:
//
//	--repo            Repository to watch (env: GITWIP_REPO_PATH)
//	--prefix          Snapshot message prefix (env: AUTO_COMMIT_PREFIX)
//	--product-name    Default squash scope (env: PRODUCT_NAME)
//	--message         Fixed snapshot message (env: COMMIT_MESSAGE)
//	--no-generate     Use the fixed message (env: AUTO_GENERATE_MESSAGES=false)
//	--push            Push after each snapshot (env: PUSH)
//	--remote          Push remote (env: REMOTE)
//	--branch          Push branch (env: BRANCH)
//	--squash-on-exit  Squash when stopped (env: SQUASH_ON_EXIT)
//	--max-failures    Consecutive identical errors before exiting (env: GITWIP_MAX_FAILURES)
//	--debug           Write a debug log (env: GITWIP_DEBUG)
//	--log-file        Debug log location (env: GITWIP_LOG_FILE)
//	--quiet           Hide informational messages (env: GITWIP_VERBOSE=false)
//
// The categories key of the configuration file replaces the file extension
// table used to pick the generated commit type:
//
//	categories:
//	  code: [.go, .ts]
//	  docs: [.md]
//
// # Stopping
//
// Ctrl+C (or SIGTERM, SIGHUP) stops the watcher after any snapshot in
// progress completes and prints a session summary. A second signal exits
// immediately.
//
// Only one gitwip process may work on a repository at a time.
package main
