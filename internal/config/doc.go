// Package config loads gitwip's settings.
//
// Settings are layered with viper, lowest precedence first: built-in
// defaults, an optional .gitwip.yaml in the repository root (or an explicit
// --config file), environment variables, and command-line flags bound by the
// caller. The unprefixed environment names COMMIT_MESSAGE, PUSH, REMOTE,
// BRANCH, AUTO_COMMIT_PREFIX, SQUASH_ON_EXIT, PRODUCT_NAME and
// AUTO_GENERATE_MESSAGES are honored, each also available with a GITWIP_
// prefix; the remaining settings only use the prefixed form.
//
// Finalize resolves the repository root, validates the result and derives
// the default log file path:
//
//	$XDG_DATA_HOME/gitwip/logs/gitwip-<repo hash>.log
package config
