package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/message"
)

const (
	// DefaultAutoCommitPrefix marks snapshot commits. The squash command
	// only collapses commits whose message starts with this prefix.
	DefaultAutoCommitPrefix = "WIP:"

	// DefaultCommitMessage is the snapshot template used when message
	// generation is turned off. A timestamp is appended to it.
	DefaultCommitMessage = "Auto-saved changes"

	// DefaultRemote and DefaultBranch are the push target.
	DefaultRemote = "origin"
	DefaultBranch = "main"

	// DefaultMaxFailures is the number of consecutive identical snapshot
	// failures tolerated before the watcher stops. 0 means never stop.
	DefaultMaxFailures = 3

	// ConfigFileName is looked up in the repository root when no explicit
	// configuration file is given.
	ConfigFileName = ".gitwip.yaml"
)

// Config holds all gitwip application settings.
// It is built once from defaults, the optional configuration file,
// environment variables and command-line flags, then treated as read-only.
type Config struct {
	// RepoPath is the working tree to watch. Any directory inside the
	// repository works; Finalize resolves it to the repository root.
	RepoPath string `mapstructure:"repo_path"`

	// AutoCommitPrefix starts every snapshot commit message.
	AutoCommitPrefix string `mapstructure:"auto_commit_prefix"`

	// AutoGenerateMessages selects synthesized conventional messages
	// over CommitMessage.
	AutoGenerateMessages bool `mapstructure:"auto_generate_messages"`

	// CommitMessage is the fixed snapshot message template.
	CommitMessage string `mapstructure:"commit_message"`

	// Push, Remote and Branch control pushing after each snapshot.
	Push   bool   `mapstructure:"push"`
	Remote string `mapstructure:"remote"`
	Branch string `mapstructure:"branch"`

	// ProductName is offered as the default scope when squashing.
	ProductName string `mapstructure:"product_name"`

	// SquashOnExit runs the squash flow when the watcher is stopped.
	SquashOnExit bool `mapstructure:"squash_on_exit"`

	// MaxFailures is how many consecutive identical snapshot errors are
	// allowed before exiting. 0 means unlimited.
	MaxFailures int `mapstructure:"max_failures"`

	// Debug enables the debug log file.
	Debug bool `mapstructure:"debug"`

	// LogFile overrides the default log location under XDG_DATA_HOME.
	LogFile string `mapstructure:"log_file"`

	// Verbose controls informational output to the terminal.
	Verbose bool `mapstructure:"verbose"`

	// Categories overrides the file extension table used for message
	// synthesis, keyed by category name.
	Categories map[string][]string `mapstructure:"categories"`

	// VersionInfo contains version, commit, and build date information.
	// This is typically injected at build time.
	VersionInfo VersionInfo `mapstructure:"-"`

	// ConfigFile is the configuration file that was read, if any.
	ConfigFile string `mapstructure:"-"`

	categoryTable message.CategoryTable
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// envBindings maps configuration keys to environment variables, in
// precedence order.
var envBindings = map[string][]string{
	"repo_path":              {"GITWIP_REPO_PATH"},
	"auto_commit_prefix":     {"AUTO_COMMIT_PREFIX", "GITWIP_AUTO_COMMIT_PREFIX"},
	"auto_generate_messages": {"AUTO_GENERATE_MESSAGES", "GITWIP_AUTO_GENERATE_MESSAGES"},
	"commit_message":         {"COMMIT_MESSAGE", "GITWIP_COMMIT_MESSAGE"},
	"push":                   {"PUSH", "GITWIP_PUSH"},
	"remote":                 {"REMOTE", "GITWIP_REMOTE"},
	"branch":                 {"BRANCH", "GITWIP_BRANCH"},
	"product_name":           {"PRODUCT_NAME", "GITWIP_PRODUCT_NAME"},
	"squash_on_exit":         {"SQUASH_ON_EXIT", "GITWIP_SQUASH_ON_EXIT"},
	"max_failures":           {"GITWIP_MAX_FAILURES"},
	"debug":                  {"GITWIP_DEBUG"},
	"log_file":               {"GITWIP_LOG_FILE"},
	"verbose":                {"GITWIP_VERBOSE"},
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		AutoCommitPrefix:     DefaultAutoCommitPrefix,
		AutoGenerateMessages: true,
		CommitMessage:        DefaultCommitMessage,
		Remote:               DefaultRemote,
		Branch:               DefaultBranch,
		MaxFailures:          DefaultMaxFailures,
		Verbose:              true,
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("repo_path", d.RepoPath)
	v.SetDefault("auto_commit_prefix", d.AutoCommitPrefix)
	v.SetDefault("auto_generate_messages", d.AutoGenerateMessages)
	v.SetDefault("commit_message", d.CommitMessage)
	v.SetDefault("push", d.Push)
	v.SetDefault("remote", d.Remote)
	v.SetDefault("branch", d.Branch)
	v.SetDefault("product_name", d.ProductName)
	v.SetDefault("squash_on_exit", d.SquashOnExit)
	v.SetDefault("max_failures", d.MaxFailures)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("verbose", d.Verbose)
}

// Load reads the configuration from v. Flags must already be bound to v.
//
// configFile names an explicit YAML file that must exist. Without one,
// ConfigFileName is read from the repository root when present.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, gitwipErrors.Wrapf(err, "bind environment for %s", key)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, filepath.Ext(ConfigFileName)))
		v.SetConfigType("yaml")
		if root, err := FindRepoRoot(startDir(v.GetString("repo_path"))); err == nil {
			v.AddConfigPath(root)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if configFile != "" || !gitwipErrors.As(err, &notFoundErr) {
			return nil, gitwipErrors.NewConfigError("config", v.ConfigFileUsed(),
				gitwipErrors.Wrap(err, "failed to read config file"))
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, gitwipErrors.NewConfigError("config", nil,
			gitwipErrors.Wrap(err, "failed to decode configuration"))
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	return cfg, nil
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	root, err := FindRepoRoot(startDir(c.RepoPath))
	if err != nil {
		return gitwipErrors.NewConfigError("repo_path", c.RepoPath, err)
	}
	c.RepoPath = root

	if strings.TrimSpace(c.AutoCommitPrefix) == "" {
		return gitwipErrors.NewConfigError("auto_commit_prefix", c.AutoCommitPrefix,
			gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "prefix must not be empty, it would mark every commit as a snapshot"))
	}

	if !c.AutoGenerateMessages && strings.TrimSpace(c.CommitMessage) == "" {
		return gitwipErrors.NewConfigError("commit_message", c.CommitMessage,
			gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "a commit message template is required when message generation is off"))
	}

	if c.Push {
		if c.Remote == "" {
			return gitwipErrors.NewConfigError("remote", c.Remote,
				gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "push is enabled but no remote is set"))
		}
		if c.Branch == "" {
			return gitwipErrors.NewConfigError("branch", c.Branch,
				gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "push is enabled but no branch is set"))
		}
	}

	if c.MaxFailures < 0 {
		return gitwipErrors.NewConfigError("max_failures", c.MaxFailures,
			gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "must not be negative"))
	}

	if len(c.Categories) > 0 {
		table, unknown := message.TableFromMap(c.Categories)
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return gitwipErrors.NewConfigError("categories", strings.Join(unknown, ", "),
				gitwipErrors.Wrapf(gitwipErrors.ErrInvalidConfiguration, "unknown categories, valid: %s", categoryNames()))
		}
		c.categoryTable = table
	}

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				logDir = os.TempDir()
			}
		}

		repoHash := fmt.Sprintf("%x", sha256OfString(c.RepoPath)[:8])
		c.LogFile = filepath.Join(logDir, "gitwip", "logs", fmt.Sprintf("gitwip-%s.log", repoHash))
	}

	if c.Debug {
		if err := os.MkdirAll(filepath.Dir(c.LogFile), 0o700); err != nil {
			return gitwipErrors.NewConfigError("log_file", c.LogFile, gitwipErrors.Wrap(err, "cannot create log directory"))
		}
	}

	return nil
}

// CategoryTable returns the configured extension table, or nil when the
// built-in table should be used. It is populated by Finalize.
func (c *Config) CategoryTable() message.CategoryTable {
	return c.categoryTable
}

// FindRepoRoot walks up from start to the first directory containing a .git
// entry. Both .git directories and .git files (worktrees, submodules) count.
func FindRepoRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", gitwipErrors.Wrap(err, "failed to resolve absolute path")
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", gitwipErrors.Wrapf(gitwipErrors.ErrNotGitRepository, "%s", start)
		}
		dir = parent
	}
}

func startDir(repoPath string) string {
	if repoPath != "" {
		return repoPath
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func categoryNames() string {
	names := make([]string, len(message.Categories))
	for i, c := range message.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}
