package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/prompt"
)

// NewRootCommand builds the gitwip command tree around a.
func NewRootCommand(a *App) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "gitwip",
		Short: "Automatic work-in-progress commits for Git repositories",
		Long: `gitwip watches a Git working tree and commits every change as a
prefixed snapshot with a generated conventional message. When the work
is done, the run of snapshots is squashed into one conventional commit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			applyInvertedFlags(cmd, a)
			return a.LoadConfig(configFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Configuration file (default .gitwip.yaml in the repository root)")
	flags.String("repo", "", "Path to repository (default: current directory)")
	flags.String("prefix", "", "Commit message prefix for snapshots")
	flags.String("product-name", "", "Default scope offered when squashing")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-file", "", "Path to log file (default: $XDG_DATA_HOME/gitwip/logs/gitwip-<hash>.log)")
	flags.Bool("quiet", false, "Only show errors and the session summary")

	bindFlags(a, flags, map[string]string{
		"repo_path":          "repo",
		"auto_commit_prefix": "prefix",
		"product_name":       "product-name",
		"debug":              "debug",
		"log_file":           "log-file",
	})

	rootCmd.AddCommand(
		newStartCommand(a),
		newSquashCommand(a),
		newVersionCommand(a),
	)

	return rootCmd
}

func newStartCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Watch the repository and commit changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.Start(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("message", "", "Fixed snapshot message used with --no-generate")
	flags.Bool("no-generate", false, "Use the fixed snapshot message instead of generated ones")
	flags.Bool("push", false, "Push each snapshot to the remote")
	flags.String("remote", "", "Remote to push to")
	flags.String("branch", "", "Branch to push to")
	flags.Bool("squash-on-exit", false, "Squash snapshots when the watcher stops")
	flags.Int("max-failures", 0, "Consecutive identical errors before exiting (0 = unlimited)")

	bindFlags(a, flags, map[string]string{
		"commit_message": "message",
		"push":           "push",
		"remote":         "remote",
		"branch":         "branch",
		"squash_on_exit": "squash-on-exit",
		"max_failures":   "max-failures",
	})

	return cmd
}

func newSquashCommand(a *App) *cobra.Command {
	var (
		commitType string
		scope      string
		title      string
		accessible bool
	)

	cmd := &cobra.Command{
		Use:   "squash",
		Short: "Squash the snapshot commits at the tip of history into one commit",
		Long: `squash finds the run of snapshot commits at the tip of the current
branch and replaces it with a single conventional commit. The message is
asked for interactively unless --title is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case title != "":
				a.Prompter = prompt.StaticPrompter{Answers: prompt.Answers{
					Type:  commitType,
					Scope: scope,
					Title: title,
				}}
			case commitType != "" || scope != "":
				return gitwipErrors.NewConfigError("title", title,
					gitwipErrors.Wrap(gitwipErrors.ErrInvalidConfiguration, "--type and --scope require --title"))
			case accessible:
				a.Prompter = prompt.NewFormPrompter(true)
			}
			return a.Squash(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&commitType, "type", "", "Commit type for the squashed commit (default feat)")
	flags.StringVar(&scope, "scope", "", "Commit scope for the squashed commit (default product name)")
	flags.StringVar(&title, "title", "", "Commit title; skips the interactive prompt")
	flags.BoolVar(&accessible, "accessible", false, "Use the screen-reader friendly prompt")

	return cmd
}

func newVersionCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			a.ShowVersion()
		},
	}
}

// bindFlags binds each configuration key to the named flag on a's Viper
// instance.
func bindFlags(a *App, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		// BindPFlag only fails for a nil flag
		_ = a.viper.BindPFlag(key, flags.Lookup(name))
	}
}

// applyInvertedFlags sets the keys whose flag is the negation of the
// setting, and only when the flag was given.
func applyInvertedFlags(cmd *cobra.Command, a *App) {
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, _ := cmd.Flags().GetBool("quiet")
		a.viper.Set("verbose", !quiet)
	}
	if f := cmd.Flags().Lookup("no-generate"); f != nil && f.Changed {
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		a.viper.Set("auto_generate_messages", !noGenerate)
	}
}
