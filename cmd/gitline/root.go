package main

import (
	"fmt"
	"os"

	"github.com/re-cinq/gitline/internal/auditlog"
	"github.com/re-cinq/gitline/internal/config"
	"github.com/re-cinq/gitline/internal/flow"
	"github.com/re-cinq/gitline/internal/gitexec"
	"github.com/re-cinq/gitline/internal/hostui"
	"github.com/re-cinq/gitline/internal/policy"
	"github.com/re-cinq/gitline/internal/tokenstore"
	"github.com/re-cinq/gitline/internal/version"
	"github.com/spf13/cobra"
)

var (
	yesFlag        bool
	repoPathFlag   string
	repoSlugFlag   string
	organizationFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gitline",
	Short: "A git-workflow orchestrator for package maintainers",
	Long: `gitline compiles high-level developer intent ("commit my changes",
"build a testing package", "merge to main") into ordered, auditable git
operation sequences plus remote-CI dispatch calls, preserving any
uncommitted work along the way.

Available commands:
  commit   Commit and push outstanding changes
  pull     Fetch and merge the latest changes
  package  Commit, version-bump, and dispatch a package build
  aur      Dispatch an AUR package build
  revert   Undo a commit via revert or reset
  config   View or modify gitline configuration
  token    Manage forge authentication tokens
  version  Show version information

Use "gitline [command] --help" for more information about a command.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.Get()
	rootCmd.PersistentFlags().BoolVar(&yesFlag, "yes", false, "answer every confirmation prompt affirmatively (headless/CI mode)")
	rootCmd.PersistentFlags().StringVar(&repoPathFlag, "repo", ".", "path to the git repository to operate on")
	rootCmd.PersistentFlags().StringVar(&repoSlugFlag, "repo-slug", "", "owner/name slug used for forge API calls (overrides config)")
	rootCmd.PersistentFlags().StringVar(&organizationFlag, "organization", "", "organization used to resolve the forge token (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(aurCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tokenCmd)
}

// newEngine builds a flow.Engine wired against the current configuration,
// repository path, and CLI flags. Every subcommand shares this setup.
func newEngine() (*flow.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	mode, err := policy.ParseMode(cfg.Operation.Mode)
	if err != nil {
		mode = policy.ModeSafe
	}
	pol := policy.For(mode)
	if yesFlag {
		pol.ConfirmDestructive = false
	}

	ui := hostui.New()
	if yesFlag {
		ui.DefaultConfirm = true
	}

	runner := gitexec.NewRunner(repoPathFlag)

	organization := organizationFlag
	if organization == "" {
		organization = cfg.Organization.Name
	}
	repoSlug := repoSlugFlag
	if repoSlug == "" {
		repoSlug = cfg.Organization.WorkflowRepository
	}

	opts := []flow.Option{
		flow.WithRepoSlug(repoSlug),
		flow.WithOrganization(organization),
		flow.WithTokenStore(tokenstore.New()),
		flow.WithVersionBump(cfg.Operation.AutoVersionBump),
	}

	if auditDB, err := auditlog.OpenDefault(); err == nil {
		opts = append(opts, flow.WithAuditLog(auditDB))
	}

	return flow.New(runner, ui, pol, opts...), nil
}
