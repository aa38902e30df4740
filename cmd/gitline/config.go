package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/re-cinq/gitline/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or modify gitline configuration",
	Long: `Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value and saves it.

Configuration is stored at ~/.config/gitline/config.yaml.
Project-specific overrides can be placed in .gitline.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error loading config:", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

func displayAllConfig(cfg *config.Config) {
	fmt.Printf("features.package_enabled: %t\n", cfg.Features.PackageEnabled)
	fmt.Printf("features.aur_enabled: %t\n", cfg.Features.AUREnabled)
	fmt.Printf("features.iso_enabled: %t\n", cfg.Features.ISOEnabled)
	fmt.Printf("organization.name: %s\n", cfg.Organization.Name)
	fmt.Printf("organization.workflow_repository: %s\n", cfg.Organization.WorkflowRepository)
	fmt.Printf("organization.forge_base_url: %s\n", cfg.Organization.ForgeBaseURL)
	fmt.Printf("operation.mode: %s\n", cfg.Operation.Mode)
	fmt.Printf("operation.conflict_strategy: %s\n", cfg.Operation.ConflictStrategy)
	fmt.Printf("operation.auto_fetch: %t\n", cfg.Operation.AutoFetch)
	fmt.Printf("operation.auto_switch_branch: %t\n", cfg.Operation.AutoSwitchBranch)
	fmt.Printf("operation.auto_sync_remote: %t\n", cfg.Operation.AutoSyncRemote)
	fmt.Printf("operation.show_git_commands: %t\n", cfg.Operation.ShowGitCommands)
	fmt.Printf("operation.confirm_destructive: %t\n", cfg.Operation.ConfirmDestructive)
	fmt.Printf("operation.auto_pull: %t\n", cfg.Operation.AutoPull)
	fmt.Printf("operation.auto_version_bump: %t\n", cfg.Operation.AutoVersionBump)
	fmt.Printf("ui.show_welcome_on_startup: %t\n", cfg.UI.ShowWelcomeOnStartup)
	fmt.Printf("ui.first_run_completed: %t\n", cfg.UI.FirstRunCompleted)
}

func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error saving config:", err)
		os.Exit(1)
	}
	fmt.Printf("set %s = %s\n", key, value)
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "features.package_enabled":
		return strconv.FormatBool(cfg.Features.PackageEnabled), nil
	case "features.aur_enabled":
		return strconv.FormatBool(cfg.Features.AUREnabled), nil
	case "features.iso_enabled":
		return strconv.FormatBool(cfg.Features.ISOEnabled), nil
	case "organization.name":
		return cfg.Organization.Name, nil
	case "organization.workflow_repository":
		return cfg.Organization.WorkflowRepository, nil
	case "organization.forge_base_url":
		return cfg.Organization.ForgeBaseURL, nil
	case "operation.mode":
		return cfg.Operation.Mode, nil
	case "operation.conflict_strategy":
		return cfg.Operation.ConflictStrategy, nil
	case "operation.auto_fetch":
		return strconv.FormatBool(cfg.Operation.AutoFetch), nil
	case "operation.auto_switch_branch":
		return strconv.FormatBool(cfg.Operation.AutoSwitchBranch), nil
	case "operation.auto_sync_remote":
		return strconv.FormatBool(cfg.Operation.AutoSyncRemote), nil
	case "operation.show_git_commands":
		return strconv.FormatBool(cfg.Operation.ShowGitCommands), nil
	case "operation.confirm_destructive":
		return strconv.FormatBool(cfg.Operation.ConfirmDestructive), nil
	case "operation.auto_pull":
		return strconv.FormatBool(cfg.Operation.AutoPull), nil
	case "operation.auto_version_bump":
		return strconv.FormatBool(cfg.Operation.AutoVersionBump), nil
	case "ui.show_welcome_on_startup":
		return strconv.FormatBool(cfg.UI.ShowWelcomeOnStartup), nil
	case "ui.first_run_completed":
		return strconv.FormatBool(cfg.UI.FirstRunCompleted), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	boolVal := func() (bool, error) { return strconv.ParseBool(value) }

	switch strings.ToLower(key) {
	case "features.package_enabled":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Features.PackageEnabled = b
	case "features.aur_enabled":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Features.AUREnabled = b
	case "features.iso_enabled":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Features.ISOEnabled = b
	case "organization.name":
		cfg.Organization.Name = value
	case "organization.workflow_repository":
		cfg.Organization.WorkflowRepository = value
	case "organization.forge_base_url":
		cfg.Organization.ForgeBaseURL = value
	case "operation.mode":
		cfg.Operation.Mode = value
	case "operation.conflict_strategy":
		cfg.Operation.ConflictStrategy = value
	case "operation.auto_fetch":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.AutoFetch = b
	case "operation.auto_switch_branch":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.AutoSwitchBranch = b
	case "operation.auto_sync_remote":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.AutoSyncRemote = b
	case "operation.show_git_commands":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.ShowGitCommands = b
	case "operation.confirm_destructive":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.ConfirmDestructive = b
	case "operation.auto_pull":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.AutoPull = b
	case "operation.auto_version_bump":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.Operation.AutoVersionBump = b
	case "ui.show_welcome_on_startup":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.UI.ShowWelcomeOnStartup = b
	case "ui.first_run_completed":
		b, err := boolVal()
		if err != nil {
			return err
		}
		cfg.UI.FirstRunCompleted = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
