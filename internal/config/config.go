// Package config loads gitline's settings from the XDG config path, an
// optional project-level override, and environment variables, merging
// them into one layered viper instance.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config mirrors the settings.py key space, grouped by concern.
type Config struct {
	Features     FeaturesConfig     `mapstructure:"features"`
	Organization OrganizationConfig `mapstructure:"organization"`
	Operation    OperationConfig    `mapstructure:"operation"`
	UI           UIConfig           `mapstructure:"ui"`
}

// FeaturesConfig toggles optional build surfaces.
type FeaturesConfig struct {
	PackageEnabled bool `mapstructure:"package_enabled"`
	AUREnabled     bool `mapstructure:"aur_enabled"`
	ISOEnabled     bool `mapstructure:"iso_enabled"`
}

// OrganizationConfig names the forge organization and workflow repository.
type OrganizationConfig struct {
	Name              string `mapstructure:"name"`
	WorkflowRepository string `mapstructure:"workflow_repository"`
	ForgeBaseURL      string `mapstructure:"forge_base_url"`
}

// OperationConfig drives FlowEngine's behavior.
type OperationConfig struct {
	Mode              string `mapstructure:"mode"`
	ConflictStrategy  string `mapstructure:"conflict_strategy"`
	AutoFetch         bool   `mapstructure:"auto_fetch"`
	AutoSwitchBranch  bool   `mapstructure:"auto_switch_branch"`
	AutoSyncRemote    bool   `mapstructure:"auto_sync_remote"`
	ShowGitCommands   bool   `mapstructure:"show_git_commands"`
	ConfirmDestructive bool  `mapstructure:"confirm_destructive"`
	AutoPull          bool   `mapstructure:"auto_pull"`
	AutoVersionBump   bool   `mapstructure:"auto_version_bump"`
}

// UIConfig holds first-run and welcome-screen bookkeeping.
type UIConfig struct {
	ShowWelcomeOnStartup bool `mapstructure:"show_welcome_on_startup"`
	FirstRunCompleted    bool `mapstructure:"first_run_completed"`
}

// Load reads configuration with precedence: environment variables >
// project-level .gitline.yaml (walking up from cwd) > user config at
// ~/.config/gitline/config.yaml > built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("GITLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from an explicit file, bypassing XDG
// and project discovery. Used by tests.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the user config file, creating the directory if needed.
// Keys already in the file that Config does not model are kept.
func Save(cfg *Config) error {
	dir := userConfigDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	_ = v.ReadInConfig()
	v.Set("features.package_enabled", cfg.Features.PackageEnabled)
	v.Set("features.aur_enabled", cfg.Features.AUREnabled)
	v.Set("features.iso_enabled", cfg.Features.ISOEnabled)
	v.Set("organization.name", cfg.Organization.Name)
	v.Set("organization.workflow_repository", cfg.Organization.WorkflowRepository)
	v.Set("organization.forge_base_url", cfg.Organization.ForgeBaseURL)
	v.Set("operation.mode", cfg.Operation.Mode)
	v.Set("operation.conflict_strategy", cfg.Operation.ConflictStrategy)
	v.Set("operation.auto_fetch", cfg.Operation.AutoFetch)
	v.Set("operation.auto_switch_branch", cfg.Operation.AutoSwitchBranch)
	v.Set("operation.auto_sync_remote", cfg.Operation.AutoSyncRemote)
	v.Set("operation.show_git_commands", cfg.Operation.ShowGitCommands)
	v.Set("operation.confirm_destructive", cfg.Operation.ConfirmDestructive)
	v.Set("operation.auto_pull", cfg.Operation.AutoPull)
	v.Set("operation.auto_version_bump", cfg.Operation.AutoVersionBump)
	v.Set("ui.show_welcome_on_startup", cfg.UI.ShowWelcomeOnStartup)
	v.Set("ui.first_run_completed", cfg.UI.FirstRunCompleted)
	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("features.package_enabled", false)
	v.SetDefault("features.aur_enabled", false)
	v.SetDefault("features.iso_enabled", false)

	v.SetDefault("organization.name", "")
	v.SetDefault("organization.workflow_repository", "")
	v.SetDefault("organization.forge_base_url", "https://github.com")

	v.SetDefault("operation.mode", "safe")
	v.SetDefault("operation.conflict_strategy", "interactive")
	v.SetDefault("operation.auto_fetch", true)
	v.SetDefault("operation.auto_switch_branch", true)
	v.SetDefault("operation.auto_sync_remote", true)
	v.SetDefault("operation.show_git_commands", false)
	v.SetDefault("operation.confirm_destructive", true)
	v.SetDefault("operation.auto_pull", false)
	v.SetDefault("operation.auto_version_bump", true)

	v.SetDefault("ui.show_welcome_on_startup", true)
	v.SetDefault("ui.first_run_completed", false)
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gitline")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "gitline")
	}
	return filepath.Join(home, ".config", "gitline")
}

func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(cwd, ".gitline.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return ""
		}
		cwd = parent
	}
}

// Default returns built-in defaults without touching the filesystem.
func Default() *Config {
	return &Config{
		Organization: OrganizationConfig{ForgeBaseURL: "https://github.com"},
		Operation: OperationConfig{
			Mode:               "safe",
			ConflictStrategy:   "interactive",
			AutoFetch:          true,
			AutoSwitchBranch:   true,
			AutoSyncRemote:     true,
			ConfirmDestructive: true,
			AutoVersionBump:    true,
		},
		UI: UIConfig{ShowWelcomeOnStartup: true},
	}
}
