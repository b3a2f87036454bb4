// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/strus/strusmod/internal/issue"

	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"
)

const (
	// AppName is the application name.
	AppName = "strusmod"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. STRUS_LOG_LEVEL.
	EnvPrefix = "STRUS"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the strusmod configuration directory: %APPDATA% on
// Windows, ~/Library/Application Support on macOS and $XDG_CONFIG_HOME
// (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ExpandPath expands a leading "~" and shell variable references ($HOME,
// ${STRUS_DATA:-/usr/share/strus}) in a configured path.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = home + path[1:]
	}
	expanded, err := shell.Expand(path, os.Getenv)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("module_paths", defaults.ModulePaths)
	v.SetDefault("system_module_path", defaults.SystemModulePath)
	v.SetDefault("resource_paths", defaults.ResourcePaths)
	v.SetDefault("working_directory", defaults.WorkingDirectory)
	v.SetDefault("modules", defaults.Modules)
	v.SetDefault("statistics_processor", defaults.StatisticsProcessor)
	v.SetDefault("abi", defaults.ABI)
	v.SetDefault("trace", defaults.Trace)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// resolvePath returns the config file to load, or "" when none exists.
func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'strusmod config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	for _, p := range []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		ConfigFileName + "." + ConfigFileExt,
	} {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("loading config", "path", path)
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("expand configured paths").
			WithResource(path).
			WithSuggestion("Check the variable references in module_paths, resource_paths and working_directory").
			Wrap(err).
			BuildError()
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Remove blank entries from path lists").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func (c *Config) expandPaths() error {
	for _, list := range [][]string{c.ModulePaths, c.ResourcePaths} {
		for i, p := range list {
			expanded, err := ExpandPath(p)
			if err != nil {
				return err
			}
			list[i] = expanded
		}
	}
	if c.WorkingDirectory != "" {
		wd, err := ExpandPath(c.WorkingDirectory)
		if err != nil {
			return err
		}
		c.WorkingDirectory = wd
	}
	return nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper, keeping defaults and environment overrides in effect.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists and
// returns its path.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}
	return cfgPath, writeConfig(cfgPath, DefaultConfig())
}

// Save writes cfg to the config file in ConfigDir.
func Save(cfg *Config) error {
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(cfgPath, cfg)
}

func defaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

func writeConfig(path string, cfg *Config) error {
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// strusmod configuration file\n\n")

	writeList(&sb, "module_paths", cfg.ModulePaths)
	fmt.Fprintf(&sb, "system_module_path: %v\n", cfg.SystemModulePath)
	writeList(&sb, "resource_paths", cfg.ResourcePaths)
	if cfg.WorkingDirectory != "" {
		fmt.Fprintf(&sb, "working_directory: %q\n", cfg.WorkingDirectory)
	}
	writeList(&sb, "modules", cfg.Modules)
	if cfg.StatisticsProcessor != "" {
		fmt.Fprintf(&sb, "statistics_processor: %q\n", cfg.StatisticsProcessor)
	}
	fmt.Fprintf(&sb, "abi: %q\n", cfg.ABI)
	fmt.Fprintf(&sb, "trace: %q\n", cfg.Trace)

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeList(sb *strings.Builder, key string, list []string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s: [\n", key)
	for _, s := range list {
		fmt.Fprintf(sb, "\t%q,\n", s)
	}
	sb.WriteString("]\n")
}
