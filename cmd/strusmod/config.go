// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/strus/strusmod/internal/config"
	"github.com/strus/strusmod/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownFormat is returned by config show for an unsupported --format.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnknownKey is returned by config set for a key that cannot be set.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// newConfigCommand creates the `strusmod config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage strusmod configuration",
		Long: `Manage strusmod configuration.

Configuration is stored in:
  - Linux: ~/.config/strusmod/config.cue
  - macOS: ~/Library/Application Support/strusmod/config.cue
  - Windows: %APPDATA%\strusmod\config.cue

Every key can be overridden with an environment variable prefixed with
STRUS_, e.g. STRUS_LOG_LEVEL=debug or STRUS_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			out, err := renderConfig(s.cfg, format)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			if s.configPath != "" {
				fmt.Fprintf(app.stderr, "%s\n", SubtitleStyle.Render("# "+s.configPath))
			} else {
				fmt.Fprintf(app.stderr, "%s\n", SubtitleStyle.Render("# (using defaults)"))
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "cue", "output format: cue, yaml, toml or json")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.configFile})
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return app.fail(cmd, err)
			}
			if err := config.Save(cfg); err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s %s = %s\n", SuccessStyle.Render("✓"), args[0], args[1])
			return nil
		},
	})

	return cfgCmd
}

func renderConfig(cfg *config.Config, format string) (string, error) {
	switch format {
	case "cue":
		return config.GenerateCUE(cfg), nil
	case "yaml":
		b, err := yaml.Marshal(cfg)
		return string(b), err
	case "toml":
		b, err := toml.Marshal(cfg)
		return string(b), err
	case "json":
		b, err := json.MarshalIndent(cfg, "", "  ")
		return string(b) + "\n", err
	default:
		return "", fmt.Errorf("%w %q (valid: cue, yaml, toml, json)", ErrUnknownFormat, format)
	}
}

// setConfigValue assigns a scalar key and validates the result.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "abi":
		cfg.ABI = config.ABI(value)
	case "log.level":
		cfg.Log.Level = config.LogLevel(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose", "system_module_path":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "ui.verbose" {
			cfg.UI.Verbose = b
		} else {
			cfg.SystemModulePath = b
		}
	case "working_directory":
		cfg.WorkingDirectory = value
	case "statistics_processor":
		cfg.StatisticsProcessor = value
	case "trace":
		cfg.Trace = value
	default:
		return issue.NewErrorContext().
			WithOperation("set configuration value").
			WithResource(key).
			WithSuggestion("Settable keys: abi, log.level, ui.color_scheme, ui.verbose, system_module_path, working_directory, statistics_processor, trace").
			WithSuggestion("Edit list values such as module_paths in the config file").
			Wrap(ErrUnknownKey).
			BuildError()
	}
	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}
	return nil
}
