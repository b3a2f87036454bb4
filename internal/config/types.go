// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ABIGo loads modules as Go plugins.
	ABIGo ABI = "go"
	// ABINative loads C shared libraries exporting a native entry point.
	ABINative ABI = "native"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidABI is returned when an ABI value is not recognized.
	ErrInvalidABI = errors.New("invalid module ABI")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPath is returned for blank path entries.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ABI selects how module files are opened.
	ABI string

	// InvalidABIError is returned when an ABI value is not recognized.
	// It wraps ErrInvalidABI for errors.Is() compatibility.
	InvalidABIError struct {
		Value ABI
	}

	// LogLevel is the minimum level of log output.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPathError is returned for a blank entry of a path list.
	InvalidPathError struct {
		Field string
		Index int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ModulePaths are searched for modules, in order.
		ModulePaths []string `json:"module_paths" mapstructure:"module_paths" yaml:"module_paths" toml:"module_paths"`
		// SystemModulePath keeps the system module directories on the search path.
		SystemModulePath bool `json:"system_module_path" mapstructure:"system_module_path" yaml:"system_module_path" toml:"system_module_path"`
		// ResourcePaths are searched for resource files.
		ResourcePaths []string `json:"resource_paths" mapstructure:"resource_paths" yaml:"resource_paths" toml:"resource_paths"`
		// WorkingDirectory is where relative storage paths resolve.
		WorkingDirectory string `json:"working_directory" mapstructure:"working_directory" yaml:"working_directory" toml:"working_directory"`
		// Modules are preloaded by the load command.
		Modules []string `json:"modules" mapstructure:"modules" yaml:"modules" toml:"modules"`
		// StatisticsProcessor names the default statistics processor.
		StatisticsProcessor string `json:"statistics_processor" mapstructure:"statistics_processor" yaml:"statistics_processor" toml:"statistics_processor"`
		// ABI selects the module opener.
		ABI ABI `json:"abi" mapstructure:"abi" yaml:"abi" toml:"abi"`
		// Trace is the trace builder configuration.
		Trace string    `json:"trace" mapstructure:"trace" yaml:"trace" toml:"trace"`
		Log   LogConfig `json:"log" mapstructure:"log" yaml:"log" toml:"log"`
		UI    UIConfig  `json:"ui" mapstructure:"ui" yaml:"ui" toml:"ui"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level" yaml:"level" toml:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" yaml:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose error output
		Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ModulePaths:      []string{},
		SystemModulePath: false,
		ResourcePaths:    []string{},
		Modules:          []string{},
		ABI:              ABIGo,
		Trace:            "logger=dump",
		Log:              LogConfig{Level: LogLevelWarn},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ABI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	errs = append(errs, blankEntries("module_paths", c.ModulePaths)...)
	errs = append(errs, blankEntries("resource_paths", c.ResourcePaths)...)
	errs = append(errs, blankEntries("modules", c.Modules)...)
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func blankEntries(field string, list []string) []error {
	var errs []error
	for i, s := range list {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, &InvalidPathError{Field: field, Index: i})
		}
	}
	return errs
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s[%d]: must not be blank", e.Field, e.Index)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// String returns the string representation of the ABI.
func (a ABI) String() string { return string(a) }

// IsValid returns whether the ABI is one of the defined values.
func (a ABI) IsValid() (bool, []error) {
	switch a {
	case ABIGo, ABINative:
		return true, nil
	default:
		return false, []error{&InvalidABIError{Value: a}}
	}
}

// Error implements the error interface for InvalidABIError.
func (e *InvalidABIError) Error() string {
	return fmt.Sprintf("invalid module ABI %q (valid: go, native)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidABIError) Unwrap() error { return ErrInvalidABI }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}
