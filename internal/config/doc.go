// SPDX-License-Identifier: MPL-2.0

// Package config handles strusmod configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/strusmod on Linux, ~/Library/Application Support/strusmod
// on macOS, %APPDATA%\strusmod on Windows) or from the file given with --config.
// Every key can be overridden from the environment with the STRUS_ prefix,
// e.g. STRUS_LOG_LEVEL=debug or STRUS_ABI=native.
//
// Files are validated against the embedded CUE schema (config_schema.cue).
// Path entries are shell-expanded after loading.
package config
