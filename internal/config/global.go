// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory when set.
var configDirOverride string

// SetConfigDirOverride makes ConfigDir return dir, so tests and the
// config commands can work in a scratch directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset restores the platform config directory.
func Reset() {
	configDirOverride = ""
}
