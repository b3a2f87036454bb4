// SPDX-License-Identifier: MPL-2.0

//go:build windows

package locator

import (
	"os"
	"path/filepath"
)

// Extension is the module file extension.
const Extension = ".dll"

// SystemDirs returns the compiled-in module directories.
func SystemDirs() []string {
	base := os.Getenv("ProgramFiles")
	if base == "" {
		base = `C:\Program Files`
	}
	return []string{filepath.Join(base, "strus", "modules")}
}
