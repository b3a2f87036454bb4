// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package locator

// Extension is the module file extension.
const Extension = ".so"

// SystemDirs returns the compiled-in module directories.
func SystemDirs() []string {
	return []string{"/usr/local/lib/strus/modules", "/usr/lib/strus/modules"}
}
