// SPDX-License-Identifier: MPL-2.0

// Package locator maps logical module names to candidate files on the module
// search path.
//
// Search directories come from three sources, in order: directories added
// explicitly, the STRUS_MODULE_PATH environment variable, and the compiled-in
// system directories. The system directories are only searched when no
// directory was added explicitly.
package locator
