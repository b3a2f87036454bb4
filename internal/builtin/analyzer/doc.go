// SPDX-License-Identifier: MPL-2.0

// Package analyzer provides the built-in text analysis components every
// analyzer object builder starts from. Loaded modules overlay them by name.
package analyzer
