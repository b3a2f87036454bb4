// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the module or file involved
// and remediation hints. The issue catalog holds Markdown guidance for every
// module loading failure, keyed by module.ErrorCode, rendered with glamour
// when the CLI runs in verbose mode.
package issue
