// SPDX-License-Identifier: MPL-2.0

// Package trace provides the built-in trace loggers: dump, which writes
// every event as a log line, and count, which reports call counts on close.
package trace
