// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead
// of returning it: environment and filesystem setup (MustSetenv, MustMkdirAll,
// MustWriteFile), cleanup (MustClose, DeferClose), and FakeOpener, an
// in-memory dynlib.Opener serving entry points by path.
package testutil
