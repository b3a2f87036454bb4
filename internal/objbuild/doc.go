// SPDX-License-Identifier: MPL-2.0

// Package objbuild assembles the analyzer, storage and trace object builders.
//
// A builder first installs the built-in components of its extension points,
// then overlays the factory tables of every loaded module in load order.
// Component names are case-insensitive; a later definition replaces an
// earlier one of the same name, and the empty name is the default. Factories
// that fail are logged and skipped so one broken entry never hides the rest.
package objbuild
