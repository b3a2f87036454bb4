// SPDX-License-Identifier: MPL-2.0

// Package dynlib opens module shared libraries and looks up their entry points.
//
// Two openers are provided: PluginOpener loads Go plugins built with
// -buildmode=plugin, NativeOpener loads C-ABI modules through the platform
// dynamic loader without cgo. Both return a Library whose Close releases the
// handle exactly once.
package dynlib
