// SPDX-License-Identifier: MPL-2.0

// Package loader implements the module registry: it resolves module names on
// the search path, opens and validates their entry points, keeps one record
// per loaded module grouped by kind, and creates the object builders that
// combine the built-in components with the loaded ones.
//
// The registry owns every library handle it opens. Records and builders
// borrow module memory and must not be used after Close.
package loader
