// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for strusmod.
//
// The root command loads the configuration and sets up logging; info
// inspects module files, load registers modules and lists the resulting
// extension points, paths shows the module search path and config manages
// the configuration file.
package cmd
