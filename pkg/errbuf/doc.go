// SPDX-License-Identifier: MPL-2.0

// Package errbuf provides the standard implementation of module.ErrorBuffer,
// the sink through which the module loader, the object builders and module
// factories report recoverable failures.
package errbuf
