// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"

	"github.com/strus/strusmod/pkg/module"
)

// ErrClosed is returned by operations on a closed Registry.
var ErrClosed = errors.New("module registry closed")

// LoadError describes a failed module load. Path is empty when no candidate
// file was found; Tried lists every probed path.
type LoadError struct {
	Name  string
	Path  string
	Tried []string
	Code  module.ErrorCode
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading module '%s': %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// ErrorCode implements module.Coded.
func (e *LoadError) ErrorCode() module.ErrorCode { return e.Code }

// kindMismatchError is returned for entry points whose payload contradicts
// the declared kind.
func kindMismatchError(declared module.Kind, payload module.Payload) error {
	got := "without payload"
	if payload != nil {
		got = "payload " + payload.Kind().String()
	}
	return &module.VersionError{
		Code: module.ErrorUnknownModuleType,
		Got:  got,
		Want: declared.String(),
	}
}
