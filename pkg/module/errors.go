// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ErrorCode classifies module loading failures. The numbering is shared with
// native tooling and must stay stable.
type ErrorCode int

const (
	ErrorNone              ErrorCode = 0
	ErrorUnknownModuleType ErrorCode = 1

	ErrorSignature       ErrorCode = 11
	ErrorModMinorVersion ErrorCode = 12

	ErrorCompMajorVersion ErrorCode = 21
	ErrorCompMinorVersion ErrorCode = 22

	ErrorOpenModule   ErrorCode = 31
	ErrorNoEntryPoint ErrorCode = 32

	// Host-side conditions, raised before or around the matcher.
	ErrorInvalidFilePath  ErrorCode = 41
	ErrorLoadModuleFailed ErrorCode = 42
	ErrorOutOfMemory      ErrorCode = 43
)

var (
	ErrUnknownModuleType = errors.New("module type unknown")
	ErrSignature         = errors.New("module signature mismatch")
	ErrModMinorVersion   = errors.New("module newer in minor version than module loader, it is compatible but may contain objects that cannot be loaded")
	ErrCompMajorVersion  = errors.New("loaded objects major version mismatch")
	ErrCompMinorVersion  = errors.New("loaded objects minor version smaller than required by the loader")
	ErrOpenModule        = errors.New("system error loading module")
	ErrNoEntryPoint      = errors.New("no module entry point found")
	ErrInvalidFilePath   = errors.New("invalid module file path")
	ErrLoadModuleFailed  = errors.New("failed to load module")
	ErrOutOfMemory       = errors.New("out of memory")

	codeErrors = map[ErrorCode]error{
		ErrorUnknownModuleType: ErrUnknownModuleType,
		ErrorSignature:         ErrSignature,
		ErrorModMinorVersion:   ErrModMinorVersion,
		ErrorCompMajorVersion:  ErrCompMajorVersion,
		ErrorCompMinorVersion:  ErrCompMinorVersion,
		ErrorOpenModule:        ErrOpenModule,
		ErrorNoEntryPoint:      ErrNoEntryPoint,
		ErrorInvalidFilePath:   ErrInvalidFilePath,
		ErrorLoadModuleFailed:  ErrLoadModuleFailed,
		ErrorOutOfMemory:       ErrOutOfMemory,
	}
)

// VersionError is returned by Match when a descriptor is not compatible with
// the host. Got and Want hold the compared values of the failing check.
type VersionError struct {
	Code ErrorCode
	Got  string
	Want string
}

// Error implements the error interface.
func (e *VersionError) Error() string {
	switch {
	case e.Got == "" && e.Want == "":
		return e.Code.String()
	case e.Want == "":
		return fmt.Sprintf("%s (module %s)", e.Code.String(), e.Got)
	}
	return fmt.Sprintf("%s (module %s, host %s)", e.Code.String(), e.Got, e.Want)
}

// Unwrap returns the sentinel error of the failing check.
func (e *VersionError) Unwrap() error { return e.Code.Err() }

// Err returns the sentinel error for c, or nil for ErrorNone.
func (c ErrorCode) Err() error {
	if c == ErrorNone {
		return nil
	}
	if err, ok := codeErrors[c]; ok {
		return err
	}
	return fmt.Errorf("module error %d", int(c))
}

// String returns the human-readable message for c.
func (c ErrorCode) String() string {
	if c == ErrorNone {
		return "ok"
	}
	if err, ok := codeErrors[c]; ok {
		return err.Error()
	}
	return "module error " + strconv.Itoa(int(c))
}

// Coded is implemented by errors that carry an ErrorCode.
type Coded interface {
	ErrorCode() ErrorCode
}

// ErrorCode implements Coded.
func (e *VersionError) ErrorCode() ErrorCode { return e.Code }

// CodeOf extracts the ErrorCode carried by err. Errors that only wrap one of
// the package sentinels map back to the sentinel's code. Unknown errors
// report ErrorLoadModuleFailed; a nil error reports ErrorNone.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrorNone
	}
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	for _, code := range slices.Sorted(maps.Keys(codeErrors)) {
		if errors.Is(err, codeErrors[code]) {
			return code
		}
	}
	return ErrorLoadModuleFailed
}
