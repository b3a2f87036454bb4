// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrComponentNotFound is the sentinel error wrapped by ComponentNotFoundError.
var ErrComponentNotFound = errors.New("component not found")

type (
	// Registry maps lowercased component names of one extension point to
	// their instances. The empty name holds the default.
	Registry[T any] struct {
		point   string
		entries map[string]T
	}

	// ComponentNotFoundError is returned when a lookup names no defined component.
	ComponentNotFoundError struct {
		Point string
		Name  string
	}

	// ExtensionPoint lists the components defined for one extension point.
	ExtensionPoint struct {
		Name       string
		Components []string
		HasDefault bool
	}
)

// Error implements the error interface.
func (e *ComponentNotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no default %s defined", e.Point)
	}
	return fmt.Sprintf("%s '%s' not defined", e.Point, e.Name)
}

// Unwrap returns ErrComponentNotFound so callers can use errors.Is for programmatic detection.
func (e *ComponentNotFoundError) Unwrap() error { return ErrComponentNotFound }

// NewRegistry creates an empty registry for the named extension point.
func NewRegistry[T any](point string) *Registry[T] {
	return &Registry[T]{point: point, entries: make(map[string]T)}
}

// Point returns the extension point name.
func (r *Registry[T]) Point() string { return r.point }

// Define stores v under name, replacing any earlier definition.
func (r *Registry[T]) Define(name string, v T) {
	r.entries[strings.ToLower(name)] = v
}

// Get returns the component defined under name.
func (r *Registry[T]) Get(name string) (T, error) {
	v, ok := r.entries[strings.ToLower(name)]
	if !ok {
		var zero T
		return zero, &ComponentNotFoundError{Point: r.point, Name: name}
	}
	return v, nil
}

// Names returns the defined names in sorted order, without the default key.
func (r *Registry[T]) Names() []string {
	names := slices.Sorted(maps.Keys(r.entries))
	return slices.DeleteFunc(names, func(n string) bool { return n == "" })
}

// ExtensionPoint describes the registry for diagnostics.
func (r *Registry[T]) ExtensionPoint() ExtensionPoint {
	_, def := r.entries[""]
	return ExtensionPoint{Name: r.point, Components: r.Names(), HasDefault: def}
}
