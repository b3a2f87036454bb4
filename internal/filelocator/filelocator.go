// SPDX-License-Identifier: MPL-2.0

// Package filelocator keeps the resource search path and the working
// directory handed to components that read or write files.
package filelocator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/pkg/module"
)

// ErrResourceNotFound is returned when no resource directory contains a file.
var ErrResourceNotFound = errors.New("resource file not found")

// Locator implements module.FileLocator.
type Locator struct {
	resourcePaths []string
	workdir       string
}

var _ module.FileLocator = (*Locator)(nil)

// New creates a Locator without resource directories.
func New() *Locator {
	return &Locator{}
}

// AddResourcePath appends one or more directories, separated by the platform
// list separator, to the resource search path.
func (l *Locator) AddResourcePath(paths string) {
	for _, p := range filepath.SplitList(paths) {
		if p != "" {
			l.resourcePaths = append(l.resourcePaths, p)
		}
	}
}

// ResourcePaths returns the resource directories in search order.
func (l *Locator) ResourcePaths() []string {
	return append([]string(nil), l.resourcePaths...)
}

// DefineWorkingDirectory sets the directory relative paths of created files
// are resolved against.
func (l *Locator) DefineWorkingDirectory(dir string) {
	l.workdir = dir
}

// WorkingDirectory returns the defined working directory, or "" if none.
func (l *Locator) WorkingDirectory() string {
	return l.workdir
}

// ResolveResource returns the path of a resource file. Absolute names are
// returned as is when they exist; relative names are looked up in the
// resource directories, then in the working directory.
func (l *Locator) ResolveResource(name string) (string, error) {
	if err := locator.CheckName(name); err != nil {
		return "", err
	}
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	dirs := l.ResourcePaths()
	if l.workdir != "" {
		dirs = append(dirs, l.workdir)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %d directories)", ErrResourceNotFound, name, len(dirs))
}

// WorkingPath resolves name against the working directory. Absolute names
// and an undefined working directory leave name unchanged.
func (l *Locator) WorkingPath(name string) string {
	if l.workdir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(l.workdir, name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
