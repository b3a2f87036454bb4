// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/strus/strusmod/pkg/module"
)

// EnvModulePath names the environment variable holding additional search
// directories, separated by the platform list separator.
const EnvModulePath = "STRUS_MODULE_PATH"

const (
	// SourceExplicit directories were added by the caller.
	SourceExplicit Source = iota
	// SourceEnvironment directories come from EnvModulePath.
	SourceEnvironment
	// SourceSystem directories are the compiled-in defaults.
	SourceSystem
)

var (
	// ErrModuleNotFound is returned by Resolve when no candidate file exists.
	ErrModuleNotFound = errors.New("module not found")

	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = module.ErrInvalidFilePath
)

type (
	// Source tells where a search directory came from.
	Source int

	// SearchDir is one directory of the module search path.
	SearchDir struct {
		Path   string
		Source Source
	}

	// InvalidNameError is returned for module names that could escape the
	// search directories.
	InvalidNameError struct {
		Name string
	}

	// NotFoundError lists the paths probed for a module that was not found.
	NotFoundError struct {
		Name   string
		Probed []string
	}

	// Locator resolves module names against the search path.
	// It is not safe for concurrent mutation.
	Locator struct {
		explicit   []string
		getenv     func(string) string
		stat       func(string) (fs.FileInfo, error)
		systemDirs []string
		prefix     string
		extension  string
	}

	// Option configures a Locator.
	Option func(*Locator)
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceEnvironment:
		return "environment"
	case SourceSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid module name '%s': upward directory reference", e.Name)
}

// Unwrap returns ErrInvalidName.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// ErrorCode implements module.Coded.
func (e *InvalidNameError) ErrorCode() module.ErrorCode { return module.ErrorInvalidFilePath }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Probed) == 0 {
		return fmt.Sprintf("failed to find module '%s': no search directories", e.Name)
	}
	return fmt.Sprintf("failed to find module '%s' (tried %s)", e.Name, strings.Join(e.Probed, ", "))
}

// Unwrap returns ErrModuleNotFound.
func (e *NotFoundError) Unwrap() error { return ErrModuleNotFound }

// ErrorCode implements module.Coded.
func (e *NotFoundError) ErrorCode() module.ErrorCode { return module.ErrorLoadModuleFailed }

// WithGetenv replaces os.Getenv for reading EnvModulePath.
func WithGetenv(getenv func(string) string) Option {
	return func(l *Locator) { l.getenv = getenv }
}

// WithStat replaces os.Stat for probing candidate files.
func WithStat(stat func(string) (fs.FileInfo, error)) Option {
	return func(l *Locator) { l.stat = stat }
}

// WithSystemDirs replaces the compiled-in system directories.
func WithSystemDirs(dirs ...string) Option {
	return func(l *Locator) { l.systemDirs = dirs }
}

// WithExtension replaces the platform module file extension.
func WithExtension(ext string) Option {
	return func(l *Locator) { l.extension = ext }
}

// New creates a Locator without explicit directories.
func New(opts ...Option) *Locator {
	l := &Locator{
		getenv:     os.Getenv,
		stat:       os.Stat,
		systemDirs: SystemDirs(),
		prefix:     module.NamePrefix,
		extension:  Extension,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddPath appends dir to the explicit search directories.
func (l *Locator) AddPath(dir string) {
	if dir == "" {
		return
	}
	l.explicit = append(l.explicit, dir)
}

// AddSystemPaths appends the system directories to the explicit ones, so
// they stay on the search path alongside explicitly added directories.
func (l *Locator) AddSystemPaths() {
	l.explicit = append(l.explicit, l.systemDirs...)
}

// ExplicitDirs returns the explicitly added directories.
func (l *Locator) ExplicitDirs() []string {
	return append([]string(nil), l.explicit...)
}

// SearchDirs returns the effective search path in probing order.
func (l *Locator) SearchDirs() []SearchDir {
	dirs := make([]SearchDir, 0, len(l.explicit)+len(l.systemDirs))
	for _, d := range l.explicit {
		dirs = append(dirs, SearchDir{Path: d, Source: SourceExplicit})
	}
	for _, d := range filepath.SplitList(l.getenv(EnvModulePath)) {
		if d == "" {
			continue
		}
		dirs = append(dirs, SearchDir{Path: d, Source: SourceEnvironment})
	}
	if len(l.explicit) == 0 {
		for _, d := range l.systemDirs {
			dirs = append(dirs, SearchDir{Path: d, Source: SourceSystem})
		}
	}
	return dirs
}

// CandidatePaths returns one candidate file per search directory, in probing
// order. Names with an upward directory reference are rejected before any
// path is derived.
func (l *Locator) CandidatePaths(name string) ([]string, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	file := l.FileName(name)
	dirs := l.SearchDirs()
	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, filepath.Join(d.Path, file))
	}
	return paths, nil
}

// Resolve returns the first candidate that is an existing regular file,
// together with every path probed up to and including it. The search stops
// at the first existing file; whether that file is a valid module is the
// caller's concern.
func (l *Locator) Resolve(name string) (string, []string, error) {
	candidates, err := l.CandidatePaths(name)
	if err != nil {
		return "", nil, err
	}
	probed := make([]string, 0, len(candidates))
	for _, path := range candidates {
		probed = append(probed, path)
		if l.isRegularFile(path) {
			return path, probed, nil
		}
	}
	return "", probed, &NotFoundError{Name: name, Probed: probed}
}

// FileName applies the module naming convention to the last element of name:
// the module prefix is prepended unless present, and the platform extension
// is appended unless the name already ends with it (compared case-insensitively).
func (l *Locator) FileName(name string) string {
	dir, base := splitLast(name)
	if !strings.HasPrefix(base, l.prefix) {
		base = l.prefix + base
	}
	if !hasSuffixFold(base, l.extension) {
		base += l.extension
	}
	return dir + base
}

// Extension returns the module file extension in use.
func (l *Locator) Extension() string { return l.extension }

func (l *Locator) isRegularFile(path string) bool {
	info, err := l.stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CheckName rejects names containing a ".." path element. Both '/' and '\'
// count as separators on every platform.
func CheckName(name string) error {
	for _, elem := range strings.FieldsFunc(name, isSeparator) {
		if elem == ".." {
			return &InvalidNameError{Name: name}
		}
	}
	return nil
}

// IsPath reports whether arg names a file rather than a logical module name:
// it contains a path separator or ends with the module extension.
func IsPath(arg string) bool {
	return strings.ContainsFunc(arg, isSeparator) || hasSuffixFold(arg, Extension)
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func splitLast(name string) (dir, base string) {
	i := strings.LastIndexFunc(name, isSeparator)
	return name[:i+1], name[i+1:]
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
