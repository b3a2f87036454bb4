// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/strus/strusmod/internal/dynlib"
	"github.com/strus/strusmod/internal/filelocator"
	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/pkg/module"

	"github.com/charmbracelet/log"
)

type (
	// Record is one successfully loaded module.
	Record struct {
		// Name is the short module name: the file name without prefix and extension.
		Name       string
		Path       string
		EntryPoint *module.EntryPoint
		// Tried lists the paths probed for the module, ending with Path.
		Tried []string

		lib dynlib.Library
	}

	// Registry loads modules and keeps them until Close. It is not safe for
	// concurrent use.
	Registry struct {
		opener    dynlib.Opener
		locator   *locator.Locator
		files     *filelocator.Locator
		logger    *log.Logger
		errbuf    module.ErrorBuffer
		statsProc string

		records []*Record
		closed  bool
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// WithOpener sets the library opener. The default opens Go plugins.
func WithOpener(o dynlib.Opener) Option {
	return func(r *Registry) { r.opener = o }
}

// WithLocator sets the module locator.
func WithLocator(l *locator.Locator) Option {
	return func(r *Registry) { r.locator = l }
}

// WithFileLocator sets the resource locator handed to storage components.
func WithFileLocator(fl *filelocator.Locator) Option {
	return func(r *Registry) { r.files = fl }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithErrorBuffer sets the buffer every load failure is reported to. It is
// also passed to the factories called by the object builders.
func WithErrorBuffer(eb module.ErrorBuffer) Option {
	return func(r *Registry) { r.errbuf = eb }
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.opener == nil {
		r.opener = dynlib.PluginOpener{}
	}
	if r.locator == nil {
		r.locator = locator.New()
	}
	if r.files == nil {
		r.files = filelocator.New()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// AddModulePath appends directories, separated by the platform list
// separator, to the module search path.
func (r *Registry) AddModulePath(paths string) {
	for _, p := range filepath.SplitList(paths) {
		r.locator.AddPath(strings.TrimSpace(p))
	}
}

// AddSystemModulePath appends the system module directories to the search path.
func (r *Registry) AddSystemModulePath() {
	r.locator.AddSystemPaths()
}

// ModulePaths returns the explicitly added module directories.
func (r *Registry) ModulePaths() []string {
	return r.locator.ExplicitDirs()
}

// SearchDirs returns the effective module search path.
func (r *Registry) SearchDirs() []locator.SearchDir {
	return r.locator.SearchDirs()
}

// AddResourcePath appends resource directories, separated by the platform
// list separator.
func (r *Registry) AddResourcePath(paths string) {
	r.files.AddResourcePath(paths)
}

// ResourcePaths returns the resource directories in search order.
func (r *Registry) ResourcePaths() []string {
	return r.files.ResourcePaths()
}

// DefineWorkingDirectory sets the directory relative storage paths resolve against.
func (r *Registry) DefineWorkingDirectory(dir string) {
	r.files.DefineWorkingDirectory(dir)
}

// WorkingDirectory returns the directory defined by DefineWorkingDirectory.
func (r *Registry) WorkingDirectory() string {
	return r.files.WorkingDirectory()
}

// DefineStatisticsProcessor makes the named processor the default of the
// storage object builders created afterwards.
func (r *Registry) DefineStatisticsProcessor(name string) {
	r.statsProc = name
}

// ModuleLoadTryPaths returns the paths LoadModule would probe for name.
func (r *Registry) ModuleLoadTryPaths(name string) ([]string, error) {
	return r.locator.CandidatePaths(name)
}

// LoadModule resolves name on the search path and loads the first existing
// candidate file. A failed load leaves the Registry unchanged.
func (r *Registry) LoadModule(name string) error {
	if r.closed {
		return ErrClosed
	}
	path, tried, err := r.locator.Resolve(name)
	for _, p := range tried {
		r.logger.Debug("try path", "module", name, "path", p)
	}
	if err != nil {
		return r.fail(name, "", tried, err)
	}
	return r.load(name, path, tried)
}

// LoadModuleFile loads the module at path without searching.
func (r *Registry) LoadModuleFile(path string) error {
	if r.closed {
		return ErrClosed
	}
	r.logger.Debug("try path", "path", path)
	return r.load(path, path, []string{path})
}

func (r *Registry) load(name, path string, tried []string) error {
	lib, ep, err := dynlib.LoadEntryPoint(r.opener, path)
	if err != nil {
		return r.fail(name, path, tried, err)
	}

	payload := payloadOf(ep)
	if payload == nil || payload.Kind() != ep.Kind {
		err := kindMismatchError(ep.Kind, payload)
		if cerr := lib.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return r.fail(name, path, tried, err)
	}

	rec := &Record{
		Name:       ShortName(path, r.locator.Extension()),
		Path:       path,
		EntryPoint: &module.EntryPoint{Header: ep.Header, Payload: payload},
		Tried:      tried,
		lib:        lib,
	}
	r.records = append(r.records, rec)
	r.logger.Info("loaded module",
		"name", rec.Name,
		"path", path,
		"kind", ep.Kind,
		"version", ep.ComponentVersion())
	return nil
}

// payloadOf returns the payload of ep, or an empty payload of the declared
// kind when the module exports none.
func payloadOf(ep *module.EntryPoint) module.Payload {
	switch p := ep.Payload.(type) {
	case *module.AnalyzerModule:
		if p != nil {
			return p
		}
	case *module.StorageModule:
		if p != nil {
			return p
		}
	case *module.TraceModule:
		if p != nil {
			return p
		}
	}
	return module.EmptyPayload(ep.Kind)
}

func (r *Registry) fail(name, path string, tried []string, err error) error {
	le := &LoadError{
		Name:  name,
		Path:  path,
		Tried: tried,
		Code:  module.CodeOf(err),
		Err:   err,
	}
	if r.errbuf != nil {
		r.errbuf.Report(le.Code, "%s", le.Error())
	}
	r.logger.Debug("module load failed", "module", name, "path", path, "code", int(le.Code), "error", err)
	return le
}

// ShortName strips the directory, the module prefix and ext from path.
func ShortName(path, ext string) string {
	base := filepath.Base(strings.ReplaceAll(path, `\`, "/"))
	if len(base) > len(ext) && strings.EqualFold(base[len(base)-len(ext):], ext) {
		base = base[:len(base)-len(ext)]
	}
	return strings.TrimPrefix(base, module.NamePrefix)
}

// Records returns every loaded module in load order.
func (r *Registry) Records() []*Record {
	return slices.Clone(r.records)
}

// Modules returns the short names of the loaded modules in load order.
func (r *Registry) Modules() []string {
	names := make([]string, len(r.records))
	for i, rec := range r.records {
		names[i] = rec.Name
	}
	return names
}

// AnalyzerModules returns the analyzer payloads in load order.
func (r *Registry) AnalyzerModules() []*module.AnalyzerModule {
	return payloads(r.records, (*module.EntryPoint).Analyzer)
}

// StorageModules returns the storage payloads in load order.
func (r *Registry) StorageModules() []*module.StorageModule {
	return payloads(r.records, (*module.EntryPoint).Storage)
}

// TraceModules returns the trace payloads in load order.
func (r *Registry) TraceModules() []*module.TraceModule {
	return payloads(r.records, (*module.EntryPoint).Trace)
}

func payloads[P any](records []*Record, get func(*module.EntryPoint) (P, bool)) []P {
	var out []P
	for _, rec := range records {
		if p, ok := get(rec.EntryPoint); ok {
			out = append(out, p)
		}
	}
	return out
}

// ThirdPartyVersionTexts returns the non-empty third-party version texts in load order.
func (r *Registry) ThirdPartyVersionTexts() []string {
	return r.texts(func(h *module.Header) string { return h.ThirdPartyVersion })
}

// ThirdPartyLicenseTexts returns the non-empty third-party license texts in load order.
func (r *Registry) ThirdPartyLicenseTexts() []string {
	return r.texts(func(h *module.Header) string { return h.ThirdPartyLicense })
}

func (r *Registry) texts(field func(*module.Header) string) []string {
	var out []string
	for _, rec := range r.records {
		if s := field(&rec.EntryPoint.Header); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Close releases every library handle in reverse load order. Calls after the
// first return nil.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, rec := range slices.Backward(r.records) {
		if err := rec.lib.Close(); err != nil {
			errs = append(errs, err)
		}
		r.logger.Debug("closed module", "name", rec.Name, "path", rec.Path)
	}
	return errors.Join(errs...)
}
