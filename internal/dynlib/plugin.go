// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"plugin"

	"github.com/strus/strusmod/pkg/module"
)

type (
	// PluginOpener opens Go plugins.
	PluginOpener struct{}

	pluginLibrary struct {
		path   string
		p      *plugin.Plugin
		closed bool
	}
)

var _ Opener = PluginOpener{}

// EntryPointSymbol implements Opener.
func (PluginOpener) EntryPointSymbol() string { return module.EntryPointSymbol }

// Open loads the plugin at path. On platforms without plugin support the
// runtime error is returned as an *OpenError.
func (PluginOpener) Open(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &pluginLibrary{path: path, p: p}, nil
}

func (l *pluginLibrary) Path() string { return l.path }

func (l *pluginLibrary) Lookup(symbol string) (any, error) {
	if l.closed {
		return nil, ErrClosed
	}
	return l.p.Lookup(symbol)
}

// Close detaches the handle. The Go runtime never unmaps a plugin, so the
// image stays resident; the handle refuses further lookups.
func (l *pluginLibrary) Close() error {
	l.closed = true
	return nil
}
