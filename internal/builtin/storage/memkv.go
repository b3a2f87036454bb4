// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

// snapshotMagic prefixes memkv snapshot files; the rest is one zstd frame.
const snapshotMagic = "SMKV1\n"

// ErrClientClosed is returned by operations on a closed client.
var ErrClientClosed = errors.New("database client closed")

type (
	// memDatabase keeps keys in memory. With "path=<file>" the store is loaded
	// from a snapshot on open and written back on Close.
	memDatabase struct{}

	memClient struct {
		mu     sync.Mutex
		data   map[string][]byte
		path   string
		dirty  bool
		closed bool
	}
)

func (memDatabase) CreateClient(config string, fl module.FileLocator) (module.DatabaseClient, error) {
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	c := &memClient{data: map[string][]byte{}}
	if path, ok := cfg.Take("path"); ok && path != "" {
		c.path = resolvePath(path, fl)
		if err := c.load(); err != nil {
			return nil, err
		}
	}
	if cfg.Len() > 0 {
		return nil, fmt.Errorf("%w: unknown memkv parameters %q", cfgstr.ErrSyntax, cfg.String())
	}
	return c, nil
}

func resolvePath(path string, fl module.FileLocator) string {
	if filepath.IsAbs(path) || fl == nil || fl.WorkingDirectory() == "" {
		return path
	}
	return filepath.Join(fl.WorkingDirectory(), path)
}

func (c *memClient) Get(key []byte) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false, ErrClientClosed
	}
	v, ok := c.data[string(key)]
	return bytes.Clone(v), ok, nil
}

func (c *memClient) Put(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	c.data[string(key)] = bytes.Clone(value)
	c.dirty = true
	return nil
}

func (c *memClient) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	if _, ok := c.data[string(key)]; ok {
		delete(c.data, string(key))
		c.dirty = true
	}
	return nil
}

func (c *memClient) Keys(prefix []byte) ([][]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	var keys []string
	for k := range c.data {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

func (c *memClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.path == "" || !c.dirty {
		return nil
	}
	return c.save()
}

func (c *memClient) load() error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	body, ok := bytes.CutPrefix(data, []byte(snapshotMagic))
	if !ok {
		return fmt.Errorf("%w: %s is not a memkv snapshot", ErrCorrupt, c.path)
	}
	raw, err := zstdDecompress(body)
	if err != nil {
		return err
	}
	r := reader{buf: raw}
	for len(r.buf) > 0 && r.err == nil {
		k := r.bytes()
		v := r.bytes()
		if r.err == nil {
			c.data[string(k)] = bytes.Clone(v)
		}
	}
	return r.err
}

func (c *memClient) save() error {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var raw []byte
	for _, k := range keys {
		raw = appendString(raw, k)
		raw = appendString(raw, string(c.data[k]))
	}

	out := zstdCompress([]byte(snapshotMagic), raw)
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
