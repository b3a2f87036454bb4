// SPDX-License-Identifier: MPL-2.0

// Package cfgstr handles component configuration strings of the form
// "key=value; key2=value2". Keys are case-insensitive and stored lowercase;
// values keep their case and may be single-quoted to contain ';'.
package cfgstr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed configuration strings.
var ErrSyntax = errors.New("invalid configuration string")

type (
	// Item is one key/value pair.
	Item struct {
		Key   string
		Value string
	}

	// Config is an ordered list of items. Later duplicates shadow earlier ones.
	Config struct {
		items []Item
	}
)

// Parse splits s into items. Empty segments are ignored.
func Parse(s string) (*Config, error) {
	c := &Config{}
	for _, seg := range splitUnquoted(s) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, value, ok := strings.Cut(seg, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", ErrSyntax, seg)
		}
		value = unquote(strings.TrimSpace(value))
		c.items = append(c.items, Item{Key: key, Value: value})
	}
	return c, nil
}

// Get returns the last value stored under key.
func (c *Config) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i].Key == key {
			return c.items[i].Value, true
		}
	}
	return "", false
}

// Take returns the last value stored under key and removes every item with that key.
func (c *Config) Take(key string) (string, bool) {
	value, ok := c.Get(key)
	if !ok {
		return "", false
	}
	key = strings.ToLower(key)
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Key != key {
			kept = append(kept, it)
		}
	}
	c.items = kept
	return value, true
}

// Int returns the value under key as an int, or def if absent.
func (c *Config) Int(key string, def int) (int, error) {
	v, ok := c.Get(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrSyntax, key, v)
	}
	return n, nil
}

// Items returns the items in order.
func (c *Config) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Len returns the number of items.
func (c *Config) Len() int { return len(c.items) }

// String renders the remaining items, quoting values that need it.
func (c *Config) String() string {
	parts := make([]string, len(c.items))
	for i, it := range c.items {
		v := it.Value
		if strings.ContainsAny(v, ";'") || strings.TrimSpace(v) != v {
			v = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		parts[i] = it.Key + "=" + v
	}
	return strings.Join(parts, "; ")
}

func splitUnquoted(s string) []string {
	var (
		parts  []string
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return v
}
