// SPDX-License-Identifier: MPL-2.0

package cfgstr

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := Parse("Database=memkv; path = /tmp/db ; ; note='a;b'; path=/var/db")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if v, ok := c.Get("database"); !ok || v != "memkv" {
		t.Errorf("Get(database) = %q, %v", v, ok)
	}
	if v, _ := c.Get("PATH"); v != "/var/db" {
		t.Errorf("Get(PATH) = %q, want last value", v)
	}
	if v, _ := c.Get("note"); v != "a;b" {
		t.Errorf("Get(note) = %q", v)
	}

	if v, ok := c.Take("path"); !ok || v != "/var/db" {
		t.Errorf("Take(path) = %q, %v", v, ok)
	}
	if _, ok := c.Get("path"); ok {
		t.Error("path still present after Take")
	}
	if got, want := c.String(), "database=memkv; note='a;b'"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"novalue", "=x", "a=1; b"} {
		if _, err := Parse(s); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", s, err)
		}
	}
}

func TestConfig_Int(t *testing.T) {
	t.Parallel()

	c, _ := Parse("k=12; bad=x")
	if n, err := c.Int("k", 0); err != nil || n != 12 {
		t.Errorf("Int(k) = %d, %v", n, err)
	}
	if n, err := c.Int("absent", 7); err != nil || n != 7 {
		t.Errorf("Int(absent) = %d, %v", n, err)
	}
	if _, err := c.Int("bad", 0); !errors.Is(err, ErrSyntax) {
		t.Errorf("Int(bad) error = %v", err)
	}
}
