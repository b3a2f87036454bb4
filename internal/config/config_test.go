// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strus/strusmod/internal/testutil"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.ABI != ABIGo {
		t.Errorf("ABI = %q, want %q", cfg.ABI, ABIGo)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, LogLevelWarn)
	}
	if cfg.Trace != "logger=dump" {
		t.Errorf("Trace = %q", cfg.Trace)
	}
	if len(cfg.ModulePaths) != 0 {
		t.Errorf("ModulePaths = %v, want empty", cfg.ModulePaths)
	}
}

func TestLoad_LogsThroughDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	if _, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no config file found") {
		t.Errorf("log = %q, want defaults notice", buf.String())
	}

	buf.Reset()
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `abi: "go"`)
	if _, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.Contains(buf.String(), "loading config") || !strings.Contains(buf.String(), path) {
		t.Errorf("log = %q, want path %q", buf.String(), path)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfigFile(t, dir, `
module_paths: ["/opt/strus/modules", "/usr/local/lib/strus/modules"]
resource_paths: ["/usr/share/strus"]
modules: ["normalizer_snowball"]
statistics_processor: "std"
abi: "native"
log: level: "debug"
ui: verbose: true
`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if len(cfg.ModulePaths) != 2 || cfg.ModulePaths[1] != "/usr/local/lib/strus/modules" {
		t.Errorf("ModulePaths = %v", cfg.ModulePaths)
	}
	if len(cfg.Modules) != 1 || cfg.Modules[0] != "normalizer_snowball" {
		t.Errorf("Modules = %v", cfg.Modules)
	}
	if cfg.ABI != ABINative {
		t.Errorf("ABI = %q, want native", cfg.ABI)
	}
	if cfg.StatisticsProcessor != "std" {
		t.Errorf("StatisticsProcessor = %q", cfg.StatisticsProcessor)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want default auto", cfg.UI.ColorScheme)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `trace: "logger=count"`)

	cfg, got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != path || cfg.Trace != "logger=count" {
		t.Errorf("Load() = (%q, %q)", cfg.Trace, got)
	}

	_, _, err = NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue"),
	})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown abi", `abi: "wasm"`, "abi"},
		{"bad log level", `log: level: "loud"`, "log.level"},
		{"empty module name", `modules: ["stem", ""]`, "modules[1]"},
		{"unknown field", `module_dirs: ["/tmp"]`, "module_dirs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() succeeded, want schema error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `log: level: "error"`)
	t.Setenv("STRUS_LOG_LEVEL", "debug")
	t.Setenv("STRUS_ABI", "native")

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("Log.Level = %q, want env override debug", cfg.Log.Level)
	}
	if cfg.ABI != ABINative {
		t.Errorf("ABI = %q, want env override native", cfg.ABI)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("STRUS_ABI", "wasm")

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() succeeded, want validation error")
	}
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidABI) {
		t.Errorf("error %v should wrap ErrInvalidConfig and ErrInvalidABI", err)
	}
}

func TestLoad_ExpandsPaths(t *testing.T) {
	root := t.TempDir()
	t.Setenv("STRUS_TEST_ROOT", root)
	dir := t.TempDir()
	writeConfigFile(t, dir, `
module_paths: ["$STRUS_TEST_ROOT/modules"]
resource_paths: ["${STRUS_TEST_UNSET:-/usr/share/strus}"]
working_directory: "${STRUS_TEST_ROOT}/work"
`)

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ModulePaths[0] != root+"/modules" {
		t.Errorf("ModulePaths[0] = %q", cfg.ModulePaths[0])
	}
	if cfg.ResourcePaths[0] != "/usr/share/strus" {
		t.Errorf("ResourcePaths[0] = %q", cfg.ResourcePaths[0])
	}
	if cfg.WorkingDirectory != root+"/work" {
		t.Errorf("WorkingDirectory = %q", cfg.WorkingDirectory)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestExpandPath_Home(t *testing.T) {
	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))

	got, err := ExpandPath("~/modules")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if got != home+"/modules" {
		t.Errorf("ExpandPath(~/modules) = %q, want %q", got, home+"/modules")
	}
}

func TestSaveAndCreateDefault(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("path = %q", path)
	}

	cfg := DefaultConfig()
	cfg.ModulePaths = []string{"/opt/strus/modules"}
	cfg.Modules = []string{"stem", "storage_vector"}
	cfg.WorkingDirectory = "/var/lib/strus"
	cfg.Log.Level = LogLevelInfo
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// CreateDefaultConfig keeps an existing file.
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}

	loaded, _, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Modules) != 2 || loaded.Modules[1] != "storage_vector" {
		t.Errorf("Modules = %v", loaded.Modules)
	}
	if loaded.WorkingDirectory != "/var/lib/strus" || loaded.Log.Level != LogLevelInfo {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestGenerateCUE_ValidatesAgainstSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResourcePaths = []string{`C:\strus\data`}
	cfg.StatisticsProcessor = "std"

	if _, err := decodeCUE([]byte(GenerateCUE(cfg)), "generated.cue"); err != nil {
		t.Fatalf("generated CUE does not validate: %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"abi"}, "abi"},
		{[]string{"log", "level"}, "log.level"},
		{[]string{"modules", "1"}, "modules[1]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if valid, errs := cfg.IsValid(); !valid {
		t.Fatalf("DefaultConfig().IsValid() = %v", errs)
	}

	cfg.ModulePaths = []string{"/ok", "  "}
	cfg.UI.ColorScheme = "neon"
	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v", valid, errs)
	}
	if !errors.Is(errs[0], ErrInvalidPath) || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("error %v should wrap ErrInvalidPath and ErrInvalidColorScheme", errs[0])
	}
	var pathErr *InvalidPathError
	if !errors.As(errs[0], &pathErr) || pathErr.Field != "module_paths" || pathErr.Index != 1 {
		t.Errorf("InvalidPathError = %+v", pathErr)
	}
}
