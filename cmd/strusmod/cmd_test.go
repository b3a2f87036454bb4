// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strus/strusmod/internal/config"
	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/internal/testutil"
	"github.com/strus/strusmod/pkg/module"
)

type stubProvider struct {
	cfg *config.Config
	err error
}

func (p stubProvider) Load(context.Context, config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	cfg := *p.cfg
	return &cfg, "", nil
}

type fixedNormalizer string

func (f fixedNormalizer) Normalize(string) string { return string(f) }

func snowballModule(opts ...module.Option) *module.EntryPoint {
	return module.NewAnalyzerModule(&module.AnalyzerModule{
		Normalizers: []module.Constructor[module.Normalizer]{{
			Name: "snowball",
			Create: func(module.ErrorBuffer) (module.Normalizer, error) {
				return fixedNormalizer("x"), nil
			},
		}},
	}, opts...)
}

// moduleFile creates an empty module file and returns its path.
func moduleFile(t *testing.T, dir, name string) string {
	t.Helper()
	return testutil.MustWriteFile(t, dir, module.NamePrefix+name+locator.Extension, nil)
}

func runCLI(t *testing.T, deps Dependencies, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.Config == nil {
		cfg := config.DefaultConfig()
		cfg.Trace = "logger=count; output=stderr"
		deps.Config = stubProvider{cfg: cfg}
	}
	if deps.Getenv == nil {
		deps.Getenv = func(string) string { return "" }
	}
	if deps.SystemDirs == nil {
		deps.SystemDirs = []string{}
	}

	root := NewRootCommand(NewApp(deps))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestInfo_NoArguments(t *testing.T) {
	stdout, stderr, err := runCLI(t, Dependencies{}, "info")
	if err != nil {
		t.Fatalf("info returned error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.HasPrefix(stderr, "expected module path as argument\n") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Error("stderr should contain the usage")
	}
}

func TestInfo_ReportsEveryModuleInOrder(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	stem := moduleFile(t, dir, "stem")

	tooNew := module.NewStorageModule(nil)
	tooNew.ModMinorVersion = module.ModuleVersionMinor + 1
	badPath := moduleFile(t, other, "future")

	opener := testutil.NewFakeOpener().
		Add(stem, snowballModule(module.WithThirdPartyVersion("snowball 2.2"))).
		Add(badPath, tooNew)

	stdout, stderr, err := runCLI(t, Dependencies{Opener: opener},
		"info", "-M", other, "-M", dir, "stem", "missing", badPath)
	if err != nil {
		t.Fatalf("info returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	want := []string{
		"module strus0.15",
		"type analyzer 0.17",
		"3rd party version snowball 2.2",
		"status ok",
		"status error: not found",
	}
	if len(lines) != len(want)+1 {
		t.Fatalf("stdout lines = %q", lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if last := lines[len(want)]; !strings.HasPrefix(last, "status error: ") || !strings.Contains(last, "newer in minor version") {
		t.Errorf("last line = %q, want a module version error", last)
	}

	for _, s := range []string{
		"search module stem",
		"try path '" + filepath.Join(other, "modstrus_stem.so") + "'",
		"try path '" + stem + "'",
		"search module missing",
		"load module " + badPath,
	} {
		if !strings.Contains(stderr, s) {
			t.Errorf("stderr does not contain %q:\n%s", s, stderr)
		}
	}
	if opener.OpenHandles() != 0 {
		t.Errorf("%d module handles left open", opener.OpenHandles())
	}
}

func TestLoad_ListsComponentsAndAnalyzes(t *testing.T) {
	dir := t.TempDir()
	path := moduleFile(t, dir, "normalizer_snowball")
	opener := testutil.NewFakeOpener().Add(path, snowballModule())

	stdout, _, err := runCLI(t, Dependencies{Opener: opener},
		"load", "-M", dir, "normalizer_snowball",
		"--analyze", "Hello World", "--normalizer", "snowball")
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	for _, s := range []string{
		"load module",
		"try '" + path + "'",
		"ok.",
		"normalizer: ",
		"snowball",
		"database: ",
		"trace logger: ",
		"  1 x",
		"  2 x",
	} {
		if !strings.Contains(stdout, s) {
			t.Errorf("stdout does not contain %q:\n%s", s, stdout)
		}
	}
	if opener.OpenHandles() != 0 {
		t.Errorf("%d module handles left open", opener.OpenHandles())
	}
}

func TestLoad_ConfiguredModules(t *testing.T) {
	dir := t.TempDir()
	path := moduleFile(t, dir, "stem")
	opener := testutil.NewFakeOpener().Add(path, snowballModule())

	cfg := config.DefaultConfig()
	cfg.ModulePaths = []string{dir}
	cfg.Modules = []string{"stem"}
	cfg.Trace = "logger=count; output=stderr"

	stdout, _, err := runCLI(t, Dependencies{Opener: opener, Config: stubProvider{cfg: cfg}}, "load")
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if !strings.Contains(stdout, "try '"+path+"'") || !strings.Contains(stdout, "ok.") {
		t.Errorf("stdout = %s", stdout)
	}
}

func TestLoad_FailureExitCode(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, err := runCLI(t, Dependencies{Opener: testutil.NewFakeOpener()},
		"load", "-M", dir, "missing")
	if code := exitCode(err); code != ExitFailure {
		t.Fatalf("exit code = %d, want %d (err %v)", code, ExitFailure, err)
	}
	if !errors.Is(err, ErrLoadFailed) {
		t.Errorf("error %v should wrap ErrLoadFailed", err)
	}
	if !strings.Contains(stdout, "try '"+filepath.Join(dir, "modstrus_missing.so")+"'") {
		t.Errorf("stdout = %s", stdout)
	}
	if !strings.Contains(stdout, "failed.") {
		t.Errorf("stdout does not report the failure: %s", stdout)
	}
	if !strings.Contains(stderr, "error loading module 'missing'") {
		t.Errorf("stderr does not show the error buffer message: %s", stderr)
	}
}

func TestLoad_InvalidTraceConfig(t *testing.T) {
	_, _, err := runCLI(t, Dependencies{}, "load", "--trace", "logger=nonexistent")
	if code := exitCode(err); code != ExitFailure {
		t.Fatalf("exit code = %d, want %d (err %v)", code, ExitFailure, err)
	}
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	stem := moduleFile(t, dir, "stem")

	stdout, _, err := runCLI(t, Dependencies{}, "paths", "-M", dir, "-R", "/usr/share/strus", "-W", "/var/lib/strus", "stem")
	if err != nil {
		t.Fatalf("paths returned error: %v", err)
	}
	for _, s := range []string{dir, "explicit", "/usr/share/strus", "/var/lib/strus", stem} {
		if !strings.Contains(stdout, s) {
			t.Errorf("stdout does not contain %q:\n%s", s, stdout)
		}
	}

	_, _, err = runCLI(t, Dependencies{}, "paths", "../escape")
	if !errors.Is(err, locator.ErrInvalidName) {
		t.Errorf("paths ../escape error = %v, want ErrInvalidName", err)
	}
}

func TestUnknownFlag_ExitsWithUsageCode(t *testing.T) {
	_, _, err := runCLI(t, Dependencies{}, "info", "--no-such-flag")
	if code := exitCode(err); code != ExitUsage {
		t.Errorf("exit code = %d, want %d (err %v)", code, ExitUsage, err)
	}
}

func TestConfigShow_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"cue", `abi: "go"`},
		{"yaml", "abi: go"},
		{"toml", "abi = "},
		{"json", `"abi": "go"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout, _, err := runCLI(t, Dependencies{}, "config", "show", "--format", tt.format)
			if err != nil {
				t.Fatalf("config show returned error: %v", err)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, stdout)
			}
		})
	}

	_, _, err := runCLI(t, Dependencies{}, "config", "show", "--format", "xml")
	if code := exitCode(err); code != ExitUsage || !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("config show --format xml = %v (code %d)", err, code)
	}
}

func TestConfigLoadFailure(t *testing.T) {
	loadErr := errors.New("broken config")
	_, stderr, err := runCLI(t, Dependencies{Config: stubProvider{err: loadErr}}, "info", "stem")
	if !errors.Is(err, loadErr) || exitCode(err) != ExitFailure {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(stderr, "broken config") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    error
		check      func(*config.Config) bool
	}{
		{"abi", "native", nil, func(c *config.Config) bool { return c.ABI == config.ABINative }},
		{"log.level", "debug", nil, func(c *config.Config) bool { return c.Log.Level == config.LogLevelDebug }},
		{"ui.verbose", "true", nil, func(c *config.Config) bool { return c.UI.Verbose }},
		{"system_module_path", "true", nil, func(c *config.Config) bool { return c.SystemModulePath }},
		{"trace", "logger=count", nil, func(c *config.Config) bool { return c.Trace == "logger=count" }},
		{"abi", "wasm", config.ErrInvalidABI, nil},
		{"ui.color_scheme", "neon", config.ErrInvalidColorScheme, nil},
		{"module_paths", "/tmp", ErrUnknownKey, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := setConfigValue(cfg, tt.key, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("value not applied: %+v", cfg)
			}
		})
	}
}

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-01-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q, want dev fallback", got)
	}
}
