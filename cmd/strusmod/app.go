// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/strus/strusmod/internal/config"
	"github.com/strus/strusmod/internal/dynlib"
	"github.com/strus/strusmod/internal/filelocator"
	"github.com/strus/strusmod/internal/loader"
	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/pkg/errbuf"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives the App and builds its per-invocation session from it.
	App struct {
		Config config.Provider
		// Opener overrides the opener selected by the abi setting.
		Opener dynlib.Opener
		Getenv func(string) string
		// SystemDirs replaces the built-in system module directories when set.
		SystemDirs []string

		stdout io.Writer
		stderr io.Writer
		flags  rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		Opener     dynlib.Opener
		Getenv     func(string) string
		SystemDirs []string
		Stdout     io.Writer
		Stderr     io.Writer
	}

	rootFlags struct {
		configFile    string
		debug         bool
		verbose       bool
		native        bool
		modulePaths   []string
		resourcePaths []string
		workdir       string
	}

	// session is the state of one command invocation: the effective
	// configuration merged with the command line flags, and the logger.
	session struct {
		cfg        *config.Config
		configPath string
		logger     *log.Logger
		opener     dynlib.Opener

		locatorOpts   []locator.Option
		modulePaths   []string
		resourcePaths []string
		workdir       string
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Opener:     deps.Opener,
		Getenv:     deps.Getenv,
		SystemDirs: deps.SystemDirs,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Getenv == nil {
		app.Getenv = os.Getenv
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newSession loads the configuration and applies the command line flags on top.
func (a *App) newSession(ctx context.Context) (*session, error) {
	// Until the configured level is known, --debug alone decides what
	// config loading logs.
	a.newLogger(config.LogLevelWarn)
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		return nil, err
	}

	applyColorScheme(cfg.UI.ColorScheme)
	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}

	s := &session{
		cfg:           cfg,
		configPath:    path,
		logger:        a.newLogger(cfg.Log.Level),
		opener:        a.opener(cfg.ABI),
		locatorOpts:   []locator.Option{locator.WithGetenv(a.Getenv)},
		modulePaths:   append(append([]string(nil), a.flags.modulePaths...), cfg.ModulePaths...),
		resourcePaths: append(append([]string(nil), a.flags.resourcePaths...), cfg.ResourcePaths...),
		workdir:       cfg.WorkingDirectory,
	}
	if a.SystemDirs != nil {
		s.locatorOpts = append(s.locatorOpts, locator.WithSystemDirs(a.SystemDirs...))
	}
	if a.flags.workdir != "" {
		s.workdir = a.flags.workdir
	}
	return s, nil
}

func (a *App) opener(abi config.ABI) dynlib.Opener {
	switch {
	case a.Opener != nil:
		return a.Opener
	case a.flags.native || abi == config.ABINative:
		return dynlib.NativeOpener{}
	default:
		return dynlib.PluginOpener{}
	}
}

// newLogger builds the CLI logger and installs it as the slog default.
func (a *App) newLogger(level config.LogLevel) *log.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	if a.flags.debug {
		lvl = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Level:  lvl,
		Prefix: "strusmod",
	})
	slog.SetDefault(slog.New(logger))
	return logger
}

// newRegistry creates a loader registry on the session search path together
// with the error buffer it reports to. Registries do not share state, so
// each goroutine can own one.
func (s *session) newRegistry() (*loader.Registry, *errbuf.Buffer) {
	buf := errbuf.New()
	reg := loader.New(
		loader.WithOpener(s.opener),
		loader.WithLocator(locator.New(s.locatorOpts...)),
		loader.WithFileLocator(filelocator.New()),
		loader.WithLogger(s.logger),
		loader.WithErrorBuffer(buf),
	)
	for _, dir := range s.modulePaths {
		reg.AddModulePath(dir)
	}
	if s.cfg.SystemModulePath {
		reg.AddSystemModulePath()
	}
	for _, dir := range s.resourcePaths {
		reg.AddResourcePath(dir)
	}
	if s.workdir != "" {
		reg.DefineWorkingDirectory(s.workdir)
	}
	if s.cfg.StatisticsProcessor != "" {
		reg.DefineStatisticsProcessor(s.cfg.StatisticsProcessor)
	}
	return reg, buf
}
