// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

// Logger names of the built-ins.
const (
	DumpLogger  = "dump"
	CountLogger = "count"
)

// ErrLoggerClosed is returned by Close on an already closed logger.
var ErrLoggerClosed = errors.New("trace logger closed")

// Module returns the built-in trace loggers as a trace module payload.
// The "" entry is the dump logger.
func Module() *module.TraceModule {
	return &module.TraceModule{
		TraceLoggers: []module.TraceLoggerConstructor{
			{Name: DumpLogger, Create: newDumpLogger},
			{Name: CountLogger, Create: newCountLogger},
			{Name: "", Create: newDumpLogger},
		},
	}
}

// output selects where a logger writes. "file=<path>" appends to a file,
// "output=stdout" or "output=stderr" (the default) use the process streams.
type output struct {
	w     io.Writer
	close func() error
}

func openOutput(cfg *cfgstr.Config) (output, error) {
	if path, ok := cfg.Take("file"); ok {
		if _, dup := cfg.Take("output"); dup {
			return output{}, fmt.Errorf("%w: file and output are exclusive", cfgstr.ErrSyntax)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return output{}, fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return output{}, fmt.Errorf("failed to open trace file: %w", err)
		}
		return output{w: f, close: f.Close}, nil
	}

	name, _ := cfg.Take("output")
	switch name {
	case "", "stderr":
		return output{w: os.Stderr, close: noClose}, nil
	case "stdout":
		return output{w: os.Stdout, close: noClose}, nil
	default:
		return output{}, fmt.Errorf("%w: unknown trace output %q", cfgstr.ErrSyntax, name)
	}
}

func noClose() error { return nil }

// rejectUnknown fails when cfg still holds parameters nobody consumed.
func rejectUnknown(logger string, cfg *cfgstr.Config) error {
	if cfg.Len() == 0 {
		return nil
	}
	return fmt.Errorf("%w: unknown %s trace parameters %q", cfgstr.ErrSyntax, logger, cfg.String())
}
