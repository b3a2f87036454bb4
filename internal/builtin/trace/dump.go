// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"sync"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"

	"github.com/charmbracelet/log"
)

type dumpLogger struct {
	mu     sync.Mutex
	out    output
	logger *log.Logger
	closed bool
}

// newDumpLogger accepts the output parameters and "prefix=<text>"
// (default "trace").
func newDumpLogger(config string, _ module.ErrorBuffer) (module.TraceLogger, error) {
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	prefix, ok := cfg.Take("prefix")
	if !ok {
		prefix = "trace"
	}
	out, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(DumpLogger, cfg); err != nil {
		_ = out.close()
		return nil, err
	}
	return &dumpLogger{
		out: out,
		logger: log.NewWithOptions(out.w, log.Options{
			Prefix: prefix,
			Level:  log.DebugLevel,
		}),
	}, nil
}

func (d *dumpLogger) Log(ev module.TraceEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	kv := make([]any, 0, 2*len(ev.Args))
	for i, a := range ev.Args {
		kv = append(kv, argKey(i), a)
	}
	d.logger.Info(ev.Component+"."+ev.Method, kv...)
}

func (d *dumpLogger) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrLoggerClosed
	}
	d.closed = true
	return d.out.close()
}

var argKeys = [...]string{"arg0", "arg1", "arg2", "arg3", "arg4", "arg5", "arg6", "arg7"}

func argKey(i int) string {
	if i < len(argKeys) {
		return argKeys[i]
	}
	return "arg"
}
