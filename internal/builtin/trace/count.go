// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

// countLogger counts calls per component method and writes one
// "<component>.<method> <n>" line per method, sorted, when closed.
type countLogger struct {
	mu     sync.Mutex
	out    output
	counts map[string]int
	closed bool
}

func newCountLogger(config string, _ module.ErrorBuffer) (module.TraceLogger, error) {
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	out, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	if err := rejectUnknown(CountLogger, cfg); err != nil {
		_ = out.close()
		return nil, err
	}
	return &countLogger{out: out, counts: map[string]int{}}, nil
}

func (c *countLogger) Log(ev module.TraceEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.counts[ev.Component+"."+ev.Method]++
	}
}

// Counts returns a copy of the counters collected so far.
func (c *countLogger) Counts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.counts)
}

func (c *countLogger) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrLoggerClosed
	}
	c.closed = true

	var werr error
	for _, k := range slices.Sorted(maps.Keys(c.counts)) {
		if _, err := fmt.Fprintf(c.out.w, "%s %d\n", k, c.counts[k]); err != nil {
			werr = err
			break
		}
	}
	if err := c.out.close(); err != nil && werr == nil {
		werr = err
	}
	return werr
}
