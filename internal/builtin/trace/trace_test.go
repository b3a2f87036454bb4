// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"

	"github.com/stretchr/testify/require"
)

func TestDumpLogger_WritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "trace.log")
	l, err := newDumpLogger("file="+path+"; prefix=test", nil)
	require.NoError(t, err)

	l.Log(module.TraceEvent{Component: "Segmenter", Method: "Segment", Args: []any{"doc1", 42}})
	l.Log(module.TraceEvent{Component: "Tokenizer", Method: "Tokenize"})
	require.NoError(t, l.Close())
	require.ErrorIs(t, l.Close(), ErrLoggerClosed)

	l.Log(module.TraceEvent{Component: "Ignored", Method: "AfterClose"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "test")
	require.Contains(t, lines[0], "Segmenter.Segment")
	require.Contains(t, lines[0], "arg0=doc1")
	require.Contains(t, lines[0], "arg1=42")
	require.Contains(t, lines[1], "Tokenizer.Tokenize")
}

func TestCountLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "counts.txt")
	l, err := newCountLogger("file="+path, nil)
	require.NoError(t, err)

	for range 3 {
		l.Log(module.TraceEvent{Component: "Storage", Method: "Get"})
	}
	l.Log(module.TraceEvent{Component: "Analyzer", Method: "Analyze"})
	require.Equal(t, map[string]int{"Storage.Get": 3, "Analyzer.Analyze": 1}, l.(*countLogger).Counts())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Analyzer.Analyze 1\nStorage.Get 3\n", string(data))
}

func TestLoggerConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		create func(string, module.ErrorBuffer) (module.TraceLogger, error)
		config string
	}{
		{"dump unknown param", newDumpLogger, "level=7"},
		{"dump unknown output", newDumpLogger, "output=printer"},
		{"count unknown param", newCountLogger, "verbose=1"},
		{"count file and output", newCountLogger, "file=x; output=stdout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.create(tt.config, nil)
			require.ErrorIs(t, err, cfgstr.ErrSyntax)
		})
	}
}

func TestModule(t *testing.T) {
	t.Parallel()

	m := Module()
	require.Equal(t, module.KindTrace, m.Kind())
	names := make([]string, 0, len(m.TraceLoggers))
	for _, c := range m.TraceLoggers {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{DumpLogger, CountLogger, ""}, names)

	l, err := m.TraceLoggers[1].Create("output=stdout", nil)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
