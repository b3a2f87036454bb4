// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/strus/strusmod/internal/filelocator"
	"github.com/strus/strusmod/pkg/errbuf"
	"github.com/strus/strusmod/pkg/module"

	"github.com/stretchr/testify/require"
)

type fixedNormalizer string

func (f fixedNormalizer) Normalize(string) string { return string(f) }

func normalizerEntry(name, out string) module.Constructor[module.Normalizer] {
	return module.Constructor[module.Normalizer]{
		Name: name,
		Create: func(module.ErrorBuffer) (module.Normalizer, error) {
			return fixedNormalizer(out), nil
		},
	}
}

func analyzerSource(name string, entries ...module.Constructor[module.Normalizer]) Source[*module.AnalyzerModule] {
	return Source[*module.AnalyzerModule]{Name: name, Payload: &module.AnalyzerModule{Normalizers: entries}}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry[int]("number")
	r.Define("One", 1)
	r.Define("one", 11)
	r.Define("", 0)
	r.Define("two", 2)

	v, err := r.Get("ONE")
	require.NoError(t, err)
	require.Equal(t, 11, v)
	require.Equal(t, []string{"one", "two"}, r.Names())

	_, err = r.Get("three")
	require.ErrorIs(t, err, ErrComponentNotFound)
	require.EqualError(t, err, "number 'three' not defined")

	ep := r.ExtensionPoint()
	require.True(t, ep.HasDefault)
	require.Equal(t, "number", ep.Name)

	_, err = NewRegistry[int]("number").Get("")
	require.EqualError(t, err, "no default number defined")
}

func TestAnalyzerBuilder_ModuleOverlaysBuiltin(t *testing.T) {
	t.Parallel()

	b := NewAnalyzerBuilder([]Source[*module.AnalyzerModule]{
		analyzerSource("normalizer_snowball", normalizerEntry("Stem", "snowball")),
	})

	n, err := b.Normalizer("stem")
	require.NoError(t, err)
	require.Equal(t, "snowball", n.Normalize("running"))

	n, err = b.Normalizer("lc")
	require.NoError(t, err)
	require.Equal(t, "abc", n.Normalize("ABC"), "built-ins without overlay stay")
}

func TestAnalyzerBuilder_EmptyNameLastWins(t *testing.T) {
	t.Parallel()

	b := NewAnalyzerBuilder([]Source[*module.AnalyzerModule]{
		analyzerSource("first", normalizerEntry("", "first")),
		analyzerSource("second", normalizerEntry("", "second")),
		analyzerSource("third", normalizerEntry("other", "third")),
	})

	n, err := b.Normalizer("")
	require.NoError(t, err)
	require.Equal(t, "second", n.Normalize("x"))
}

func TestAnalyzerBuilder_SkipsFailingFactories(t *testing.T) {
	t.Parallel()

	eb := errbuf.New()
	b := NewAnalyzerBuilder([]Source[*module.AnalyzerModule]{
		analyzerSource("broken",
			module.Constructor[module.Normalizer]{Name: "err", Create: func(module.ErrorBuffer) (module.Normalizer, error) {
				return nil, errors.New("no dictionary")
			}},
			module.Constructor[module.Normalizer]{Name: "nil", Create: func(module.ErrorBuffer) (module.Normalizer, error) {
				return nil, nil
			}},
			module.Constructor[module.Normalizer]{Name: "buffered", Create: func(eb module.ErrorBuffer) (module.Normalizer, error) {
				eb.Report(module.ErrorOutOfMemory, "out of memory")
				return fixedNormalizer("unused"), nil
			}},
			module.Constructor[module.Normalizer]{Name: "uc"},
			normalizerEntry("good", "good"),
		),
	}, WithErrorBuffer(eb))

	for _, name := range []string{"err", "nil", "buffered"} {
		_, err := b.Normalizer(name)
		require.ErrorIs(t, err, ErrComponentNotFound, name)
	}
	n, err := b.Normalizer("good")
	require.NoError(t, err)
	require.Equal(t, "good", n.Normalize(""))

	n, err = b.Normalizer("uc")
	require.NoError(t, err)
	require.Equal(t, "ABC", n.Normalize("abc"), "entry without factory keeps the built-in")
	require.False(t, eb.HasError())
}

func TestAnalyzerBuilder_KeepsPendingError(t *testing.T) {
	t.Parallel()

	eb := errbuf.New()
	eb.Report(module.ErrorLoadModuleFailed, "earlier failure")
	b := NewAnalyzerBuilder([]Source[*module.AnalyzerModule]{
		analyzerSource("mod",
			module.Constructor[module.Normalizer]{Name: "buffered", Create: func(eb module.ErrorBuffer) (module.Normalizer, error) {
				eb.Report(module.ErrorOutOfMemory, "out of memory")
				return fixedNormalizer("unused"), nil
			}},
			normalizerEntry("good", "good"),
		),
	}, WithErrorBuffer(eb))

	_, err := b.DocumentClassDetector("std")
	require.NoError(t, err)
	_, err = b.Normalizer("good")
	require.NoError(t, err)
	_, err = b.Normalizer("buffered")
	require.ErrorIs(t, err, ErrComponentNotFound)

	code, msg := eb.Fetch()
	require.Equal(t, module.ErrorLoadModuleFailed, code)
	require.Equal(t, "earlier failure", msg)
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	b := NewAnalyzerBuilder(nil)
	a, err := b.CreateAnalyzer(AnalyzerConfig{
		Normalizers: []string{"lc"},
		Aggregators: []string{"count", "maxpos"},
	})
	require.NoError(t, err)

	res, err := a.Analyze([]byte("Hello, World!"))
	require.NoError(t, err)
	require.Equal(t, []module.Term{{Pos: 1, Value: "hello"}, {Pos: 2, Value: "world"}}, res.Terms)
	require.Equal(t, map[string]float64{"count": 2, "maxpos": 2}, res.Aggregates)
	require.Equal(t, "text/plain", res.Class.MimeType)

	_, err = b.CreateAnalyzer(AnalyzerConfig{Tokenizer: "nope", Normalizers: []string{"missing"}})
	require.ErrorIs(t, err, ErrComponentNotFound)
	require.Contains(t, err.Error(), "tokenizer 'nope'")
	require.Contains(t, err.Error(), "normalizer 'missing'")

	require.Len(t, b.Points(), 5)
}

func TestStorageBuilder_StatisticsRoundTrip(t *testing.T) {
	t.Parallel()

	fl := filelocator.New()
	fl.DefineWorkingDirectory(t.TempDir())

	b, err := NewStorageBuilder(nil, WithFileLocator(fl), WithStatisticsProcessor("LZ4"))
	require.NoError(t, err)

	c, err := b.CreateStorageClient("database=memkv; path=stats.kv")
	require.NoError(t, err)
	msg := module.StatisticsMessage{
		NofDocumentsDelta: 5,
		DfChanges:         []module.DfChange{{TermType: "word", TermValue: "go", Delta: 1}},
	}
	require.NoError(t, c.PutStatistics([]byte("s1"), msg))
	got, ok, err := c.Statistics([]byte("s1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, msg, got)
	_, ok, err = c.Statistics([]byte("s2"))
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Close())
	require.FileExists(t, filepath.Join(fl.WorkingDirectory(), "stats.kv"))

	// The database was written with the lz4 default; the zstd processor cannot read it.
	c, err = b.CreateStorageClient("path=stats.kv; statsproc=std")
	require.NoError(t, err)
	_, _, err = c.Statistics([]byte("s1"))
	require.Error(t, err)
	require.NoError(t, c.Close())
}

func TestStorageBuilder_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewStorageBuilder(nil, WithStatisticsProcessor("gzip"))
	require.ErrorIs(t, err, ErrComponentNotFound)

	b, err := NewStorageBuilder(nil)
	require.NoError(t, err)
	_, err = b.CreateStorageClient("database=leveldb")
	require.ErrorIs(t, err, ErrComponentNotFound)
	_, err = b.WeightingFunction("")
	require.ErrorIs(t, err, ErrComponentNotFound, "weighting functions have no default")

	vc, err := b.CreateVectorStorageClient("", "dim=3")
	require.NoError(t, err)
	require.NoError(t, vc.Close())
	require.Len(t, b.Points(), 7)
}

type nopTraceLogger struct{ config string }

func (nopTraceLogger) Log(module.TraceEvent) {}
func (nopTraceLogger) Close() error          { return nil }

func TestTraceBuilder(t *testing.T) {
	t.Parallel()

	custom := Source[*module.TraceModule]{Name: "trace_custom", Payload: &module.TraceModule{
		TraceLoggers: []module.TraceLoggerConstructor{{
			Name: "Custom",
			Create: func(config string, _ module.ErrorBuffer) (module.TraceLogger, error) {
				return nopTraceLogger{config: config}, nil
			},
		}},
	}}

	b, err := NewTraceBuilder([]Source[*module.TraceModule]{custom}, "logger=custom; level=3")
	require.NoError(t, err)
	l, err := b.CreateConfiguredTraceLogger()
	require.NoError(t, err)
	require.Equal(t, nopTraceLogger{config: "level=3"}, l)

	l, err = b.CreateTraceLogger("count", "output=stdout")
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = NewTraceBuilder(nil, "logger=custom")
	require.ErrorIs(t, err, ErrComponentNotFound)

	ep := b.Points()[0]
	require.Equal(t, []string{"count", "custom", "dump"}, ep.Components)
	require.True(t, ep.HasDefault)
}
