// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"errors"
	"fmt"

	"github.com/strus/strusmod/internal/builtin/storage"
	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

// Storage extension point names.
const (
	PointDatabase             = "database"
	PointStatisticsProcessor  = "statistics processor"
	PointVectorStorage        = "vector storage"
	PointPostingJoinOperator  = "posting join operator"
	PointWeightingFunction    = "weighting function"
	PointSummarizerFunction   = "summarizer function"
	PointScalarFunctionParser = "scalar function parser"
)

type (
	// StorageBuilder resolves storage components by name.
	StorageBuilder struct {
		databases  *Registry[module.Database]
		statsProcs *Registry[module.StatisticsProcessor]
		vectors    *Registry[module.VectorStorage]
		joins      *Registry[module.PostingJoinOperator]
		weightings *Registry[module.WeightingFunction]
		summarizer *Registry[module.SummarizerFunction]
		scalars    *Registry[module.ScalarFunctionParser]

		fileLocator module.FileLocator
	}

	// StorageClient owns an open database client together with the
	// statistics processor used to encode statistics stored in it.
	StorageClient struct {
		db    module.DatabaseClient
		stats module.StatisticsProcessor
	}
)

// NewStorageBuilder installs the built-in storage components and overlays
// the given module payloads in order. It fails when WithStatisticsProcessor
// names an undefined processor.
func NewStorageBuilder(sources []Source[*module.StorageModule], opts ...Option) (*StorageBuilder, error) {
	o := newOptions(opts)
	b := &StorageBuilder{
		databases:   NewRegistry[module.Database](PointDatabase),
		statsProcs:  NewRegistry[module.StatisticsProcessor](PointStatisticsProcessor),
		vectors:     NewRegistry[module.VectorStorage](PointVectorStorage),
		joins:       NewRegistry[module.PostingJoinOperator](PointPostingJoinOperator),
		weightings:  NewRegistry[module.WeightingFunction](PointWeightingFunction),
		summarizer:  NewRegistry[module.SummarizerFunction](PointSummarizerFunction),
		scalars:     NewRegistry[module.ScalarFunctionParser](PointScalarFunctionParser),
		fileLocator: o.fileLocator,
	}
	all := append([]Source[*module.StorageModule]{{Name: BuiltinSource, Payload: storage.Module()}}, sources...)
	for _, src := range all {
		if src.Payload == nil {
			continue
		}
		install(b.databases, src.Payload.Databases, src.Name, &o)
		install(b.statsProcs, src.Payload.StatisticsProcessors, src.Name, &o)
		install(b.vectors, src.Payload.VectorStorages, src.Name, &o)
		install(b.joins, src.Payload.PostingJoinOperators, src.Name, &o)
		install(b.weightings, src.Payload.WeightingFunctions, src.Name, &o)
		install(b.summarizer, src.Payload.SummarizerFunctions, src.Name, &o)
		install(b.scalars, src.Payload.ScalarFunctionParsers, src.Name, &o)
	}
	if o.statsProc != "" {
		sp, err := b.statsProcs.Get(o.statsProc)
		if err != nil {
			return nil, err
		}
		b.statsProcs.Define("", sp)
		o.logger.Debug("default statistics processor", "name", o.statsProc)
	}
	return b, nil
}

// Database returns the named key/value database, or the default for "".
func (b *StorageBuilder) Database(name string) (module.Database, error) {
	return b.databases.Get(name)
}

// StatisticsProcessor returns the named statistics processor, or the default for "".
func (b *StorageBuilder) StatisticsProcessor(name string) (module.StatisticsProcessor, error) {
	return b.statsProcs.Get(name)
}

// VectorStorage returns the named vector storage.
func (b *StorageBuilder) VectorStorage(name string) (module.VectorStorage, error) {
	return b.vectors.Get(name)
}

// PostingJoinOperator returns the named posting join operator.
func (b *StorageBuilder) PostingJoinOperator(name string) (module.PostingJoinOperator, error) {
	return b.joins.Get(name)
}

// WeightingFunction returns the named weighting function.
func (b *StorageBuilder) WeightingFunction(name string) (module.WeightingFunction, error) {
	return b.weightings.Get(name)
}

// SummarizerFunction returns the named summarizer function.
func (b *StorageBuilder) SummarizerFunction(name string) (module.SummarizerFunction, error) {
	return b.summarizer.Get(name)
}

// ScalarFunctionParser returns the named scalar function parser.
func (b *StorageBuilder) ScalarFunctionParser(name string) (module.ScalarFunctionParser, error) {
	return b.scalars.Get(name)
}

// Points lists the storage extension points and their components.
func (b *StorageBuilder) Points() []ExtensionPoint {
	return []ExtensionPoint{
		b.databases.ExtensionPoint(),
		b.statsProcs.ExtensionPoint(),
		b.vectors.ExtensionPoint(),
		b.joins.ExtensionPoint(),
		b.weightings.ExtensionPoint(),
		b.summarizer.ExtensionPoint(),
		b.scalars.ExtensionPoint(),
	}
}

// CreateStorageClient opens a database client. "database=<name>" and
// "statsproc=<name>" select the components; the remaining parameters are
// passed to the database.
func (b *StorageBuilder) CreateStorageClient(config string) (*StorageClient, error) {
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	dbName, _ := cfg.Take("database")
	spName, _ := cfg.Take("statsproc")

	db, err := b.databases.Get(dbName)
	if err != nil {
		return nil, err
	}
	sp, err := b.statsProcs.Get(spName)
	if err != nil {
		return nil, err
	}
	client, err := db.CreateClient(cfg.String(), b.fileLocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &StorageClient{db: client, stats: sp}, nil
}

// CreateVectorStorageClient opens a client of the named vector storage.
func (b *StorageBuilder) CreateVectorStorageClient(name, config string) (module.VectorStorageClient, error) {
	vs, err := b.vectors.Get(name)
	if err != nil {
		return nil, err
	}
	client, err := vs.CreateClient(config, b.fileLocator)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector storage client: %w", err)
	}
	return client, nil
}

// Database returns the underlying database client.
func (c *StorageClient) Database() module.DatabaseClient { return c.db }

// PutStatistics encodes msg and stores it under key.
func (c *StorageClient) PutStatistics(key []byte, msg module.StatisticsMessage) error {
	blob, err := c.stats.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	return c.db.Put(key, blob)
}

// Statistics loads and decodes the message stored under key.
func (c *StorageClient) Statistics(key []byte) (module.StatisticsMessage, bool, error) {
	blob, ok, err := c.db.Get(key)
	if err != nil || !ok {
		return module.StatisticsMessage{}, ok, err
	}
	msg, err := c.stats.Decode(blob)
	if err != nil {
		return module.StatisticsMessage{}, true, fmt.Errorf("failed to decode statistics: %w", err)
	}
	return msg, true, nil
}

// Close closes the database client.
func (c *StorageClient) Close() error {
	if err := c.db.Close(); err != nil {
		return errors.Join(errors.New("failed to close storage client"), err)
	}
	return nil
}
