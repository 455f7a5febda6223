// Package driver is the entry point to sparkling. A Context constructs Datasets from
// in-memory collections and files, and runs jobs against them.
package driver

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/datasource/file"
	"github.com/go-sif/sparkling/datasource/parser/dsv"
	"github.com/go-sif/sparkling/datasource/parser/jsonl"
	"github.com/go-sif/sparkling/datasource/parser/lines"
	"github.com/go-sif/sparkling/datasource/parser/object"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/dataset"
	"github.com/go-sif/sparkling/logging"
)

// Context is the driver of a sparkling application. It owns every Dataset created through it,
// the cache of persisted Partitions and the job runner.
type Context struct {
	opts   *Options
	engine *dataset.Engine
	logger logr.Logger
}

// CreateContext creates a Context, defaulting any Options which are not supplied
func CreateContext(opts *Options) (*Context, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts = CloneOptions(opts)
	if err := ensureDefaultOptionsValues(opts); err != nil {
		return nil, err
	}
	var logger logr.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	} else {
		level, _ := logging.ParseLogLevel(opts.LogLevel)
		logger = logging.NewLogger(opts.AppName, level)
	}
	engine := dataset.CreateEngine(&dataset.EngineConfig{
		NumWorkers:         opts.NumWorkers,
		DefaultParallelism: opts.DefaultParallelism,
		Cache:              opts.Cache,
		FileSystem:         opts.FileSystem,
		Logger:             logger,
	})
	logger = logger.WithValues("app", engine.ID())
	logger.Info("created context", "name", opts.AppName, "workers", opts.NumWorkers, "parallelism", opts.DefaultParallelism)
	return &Context{opts: opts, engine: engine, logger: logger}, nil
}

// AppID returns the unique id of this application
func (c *Context) AppID() string {
	return c.engine.ID()
}

// AppName returns the name of this application
func (c *Context) AppName() string {
	return c.opts.AppName
}

// Options returns a copy of the Options in effect, with defaults applied
func (c *Context) Options() *Options {
	return CloneOptions(c.opts)
}

// Logger returns the logger of this Context
func (c *Context) Logger() logr.Logger {
	return c.logger
}

// Cache returns the cache of persisted Partitions
func (c *Context) Cache() sparkling.PartitionCache {
	return c.engine.Cache()
}

// Statistics returns runtime statistics about the jobs run by this Context
func (c *Context) Statistics() sparkling.RuntimeStatistics {
	return c.engine.Statistics()
}

// Stop releases every Dataset and cached Partition. Datasets created by this Context
// fail with a MissingDatasetError afterwards.
func (c *Context) Stop() {
	c.engine.Stop()
	logging.Debug(c.logger, "stopped context")
}

// Parallelize distributes an in-memory collection over numPartitions Partitions of nearly equal size.
// A numPartitions below 1 uses Options.DefaultParallelism.
func (c *Context) Parallelize(elems []interface{}, numPartitions int) sparkling.Dataset {
	return c.engine.Parallelize(elems, numPartitions)
}

// Range produces the ints from start (inclusive) to end (exclusive), spaced by step
func (c *Context) Range(start int, end int, step int, numPartitions int) (sparkling.Dataset, error) {
	if step == 0 {
		return nil, errors.InvalidArgumentError{Name: "step", Reason: "must not be 0"}
	}
	elems := make([]interface{}, 0)
	for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
		elems = append(elems, i)
	}
	return c.Parallelize(elems, numPartitions), nil
}

// EmptyDataset produces a Dataset without any elements
func (c *Context) EmptyDataset() sparkling.Dataset {
	return c.Parallelize([]interface{}{}, 1)
}

// Union concatenates the Partitions of several Datasets
func (c *Context) Union(datasets ...sparkling.Dataset) (sparkling.Dataset, error) {
	return c.engine.Union(datasets...)
}

// FromSource produces a Dataset with one Partition per PartitionLoader of a DataSource
func (c *Context) FromSource(source sparkling.DataSource) (sparkling.Dataset, error) {
	return c.engine.FromSource(source, sparkling.FileNodeType, fmt.Sprintf("%T", source))
}

// fromFiles produces a Dataset with one Partition per file. When fewer files than minPartitions
// are found, their contents are read immediately and redistributed over minPartitions Partitions.
func (c *Context) fromFiles(ctx context.Context, path string, minPartitions int, parser sparkling.DataSourceParser, description string) (sparkling.Dataset, error) {
	ds, err := c.engine.FromSource(file.NewDataSource(c.engine.FileSystem(), path, parser), sparkling.FileNodeType, fmt.Sprintf("%s %s", description, path))
	if err != nil {
		return nil, err
	}
	if minPartitions > ds.GetNumPartitions() {
		logging.Debug(c.logger, "redistributing files", "path", path, "files", ds.GetNumPartitions(), "partitions", minPartitions)
		return ds.Repartition(ctx, minPartitions)
	}
	return ds, nil
}

// TextFile produces one string element per line of the files designated by path.
// path may name a file, a directory or a glob pattern, or be a comma-separated list of those.
// Compressed files are decompressed according to their suffix.
func (c *Context) TextFile(ctx context.Context, path string, minPartitions int) (sparkling.Dataset, error) {
	return c.fromFiles(ctx, path, minPartitions, lines.CreateParser(nil), "textFile")
}

// WholeTextFiles produces one Pair{path, content} per file designated by path
func (c *Context) WholeTextFiles(path string) (sparkling.Dataset, error) {
	return c.engine.FromSource(file.NewWholeFileDataSource(c.engine.FileSystem(), path), sparkling.FileNodeType, fmt.Sprintf("wholeTextFiles %s", path))
}

// JSONLines produces one element per line of JSON. With paths, each element is a []interface{}
// holding the values at those gjson paths; otherwise it is the decoded line.
func (c *Context) JSONLines(ctx context.Context, path string, minPartitions int, paths ...string) (sparkling.Dataset, error) {
	return c.fromFiles(ctx, path, minPartitions, jsonl.CreateParser(&jsonl.ParserConf{Paths: paths}), "jsonLines")
}

// DSVFile produces one []interface{} element per record of delimiter-separated values
func (c *Context) DSVFile(ctx context.Context, path string, minPartitions int, conf *dsv.ParserConf) (sparkling.Dataset, error) {
	return c.fromFiles(ctx, path, minPartitions, dsv.CreateParser(conf), "dsvFile")
}

// ObjectFile reads the elements written by SaveAsObjectFile
func (c *Context) ObjectFile(ctx context.Context, path string, minPartitions int) (sparkling.Dataset, error) {
	return c.fromFiles(ctx, path, minPartitions, object.CreateParser(), "objectFile")
}

// RunJob applies fn to each requested Partition of ds and returns the results in request order.
// A nil partitions slice requests every Partition.
func (c *Context) RunJob(ctx context.Context, ds sparkling.Dataset, fn sparkling.JobOperation, partitions []int) ([]interface{}, error) {
	return c.engine.RunJob(ctx, ds, fn, partitions)
}

// RunJobWithHandler runs a job as RunJob does, and then passes its results through handler
func (c *Context) RunJobWithHandler(ctx context.Context, ds sparkling.Dataset, fn sparkling.JobOperation, partitions []int, handler sparkling.ResultHandler) (interface{}, error) {
	return c.engine.RunJobWithHandler(ctx, ds, fn, partitions, handler)
}
