// Package dataset implements lazy, partitioned Datasets and the job runner which evaluates them
package dataset

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/datasource/memory"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/fileio"
	"github.com/go-sif/sparkling/internal/pcache"
	"github.com/go-sif/sparkling/internal/stats"
	uuid "github.com/gofrs/uuid"
)

// EngineConfig configures an Engine
type EngineConfig struct {
	NumWorkers         int                      // the number of Partitions computed concurrently by a job. 1 is strictly sequential.
	DefaultParallelism int                      // the number of Partitions used when a caller does not specify one
	Cache              sparkling.PartitionCache // the cache for persisted Datasets
	FileSystem         fileio.Client            // the file system used to load and save Datasets
	Logger             logr.Logger
}

// Engine owns the arena of Dataset graph nodes, the Partition cache and the job runner.
// Nodes are immutable once registered and refer to their upstream node by id.
type Engine struct {
	id           string
	conf         *EngineConfig
	lock         sync.RWMutex
	nextID       int64
	nodes        map[int64]*node
	stopped      bool
	statsTracker *stats.RunStatistics
}

// CreateEngine is a factory for Engines
func CreateEngine(conf *EngineConfig) *Engine {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID: %v", err)
	}
	if conf.NumWorkers < 1 {
		conf.NumWorkers = 1
	}
	if conf.DefaultParallelism < 1 {
		conf.DefaultParallelism = 1
	}
	if conf.Cache == nil {
		conf.Cache = pcache.New()
	}
	if conf.FileSystem == nil {
		conf.FileSystem = fileio.NewLocalFSClient()
	}
	if conf.Logger.GetSink() == nil {
		conf.Logger = logr.Discard()
	}
	return &Engine{
		id:           id.String(),
		conf:         conf,
		nodes:        make(map[int64]*node),
		statsTracker: stats.NewRunStatistics(),
	}
}

// ID returns the unique id of this Engine
func (e *Engine) ID() string {
	return e.id
}

// Cache returns the Partition cache used by persisted Datasets
func (e *Engine) Cache() sparkling.PartitionCache {
	return e.conf.Cache
}

// Statistics returns runtime statistics about the jobs run by this Engine
func (e *Engine) Statistics() sparkling.RuntimeStatistics {
	return e.statsTracker
}

// FileSystem returns the file system used to load and save Datasets
func (e *Engine) FileSystem() fileio.Client {
	return e.conf.FileSystem
}

// DefaultParallelism returns the number of Partitions used when a caller does not specify one
func (e *Engine) DefaultParallelism() int {
	return e.conf.DefaultParallelism
}

// Logger returns the logger of this Engine
func (e *Engine) Logger() logr.Logger {
	return e.conf.Logger
}

// Stop discards every Dataset node and cached Partition. Existing Dataset handles
// fail with a MissingDatasetError afterwards.
func (e *Engine) Stop() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.stopped = true
	e.nodes = make(map[int64]*node)
	e.conf.Cache.Clear()
}

// register assigns an id to a node and adds it to the arena
func (e *Engine) register(n *node) sparkling.Dataset {
	e.lock.Lock()
	defer e.lock.Unlock()
	n.id = e.nextID
	e.nextID++
	if !e.stopped {
		e.nodes[n.id] = n
	}
	return &datasetImpl{engine: e, id: n.id}
}

// lookup fetches a node from the arena
func (e *Engine) lookup(id int64) (*node, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()
	n, ok := e.nodes[id]
	if !ok {
		return nil, errors.MissingDatasetError{ID: id}
	}
	return n, nil
}

// lookupDataset fetches the node behind a Dataset, which must belong to this Engine
func (e *Engine) lookupDataset(ds sparkling.Dataset) (*node, error) {
	impl, ok := ds.(*datasetImpl)
	if !ok || impl.engine != e {
		return nil, errors.InvalidArgumentError{Name: "dataset", Reason: "dataset belongs to another driver"}
	}
	n, err := e.lookup(impl.id)
	if err != nil {
		return nil, err
	}
	if n.err != nil {
		return nil, n.err
	}
	return n, nil
}

// FromSource produces a root Dataset whose Partitions are described by a DataSource
func (e *Engine) FromSource(source sparkling.DataSource, nodeType sparkling.NodeType, description string) (sparkling.Dataset, error) {
	pm, err := source.Analyze()
	if err != nil {
		return nil, err
	}
	partitions := make([]sparkling.Partition, 0)
	for pm.HasNext() {
		partitions = append(partitions, sparkling.NewPartition(len(partitions), pm.Next()))
	}
	return e.register(createRootNode(nodeType, description, partitions, nil)), nil
}

// Parallelize produces a root Dataset from an in-memory collection, divided evenly into numPartitions
// Partitions. A numPartitions below 1 uses the default parallelism.
func (e *Engine) Parallelize(elems []interface{}, numPartitions int) sparkling.Dataset {
	return e.parallelize(elems, numPartitions, sparkling.ParallelizeNodeType, "parallelize")
}

func (e *Engine) parallelize(elems []interface{}, numPartitions int, nodeType sparkling.NodeType, description string) sparkling.Dataset {
	if numPartitions < 1 {
		numPartitions = e.conf.DefaultParallelism
	}
	ds, err := e.FromSource(memory.NewDataSource(elems, numPartitions), nodeType, fmt.Sprintf("%s (%d elements)", description, len(elems)))
	if err != nil {
		log.Panicf("Unable to analyze in-memory data: %v", err)
	}
	return ds
}

// fromPartitions roots a Dataset in driver memory with explicitly placed Partitions
func (e *Engine) fromPartitions(parts [][]interface{}, partitioner sparkling.Partitioner, description string) sparkling.Dataset {
	source := memory.NewPartitionedDataSource(parts)
	pm, _ := source.Analyze()
	partitions := make([]sparkling.Partition, 0, len(parts))
	for pm.HasNext() {
		partitions = append(partitions, sparkling.NewPartition(len(partitions), pm.Next()))
	}
	return e.register(createRootNode(sparkling.BarrierNodeType, description, partitions, partitioner))
}

// Union produces a root Dataset whose Partitions are those of the given Datasets, in order.
// No element is touched until a Partition is computed.
func (e *Engine) Union(datasets ...sparkling.Dataset) (sparkling.Dataset, error) {
	partitions := make([]sparkling.Partition, 0)
	for _, ds := range datasets {
		if _, err := e.lookupDataset(ds); err != nil {
			return nil, err
		}
		for _, p := range ds.Partitions() {
			partitions = append(partitions, sparkling.NewPartition(len(partitions), &unionPartitionLoader{source: ds, partition: p}))
		}
	}
	return e.register(createRootNode(sparkling.UnionNodeType, fmt.Sprintf("union of %d datasets", len(datasets)), partitions, nil)), nil
}

// unionPartitionLoader computes a Partition of another Dataset
type unionPartitionLoader struct {
	source    sparkling.Dataset
	partition sparkling.Partition
}

// ToString returns a string representation of this PartitionLoader
func (pl *unionPartitionLoader) ToString() string {
	return fmt.Sprintf("Union loader: dataset %d partition %d", pl.source.ID(), pl.partition.Index())
}

// Load computes the source Partition
func (pl *unionPartitionLoader) Load(tc sparkling.TaskContext) (sparkling.Iterator, error) {
	return pl.source.Compute(pl.partition, tc.Child())
}
