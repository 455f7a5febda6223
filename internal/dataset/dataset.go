package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/logging"
)

// A datasetImpl is a handle on a node in an Engine's arena
type datasetImpl struct {
	engine *Engine
	id     int64
}

var _ sparkling.Dataset = &datasetImpl{}

func (ds *datasetImpl) ID() int64 {
	return ds.id
}

func (ds *datasetImpl) Name() string {
	ds.engine.lock.RLock()
	defer ds.engine.lock.RUnlock()
	if n, ok := ds.engine.nodes[ds.id]; ok {
		return n.name
	}
	return ""
}

func (ds *datasetImpl) SetName(name string) sparkling.Dataset {
	ds.engine.lock.Lock()
	defer ds.engine.lock.Unlock()
	if n, ok := ds.engine.nodes[ds.id]; ok {
		n.name = name
	}
	return ds
}

func (ds *datasetImpl) GetNumPartitions() int {
	return len(ds.Partitions())
}

func (ds *datasetImpl) Partitions() []sparkling.Partition {
	n, err := ds.engine.lookup(ds.id)
	if err != nil {
		return nil
	}
	return n.partitions
}

func (ds *datasetImpl) Partitioner() sparkling.Partitioner {
	n, err := ds.engine.lookup(ds.id)
	if err != nil {
		return nil
	}
	return n.partitioner
}

func (ds *datasetImpl) ToDebugString() string {
	n, err := ds.engine.lookup(ds.id)
	if err != nil {
		return err.Error()
	}
	return ds.engine.lineage(n)
}

func (ds *datasetImpl) Compute(p sparkling.Partition, tc sparkling.TaskContext) (sparkling.Iterator, error) {
	n, err := ds.engine.lookup(ds.id)
	if err != nil {
		return nil, err
	}
	return ds.engine.compute(n, p, tc)
}

// derive registers a node downstream of this Dataset. If this Dataset no longer exists,
// the result is a Dataset which fails on use.
func (ds *datasetImpl) derive(nodeType sparkling.NodeType, description string, preservesPartitioning bool, configure func(n *node)) sparkling.Dataset {
	upstream, err := ds.engine.lookup(ds.id)
	if err != nil {
		return ds.engine.register(&node{upstream: ds.id, nodeType: nodeType, description: description, err: err})
	}
	child := upstream.derive(nodeType, description, preservesPartitioning)
	configure(child)
	return ds.engine.register(child)
}

func (ds *datasetImpl) MapPartitionsWith(mapper sparkling.PartitionMapper, preservesPartitioning bool) sparkling.Dataset {
	return ds.derive(sparkling.MapPartitionsNodeType, fmt.Sprintf("%T", mapper), preservesPartitioning, func(n *node) {
		n.mapper = mapper
	})
}

// mapPartitionsWithIndex derives a per-partition transform node with a description
func (ds *datasetImpl) mapPartitionsWithIndex(description string, fn sparkling.PartitionIndexOperation, preservesPartitioning bool) sparkling.Dataset {
	safeFn := util.SafePartitionOperation(fn)
	return ds.derive(sparkling.MapPartitionsNodeType, description, preservesPartitioning, func(n *node) {
		n.mapper = safeFn
	})
}

func (ds *datasetImpl) MapPartitionsWithIndex(fn sparkling.PartitionIndexOperation, preservesPartitioning bool) sparkling.Dataset {
	return ds.mapPartitionsWithIndex("mapPartitionsWithIndex", fn, preservesPartitioning)
}

func (ds *datasetImpl) MapPartitions(fn sparkling.PartitionOperation, preservesPartitioning bool) sparkling.Dataset {
	return ds.mapPartitionsWithIndex("mapPartitions", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return fn(elems)
	}, preservesPartitioning)
}

func (ds *datasetImpl) Map(fn sparkling.MapOperation) sparkling.Dataset {
	safeFn := util.SafeMapOperation(fn)
	return ds.mapPartitionsWithIndex("map", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Map(elems, safeFn), nil
	}, false)
}

func (ds *datasetImpl) Filter(fn sparkling.FilterOperation) sparkling.Dataset {
	safeFn := util.SafeFilterOperation(fn)
	return ds.mapPartitionsWithIndex("filter", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Filter(elems, safeFn), nil
	}, true)
}

func (ds *datasetImpl) FlatMap(fn sparkling.FlatMapOperation) sparkling.Dataset {
	safeFn := util.SafeFlatMapOperation(fn)
	return ds.mapPartitionsWithIndex("flatMap", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.FlatMap(elems, safeFn), nil
	}, false)
}

func (ds *datasetImpl) MapValues(fn sparkling.MapOperation) sparkling.Dataset {
	safeFn := util.SafeMapOperation(fn)
	return ds.mapPartitionsWithIndex("mapValues", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Map(elems, func(elem interface{}) (interface{}, error) {
			p, err := util.AsPair(elem)
			if err != nil {
				return nil, err
			}
			v, err := safeFn(p.Value)
			if err != nil {
				return nil, err
			}
			return sparkling.Pair{Key: p.Key, Value: v}, nil
		}), nil
	}, true)
}

func (ds *datasetImpl) FlatMapValues(fn sparkling.FlatMapOperation) sparkling.Dataset {
	safeFn := util.SafeFlatMapOperation(fn)
	return ds.mapPartitionsWithIndex("flatMapValues", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.FlatMap(elems, func(elem interface{}) ([]interface{}, error) {
			p, err := util.AsPair(elem)
			if err != nil {
				return nil, err
			}
			values, err := safeFn(p.Value)
			if err != nil {
				return nil, err
			}
			result := make([]interface{}, len(values))
			for i, v := range values {
				result[i] = sparkling.Pair{Key: p.Key, Value: v}
			}
			return result, nil
		}), nil
	}, true)
}

func (ds *datasetImpl) KeyBy(fn sparkling.KeyingOperation) sparkling.Dataset {
	safeFn := util.SafeKeyingOperation(fn)
	return ds.mapPartitionsWithIndex("keyBy", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Map(elems, func(elem interface{}) (interface{}, error) {
			k, err := safeFn(elem)
			if err != nil {
				return nil, err
			}
			return sparkling.Pair{Key: k, Value: elem}, nil
		}), nil
	}, false)
}

func (ds *datasetImpl) Keys() sparkling.Dataset {
	return ds.mapPartitionsWithIndex("keys", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Map(elems, func(elem interface{}) (interface{}, error) {
			p, err := util.AsPair(elem)
			if err != nil {
				return nil, err
			}
			return p.Key, nil
		}), nil
	}, false)
}

func (ds *datasetImpl) Values() sparkling.Dataset {
	return ds.mapPartitionsWithIndex("values", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Map(elems, func(elem interface{}) (interface{}, error) {
			p, err := util.AsPair(elem)
			if err != nil {
				return nil, err
			}
			return p.Value, nil
		}), nil
	}, false)
}

// resolveSeed returns the given seed, or a random one
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
}

func (ds *datasetImpl) SampleWith(predicate sparkling.SamplePredicate, seed *int64) sparkling.Dataset {
	base := resolveSeed(seed)
	return ds.derive(sparkling.SampleNodeType, fmt.Sprintf("sample (seed %d)", base), true, func(n *node) {
		n.sampler = predicate
		n.seed = base
	})
}

func (ds *datasetImpl) Sample(withReplacement bool, fraction float64, seed *int64) sparkling.Dataset {
	return ds.SampleWith(sparkling.SampleOperation(func(draw float64, elem interface{}) (bool, error) {
		return draw < fraction, nil
	}), seed)
}

func (ds *datasetImpl) SampleByKey(withReplacement bool, fractions map[interface{}]float64, seed *int64) sparkling.Dataset {
	keyed := make(map[interface{}]float64, len(fractions))
	for k, f := range fractions {
		keyed[util.HashKey(k)] = f
	}
	return ds.SampleWith(sparkling.SampleOperation(func(draw float64, elem interface{}) (bool, error) {
		p, err := util.AsPair(elem)
		if err != nil {
			return false, err
		}
		return draw < keyed[util.HashKey(p.Key)], nil
	}), seed)
}

func (ds *datasetImpl) ZipWithUniqueID() sparkling.Dataset {
	numPartitions := int64(ds.GetNumPartitions())
	return ds.mapPartitionsWithIndex("zipWithUniqueId", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.WithIndex(elems, func(i int, elem interface{}) (interface{}, error) {
			return sparkling.Pair{Key: elem, Value: int64(i)*numPartitions + int64(partitionIndex)}, nil
		}), nil
	}, false)
}

func (ds *datasetImpl) Persist() sparkling.Dataset {
	return ds.derive(sparkling.PersistNodeType, "persist", true, func(n *node) {})
}

func (ds *datasetImpl) Cache() sparkling.Dataset {
	return ds.Persist()
}

func (ds *datasetImpl) Unpersist() sparkling.Dataset {
	removed := ds.engine.conf.Cache.Remove(ds.id)
	logging.Debug(ds.engine.conf.Logger, "unpersisted dataset", "dataset", ds.id, "partitions", removed)
	return ds
}

func (ds *datasetImpl) Union(others ...sparkling.Dataset) sparkling.Dataset {
	union, err := ds.engine.Union(append([]sparkling.Dataset{ds}, others...)...)
	if err != nil {
		return ds.engine.register(&node{upstream: noUpstream, nodeType: sparkling.UnionNodeType, description: "union", err: err})
	}
	return union
}
