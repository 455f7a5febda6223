package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"sort"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
)

// materializeAll pulls every element of a Dataset onto the driver, in Partition order.
// Every barrier operation collects its inputs through this function.
func (e *Engine) materializeAll(ctx context.Context, ds sparkling.Dataset) ([]interface{}, error) {
	results, err := e.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		return iterator.Collect(elems)
	}, nil)
	if err != nil {
		return nil, err
	}
	all := make([]interface{}, 0)
	for _, r := range results {
		all = append(all, r.([]interface{})...)
	}
	return all, nil
}

// materializePairs pulls every element of a key-value Dataset onto the driver
func (e *Engine) materializePairs(ctx context.Context, ds sparkling.Dataset) ([]sparkling.Pair, error) {
	elems, err := e.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	pairs := make([]sparkling.Pair, len(elems))
	for i, elem := range elems {
		p, err := util.AsPair(elem)
		if err != nil {
			return nil, err
		}
		pairs[i] = p
	}
	return pairs, nil
}

// partitionsOr returns numPartitions if it is positive, or else the number of Partitions of this Dataset
func (ds *datasetImpl) partitionsOr(numPartitions int) int {
	if numPartitions > 0 {
		return numPartitions
	}
	if own := ds.GetNumPartitions(); own > 0 {
		return own
	}
	return 1
}

// group is the set of values sharing a key
type group struct {
	key    interface{}
	values []interface{}
}

// groupSorted stably sorts pairs by key and gathers the values of equal keys, preserving their order
func groupSorted(pairs []sparkling.Pair) []group {
	sorted := make([]sparkling.Pair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return util.Compare(sorted[i].Key, sorted[j].Key) < 0
	})
	groups := make([]group, 0)
	for _, p := range sorted {
		last := len(groups) - 1
		if last >= 0 && util.Compare(groups[last].key, p.Key) == 0 {
			groups[last].values = append(groups[last].values, p.Value)
			continue
		}
		groups = append(groups, group{key: p.Key, values: []interface{}{p.Value}})
	}
	return groups
}

// orderedMap is a map which remembers the order in which keys were first seen
type orderedMap struct {
	keys   []interface{}
	index  map[interface{}]int
	values []interface{}
}

func newOrderedMap() *orderedMap {
	return &orderedMap{index: make(map[interface{}]int)}
}

func (m *orderedMap) get(key interface{}) (interface{}, bool) {
	i, ok := m.index[util.HashKey(key)]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *orderedMap) put(key interface{}, value interface{}) {
	k := util.HashKey(key)
	if i, ok := m.index[k]; ok {
		m.values[i] = value
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *orderedMap) pairs() []interface{} {
	result := make([]interface{}, len(m.keys))
	for i, k := range m.keys {
		result[i] = sparkling.Pair{Key: k, Value: m.values[i]}
	}
	return result
}

func groupsToElements(groups []group) []interface{} {
	result := make([]interface{}, len(groups))
	for i, g := range groups {
		result[i] = sparkling.Pair{Key: g.key, Value: g.values}
	}
	return result
}

func (ds *datasetImpl) GroupByKey(ctx context.Context, numPartitions int) (sparkling.Dataset, error) {
	pairs, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	return ds.engine.parallelize(groupsToElements(groupSorted(pairs)), ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "groupByKey"), nil
}

func (ds *datasetImpl) GroupBy(ctx context.Context, fn sparkling.KeyingOperation, numPartitions int) (sparkling.Dataset, error) {
	return ds.KeyBy(fn).GroupByKey(ctx, ds.partitionsOr(numPartitions))
}

func (ds *datasetImpl) ReduceByKey(ctx context.Context, fn sparkling.ReductionOperation) (sparkling.Dataset, error) {
	pairs, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	safeFn := util.SafeReductionOperation(fn)
	groups := groupSorted(pairs)
	result := make([]interface{}, len(groups))
	for i, g := range groups {
		acc := g.values[0]
		for _, v := range g.values[1:] {
			acc, err = safeFn(acc, v)
			if err != nil {
				return nil, err
			}
		}
		result[i] = sparkling.Pair{Key: g.key, Value: acc}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "reduceByKey"), nil
}

func (ds *datasetImpl) AggregateByKey(ctx context.Context, zero sparkling.ZeroValueFactory, seqOp sparkling.AggregationOperation, combOp sparkling.ReductionOperation, numPartitions int) (sparkling.Dataset, error) {
	safeSeq := util.SafeAggregationOperation(seqOp)
	safeComb := util.SafeReductionOperation(combOp)
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		accs := newOrderedMap()
		err := iterator.ForEach(elems, func(elem interface{}) error {
			p, err := util.AsPair(elem)
			if err != nil {
				return err
			}
			acc, ok := accs.get(p.Key)
			if !ok {
				acc = zero()
			}
			acc, err = safeSeq(acc, p.Value)
			if err != nil {
				return err
			}
			accs.put(p.Key, acc)
			return nil
		})
		return accs, err
	}, nil)
	if err != nil {
		return nil, err
	}
	combined := newOrderedMap()
	for _, r := range results {
		partial := r.(*orderedMap)
		for i, k := range partial.keys {
			acc, ok := combined.get(k)
			if !ok {
				acc = zero()
			}
			acc, err = safeComb(acc, partial.values[i])
			if err != nil {
				return nil, err
			}
			combined.put(k, acc)
		}
	}
	return ds.engine.parallelize(combined.pairs(), ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "aggregateByKey"), nil
}

func (ds *datasetImpl) FoldByKey(ctx context.Context, zero sparkling.ZeroValueFactory, op sparkling.ReductionOperation) (sparkling.Dataset, error) {
	return ds.AggregateByKey(ctx, zero, sparkling.AggregationOperation(op), op, 0)
}

func (ds *datasetImpl) Distinct(ctx context.Context, numPartitions int) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	seen := make(map[interface{}]bool)
	result := make([]interface{}, 0)
	for _, elem := range elems {
		k := util.HashKey(elem)
		if !seen[k] {
			seen[k] = true
			result = append(result, elem)
		}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "distinct"), nil
}

func (ds *datasetImpl) Join(ctx context.Context, other sparkling.Dataset, numPartitions int) (sparkling.Dataset, error) {
	left, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	right, err := ds.engine.materializePairs(ctx, other)
	if err != nil {
		return nil, err
	}
	// one value per key on each side: the last one wins
	leftValues := newOrderedMap()
	for _, p := range left {
		leftValues.put(p.Key, p.Value)
	}
	rightValues := newOrderedMap()
	for _, p := range right {
		rightValues.put(p.Key, p.Value)
	}
	result := make([]interface{}, 0)
	for i, k := range leftValues.keys {
		if rv, ok := rightValues.get(k); ok {
			result = append(result, sparkling.Pair{Key: k, Value: sparkling.Joined{Left: leftValues.values[i], Right: rv}})
		}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "join"), nil
}

// cogroupSorted merges the sorted groups of both sides, producing every key of either side in order.
// A side without the key contributes a nil group.
func cogroupSorted(left []group, right []group, fn func(key interface{}, l *group, r *group)) {
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right):
			fn(left[i].key, &left[i], nil)
			i++
		case i >= len(left):
			fn(right[j].key, nil, &right[j])
			j++
		default:
			c := util.Compare(left[i].key, right[j].key)
			switch {
			case c < 0:
				fn(left[i].key, &left[i], nil)
				i++
			case c > 0:
				fn(right[j].key, nil, &right[j])
				j++
			default:
				fn(left[i].key, &left[i], &right[j])
				i++
				j++
			}
		}
	}
}

// outerJoin joins both sides by key, substituting a single nil value for a side missing a key.
// keepLeftOnly and keepRightOnly decide whether keys present on one side only are emitted.
func (ds *datasetImpl) outerJoin(ctx context.Context, other sparkling.Dataset, numPartitions int, keepLeftOnly bool, keepRightOnly bool, description string) (sparkling.Dataset, error) {
	left, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	right, err := ds.engine.materializePairs(ctx, other)
	if err != nil {
		return nil, err
	}
	missing := []interface{}{nil}
	result := make([]interface{}, 0)
	cogroupSorted(groupSorted(left), groupSorted(right), func(key interface{}, l *group, r *group) {
		if (l == nil && !keepRightOnly) || (r == nil && !keepLeftOnly) {
			return
		}
		lvalues, rvalues := missing, missing
		if l != nil {
			lvalues = l.values
		}
		if r != nil {
			rvalues = r.values
		}
		for _, lv := range lvalues {
			for _, rv := range rvalues {
				result = append(result, sparkling.Pair{Key: key, Value: sparkling.Joined{Left: lv, Right: rv}})
			}
		}
	})
	return ds.engine.parallelize(result, ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, description), nil
}

func (ds *datasetImpl) LeftOuterJoin(ctx context.Context, other sparkling.Dataset, numPartitions int) (sparkling.Dataset, error) {
	return ds.outerJoin(ctx, other, numPartitions, true, false, "leftOuterJoin")
}

func (ds *datasetImpl) RightOuterJoin(ctx context.Context, other sparkling.Dataset, numPartitions int) (sparkling.Dataset, error) {
	return ds.outerJoin(ctx, other, numPartitions, false, true, "rightOuterJoin")
}

func (ds *datasetImpl) FullOuterJoin(ctx context.Context, other sparkling.Dataset, numPartitions int) (sparkling.Dataset, error) {
	return ds.outerJoin(ctx, other, numPartitions, true, true, "fullOuterJoin")
}

func (ds *datasetImpl) Cogroup(ctx context.Context, other sparkling.Dataset, numPartitions int) (sparkling.Dataset, error) {
	left, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	right, err := ds.engine.materializePairs(ctx, other)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, 0)
	cogroupSorted(groupSorted(left), groupSorted(right), func(key interface{}, l *group, r *group) {
		value := sparkling.Cogrouped{Left: []interface{}{}, Right: []interface{}{}}
		if l != nil {
			value.Left = l.values
		}
		if r != nil {
			value.Right = r.values
		}
		result = append(result, sparkling.Pair{Key: key, Value: value})
	})
	return ds.engine.parallelize(result, ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "cogroup"), nil
}

// sortElements stably sorts elements by the keys fn derives from them. Descending order uses
// the reversed comparison, so elements with equal keys keep their input order either way.
func sortElements(elems []interface{}, fn sparkling.KeyingOperation, ascending bool) ([]interface{}, error) {
	safeFn := util.SafeKeyingOperation(fn)
	keys := make([]interface{}, len(elems))
	for i, elem := range elems {
		k, err := safeFn(elem)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	order := make([]int, len(elems))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		c := util.Compare(keys[order[i]], keys[order[j]])
		if ascending {
			return c < 0
		}
		return c > 0
	})
	sorted := make([]interface{}, len(elems))
	for i, idx := range order {
		sorted[i] = elems[idx]
	}
	return sorted, nil
}

func (ds *datasetImpl) SortBy(ctx context.Context, fn sparkling.KeyingOperation, ascending bool, numPartitions int) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	sorted, err := sortElements(elems, fn, ascending)
	if err != nil {
		return nil, err
	}
	return ds.engine.parallelize(sorted, ds.partitionsOr(numPartitions), sparkling.BarrierNodeType, "sortBy"), nil
}

func pairKey(elem interface{}) (interface{}, error) {
	p, err := util.AsPair(elem)
	if err != nil {
		return nil, err
	}
	return p.Key, nil
}

func (ds *datasetImpl) SortByKey(ctx context.Context, ascending bool, numPartitions int) (sparkling.Dataset, error) {
	return ds.SortBy(ctx, pairKey, ascending, numPartitions)
}

func (ds *datasetImpl) Subtract(ctx context.Context, other sparkling.Dataset) (sparkling.Dataset, error) {
	otherElems, err := ds.engine.materializeAll(ctx, other)
	if err != nil {
		return nil, err
	}
	exclude := make(map[interface{}]bool, len(otherElems))
	for _, elem := range otherElems {
		exclude[util.HashKey(elem)] = true
	}
	return ds.mapPartitionsWithIndex("subtract", func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		return iterator.Filter(elems, func(elem interface{}) (bool, error) {
			return !exclude[util.HashKey(elem)], nil
		}), nil
	}, true), nil
}

func (ds *datasetImpl) Intersection(ctx context.Context, other sparkling.Dataset) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	otherElems, err := ds.engine.materializeAll(ctx, other)
	if err != nil {
		return nil, err
	}
	include := make(map[interface{}]bool, len(otherElems))
	for _, elem := range otherElems {
		include[util.HashKey(elem)] = true
	}
	result := make([]interface{}, 0)
	for _, elem := range elems {
		k := util.HashKey(elem)
		if include[k] {
			result = append(result, elem)
			// emit each common element once
			delete(include, k)
		}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "intersection"), nil
}

func (ds *datasetImpl) Cartesian(ctx context.Context, other sparkling.Dataset) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	otherElems, err := ds.engine.materializeAll(ctx, other)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, 0, len(elems)*len(otherElems))
	for _, a := range elems {
		for _, b := range otherElems {
			result = append(result, sparkling.Pair{Key: a, Value: b})
		}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "cartesian"), nil
}

func (ds *datasetImpl) redistribute(ctx context.Context, numPartitions int, description string) (sparkling.Dataset, error) {
	if numPartitions < 1 {
		return nil, errors.InvalidArgumentError{Name: "numPartitions", Reason: fmt.Sprintf("must be at least 1, was %d", numPartitions)}
	}
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	return ds.engine.parallelize(elems, numPartitions, sparkling.BarrierNodeType, description), nil
}

func (ds *datasetImpl) Coalesce(ctx context.Context, numPartitions int) (sparkling.Dataset, error) {
	return ds.redistribute(ctx, numPartitions, "coalesce")
}

func (ds *datasetImpl) Repartition(ctx context.Context, numPartitions int) (sparkling.Dataset, error) {
	return ds.redistribute(ctx, numPartitions, "repartition")
}

func (ds *datasetImpl) PartitionBy(ctx context.Context, numPartitions int, partitioner sparkling.Partitioner) (sparkling.Dataset, error) {
	if partitioner == nil {
		if numPartitions < 1 {
			return nil, errors.InvalidArgumentError{Name: "numPartitions", Reason: fmt.Sprintf("must be at least 1, was %d", numPartitions)}
		}
		partitioner = NewHashPartitioner(numPartitions)
	}
	numPartitions = partitioner.NumPartitions()
	pairs, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	parts := make([][]interface{}, numPartitions)
	for i := range parts {
		parts[i] = make([]interface{}, 0)
	}
	for _, p := range pairs {
		idx, err := partitioner.PartitionFor(p.Key)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= numPartitions {
			return nil, fmt.Errorf("Partitioner placed key %v in partition %d of %d", p.Key, idx, numPartitions)
		}
		parts[idx] = append(parts[idx], p)
	}
	return ds.engine.fromPartitions(parts, partitioner, "partitionBy"), nil
}

func (ds *datasetImpl) Zip(ctx context.Context, other sparkling.Dataset) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	otherElems, err := ds.engine.materializeAll(ctx, other)
	if err != nil {
		return nil, err
	}
	n := len(elems)
	if len(otherElems) < n {
		n = len(otherElems)
	}
	result := make([]interface{}, n)
	for i := 0; i < n; i++ {
		result[i] = sparkling.Pair{Key: elems[i], Value: otherElems[i]}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "zip"), nil
}

func (ds *datasetImpl) ZipWithIndex(ctx context.Context) (sparkling.Dataset, error) {
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, len(elems))
	for i, elem := range elems {
		result[i] = sparkling.Pair{Key: elem, Value: int64(i)}
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "zipWithIndex"), nil
}

func (ds *datasetImpl) RandomSplit(ctx context.Context, weights []float64, seed *int64) ([]sparkling.Dataset, error) {
	if len(weights) == 0 {
		return nil, errors.InvalidArgumentError{Name: "weights", Reason: "at least one weight is required"}
	}
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, errors.InvalidArgumentError{Name: "weights", Reason: fmt.Sprintf("weights must not be negative, was %v", w)}
		}
		total += w
	}
	if total <= 0 {
		return nil, errors.InvalidArgumentError{Name: "weights", Reason: "weights must sum to a positive number"}
	}
	boundaries := make([]float64, len(weights)+1)
	for i, w := range weights {
		boundaries[i+1] = boundaries[i] + w/total
	}
	boundaries[len(weights)] = 1
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(resolveSeed(seed)))
	splits := make([][]interface{}, len(weights))
	for _, elem := range elems {
		r := rng.Float64()
		for i := range weights {
			if r >= boundaries[i] && r < boundaries[i+1] {
				splits[i] = append(splits[i], elem)
				break
			}
		}
	}
	result := make([]sparkling.Dataset, len(splits))
	for i, split := range splits {
		result[i] = ds.engine.parallelize(split, ds.partitionsOr(0), sparkling.BarrierNodeType, fmt.Sprintf("randomSplit %d", i))
	}
	return result, nil
}

func (ds *datasetImpl) Pipe(ctx context.Context, command string, env map[string]string) (sparkling.Dataset, error) {
	if command == "" {
		return nil, errors.InvalidArgumentError{Name: "command", Reason: "must not be empty"}
	}
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	environment := os.Environ()
	for k, v := range env {
		environment = append(environment, fmt.Sprintf("%s=%s", k, v))
	}
	result := make([]interface{}, len(elems))
	for i, elem := range elems {
		var args []string
		if entries, ok := elem.([]interface{}); ok {
			for _, entry := range entries {
				args = append(args, util.ElementToString(entry))
			}
		} else {
			args = []string{util.ElementToString(elem)}
		}
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = environment
		out, err := cmd.Output()
		if err != nil {
			return nil, fmt.Errorf("Unable to pipe element %d through %s: %w", i, command, err)
		}
		result[i] = string(out)
	}
	return ds.engine.parallelize(result, ds.partitionsOr(0), sparkling.BarrierNodeType, "pipe"), nil
}
