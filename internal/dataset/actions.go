package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/accumulators"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/stats"
)

func collectPartition(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
	return iterator.Collect(elems)
}

// keyIndex picks one map key per group of equal keys, the first one it sees
type keyIndex map[interface{}]interface{}

func newKeyIndex() keyIndex {
	return make(keyIndex)
}

func (ki keyIndex) of(key interface{}) interface{} {
	h := util.HashKey(key)
	if k, ok := ki[h]; ok {
		return k
	}
	k := util.KeyOf(key)
	ki[h] = k
	return k
}

func (ds *datasetImpl) Collect(ctx context.Context) ([]interface{}, error) {
	return ds.engine.materializeAll(ctx, ds)
}

func (ds *datasetImpl) CollectAsMap(ctx context.Context) (map[interface{}]interface{}, error) {
	pairs, err := ds.engine.materializePairs(ctx, ds)
	if err != nil {
		return nil, err
	}
	keys := newKeyIndex()
	result := make(map[interface{}]interface{}, len(pairs))
	for _, p := range pairs {
		result[keys.of(p.Key)] = p.Value
	}
	return result, nil
}

// ToLocalIterator produces the elements of this Dataset in order, computing one Partition at a time
// as the Iterator reaches it
func (ds *datasetImpl) ToLocalIterator(ctx context.Context) (sparkling.Iterator, error) {
	n, err := ds.engine.lookupDataset(ds)
	if err != nil {
		return nil, err
	}
	sources := make([]func() (sparkling.Iterator, error), len(n.partitions))
	for i := range n.partitions {
		idx := i
		sources[i] = func() (sparkling.Iterator, error) {
			results, err := ds.engine.RunJob(ctx, ds, collectPartition, []int{idx})
			if err != nil {
				return nil, err
			}
			return iterator.FromSlice(results[0].([]interface{})), nil
		}
	}
	return iterator.Concat(sources...), nil
}

func (ds *datasetImpl) Count(ctx context.Context) (int64, error) {
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		return iterator.Count(elems)
	}, nil)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range results {
		total += r.(int64)
	}
	return total, nil
}

// countBy counts elements by the key fn derives from each of them
func (ds *datasetImpl) countBy(ctx context.Context, fn sparkling.KeyingOperation) (map[interface{}]int64, error) {
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		keys := newKeyIndex()
		counts := make(map[interface{}]int64)
		err := iterator.ForEach(elems, func(elem interface{}) error {
			k, err := fn(elem)
			if err != nil {
				return err
			}
			counts[keys.of(k)]++
			return nil
		})
		return counts, err
	}, nil)
	if err != nil {
		return nil, err
	}
	keys := newKeyIndex()
	total := make(map[interface{}]int64)
	for _, r := range results {
		for k, c := range r.(map[interface{}]int64) {
			total[keys.of(k)] += c
		}
	}
	return total, nil
}

func (ds *datasetImpl) CountByKey(ctx context.Context) (map[interface{}]int64, error) {
	return ds.countBy(ctx, pairKey)
}

func (ds *datasetImpl) CountByValue(ctx context.Context) (map[interface{}]int64, error) {
	return ds.countBy(ctx, func(elem interface{}) (interface{}, error) {
		return elem, nil
	})
}

func (ds *datasetImpl) First(ctx context.Context) (interface{}, error) {
	elems, err := ds.Take(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, errors.EmptyDatasetError{Operation: "first"}
	}
	return elems[0], nil
}

// Take returns the first n elements of this Dataset, computing Partitions one at a time
// and only until enough elements have been found
func (ds *datasetImpl) Take(ctx context.Context, n int) ([]interface{}, error) {
	target, err := ds.engine.lookupDataset(ds)
	if err != nil {
		return nil, err
	}
	result := make([]interface{}, 0)
	for idx := 0; idx < len(target.partitions) && len(result) < n; idx++ {
		need := n - len(result)
		results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
			return iterator.CollectN(elems, need)
		}, []int{idx})
		if err != nil {
			return nil, err
		}
		result = append(result, results[0].([]interface{})...)
	}
	return result, nil
}

// TakeSample draws n elements with replacement. Each draw picks a Partition uniformly, and then
// a position within it, so elements of small Partitions are favoured. Draws landing on empty
// Partitions are discarded, so fewer than n elements may be returned.
func (ds *datasetImpl) TakeSample(ctx context.Context, n int, seed *int64) ([]interface{}, error) {
	target, err := ds.engine.lookupDataset(ds)
	if err != nil {
		return nil, err
	}
	numPartitions := len(target.partitions)
	if n <= 0 || numPartitions == 0 {
		return []interface{}{}, nil
	}
	rng := rand.New(rand.NewSource(resolveSeed(seed)))
	draws := make([]float64, n)
	for i := range draws {
		draws[i] = rng.Float64() * float64(numPartitions)
	}
	sort.Float64s(draws)
	needed := make([]int, 0)
	for _, d := range draws {
		idx := int(d)
		if len(needed) == 0 || needed[len(needed)-1] != idx {
			needed = append(needed, idx)
		}
	}
	results, err := ds.engine.RunJob(ctx, ds, collectPartition, needed)
	if err != nil {
		return nil, err
	}
	contents := make(map[int][]interface{}, len(needed))
	for i, idx := range needed {
		contents[idx] = results[i].([]interface{})
	}
	sample := make([]interface{}, 0, n)
	for _, d := range draws {
		idx := int(d)
		elems := contents[idx]
		if len(elems) == 0 {
			continue
		}
		frac := d - float64(idx)
		sample = append(sample, elems[int(frac*float64(len(elems)))])
	}
	return sample, nil
}

func (ds *datasetImpl) Top(ctx context.Context, n int, key sparkling.KeyingOperation) ([]interface{}, error) {
	if n <= 0 {
		return []interface{}{}, nil
	}
	if key == nil {
		key = func(elem interface{}) (interface{}, error) {
			return elem, nil
		}
	}
	elems, err := ds.engine.materializeAll(ctx, ds)
	if err != nil {
		return nil, err
	}
	sorted, err := sortElements(elems, key, false)
	if err != nil {
		return nil, err
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted, nil
}

func (ds *datasetImpl) Lookup(ctx context.Context, key interface{}) ([]interface{}, error) {
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		values := make([]interface{}, 0)
		err := iterator.ForEach(elems, func(elem interface{}) error {
			p, err := util.AsPair(elem)
			if err != nil {
				return err
			}
			if util.Compare(p.Key, key) == 0 {
				values = append(values, p.Value)
			}
			return nil
		})
		return values, err
	}, nil)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0)
	for _, r := range results {
		values = append(values, r.([]interface{})...)
	}
	return values, nil
}

// partialReduction is the result of reducing one Partition, which may have been empty
type partialReduction struct {
	value interface{}
	found bool
}

func (ds *datasetImpl) Reduce(ctx context.Context, fn sparkling.ReductionOperation) (interface{}, error) {
	safeFn := util.SafeReductionOperation(fn)
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		partial := &partialReduction{}
		err := iterator.ForEach(elems, func(elem interface{}) error {
			if !partial.found {
				partial.value, partial.found = elem, true
				return nil
			}
			var err error
			partial.value, err = safeFn(partial.value, elem)
			return err
		})
		return partial, err
	}, nil)
	if err != nil {
		return nil, err
	}
	total := &partialReduction{}
	for _, r := range results {
		partial := r.(*partialReduction)
		if !partial.found {
			continue
		}
		if !total.found {
			total.value, total.found = partial.value, true
			continue
		}
		total.value, err = safeFn(total.value, partial.value)
		if err != nil {
			return nil, err
		}
	}
	if !total.found {
		return nil, errors.EmptyDatasetError{Operation: "reduce"}
	}
	return total.value, nil
}

func (ds *datasetImpl) Fold(ctx context.Context, zero sparkling.ZeroValueFactory, op sparkling.ReductionOperation) (interface{}, error) {
	return ds.Aggregate(ctx, zero, sparkling.AggregationOperation(op), op)
}

// Aggregate folds each Partition into a fresh zero value with seqOp, and then combines the
// per-Partition results, in Partition order, into another fresh zero value with combOp
func (ds *datasetImpl) Aggregate(ctx context.Context, zero sparkling.ZeroValueFactory, seqOp sparkling.AggregationOperation, combOp sparkling.ReductionOperation) (interface{}, error) {
	safeSeq := util.SafeAggregationOperation(seqOp)
	safeComb := util.SafeReductionOperation(combOp)
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		acc := zero()
		err := iterator.ForEach(elems, func(elem interface{}) error {
			var err error
			acc, err = safeSeq(acc, elem)
			return err
		})
		return acc, err
	}, nil)
	if err != nil {
		return nil, err
	}
	acc := zero()
	for _, r := range results {
		acc, err = safeComb(acc, r)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (ds *datasetImpl) Accumulate(ctx context.Context, factory sparkling.AccumulatorFactory) (sparkling.Accumulator, error) {
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		acc := factory()
		err := iterator.ForEach(elems, acc.Accumulate)
		return acc, err
	}, nil)
	if err != nil {
		return nil, err
	}
	total := factory()
	for _, r := range results {
		if err := total.Merge(r.(sparkling.Accumulator)); err != nil {
			return nil, err
		}
	}
	return total, nil
}

func (ds *datasetImpl) Foreach(ctx context.Context, fn sparkling.ForeachOperation) error {
	safeFn := util.SafeForeachOperation(fn)
	_, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		return nil, iterator.ForEach(elems, safeFn)
	}, nil)
	return err
}

func (ds *datasetImpl) ForeachPartition(ctx context.Context, fn func(elems sparkling.Iterator) error) error {
	_, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		return nil, fn(elems)
	}, nil)
	return err
}

func (ds *datasetImpl) Sum(ctx context.Context) (float64, error) {
	acc, err := ds.Accumulate(ctx, accumulators.Adder(nil))
	if err != nil {
		return 0, err
	}
	return acc.(*accumulators.Sum).GetSum(), nil
}

func (ds *datasetImpl) Stats(ctx context.Context) (*stats.StatCounter, error) {
	acc, err := ds.Accumulate(ctx, accumulators.Statistics)
	if err != nil {
		return nil, err
	}
	return acc.(*accumulators.Stats).GetStatCounter(), nil
}

// statistic computes a StatCounter, failing if it holds fewer than required values
func (ds *datasetImpl) statistic(ctx context.Context, operation string, required int64, fn func(s *stats.StatCounter) float64) (float64, error) {
	s, err := ds.Stats(ctx)
	if err != nil {
		return 0, err
	}
	if s.Count() < required {
		if required > 1 {
			return 0, errors.EmptyDatasetError{Operation: operation, Required: int(required)}
		}
		return 0, errors.EmptyDatasetError{Operation: operation}
	}
	return fn(s), nil
}

func (ds *datasetImpl) Mean(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "mean", 1, (*stats.StatCounter).Mean)
}

func (ds *datasetImpl) Variance(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "variance", 1, (*stats.StatCounter).Variance)
}

func (ds *datasetImpl) SampleVariance(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "sampleVariance", 2, (*stats.StatCounter).SampleVariance)
}

func (ds *datasetImpl) Stdev(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "stdev", 1, (*stats.StatCounter).Stdev)
}

func (ds *datasetImpl) SampleStdev(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "sampleStdev", 2, (*stats.StatCounter).SampleStdev)
}

func (ds *datasetImpl) Min(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "min", 1, (*stats.StatCounter).Min)
}

func (ds *datasetImpl) Max(ctx context.Context) (float64, error) {
	return ds.statistic(ctx, "max", 1, (*stats.StatCounter).Max)
}

// bucketFor returns the bucket of a value, or -1 if it falls outside the edges.
// Buckets are half-open, except the last which includes its upper edge.
func bucketFor(edges []float64, v float64) int {
	last := len(edges) - 1
	if math.IsNaN(v) || v < edges[0] || v > edges[last] {
		return -1
	}
	if v == edges[last] {
		return last - 1
	}
	return sort.Search(len(edges), func(i int) bool { return edges[i] > v }) - 1
}

func (ds *datasetImpl) Histogram(ctx context.Context, edges []float64) ([]int64, error) {
	if len(edges) < 2 {
		return nil, errors.InvalidArgumentError{Name: "edges", Reason: "at least two bucket edges are required"}
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, errors.InvalidArgumentError{Name: "edges", Reason: fmt.Sprintf("edges must be strictly ascending, found %v after %v", edges[i], edges[i-1])}
		}
	}
	results, err := ds.engine.RunJob(ctx, ds, func(tc sparkling.TaskContext, elems sparkling.Iterator) (interface{}, error) {
		counts := make([]int64, len(edges)-1)
		err := iterator.ForEach(elems, func(elem interface{}) error {
			v, err := util.ToFloat64(elem)
			if err != nil {
				return err
			}
			if b := bucketFor(edges, v); b >= 0 {
				counts[b]++
			}
			return nil
		})
		return counts, err
	}, nil)
	if err != nil {
		return nil, err
	}
	counts := make([]int64, len(edges)-1)
	for _, r := range results {
		for i, c := range r.([]int64) {
			counts[i] += c
		}
	}
	return counts, nil
}

// HistogramBuckets derives numBuckets equal-width buckets spanning the minimum to the maximum
// element. If every element is equal, there is a single bucket.
func (ds *datasetImpl) HistogramBuckets(ctx context.Context, numBuckets int) ([]float64, []int64, error) {
	if numBuckets < 1 {
		return nil, nil, errors.InvalidArgumentError{Name: "numBuckets", Reason: fmt.Sprintf("must be at least 1, was %d", numBuckets)}
	}
	s, err := ds.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.Count() == 0 {
		return nil, nil, errors.EmptyDatasetError{Operation: "histogram"}
	}
	lo, hi := s.Min(), s.Max()
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil, nil, errors.InvalidArgumentError{Name: "dataset", Reason: fmt.Sprintf("cannot derive buckets spanning [%v, %v]", lo, hi)}
	}
	if lo == hi {
		return []float64{lo, hi}, []int64{s.Count()}, nil
	}
	edges := make([]float64, numBuckets+1)
	// divided separately so that spans near the float64 range do not overflow
	width := hi/float64(numBuckets) - lo/float64(numBuckets)
	for i := 0; i < numBuckets; i++ {
		edges[i] = lo + float64(i)*width
	}
	edges[numBuckets] = hi
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			// the span is too narrow to split numBuckets ways
			edges = []float64{lo, hi}
			break
		}
	}
	counts, err := ds.Histogram(ctx, edges)
	if err != nil {
		return nil, nil, err
	}
	return edges, counts, nil
}
