package dataset

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/accumulators"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func TestCollectAndCount(t *testing.T) {
	e := newTestEngine(4)
	ds := e.Parallelize(ints(0, 100), 7)
	elems, err := ds.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, ints(0, 100), elems)
	count, err := ds.Count(context.Background())
	require.Nil(t, err)
	require.Equal(t, int64(100), count)

	empty := e.Parallelize([]interface{}{}, 3)
	count, err = empty.Count(context.Background())
	require.Nil(t, err)
	require.Equal(t, int64(0), count)
	elems, err = empty.Collect(context.Background())
	require.Nil(t, err)
	require.Empty(t, elems)
}

func TestCollectAsMapAndCounts(t *testing.T) {
	e := newTestEngine(1)
	ds := e.Parallelize([]interface{}{p("a", 1), p("b", 2), p("a", 3)}, 2)
	m, err := ds.CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]interface{}{"a": 3, "b": 2}, m)

	counts, err := ds.CountByKey(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{"a": 2, "b": 1}, counts)

	counts, err = e.Parallelize([]interface{}{"x", "y", "x"}, 2).CountByValue(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{"x": 2, "y": 1}, counts)
}

func TestToLocalIterator(t *testing.T) {
	e := newTestEngine(2)
	it, err := e.Parallelize(ints(0, 9), 4).ToLocalIterator(context.Background())
	require.Nil(t, err)
	elems, err := iterator.Collect(it)
	require.Nil(t, err)
	require.Equal(t, ints(0, 9), elems)
}

func TestTakeOnlyComputesNeededPartitions(t *testing.T) {
	e := newTestEngine(4)
	recorder := &touchRecorder{}
	ds := recorder.wrap(e.Parallelize(ints(0, 100), 10))
	elems, err := ds.Take(context.Background(), 15)
	require.Nil(t, err)
	require.Equal(t, ints(0, 15), elems)
	require.Equal(t, []int{0, 1}, recorder.partitions())

	elems, err = e.Parallelize(ints(0, 3), 2).Take(context.Background(), 10)
	require.Nil(t, err)
	require.Equal(t, ints(0, 3), elems)
	elems, err = e.Parallelize(ints(0, 3), 2).Take(context.Background(), 0)
	require.Nil(t, err)
	require.Empty(t, elems)
}

func TestFirst(t *testing.T) {
	e := newTestEngine(1)
	first, err := e.Parallelize([]interface{}{}, 2).Union(e.Parallelize([]interface{}{"a", "b"}, 1)).First(context.Background())
	require.Nil(t, err)
	require.Equal(t, "a", first)
	_, err = e.Parallelize([]interface{}{}, 2).First(context.Background())
	require.ErrorAs(t, err, &errors.EmptyDatasetError{})
}

func TestTakeSample(t *testing.T) {
	e := newTestEngine(2)
	source := ints(0, 40)
	ds := e.Parallelize(source, 4)
	sample, err := ds.TakeSample(context.Background(), 10, sparkling.Seed(11))
	require.Nil(t, err)
	require.Len(t, sample, 10)
	for _, elem := range sample {
		require.Contains(t, source, elem)
	}
	again, err := ds.TakeSample(context.Background(), 10, sparkling.Seed(11))
	require.Nil(t, err)
	require.Equal(t, sample, again)

	sample, err = e.Parallelize([]interface{}{}, 3).TakeSample(context.Background(), 5, nil)
	require.Nil(t, err)
	require.Empty(t, sample)
}

func TestTopAndLookup(t *testing.T) {
	e := newTestEngine(1)
	top, err := e.Parallelize([]interface{}{3, 1, 4, 1, 5}, 2).Top(context.Background(), 2, nil)
	require.Nil(t, err)
	require.Equal(t, []interface{}{5, 4}, top)

	values, err := e.Parallelize([]interface{}{p("a", 1), p("b", 2), p("a", 3)}, 2).Lookup(context.Background(), "a")
	require.Nil(t, err)
	require.Equal(t, []interface{}{1, 3}, values)
}

func TestReduceFoldAggregate(t *testing.T) {
	e := newTestEngine(3)
	ds := e.Parallelize(ints(1, 11), 4)
	sum, err := ds.Reduce(context.Background(), addInts)
	require.Nil(t, err)
	require.Equal(t, 55, sum)

	// empty partitions are skipped
	sum, err = e.Parallelize(ints(1, 3), 5).Reduce(context.Background(), addInts)
	require.Nil(t, err)
	require.Equal(t, 3, sum)

	_, err = e.Parallelize([]interface{}{}, 2).Reduce(context.Background(), addInts)
	require.ErrorAs(t, err, &errors.EmptyDatasetError{})

	folded, err := ds.Fold(context.Background(), intZero, addInts)
	require.Nil(t, err)
	require.Equal(t, 55, folded)

	longest, err := e.Parallelize([]interface{}{"a", "abc", "ab"}, 2).Aggregate(context.Background(), intZero, func(agg interface{}, elem interface{}) (interface{}, error) {
		if l := len(elem.(string)); l > agg.(int) {
			return l, nil
		}
		return agg, nil
	}, func(a interface{}, b interface{}) (interface{}, error) {
		if a.(int) > b.(int) {
			return a, nil
		}
		return b, nil
	})
	require.Nil(t, err)
	require.Equal(t, 3, longest)
}

func TestAccumulateAndForeach(t *testing.T) {
	e := newTestEngine(4)
	ds := e.Parallelize(ints(0, 30), 6)
	acc, err := ds.Accumulate(context.Background(), accumulators.Counter)
	require.Nil(t, err)
	require.Equal(t, int64(30), acc.(*accumulators.Count).GetCount())

	var seen int64
	err = ds.Foreach(context.Background(), func(elem interface{}) error {
		atomic.AddInt64(&seen, int64(elem.(int)))
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, int64(435), atomic.LoadInt64(&seen))

	var partitions int64
	err = ds.ForeachPartition(context.Background(), func(elems sparkling.Iterator) error {
		atomic.AddInt64(&partitions, 1)
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, int64(6), atomic.LoadInt64(&partitions))
}

func TestNumericActions(t *testing.T) {
	e := newTestEngine(2)
	ds := e.Parallelize([]interface{}{1, 2, 3, 4}, 3)
	ctx := context.Background()

	sum, err := ds.Sum(ctx)
	require.Nil(t, err)
	require.Equal(t, 10.0, sum)
	mean, err := ds.Mean(ctx)
	require.Nil(t, err)
	require.Equal(t, 2.5, mean)
	variance, err := ds.Variance(ctx)
	require.Nil(t, err)
	require.InDelta(t, 1.25, variance, 1e-9)
	sampleVariance, err := ds.SampleVariance(ctx)
	require.Nil(t, err)
	require.InDelta(t, 5.0/3.0, sampleVariance, 1e-9)
	stdev, err := ds.Stdev(ctx)
	require.Nil(t, err)
	require.InDelta(t, math.Sqrt(1.25), stdev, 1e-9)
	sampleStdev, err := ds.SampleStdev(ctx)
	require.Nil(t, err)
	require.InDelta(t, math.Sqrt(5.0/3.0), sampleStdev, 1e-9)
	lo, err := ds.Min(ctx)
	require.Nil(t, err)
	require.Equal(t, 1.0, lo)
	hi, err := ds.Max(ctx)
	require.Nil(t, err)
	require.Equal(t, 4.0, hi)
	s, err := ds.Stats(ctx)
	require.Nil(t, err)
	require.Equal(t, int64(4), s.Count())
}

func TestNumericActionsOnEmptyDatasets(t *testing.T) {
	e := newTestEngine(1)
	ctx := context.Background()
	empty := e.Parallelize([]interface{}{}, 2)
	sum, err := empty.Sum(ctx)
	require.Nil(t, err)
	require.Equal(t, 0.0, sum)
	_, err = empty.Mean(ctx)
	require.ErrorAs(t, err, &errors.EmptyDatasetError{})
	_, err = empty.Max(ctx)
	require.ErrorAs(t, err, &errors.EmptyDatasetError{})

	var emptyErr errors.EmptyDatasetError
	_, err = e.Parallelize([]interface{}{1}, 1).SampleVariance(ctx)
	require.ErrorAs(t, err, &emptyErr)
	require.Equal(t, 2, emptyErr.Required)

	_, err = e.Parallelize([]interface{}{"one"}, 1).Sum(ctx)
	require.ErrorAs(t, err, &errors.NotNumericError{})
}

func TestHistogram(t *testing.T) {
	e := newTestEngine(2)
	ds := e.Parallelize(ints(0, 11), 3)
	counts, err := ds.Histogram(context.Background(), []float64{0, 5, 10})
	require.Nil(t, err)
	require.Equal(t, []int64{5, 6}, counts)

	counts, err = ds.Histogram(context.Background(), []float64{2, 4})
	require.Nil(t, err)
	require.Equal(t, []int64{3}, counts)

	_, err = ds.Histogram(context.Background(), []float64{1})
	require.ErrorAs(t, err, &errors.InvalidArgumentError{})
	_, err = ds.Histogram(context.Background(), []float64{1, 1})
	require.ErrorAs(t, err, &errors.InvalidArgumentError{})
}

func TestHistogramBuckets(t *testing.T) {
	e := newTestEngine(1)
	edges, counts, err := e.Parallelize([]interface{}{1, 2, 3, 4}, 2).HistogramBuckets(context.Background(), 2)
	require.Nil(t, err)
	require.Equal(t, []float64{1, 2.5, 4}, edges)
	require.Equal(t, []int64{2, 2}, counts)

	edges, counts, err = e.Parallelize([]interface{}{7, 7}, 2).HistogramBuckets(context.Background(), 4)
	require.Nil(t, err)
	require.Equal(t, []float64{7, 7}, edges)
	require.Equal(t, []int64{2}, counts)

	_, _, err = e.Parallelize([]interface{}{}, 1).HistogramBuckets(context.Background(), 2)
	require.ErrorAs(t, err, &errors.EmptyDatasetError{})
	_, _, err = e.Parallelize([]interface{}{1}, 1).HistogramBuckets(context.Background(), 0)
	require.ErrorAs(t, err, &errors.InvalidArgumentError{})
}

func TestHistogramBucketsOnDegenerateSpans(t *testing.T) {
	e := newTestEngine(1)
	ctx := context.Background()
	next := math.Nextafter(1, 2)
	edges, counts, err := e.Parallelize([]interface{}{1.0, next, next}, 2).HistogramBuckets(ctx, 4)
	require.Nil(t, err)
	require.Equal(t, []float64{1, next}, edges)
	require.Equal(t, []int64{3}, counts)

	edges, counts, err = e.Parallelize([]interface{}{-math.MaxFloat64, math.MaxFloat64}, 1).HistogramBuckets(ctx, 2)
	require.Nil(t, err)
	require.Equal(t, []float64{-math.MaxFloat64, 0, math.MaxFloat64}, edges)
	require.Equal(t, []int64{1, 1}, counts)

	_, _, err = e.Parallelize([]interface{}{1.0, math.Inf(1)}, 1).HistogramBuckets(ctx, 2)
	require.ErrorAs(t, err, &errors.InvalidArgumentError{})
}

func TestKeyedMapsMergeEqualNumbers(t *testing.T) {
	e := newTestEngine(1)
	ctx := context.Background()
	ds := e.Parallelize([]interface{}{p(1, "a"), p(int64(1), "b"), p(2.0, "c")}, 2)
	m, err := ds.CollectAsMap(ctx)
	require.Nil(t, err)
	require.Equal(t, map[interface{}]interface{}{1: "b", 2.0: "c"}, m)

	counts, err := ds.CountByKey(ctx)
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{1: 2, 2.0: 1}, counts)
}
