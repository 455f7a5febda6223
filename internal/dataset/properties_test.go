package dataset

import (
	"context"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/stretchr/testify/require"
)

func TestParallelizeCollectRoundTrip(t *testing.T) {
	e := newTestEngine(3)
	for _, n := range []int{0, 1, 7, 50} {
		for numPartitions := 1; numPartitions <= 9; numPartitions++ {
			elems, err := e.Parallelize(ints(0, n), numPartitions).Collect(context.Background())
			require.Nil(t, err)
			require.Equal(t, ints(0, n), elems)
		}
	}
}

func TestReductionsIgnorePartitioning(t *testing.T) {
	e := newTestEngine(2)
	for numPartitions := 1; numPartitions <= 6; numPartitions++ {
		ds := e.Parallelize(ints(1, 21), numPartitions)
		count, err := ds.Count(context.Background())
		require.Nil(t, err)
		require.Equal(t, int64(20), count)
		sum, err := ds.Sum(context.Background())
		require.Nil(t, err)
		require.Equal(t, 210.0, sum)
		mean, err := ds.Mean(context.Background())
		require.Nil(t, err)
		require.InDelta(t, 10.5, mean, 1e-9)
	}
}

func TestTakeTwoOfThreeSingletonPartitions(t *testing.T) {
	e := newTestEngine(1)
	recorder := &touchRecorder{}
	ds := recorder.wrap(e.Parallelize([]interface{}{1, 1, 1}, 3))
	elems, err := ds.Take(context.Background(), 2)
	require.Nil(t, err)
	require.Equal(t, []interface{}{1, 1}, elems)
	require.Equal(t, []int{0, 1}, recorder.partitions())
}

func TestGroupByKeyIsStable(t *testing.T) {
	e := newTestEngine(1)
	grouped, err := e.Parallelize([]interface{}{p("a", 1), p("a", 3), p("b", 2)}, 2).GroupByKey(context.Background(), 0)
	require.Nil(t, err)
	elems, err := grouped.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{p("a", []interface{}{1, 3}), p("b", []interface{}{2})}, elems)
}

func TestJoinWithDuplicateKeys(t *testing.T) {
	e := newTestEngine(1)
	joined, err := e.Parallelize([]interface{}{p("a", 1), p("a", 3)}, 2).Join(context.Background(), e.Parallelize([]interface{}{p("a", 5)}, 1), 0)
	require.Nil(t, err)
	elems, err := joined.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{p("a", sparkling.Joined{Left: 3, Right: 5})}, elems)
}

func TestHistogramMaximumLandsInLastBucket(t *testing.T) {
	e := newTestEngine(1)
	edges, counts, err := e.Parallelize([]interface{}{0, 4, 7, 4, 10}, 2).HistogramBuckets(context.Background(), 10)
	require.Nil(t, err)
	require.Len(t, edges, 11)
	require.Len(t, counts, 10)
	require.Equal(t, int64(1), counts[9])
	var total int64
	for _, c := range counts {
		total += c
	}
	require.Equal(t, int64(5), total)
}

func TestZipWithUniqueIDIsDistinct(t *testing.T) {
	e := newTestEngine(2)
	elems, err := e.Parallelize(ints(0, 97), 6).ZipWithUniqueID().Collect(context.Background())
	require.Nil(t, err)
	require.Len(t, elems, 97)
	seen := make(map[int64]bool)
	for _, elem := range elems {
		id := elem.(sparkling.Pair).Value.(int64)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestSamplingIsStableAcrossComputes(t *testing.T) {
	e := newTestEngine(2)
	sampled := e.Parallelize(ints(0, 200), 4).Sample(false, 0.5, nil)
	a, err := sampled.Collect(context.Background())
	require.Nil(t, err)
	b, err := sampled.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, a, b)
}
