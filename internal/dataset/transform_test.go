package dataset

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func double(elem interface{}) (interface{}, error) {
	return elem.(int) * 2, nil
}

func isEven(elem interface{}) (bool, error) {
	return elem.(int)%2 == 0, nil
}

func TestMapFilterFlatMap(t *testing.T) {
	e := newTestEngine(2)
	ds := e.Parallelize(ints(0, 6), 3)
	elems, err := ds.Map(double).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{0, 2, 4, 6, 8, 10}, elems)

	elems, err = ds.Filter(isEven).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{0, 2, 4}, elems)

	elems, err = ds.FlatMap(func(elem interface{}) ([]interface{}, error) {
		return []interface{}{elem, elem}, nil
	}).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, elems)
	// transformations never change the number of partitions
	require.Equal(t, 3, ds.Map(double).Filter(isEven).GetNumPartitions())
}

func TestTransformationsAreLazy(t *testing.T) {
	e := newTestEngine(1)
	called := false
	ds := e.Parallelize(ints(0, 6), 3).Map(func(elem interface{}) (interface{}, error) {
		called = true
		return elem, nil
	})
	require.False(t, called)
	_, err := ds.Count(context.Background())
	require.Nil(t, err)
	require.True(t, called)
}

func TestMapPartitionsWithIndex(t *testing.T) {
	e := newTestEngine(1)
	elems, err := e.Parallelize(ints(0, 4), 2).MapPartitionsWithIndex(func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		count := 0
		for elems.HasNext() {
			if _, err := elems.Next(); err != nil {
				return nil, err
			}
			count++
		}
		return iterator.FromSlice([]interface{}{sparkling.NewPair(partitionIndex, count)}), nil
	}, false).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair(0, 2), sparkling.NewPair(1, 2)}, elems)
}

func TestKeyValueTransformations(t *testing.T) {
	e := newTestEngine(1)
	pairs := e.Parallelize([]interface{}{sparkling.NewPair("a", 1), sparkling.NewPair("b", 2)}, 2)

	elems, err := pairs.MapValues(double).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair("a", 2), sparkling.NewPair("b", 4)}, elems)

	elems, err = pairs.FlatMapValues(func(v interface{}) ([]interface{}, error) {
		return []interface{}{v, v}, nil
	}).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair("a", 1), sparkling.NewPair("a", 1), sparkling.NewPair("b", 2), sparkling.NewPair("b", 2)}, elems)

	keys, err := pairs.Keys().Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{"a", "b"}, keys)
	values, err := pairs.Values().Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{1, 2}, values)

	keyed, err := e.Parallelize([]interface{}{"apple", "kiwi"}, 1).KeyBy(func(elem interface{}) (interface{}, error) {
		return len(elem.(string)), nil
	}).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{sparkling.NewPair(5, "apple"), sparkling.NewPair(4, "kiwi")}, keyed)

	_, err = e.Parallelize(ints(0, 2), 1).Keys().Collect(context.Background())
	require.ErrorAs(t, err, &errors.NotAPairError{})
}

func TestPartitionerSurvival(t *testing.T) {
	e := newTestEngine(1)
	pairs := e.Parallelize([]interface{}{sparkling.NewPair("a", 1), sparkling.NewPair("b", 2)}, 2)
	partitioned, err := pairs.PartitionBy(context.Background(), 3, nil)
	require.Nil(t, err)
	require.NotNil(t, partitioned.Partitioner())
	require.NotNil(t, partitioned.Filter(func(elem interface{}) (bool, error) { return true, nil }).Partitioner())
	require.NotNil(t, partitioned.MapValues(double).Partitioner())
	require.NotNil(t, partitioned.Persist().Partitioner())
	require.Nil(t, partitioned.Map(func(elem interface{}) (interface{}, error) { return elem, nil }).Partitioner())
	require.Nil(t, partitioned.Keys().Partitioner())
}

func TestSampleIsDeterministicForASeed(t *testing.T) {
	e := newTestEngine(2)
	ds := e.Parallelize(ints(0, 1000), 4)
	a, err := ds.Sample(false, 0.3, sparkling.Seed(42)).Collect(context.Background())
	require.Nil(t, err)
	b, err := ds.Sample(false, 0.3, sparkling.Seed(42)).Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, a, b)
	require.Greater(t, len(a), 200)
	require.Less(t, len(a), 400)

	all, err := ds.Sample(false, 1.0, nil).Count(context.Background())
	require.Nil(t, err)
	require.Equal(t, int64(1000), all)
	none, err := ds.Sample(false, 0.0, nil).Count(context.Background())
	require.Nil(t, err)
	require.Equal(t, int64(0), none)
}

func TestSampleByKey(t *testing.T) {
	e := newTestEngine(1)
	elems := make([]interface{}, 0)
	for i := 0; i < 100; i++ {
		elems = append(elems, sparkling.NewPair("keep", i), sparkling.NewPair("drop", i))
	}
	sampled, err := e.Parallelize(elems, 4).SampleByKey(false, map[interface{}]float64{"keep": 1.0}, sparkling.Seed(3)).CountByKey(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{"keep": 100}, sampled)
}

func TestZipWithUniqueID(t *testing.T) {
	e := newTestEngine(1)
	elems, err := e.Parallelize([]interface{}{"a", "b", "c", "d", "e"}, 2).ZipWithUniqueID().Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{
		sparkling.NewPair("a", int64(0)),
		sparkling.NewPair("b", int64(2)),
		sparkling.NewPair("c", int64(1)),
		sparkling.NewPair("d", int64(3)),
		sparkling.NewPair("e", int64(5)),
	}, elems)
}

func TestUnionConcatenatesPartitions(t *testing.T) {
	e := newTestEngine(2)
	a := e.Parallelize(ints(0, 3), 2)
	b := e.Parallelize(ints(10, 12), 1)
	union := a.Union(b)
	require.Equal(t, 3, union.GetNumPartitions())
	elems, err := union.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, []interface{}{0, 1, 2, 10, 11}, elems)

	other := newTestEngine(1).Parallelize(ints(0, 1), 1)
	_, err = a.Union(other).Collect(context.Background())
	require.NotNil(t, err)
}

func TestErrorsInTransformationsSurfaceOnActions(t *testing.T) {
	e := newTestEngine(1)
	ds := e.Parallelize(ints(0, 3), 1).Filter(func(elem interface{}) (bool, error) {
		return false, fmt.Errorf("cannot decide")
	})
	_, err := ds.Collect(context.Background())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "cannot decide")
}
