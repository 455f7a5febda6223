package memory

import (
	"context"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
	"github.com/stretchr/testify/require"
)

func loadAll(t *testing.T, ds *DataSource) [][]interface{} {
	pm, err := ds.Analyze()
	require.Nil(t, err)
	result := make([][]interface{}, 0)
	for pm.HasNext() {
		it, err := pm.Next().Load(sparkling.NewTaskContext(context.Background(), "test", len(result)))
		require.Nil(t, err)
		elems, err := iterator.Collect(it)
		require.Nil(t, err)
		result = append(result, elems)
	}
	return result
}

func TestEvenSlicing(t *testing.T) {
	data := []interface{}{0, 1, 2, 3, 4, 5, 6}
	parts := loadAll(t, NewDataSource(data, 3))
	require.Equal(t, [][]interface{}{{0, 1}, {2, 3}, {4, 5, 6}}, parts)
}

func TestMorePartitionsThanElements(t *testing.T) {
	parts := loadAll(t, NewDataSource([]interface{}{"a", "b"}, 4))
	require.Len(t, parts, 4)
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	require.Equal(t, 2, total)
}

func TestClampsPartitions(t *testing.T) {
	parts := loadAll(t, NewDataSource([]interface{}{1}, 0))
	require.Equal(t, [][]interface{}{{1}}, parts)
}

func TestPartitionedDataSource(t *testing.T) {
	parts := loadAll(t, NewPartitionedDataSource([][]interface{}{{1, 2}, {}, {3}}))
	require.Equal(t, [][]interface{}{{1, 2}, {}, {3}}, parts)
}
