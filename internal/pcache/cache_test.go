package pcache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGetOrComputeOnce(t *testing.T) {
	defer goleak.VerifyNone(t)
	c := New()
	key := sparkling.CacheKey{DatasetID: 7, PartitionIndex: 2}
	var computed int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			elems, _, err := c.GetOrCompute(key, func() ([]interface{}, error) {
				atomic.AddInt32(&computed, 1)
				return []interface{}{1, 2, 3}, nil
			})
			require.Nil(t, err)
			require.Equal(t, []interface{}{1, 2, 3}, elems)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, atomic.LoadInt32(&computed))
	require.Equal(t, 1, c.Len())

	_, cached, err := c.GetOrCompute(key, func() ([]interface{}, error) {
		return nil, fmt.Errorf("should not be called")
	})
	require.Nil(t, err)
	require.True(t, cached)
}

func TestFailedComputeIsNotCached(t *testing.T) {
	c := New()
	key := sparkling.CacheKey{DatasetID: 1, PartitionIndex: 0}
	_, _, err := c.GetOrCompute(key, func() ([]interface{}, error) {
		return nil, fmt.Errorf("boom")
	})
	require.EqualError(t, err, "boom")
	_, ok := c.Get(key)
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	for ds := int64(0); ds < 3; ds++ {
		for p := 0; p < 4; p++ {
			c.Put(sparkling.CacheKey{DatasetID: ds, PartitionIndex: p}, []interface{}{p})
		}
	}
	require.Equal(t, 12, c.Len())
	require.Equal(t, 4, c.Remove(1))
	require.Equal(t, 0, c.Remove(1))
	require.Equal(t, 8, c.Len())
	elems, ok := c.Get(sparkling.CacheKey{DatasetID: 2, PartitionIndex: 3})
	require.True(t, ok)
	require.Equal(t, []interface{}{3}, elems)
	c.Clear()
	require.Equal(t, 0, c.Len())
}
