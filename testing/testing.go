// Package testing provides helpers for testing code which builds on sparkling
package testing

import (
	"sort"
	"sync"
	gotesting "testing"

	"github.com/go-logr/logr"
	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/driver"
)

// NewTestContext creates a quiet Context with the given number of workers, which is stopped when the test ends
func NewTestContext(t gotesting.TB, numWorkers int) *driver.Context {
	t.Helper()
	logger := logr.Discard()
	c, err := driver.CreateContext(&driver.Options{
		AppName:    t.Name(),
		NumWorkers: numWorkers,
		Logger:     &logger,
	})
	if err != nil {
		t.Fatalf("unable to create context: %v", err)
	}
	t.Cleanup(c.Stop)
	return c
}

// PartitionRecorder records which Partitions of a Dataset are computed, and how often
type PartitionRecorder struct {
	lock    sync.Mutex
	touched map[int]int
}

// NewPartitionRecorder returns an empty PartitionRecorder
func NewPartitionRecorder() *PartitionRecorder {
	return &PartitionRecorder{touched: make(map[int]int)}
}

// Wrap produces a Dataset identical to ds, which records each computation of its Partitions
func (r *PartitionRecorder) Wrap(ds sparkling.Dataset) sparkling.Dataset {
	return ds.MapPartitionsWithIndex(func(partitionIndex int, elems sparkling.Iterator) (sparkling.Iterator, error) {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.touched[partitionIndex]++
		return elems, nil
	}, true)
}

// Touched returns the indices of the Partitions computed so far, in ascending order
func (r *PartitionRecorder) Touched() []int {
	r.lock.Lock()
	defer r.lock.Unlock()
	result := make([]int, 0, len(r.touched))
	for idx := range r.touched {
		result = append(result, idx)
	}
	sort.Ints(result)
	return result
}

// Computations returns the number of times a Partition has been computed
func (r *PartitionRecorder) Computations(partitionIndex int) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.touched[partitionIndex]
}

// Reset forgets every recorded computation
func (r *PartitionRecorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.touched = make(map[int]int)
}
