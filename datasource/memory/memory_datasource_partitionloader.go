package memory

import (
	"fmt"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/iterator"
)

// PartitionLoader loads a slice of an in-memory collection
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	start, end := pl.source.bounds(pl.idx)
	return fmt.Sprintf("Memory loader index: %d [%d, %d)", pl.idx, start, end)
}

// Load produces an Iterator over the elements of this loader's slice
func (pl *PartitionLoader) Load(tc sparkling.TaskContext) (sparkling.Iterator, error) {
	return iterator.FromSlice(pl.source.elements(pl.idx)), nil
}
