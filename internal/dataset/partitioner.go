package dataset

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/util"
)

// HashPartitioner places keys by the hash of their textual form
type HashPartitioner struct {
	numPartitions int
}

// NewHashPartitioner is a factory for HashPartitioners. numPartitions is clamped to at least 1.
func NewHashPartitioner(numPartitions int) sparkling.Partitioner {
	if numPartitions < 1 {
		numPartitions = 1
	}
	return &HashPartitioner{numPartitions: numPartitions}
}

// NumPartitions returns the number of Partitions keys are placed into
func (h *HashPartitioner) NumPartitions() int {
	return h.numPartitions
}

// PartitionFor returns the Partition index for a key
func (h *HashPartitioner) PartitionFor(key interface{}) (int, error) {
	hasher := xxhash.New()
	// the type keeps 1 and "1" apart
	if _, err := fmt.Fprintf(hasher, "%T/%s", key, util.ElementToString(key)); err != nil {
		return 0, err
	}
	return int(hasher.Sum64() % uint64(h.numPartitions)), nil
}
