package sparkling

// A Partition is an indexed slice of a Dataset, and the unit of work for a job.
// Partitions are created when a Dataset is first rooted and never mutated afterward.
// Transformed Datasets share the Partitions of the Dataset they were derived from.
type Partition interface {
	// Index retrieves the position of this Partition within its Dataset. Stable for the lifetime of the Dataset.
	Index() int
	// Load produces the source elements of this Partition, for root Datasets
	Load(tc TaskContext) (Iterator, error)
	// Loader returns the PartitionLoader responsible for this Partition's source data
	Loader() PartitionLoader
}

// partitionImpl is the default Partition, pairing an index with a loader
type partitionImpl struct {
	index  int
	loader PartitionLoader
}

// NewPartition is a factory for Partitions, used by DataSources
func NewPartition(index int, loader PartitionLoader) Partition {
	return &partitionImpl{index: index, loader: loader}
}

// Index retrieves the position of this Partition within its Dataset
func (p *partitionImpl) Index() int {
	return p.index
}

// Load produces the source elements of this Partition
func (p *partitionImpl) Load(tc TaskContext) (Iterator, error) {
	return p.loader.Load(tc)
}

// Loader returns the PartitionLoader responsible for this Partition's source data
func (p *partitionImpl) Loader() PartitionLoader {
	return p.loader
}
