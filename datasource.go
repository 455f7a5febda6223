package sparkling

import "io"

// PartitionLoader is a description of how to load the source elements of a specific Partition.
// DataSources implement this interface to implement data-loading logic. Loading happens lazily,
// when a job computes the Partition, and may happen more than once for the same Partition.
type PartitionLoader interface {
	ToString() string                      // for logging
	Load(tc TaskContext) (Iterator, error) // how to actually load data
}

// DataSourceParser is a parser which turns a stream of raw data into elements
type DataSourceParser interface {
	// Parse produces an Iterator over the elements within r. onIteratorEnd, if not nil,
	// is called once the Iterator runs out of elements (or fails).
	Parse(r io.Reader, onIteratorEnd func()) (Iterator, error)
}

// A DataSource is a source of data which will be loaded into a Dataset
type DataSource interface {
	// Analyze describes how the source data will be divided into Partitions
	Analyze() (PartitionMap, error)
}

// A PartitionMap is an iterator producing a sequence of PartitionLoaders, one per Partition
type PartitionMap interface {
	HasNext() bool
	Next() PartitionLoader
}
