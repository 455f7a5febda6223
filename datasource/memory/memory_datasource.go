// Package memory provides a DataSource which divides an in-memory collection into Partitions
package memory

import (
	"github.com/go-sif/sparkling"
)

// DataSource is a collection of elements which will be divided into Partitions
type DataSource struct {
	data          []interface{}
	numPartitions int
	parts         [][]interface{} // explicit Partition contents, if the data was placed by the caller
}

// NewDataSource is a factory for DataSources. Partition i covers the elements at
// [floor(i*n/numPartitions), floor((i+1)*n/numPartitions)), so Partition sizes differ by at most one.
// numPartitions is clamped to at least 1.
func NewDataSource(data []interface{}, numPartitions int) *DataSource {
	if numPartitions < 1 {
		numPartitions = 1
	}
	return &DataSource{data: data, numPartitions: numPartitions}
}

// NewPartitionedDataSource is a factory for DataSources whose elements have already been placed
// into Partitions. parts[i] becomes Partition i.
func NewPartitionedDataSource(parts [][]interface{}) *DataSource {
	return &DataSource{numPartitions: len(parts), parts: parts}
}

// Analyze returns a PartitionMap, describing how the source data will be divided into Partitions
func (ds *DataSource) Analyze() (sparkling.PartitionMap, error) {
	return &PartitionMap{
		source: ds,
	}, nil
}

// elements returns the elements of a Partition
func (ds *DataSource) elements(idx int) []interface{} {
	if ds.parts != nil {
		return ds.parts[idx]
	}
	start, end := ds.bounds(idx)
	return ds.data[start:end]
}

// bounds returns the slice of data covered by a Partition
func (ds *DataSource) bounds(idx int) (int, int) {
	if ds.parts != nil {
		return 0, len(ds.parts[idx])
	}
	n := len(ds.data)
	return idx * n / ds.numPartitions, (idx + 1) * n / ds.numPartitions
}
