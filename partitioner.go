package sparkling

// A Partitioner assigns keys to Partitions. Datasets produced by PartitionBy report
// their Partitioner, and so do Datasets derived from them through transformations
// which preserve partitioning. In a single-process engine this is informational only.
type Partitioner interface {
	NumPartitions() int                        // NumPartitions returns the number of Partitions keys are assigned to
	PartitionFor(key interface{}) (int, error) // PartitionFor returns the index of the Partition a key belongs in
}
