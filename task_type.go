package sparkling

// NodeType describes the type of a Dataset graph node, used in lineage descriptions and logs
type NodeType string

const (
	// ParallelizeNodeType indicates a root Dataset built from an in-memory collection
	ParallelizeNodeType NodeType = "parallelize"
	// FileNodeType indicates a root Dataset loaded from files
	FileNodeType NodeType = "file"
	// UnionNodeType indicates a root Dataset concatenating the Partitions of other Datasets
	UnionNodeType NodeType = "union"
	// BarrierNodeType indicates a root Dataset rebuilt from driver memory by a barrier operation
	BarrierNodeType NodeType = "barrier"
	// MapPartitionsNodeType indicates a per-partition transform
	MapPartitionsNodeType NodeType = "map_partitions"
	// SampleNodeType indicates a deterministic sampling node
	SampleNodeType NodeType = "sample"
	// PersistNodeType indicates a persistence node, caching materialized Partitions
	PersistNodeType NodeType = "persist"
)
