package sparkling

// CacheKey identifies a materialized Partition of a persisted Dataset
type CacheKey struct {
	DatasetID      int64
	PartitionIndex int
}

// A PartitionCache stores materialized Partitions of persisted Datasets. Entries are never
// evicted automatically; they live until removed or cleared. A PartitionCache is owned by
// a driver, and may be injected into one so that it can be shared or inspected.
type PartitionCache interface {
	// Get returns the materialized elements for a key, if present
	Get(key CacheKey) ([]interface{}, bool)
	// Put stores the materialized elements for a key, replacing any existing entry
	Put(key CacheKey, elems []interface{})
	// GetOrCompute returns the elements for a key, materializing them with compute iff they are absent.
	// The check-materialize-store sequence is atomic per key, so compute runs at most once per key
	// even when called concurrently. The boolean result is true iff the elements came from the cache.
	GetOrCompute(key CacheKey, compute func() ([]interface{}, error)) ([]interface{}, bool, error)
	// Remove deletes all entries for a Dataset, returning the number of entries removed
	Remove(datasetID int64) int
	// Clear deletes all entries
	Clear()
	// Len returns the number of entries
	Len() int
}
