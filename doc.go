// Package sparkling contains the core components of Sparkling, a single-process engine for
// partitioned datasets. Datasets are chains of lazy transformations over indexed Partitions;
// nothing is computed until an action asks the driver to run a job, at which point each requested
// Partition pulls its elements through the chain. This root package defines the types employed
// during regular use of the engine, as well as in its extension (custom Partitioners, DataSourceParsers,
// PartitionCaches and PartitionMappers), and is an excellent overview of the engine's key concepts.
package sparkling
