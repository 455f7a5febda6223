package sparkling

import (
	"context"

	"github.com/go-sif/sparkling/stats"
)

// A Dataset is an immutable, lazily-evaluated, partitioned collection of elements.
// Transformations return new Datasets without computing anything. Barrier operations
// materialize their inputs on the driver and return a Dataset rooted in driver memory.
// Actions run a job and return results to the caller. Key-value operations expect
// elements of type Pair.
type Dataset interface {
	ID() int64                   // ID returns the driver-unique id of this Dataset
	Name() string                // Name returns the name of this Dataset, if one has been set
	SetName(name string) Dataset // SetName sets the name of this Dataset, returning it
	GetNumPartitions() int       // GetNumPartitions returns the number of Partitions in this Dataset
	Partitions() []Partition     // Partitions returns the Partitions of this Dataset, ordered by index
	Partitioner() Partitioner    // Partitioner returns the Partitioner which placed this Dataset's elements, or nil
	ToDebugString() string       // ToDebugString describes the lineage of this Dataset
	// Compute produces a lazy Iterator over the elements of one Partition of this Dataset
	Compute(p Partition, tc TaskContext) (Iterator, error)

	// Lazy transformations

	Map(fn MapOperation) Dataset
	Filter(fn FilterOperation) Dataset
	FlatMap(fn FlatMapOperation) Dataset
	MapValues(fn MapOperation) Dataset
	FlatMapValues(fn FlatMapOperation) Dataset
	MapPartitions(fn PartitionOperation, preservesPartitioning bool) Dataset
	MapPartitionsWithIndex(fn PartitionIndexOperation, preservesPartitioning bool) Dataset
	MapPartitionsWith(mapper PartitionMapper, preservesPartitioning bool) Dataset
	KeyBy(fn KeyingOperation) Dataset
	Keys() Dataset
	Values() Dataset
	// Sample retains each element with probability fraction. withReplacement is accepted
	// for API compatibility; elements are never repeated.
	Sample(withReplacement bool, fraction float64, seed *int64) Dataset
	// SampleByKey retains each Pair with the probability given for its key. Keys missing from fractions are dropped.
	SampleByKey(withReplacement bool, fractions map[interface{}]float64, seed *int64) Dataset
	SampleWith(predicate SamplePredicate, seed *int64) Dataset
	ZipWithUniqueID() Dataset
	Persist() Dataset
	Cache() Dataset
	// Unpersist drops the cached Partitions of this Dataset. It does not stop further caching.
	Unpersist() Dataset
	Union(others ...Dataset) Dataset

	// Barrier operations

	GroupByKey(ctx context.Context, numPartitions int) (Dataset, error)
	GroupBy(ctx context.Context, fn KeyingOperation, numPartitions int) (Dataset, error)
	ReduceByKey(ctx context.Context, fn ReductionOperation) (Dataset, error)
	AggregateByKey(ctx context.Context, zero ZeroValueFactory, seqOp AggregationOperation, combOp ReductionOperation, numPartitions int) (Dataset, error)
	FoldByKey(ctx context.Context, zero ZeroValueFactory, op ReductionOperation) (Dataset, error)
	Distinct(ctx context.Context, numPartitions int) (Dataset, error)
	Join(ctx context.Context, other Dataset, numPartitions int) (Dataset, error)
	LeftOuterJoin(ctx context.Context, other Dataset, numPartitions int) (Dataset, error)
	RightOuterJoin(ctx context.Context, other Dataset, numPartitions int) (Dataset, error)
	FullOuterJoin(ctx context.Context, other Dataset, numPartitions int) (Dataset, error)
	Cogroup(ctx context.Context, other Dataset, numPartitions int) (Dataset, error)
	SortBy(ctx context.Context, fn KeyingOperation, ascending bool, numPartitions int) (Dataset, error)
	SortByKey(ctx context.Context, ascending bool, numPartitions int) (Dataset, error)
	// Subtract lazily removes the elements which occur in other, which is materialized immediately. Partitions are preserved.
	Subtract(ctx context.Context, other Dataset) (Dataset, error)
	Intersection(ctx context.Context, other Dataset) (Dataset, error)
	Cartesian(ctx context.Context, other Dataset) (Dataset, error)
	Coalesce(ctx context.Context, numPartitions int) (Dataset, error)
	Repartition(ctx context.Context, numPartitions int) (Dataset, error)
	PartitionBy(ctx context.Context, numPartitions int, partitioner Partitioner) (Dataset, error)
	// Zip pairs up the elements of this Dataset and other in order, stopping at the end of the shorter one
	Zip(ctx context.Context, other Dataset) (Dataset, error)
	ZipWithIndex(ctx context.Context) (Dataset, error)
	RandomSplit(ctx context.Context, weights []float64, seed *int64) ([]Dataset, error)
	// Pipe runs command once per element, passing the element's textual form as its final argument
	// (or each of its entries, for []interface{} elements), and produces each run's output as a string.
	// Arguments are not sanitized: never pipe untrusted data.
	Pipe(ctx context.Context, command string, env map[string]string) (Dataset, error)

	// Actions

	Collect(ctx context.Context) ([]interface{}, error)
	CollectAsMap(ctx context.Context) (map[interface{}]interface{}, error)
	ToLocalIterator(ctx context.Context) (Iterator, error)
	Count(ctx context.Context) (int64, error)
	CountByKey(ctx context.Context) (map[interface{}]int64, error)
	CountByValue(ctx context.Context) (map[interface{}]int64, error)
	First(ctx context.Context) (interface{}, error)
	Take(ctx context.Context, n int) ([]interface{}, error)
	TakeSample(ctx context.Context, n int, seed *int64) ([]interface{}, error)
	Top(ctx context.Context, n int, key KeyingOperation) ([]interface{}, error)
	Lookup(ctx context.Context, key interface{}) ([]interface{}, error)
	Reduce(ctx context.Context, fn ReductionOperation) (interface{}, error)
	Fold(ctx context.Context, zero ZeroValueFactory, op ReductionOperation) (interface{}, error)
	Aggregate(ctx context.Context, zero ZeroValueFactory, seqOp AggregationOperation, combOp ReductionOperation) (interface{}, error)
	Accumulate(ctx context.Context, factory AccumulatorFactory) (Accumulator, error)
	Foreach(ctx context.Context, fn ForeachOperation) error
	ForeachPartition(ctx context.Context, fn func(elems Iterator) error) error
	Sum(ctx context.Context) (float64, error)
	Stats(ctx context.Context) (*stats.StatCounter, error)
	Mean(ctx context.Context) (float64, error)
	Variance(ctx context.Context) (float64, error)
	SampleVariance(ctx context.Context) (float64, error)
	Stdev(ctx context.Context) (float64, error)
	SampleStdev(ctx context.Context) (float64, error)
	Min(ctx context.Context) (float64, error)
	Max(ctx context.Context) (float64, error)
	// Histogram counts the elements falling into the buckets delimited by edges
	Histogram(ctx context.Context, edges []float64) ([]int64, error)
	// HistogramBuckets derives numBuckets equal-width buckets from the range of the elements and counts them
	HistogramBuckets(ctx context.Context, numBuckets int) ([]float64, []int64, error)
	SaveAsTextFile(ctx context.Context, path string) error
	SaveAsObjectFile(ctx context.Context, path string) error
}
