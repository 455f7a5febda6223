package sparkling

// MapOperation - A generic function for transforming one element into another
type MapOperation func(elem interface{}) (interface{}, error)

// FilterOperation - A generic function for determining whether or not an element should be retained
type FilterOperation func(elem interface{}) (bool, error)

// FlatMapOperation - A generic function for turning an element into zero or more elements
type FlatMapOperation func(elem interface{}) ([]interface{}, error)

// KeyingOperation - A generic function for deriving a key from an element
type KeyingOperation func(elem interface{}) (interface{}, error)

// ReductionOperation - A generic function for combining two values into one. Should be commutative and associative.
type ReductionOperation func(a interface{}, b interface{}) (interface{}, error)

// AggregationOperation - A generic function for folding a value into an aggregate, returning the new aggregate
type AggregationOperation func(agg interface{}, value interface{}) (interface{}, error)

// ForeachOperation - A generic function applied to every element for its side effects
type ForeachOperation func(elem interface{}) error

// PartitionOperation - A generic function for transforming all the elements of a Partition at once
type PartitionOperation func(elems Iterator) (Iterator, error)

// PartitionIndexOperation - A PartitionOperation which is also told the index of the Partition
type PartitionIndexOperation func(partitionIndex int, elems Iterator) (Iterator, error)

// SampleOperation - A generic function deciding, from a uniform draw in [0, 1), whether an element is sampled
type SampleOperation func(draw float64, elem interface{}) (bool, error)

// ZeroValueFactory is a function that produces a fresh zero value for an aggregation
type ZeroValueFactory func() interface{}

// ElementMapper is the capability of transforming a single element
type ElementMapper interface {
	MapElement(elem interface{}) (interface{}, error)
}

// PartitionMapper is the capability of transforming the elements of a Partition.
// It is the transform carried by every per-partition transform node in a Dataset graph.
type PartitionMapper interface {
	MapPartition(tc TaskContext, partitionIndex int, elems Iterator) (Iterator, error)
}

// SamplePredicate is the capability of deciding whether an element is sampled, given a uniform draw
type SamplePredicate interface {
	Keep(draw float64, elem interface{}) (bool, error)
}

// Reducer is the capability of combining two values into one
type Reducer interface {
	Reduce(a interface{}, b interface{}) (interface{}, error)
}

// MapElement applies this MapOperation, so that it can be used as an ElementMapper
func (fn MapOperation) MapElement(elem interface{}) (interface{}, error) {
	return fn(elem)
}

// Keep applies this SampleOperation, so that it can be used as a SamplePredicate
func (fn SampleOperation) Keep(draw float64, elem interface{}) (bool, error) {
	return fn(draw, elem)
}

// Reduce applies this ReductionOperation, so that it can be used as a Reducer
func (fn ReductionOperation) Reduce(a interface{}, b interface{}) (interface{}, error) {
	return fn(a, b)
}

// MapPartition applies this PartitionIndexOperation, so that it can be used as a PartitionMapper
func (fn PartitionIndexOperation) MapPartition(tc TaskContext, partitionIndex int, elems Iterator) (Iterator, error) {
	return fn(partitionIndex, elems)
}

// JobOperation - A function run by a job against the elements of each requested Partition, producing one result per Partition
type JobOperation func(tc TaskContext, elems Iterator) (interface{}, error)

// ResultHandler - A function which turns the per-Partition results of a job, in request order, into the job's result
type ResultHandler func(results []interface{}) (interface{}, error)
