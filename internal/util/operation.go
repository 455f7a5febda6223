package util

import (
	"fmt"

	"github.com/go-sif/sparkling"
)

func recovered(kind string, r interface{}, elem interface{}) error {
	if anErr, ok := r.(error); ok {
		return fmt.Errorf("%s Panic: %w\nElement: %s\n%s", kind, anErr, ElementToString(elem), GetTrace())
	}
	return fmt.Errorf("%s Panic: %v\nElement: %s\n%s", kind, r, ElementToString(elem), GetTrace())
}

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp sparkling.MapOperation) (safeMapOp sparkling.MapOperation) {
	return func(elem interface{}) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Map", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		result, err = mapOp(elem)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp sparkling.FilterOperation) (safeFilterOp sparkling.FilterOperation) {
	return func(elem interface{}) (keep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Filter", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		keep, err = filterOp(elem)
		return
	}
}

// SafeFlatMapOperation wraps a FlatMapOperation such that panics are recovered and nice error messages are constructed
func SafeFlatMapOperation(flatMapOp sparkling.FlatMapOperation) (safeFlatMapOp sparkling.FlatMapOperation) {
	return func(elem interface{}) (result []interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("FlatMap", r, elem)
			} else if err != nil {
				err = fmt.Errorf("FlatMap Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		result, err = flatMapOp(elem)
		return
	}
}

// SafeKeyingOperation wraps a KeyingOperation such that panics are recovered and nice error messages are constructed
func SafeKeyingOperation(keyingOp sparkling.KeyingOperation) (safeKeyingOp sparkling.KeyingOperation) {
	return func(elem interface{}) (key interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Keying", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Keying Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		key, err = keyingOp(elem)
		return
	}
}

// SafeReductionOperation wraps a ReductionOperation such that panics are recovered and nice error messages are constructed
func SafeReductionOperation(reductionOp sparkling.ReductionOperation) (safeReductionOp sparkling.ReductionOperation) {
	return func(left, right interface{}) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Reduction Panic: %w\nLeft: %s\nRight: %s\n%s", anErr, ElementToString(left), ElementToString(right), GetTrace())
				} else {
					err = fmt.Errorf("Reduction Panic: %v\nLeft: %s\nRight: %s\n%s", r, ElementToString(left), ElementToString(right), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Reduction Error: %w\nLeft: %s\nRight: %s", err, ElementToString(left), ElementToString(right))
			}
		}()
		result, err = reductionOp(left, right)
		return
	}
}

// SafeAggregationOperation wraps an AggregationOperation such that panics are recovered and nice error messages are constructed
func SafeAggregationOperation(aggOp sparkling.AggregationOperation) (safeAggOp sparkling.AggregationOperation) {
	return func(acc, elem interface{}) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Aggregation", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Aggregation Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		result, err = aggOp(acc, elem)
		return
	}
}

// SafeForeachOperation wraps a ForeachOperation such that panics are recovered and nice error messages are constructed
func SafeForeachOperation(foreachOp sparkling.ForeachOperation) (safeForeachOp sparkling.ForeachOperation) {
	return func(elem interface{}) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Foreach", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Foreach Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		err = foreachOp(elem)
		return
	}
}

// SafeSampleOperation wraps a SampleOperation such that panics are recovered and nice error messages are constructed
func SafeSampleOperation(sampleOp sparkling.SampleOperation) (safeSampleOp sparkling.SampleOperation) {
	return func(draw float64, elem interface{}) (keep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered("Sample", r, elem)
			} else if err != nil {
				err = fmt.Errorf("Sample Error: %w\nElement: %s", err, ElementToString(elem))
			}
		}()
		keep, err = sampleOp(draw, elem)
		return
	}
}

// SafePartitionOperation wraps a PartitionIndexOperation such that panics raised while producing
// the output Iterator are recovered. Panics raised later, while the returned Iterator is consumed,
// are the responsibility of the Iterator implementation.
func SafePartitionOperation(partOp sparkling.PartitionIndexOperation) (safePartOp sparkling.PartitionIndexOperation) {
	return func(partitionIndex int, elems sparkling.Iterator) (result sparkling.Iterator, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Partition Panic: %w\nPartition: %d\n%s", anErr, partitionIndex, GetTrace())
				} else {
					err = fmt.Errorf("Partition Panic: %v\nPartition: %d\n%s", r, partitionIndex, GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Partition Error: %w\nPartition: %d", err, partitionIndex)
			}
		}()
		result, err = partOp(partitionIndex, elems)
		return
	}
}

// SafeJobOperation wraps a JobOperation such that panics are recovered and nice error messages are constructed
func SafeJobOperation(jobOp sparkling.JobOperation) (safeJobOp sparkling.JobOperation) {
	return func(tc sparkling.TaskContext, elems sparkling.Iterator) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Task Panic: %w\nPartition: %d\n%s", anErr, tc.PartitionID(), GetTrace())
				} else {
					err = fmt.Errorf("Task Panic: %v\nPartition: %d\n%s", r, tc.PartitionID(), GetTrace())
				}
			}
		}()
		result, err = jobOp(tc, elems)
		return
	}
}
