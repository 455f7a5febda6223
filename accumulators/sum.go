package accumulators

import (
	"fmt"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/util"
)

// Adder returns a factory for Sum Accumulators. extract derives the number to add from each
// element; a nil extract adds the elements themselves.
func Adder(extract sparkling.MapOperation) sparkling.AccumulatorFactory {
	return func() sparkling.Accumulator {
		return &Sum{extract: extract}
	}
}

// Sum sums numeric elements
type Sum struct {
	extract sparkling.MapOperation
	sum     float64
}

// GetSum returns the sum from this Accumulator
func (a *Sum) GetSum() float64 {
	return a.sum
}

// Accumulate adds an element to this Accumulator
func (a *Sum) Accumulate(elem interface{}) error {
	v := elem
	if a.extract != nil {
		var err error
		v, err = a.extract(elem)
		if err != nil {
			return err
		}
	}
	f, err := util.ToFloat64(v)
	if err != nil {
		return err
	}
	a.sum += f
	return nil
}

// Merge merges another Accumulator into this one
func (a *Sum) Merge(o sparkling.Accumulator) error {
	ca, ok := o.(*Sum)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Sum Accumulator")
	}
	a.sum += ca.sum
	return nil
}
