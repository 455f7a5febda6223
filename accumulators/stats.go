package accumulators

import (
	"fmt"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/internal/util"
	"github.com/go-sif/sparkling/stats"
)

// Statistics returns a new Stats Accumulator
func Statistics() sparkling.Accumulator {
	return &Stats{counter: stats.New()}
}

// Stats accumulates numeric elements into a StatCounter
type Stats struct {
	counter *stats.StatCounter
}

// GetStatCounter returns the StatCounter from this Accumulator
func (a *Stats) GetStatCounter() *stats.StatCounter {
	return a.counter
}

// Accumulate adds an element to this Accumulator
func (a *Stats) Accumulate(elem interface{}) error {
	f, err := util.ToFloat64(elem)
	if err != nil {
		return err
	}
	a.counter.Merge(f)
	return nil
}

// Merge merges another Accumulator into this one
func (a *Stats) Merge(o sparkling.Accumulator) error {
	sa, ok := o.(*Stats)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Stats Accumulator")
	}
	a.counter.MergeStats(sa.counter)
	return nil
}
