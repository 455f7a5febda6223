package accumulators

import (
	"fmt"

	"github.com/go-sif/sparkling"
)

// Compose returns a new Composed Accumulator
func Compose(faccs ...sparkling.AccumulatorFactory) sparkling.AccumulatorFactory {
	return func() sparkling.Accumulator {
		accs := make([]sparkling.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators
type Composed struct {
	accs []sparkling.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []sparkling.Accumulator {
	return c.accs
}

// Accumulate adds an element to all contained Accumulators
func (c *Composed) Accumulate(elem interface{}) error {
	for _, a := range c.accs {
		err := a.Accumulate(elem)
		if err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Composed Accumulator into this one, merging all contained Accumulators
func (c *Composed) Merge(o sparkling.Accumulator) error {
	compa, ok := o.(*Composed)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Composed Accumulator")
	}
	if len(compa.accs) != len(c.accs) {
		return fmt.Errorf("Incoming Composed Accumulator contains %d accumulators, expected %d", len(compa.accs), len(c.accs))
	}
	for i, a := range c.accs {
		err := a.Merge(compa.accs[i])
		if err != nil {
			return err
		}
	}
	return nil
}
