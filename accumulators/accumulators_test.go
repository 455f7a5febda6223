package accumulators

import (
	"testing"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
	"github.com/stretchr/testify/require"
)

func accumulateAll(t *testing.T, acc sparkling.Accumulator, elems ...interface{}) {
	for _, e := range elems {
		require.Nil(t, acc.Accumulate(e))
	}
}

func TestComposedAccumulators(t *testing.T) {
	factory := Compose(Counter, Adder(nil), Statistics)
	left := factory()
	right := factory()
	accumulateAll(t, left, 1, 2, 3)
	accumulateAll(t, right, 4.5, int64(5))
	require.Nil(t, left.Merge(right))

	results := left.(*Composed).GetResults()
	require.EqualValues(t, 5, results[0].(*Count).GetCount())
	require.InDelta(t, 15.5, results[1].(*Sum).GetSum(), 1e-12)
	require.InDelta(t, 3.1, results[2].(*Stats).GetStatCounter().Mean(), 1e-12)
}

func TestSumExtractor(t *testing.T) {
	acc := Adder(func(elem interface{}) (interface{}, error) {
		return elem.(sparkling.Pair).Value, nil
	})()
	accumulateAll(t, acc, sparkling.NewPair("a", 2), sparkling.NewPair("b", 3))
	require.Equal(t, 5.0, acc.(*Sum).GetSum())
}

func TestNonNumeric(t *testing.T) {
	err := Statistics().Accumulate("nope")
	require.ErrorAs(t, err, &errors.NotNumericError{})
}

func TestMergeMismatch(t *testing.T) {
	require.NotNil(t, Counter().Merge(Statistics()))
}
