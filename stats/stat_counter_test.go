package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinglePass(t *testing.T) {
	s := New(2, 4, 4, 4, 5, 5, 7, 9)
	require.EqualValues(t, 8, s.Count())
	require.InDelta(t, 5.0, s.Mean(), 1e-12)
	require.InDelta(t, 40.0, s.Sum(), 1e-12)
	require.InDelta(t, 4.0, s.Variance(), 1e-12)
	require.InDelta(t, 2.0, s.Stdev(), 1e-12)
	require.InDelta(t, 32.0/7.0, s.SampleVariance(), 1e-12)
	require.Equal(t, 2.0, s.Min())
	require.Equal(t, 9.0, s.Max())
}

func TestMergeStatsAssociativity(t *testing.T) {
	single := New()
	for _, v := range []float64{1, 4, 9, 16, 25, 36} {
		single.Merge(v)
	}
	left := New(1, 4, 9)
	right := New(16, 25, 36)
	combined := left.Copy().MergeStats(right)
	require.InDelta(t, single.Mean(), combined.Mean(), 1e-9)
	require.InDelta(t, single.Variance(), combined.Variance(), 1e-9)
	require.InDelta(t, single.SampleVariance(), combined.SampleVariance(), 1e-9)
	require.Equal(t, single.Count(), combined.Count())
	require.Equal(t, single.Min(), combined.Min())
	require.Equal(t, single.Max(), combined.Max())

	reversed := right.Copy().MergeStats(left)
	require.InDelta(t, combined.Mean(), reversed.Mean(), 1e-9)
	require.InDelta(t, combined.Variance(), reversed.Variance(), 1e-9)
}

func TestUndefinedViews(t *testing.T) {
	empty := New()
	require.EqualValues(t, 0, empty.Count())
	require.Equal(t, 0.0, empty.Sum())
	require.True(t, math.IsNaN(empty.Mean()))
	require.True(t, math.IsNaN(empty.Variance()))
	require.True(t, math.IsNaN(empty.Min()))
	require.True(t, math.IsNaN(empty.Max()))

	one := New(3)
	require.Equal(t, 0.0, one.Variance())
	require.True(t, math.IsNaN(one.SampleVariance()))
	require.True(t, math.IsNaN(one.SampleStdev()))
}

func TestMergeEmpty(t *testing.T) {
	s := New(1, 2)
	s.MergeStats(New())
	require.EqualValues(t, 2, s.Count())
	e := New().MergeStats(New(5, 7))
	require.InDelta(t, 6.0, e.Mean(), 1e-12)
	require.Equal(t, 5.0, e.Min())
	s.MergeStats(s)
	require.EqualValues(t, 4, s.Count())
	require.InDelta(t, 1.5, s.Mean(), 1e-12)
}
