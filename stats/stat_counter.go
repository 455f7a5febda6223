package stats

import (
	"fmt"
	"math"
)

// StatCounter accumulates count, mean, variance, minimum and maximum of a stream of numbers
// in a single pass. Views which are undefined for the number of observed values return NaN.
type StatCounter struct {
	n    int64
	mean float64
	m2   float64 // sum of squared deviations from the mean
	min  float64
	max  float64
}

// New produces a StatCounter which has observed the given values
func New(values ...float64) *StatCounter {
	s := &StatCounter{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		s.Merge(v)
	}
	return s
}

// Merge adds a value to this StatCounter using Welford's update
func (s *StatCounter) Merge(value float64) *StatCounter {
	if s.n == 0 {
		s.min = math.Inf(1)
		s.max = math.Inf(-1)
	}
	s.n++
	delta := value - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (value - s.mean)
	s.min = math.Min(s.min, value)
	s.max = math.Max(s.max, value)
	return s
}

// MergeStats combines another StatCounter into this one with the parallel variance formula
func (s *StatCounter) MergeStats(o *StatCounter) *StatCounter {
	if o == nil || o.n == 0 {
		return s
	}
	if o == s {
		return s.MergeStats(o.Copy())
	}
	if s.n == 0 {
		*s = *o
		return s
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.mean = (float64(s.n)*s.mean + float64(o.n)*o.mean) / float64(n)
	s.n = n
	s.min = math.Min(s.min, o.min)
	s.max = math.Max(s.max, o.max)
	return s
}

// Copy returns an independent copy of this StatCounter
func (s *StatCounter) Copy() *StatCounter {
	c := *s
	return &c
}

// Count returns the number of values observed
func (s *StatCounter) Count() int64 {
	return s.n
}

// Mean returns the mean of the observed values
func (s *StatCounter) Mean() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.mean
}

// Sum returns the sum of the observed values
func (s *StatCounter) Sum() float64 {
	return float64(s.n) * s.mean
}

// Variance returns the population variance of the observed values
func (s *StatCounter) Variance() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.m2 / float64(s.n)
}

// SampleVariance returns the sample variance of the observed values
func (s *StatCounter) SampleVariance() float64 {
	if s.n <= 1 {
		return math.NaN()
	}
	return s.m2 / float64(s.n-1)
}

// Stdev returns the population standard deviation of the observed values
func (s *StatCounter) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

// SampleStdev returns the sample standard deviation of the observed values
func (s *StatCounter) SampleStdev() float64 {
	return math.Sqrt(s.SampleVariance())
}

// Min returns the smallest observed value
func (s *StatCounter) Min() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.min
}

// Max returns the largest observed value
func (s *StatCounter) Max() float64 {
	if s.n == 0 {
		return math.NaN()
	}
	return s.max
}

// String returns a textual summary of this StatCounter
func (s *StatCounter) String() string {
	return fmt.Sprintf("(count: %d, mean: %g, stdev: %g, max: %g, min: %g)", s.n, s.Mean(), s.Stdev(), s.Max(), s.Min())
}
