// Package stats keeps running statistics for simulations and self-play
// summaries.
package stats

import (
	"fmt"
	"math"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance (Welford's method).
type Statistic struct {
	n    int
	mean float64
	// sum of squared deviations from the mean
	m2 float64
}

func (s *Statistic) Push(val float64) {
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

// Merge folds o into s, as if every value pushed to o had been pushed to
// s.
func (s *Statistic) Merge(o Statistic) {
	if o.n == 0 {
		return
	}
	if s.n == 0 {
		*s = o
		return
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.mean += delta * float64(o.n) / float64(n)
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.n = n
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

func (s *Statistic) Iterations() int {
	return s.n
}

// Interval is the two-sided confidence interval around the mean, with
// confidence given in percent.
func (s *Statistic) Interval(confidence float64) (float64, float64) {
	half := ZVal(confidence) * s.StandardError()
	return s.mean - half, s.mean + half
}

func (s *Statistic) String() string {
	return fmt.Sprintf("%.3f ± %.3f (n=%d)", s.mean, ZVal(95)*s.StandardError(), s.n)
}
