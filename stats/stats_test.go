package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	vals := []float64{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}
	var whole, a, b Statistic
	for i, v := range vals {
		whole.Push(v)
		if i < 4 {
			a.Push(v)
		} else {
			b.Push(v)
		}
	}
	a.Merge(b)
	is.Equal(a.Iterations(), whole.Iterations())
	is.True(FuzzyEqual(a.Mean(), whole.Mean()))
	is.True(FuzzyEqual(a.Stdev(), whole.Stdev()))

	var empty Statistic
	empty.Merge(whole)
	is.True(FuzzyEqual(empty.Mean(), whole.Mean()))
}

func TestInterval(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	var s Statistic
	for _, v := range []float64{0, 1, 0, 1} {
		s.Push(v)
	}
	lo, hi := s.Interval(95)
	is.True(lo < 0.5 && hi > 0.5)
	is.True(FuzzyEqual(0.5-lo, hi-0.5))
}
