package montecarlo

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/stoneclaim/schotten/stats"
)

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

const IterationsCutoff = 5000

type autostopper struct {
	stoppingCondition StoppingCondition
	iterationsCutoff  int
	checkInterval     uint64
}

func (sc StoppingCondition) confidence() float64 {
	switch sc {
	case Stop95:
		return 95
	case Stop98:
		return 98
	case Stop99:
		return 99
	}
	return 0
}

// shouldStop ignores actions that can no longer catch the current leader
// and reports whether at most one action is left in contention.
func (a *autostopper) shouldStop(actions []*SimmedAction) bool {
	if a.stoppingCondition == StopNone {
		return false
	}
	if len(actions) < 2 {
		return true
	}
	c := slices.Clone(actions)
	ignored := 0
	for _, sa := range c {
		sa.RLock()
		if sa.ignore {
			ignored++
		}
		sa.RUnlock()
	}
	if ignored >= len(c)-1 {
		return true
	}
	slices.SortFunc(c, func(x, y *SimmedAction) int {
		wx, wy := x.WinProb(), y.WinProb()
		switch {
		case wx > wy:
			return -1
		case wx < wy:
			return 1
		}
		return 0
	})

	z := stats.ZVal(a.stoppingCondition.confidence())
	leader := c[0]
	leader.RLock()
	μ := leader.winStats.Mean()
	e := z * leader.winStats.StandardError()
	leader.RUnlock()

	newIgnored := 0
	for _, sa := range c[1:] {
		sa.RLock()
		if sa.ignore {
			sa.RUnlock()
			continue
		}
		μi := sa.winStats.Mean()
		ei := z * sa.winStats.StandardError()
		sa.RUnlock()
		if passTest(μ, e, μi, ei) {
			sa.Ignore()
			newIgnored++
		}
	}
	if newIgnored > 0 {
		log.Debug().Int("newIgnored", newIgnored).Msg("sim-cut-off")
	}
	return ignored+newIgnored >= len(c)-1
}

// passTest reports whether X > Y at the confidence the margins e and ei
// were computed for.
func passTest(μ, e, μi, ei float64) bool {
	return (μ - e) > (μi + ei)
}
