package gacha

import (
	"errors"
	"math"
	"sort"
)

// TrialGoal selects what the simulation measures per trial.
type TrialGoal string

const (
	// Wishes until the first 5★ of any kind.
	GoalFirstFiveStar TrialGoal = "first_five_star"
	// Wishes until the first featured 5★ (respects 50/50, guarantee and Capturing Radiance).
	GoalFirstFeatured TrialGoal = "first_featured"
	// Given a fixed budget of wishes, count featured 5★ obtained.
	GoalFixedBudget TrialGoal = "fixed_budget"
)

var (
	ErrUnknownGoal = errors.New("unknown trial goal")
	ErrGoalBanner  = errors.New("goal needs a banner with featured items")
)

// maxTrialWishes bounds a single trial. Hard pity makes any goal reachable
// well before this; it only guards against broken tables.
const maxTrialWishes = 100000

// SimParams describes one Monte Carlo run.
type SimParams struct {
	Banner AdaptedBanner
	// Start is the state every trial begins from (carried pity, guarantee).
	Start State
	Goal  TrialGoal
	// Budget is the number of wishes per trial for GoalFixedBudget.
	Budget int
}

// Stats summarizes simulation results.
type Stats struct {
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne returns the metric of one trial.
func (s *Simulator) simulateOne(p SimParams, rng RandomSource) (int, error) {
	state := p.Start
	switch p.Goal {
	case GoalFirstFiveStar, GoalFirstFeatured:
		for wishes := 1; wishes <= maxTrialWishes; wishes++ {
			out, next, err := s.Pull(state, p.Banner, rng)
			if err != nil {
				return 0, err
			}
			state = next
			if out.Rarity != 5 {
				continue
			}
			if p.Goal == GoalFirstFiveStar || out.Featured {
				return wishes, nil
			}
		}
		return maxTrialWishes, nil

	case GoalFixedBudget:
		count := 0
		for i := 0; i < p.Budget; i++ {
			out, next, err := s.Pull(state, p.Banner, rng)
			if err != nil {
				return 0, err
			}
			state = next
			if out.Rarity == 5 && out.Featured {
				count++
			}
		}
		return count, nil
	}
	return 0, ErrUnknownGoal
}

// RunMonteCarlo repeats trials and returns summary stats.
func (s *Simulator) RunMonteCarlo(p SimParams, trials int, rng RandomSource) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	if p.Goal != GoalFirstFiveStar && p.Banner.Type.Pool() == PoolPermanent {
		return Stats{}, ErrGoalBanner
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := s.simulateOne(p, rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}
