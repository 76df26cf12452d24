package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/rollermine/config"
	"github.com/pthm-cable/rollermine/game"
)

// Fitness weights. Time to contact dominates; orbiting near the target and
// missing it entirely are penalised on top.
const (
	orbitPenalty     = 0.5 // fraction of the run length per unit orbit ratio
	noContactPenalty = 1.0 // extra run lengths added when the mine never lands a hit
)

// FitnessEvaluator runs headless pursuit scenarios and scores gains.
type FitnessEvaluator struct {
	params   *ParamVector
	cfg      *config.Config
	seeds    []int64
	maxTicks int
	distance float64

	mu   sync.Mutex
	last Summary
}

// Summary aggregates one evaluation over all seeds.
type Summary struct {
	Fitness       float64
	ContactRate   float64
	TimeToContact float64
	OrbitRatio    float64
	MeanDistance  float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, seeds []int64, maxTicks int, distance float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		cfg:      cfg,
		seeds:    seeds,
		maxTicks: maxTicks,
		distance: distance,
	}
}

// Last returns the summary of the most recent evaluation.
func (fe *FitnessEvaluator) Last() Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	v := fe.params.Clamp(x)

	// Run all seeds in parallel
	results := make([]game.ScenarioResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = game.RunScenario(fe.cfg, game.Scenario{
				Seed:           s,
				DriveScale:     v[0],
				CorrectionGain: v[1],
				MaxTicks:       fe.maxTicks,
				StartDistance:  fe.distance,
			})
		}(i, seed)
	}
	wg.Wait()

	sum := summarize(results, float64(fe.maxTicks)*fe.cfg.Physics.DT)

	fe.mu.Lock()
	fe.last = sum
	fe.mu.Unlock()

	return sum.Fitness
}

// summarize averages the per-seed scores. runLength is the full run in
// sim seconds.
func summarize(results []game.ScenarioResult, runLength float64) Summary {
	if len(results) == 0 {
		return Summary{Fitness: math.Inf(1)}
	}
	var s Summary
	for _, r := range results {
		score := r.TimeToContact + orbitPenalty*runLength*r.OrbitRatio
		if r.Contact {
			s.ContactRate++
		} else {
			score += noContactPenalty * runLength
		}
		s.Fitness += score
		s.TimeToContact += r.TimeToContact
		s.OrbitRatio += r.OrbitRatio
		s.MeanDistance += r.MeanDistance
	}
	n := float64(len(results))
	s.Fitness /= n
	s.ContactRate /= n
	s.TimeToContact /= n
	s.OrbitRatio /= n
	s.MeanDistance /= n
	return s
}
