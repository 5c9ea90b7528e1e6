package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
	"github.com/pthm-cable/flap/telemetry"
)

// FitnessEvaluator runs headless simulations and scores parameter vectors.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestObjective  float64
	bestHallOfFame *telemetry.HallOfFame
	lastMeanBest   float64 // mean best fitness from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		generations:   generations,
		maxTicks:      maxTicks,
		seeds:         seeds,
		baseConfig:    baseCfg,
		bestObjective: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastMeanBest returns the mean best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanBest() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMeanBest
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	bestFitness float64
	hallOfFame  *telemetry.HallOfFame
	err         error
}

// Evaluate returns the objective for a raw parameter vector (lower = better):
// the negated mean, over seeds, of the best fitness in the final generation.
// A failed run scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	bestSeed := math.Inf(-1)
	var bestSeedHall *telemetry.HallOfFame
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("  run failed: %v\n", r.err)
			return math.Inf(1)
		}
		total += r.bestFitness
		if r.bestFitness > bestSeed {
			bestSeed = r.bestFitness
			bestSeedHall = r.hallOfFame
		}
	}

	meanBest := total / float64(len(fe.seeds))
	objective := -meanBest

	fe.mu.Lock()
	if objective < fe.bestObjective {
		fe.bestObjective = objective
		fe.bestHallOfFame = bestSeedHall
	}
	fe.lastMeanBest = meanBest
	fe.mu.Unlock()

	return objective
}

// runSimulation evolves one seeded population for the configured number of
// generations. If the tick cap is hit first, the current generation's best
// fitness so far is used.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) seedResult {
	var last telemetry.GenerationStats
	finished := 0

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		Config:         cfg,
		OnGeneration: func(s telemetry.GenerationStats) {
			last = s
			finished++
		},
	})
	if err != nil {
		return seedResult{err: err}
	}
	defer g.Unload()

	for finished < fe.generations && g.Tick() < fe.maxTicks {
		if err := g.UpdateHeadless(); err != nil {
			return seedResult{err: err}
		}
	}

	best := last.BestFitness
	if finished < fe.generations {
		if genome, _ := g.Best(); genome != nil {
			best = genome.Fitness()
		}
	}
	return seedResult{bestFitness: best, hallOfFame: g.HallOfFame()}
}
