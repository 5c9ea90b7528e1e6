package neural

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// selector picks parent positions in a ranked slice.
type selector struct {
	method     string
	tournament int
	weights    []float64 // roulette weights: positive part of fitness
	total      float64
	uniform    bool // every fitness equal, or none positive
}

func newSelector(cfg EvolutionConfig, ranked []Ranked) *selector {
	fitness := make([]float64, len(ranked))
	weights := make([]float64, len(ranked))
	for i, r := range ranked {
		fitness[i] = r.Genome.fitness
		if fitness[i] > 0 {
			weights[i] = fitness[i]
		}
	}
	total := floats.Sum(weights)
	return &selector{
		method:     cfg.Selection,
		tournament: cfg.TournamentSize,
		weights:    weights,
		total:      total,
		uniform:    total <= 0 || floats.Max(fitness) == floats.Min(fitness),
	}
}

// pair returns two distinct positions.
func (s *selector) pair(rng *rand.Rand) (int, int) {
	a := s.pick(rng, -1)
	b := s.pick(rng, a)
	return a, b
}

// pick returns one position, never exclude.
func (s *selector) pick(rng *rand.Rand, exclude int) int {
	if s.uniform {
		return uniformPick(rng, len(s.weights), exclude)
	}
	if s.method == SelectTournament {
		return s.tournamentPick(rng, exclude)
	}
	return s.roulettePick(rng, exclude)
}

func (s *selector) roulettePick(rng *rand.Rand, exclude int) int {
	total := s.total
	if exclude >= 0 {
		total -= s.weights[exclude]
	}
	if total <= 0 {
		return uniformPick(rng, len(s.weights), exclude)
	}

	r := rng.Float64() * total
	last := -1
	for i, w := range s.weights {
		if i == exclude || w <= 0 {
			continue
		}
		last = i
		r -= w
		if r < 0 {
			return i
		}
	}
	// Rounding left r marginally above zero.
	return last
}

// tournamentPick samples candidates and keeps the best ranked one.
// Lower positions in the ranked slice are fitter.
func (s *selector) tournamentPick(rng *rand.Rand, exclude int) int {
	best := uniformPick(rng, len(s.weights), exclude)
	for i := 1; i < s.tournament; i++ {
		candidate := uniformPick(rng, len(s.weights), exclude)
		if candidate < best {
			best = candidate
		}
	}
	return best
}

// uniformPick draws from [0, n) skipping exclude (pass -1 for none).
func uniformPick(rng *rand.Rand, n, exclude int) int {
	if exclude < 0 || exclude >= n {
		return rng.Intn(n)
	}
	i := rng.Intn(n - 1)
	if i >= exclude {
		i++
	}
	return i
}
