package neural

import (
	"fmt"
	"math/rand"
)

// MutationParams controls per-weight mutation.
type MutationParams struct {
	Rate      float64 // probability each weight mutates
	Sigma     float64 // std dev of the Gaussian perturbation
	ResetRate float64 // share of mutations that redraw the weight instead of perturbing it
	MaxWeight float64 // absolute clamp applied after mutation
}

// Validate checks the ranges of every field.
func (m MutationParams) Validate() error {
	if m.Rate < 0 || m.Rate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrInvalidConfig, m.Rate)
	}
	if m.ResetRate < 0 || m.ResetRate > 1 {
		return fmt.Errorf("%w: reset rate %v outside [0,1]", ErrInvalidConfig, m.ResetRate)
	}
	if m.Sigma <= 0 {
		return fmt.Errorf("%w: mutation sigma %v must be positive", ErrInvalidConfig, m.Sigma)
	}
	if m.MaxWeight <= 0 {
		return fmt.Errorf("%w: max weight %v must be positive", ErrInvalidConfig, m.MaxWeight)
	}
	return nil
}

// Mutate perturbs weights in place and returns how many changed.
// A mutated weight is either redrawn uniformly from
// [-InitWeightRange, InitWeightRange] or shifted by N(0, Sigma), then
// clamped to [-MaxWeight, MaxWeight].
func Mutate(weights []float64, rng *rand.Rand, p MutationParams) int {
	count := 0
	for i := range weights {
		if rng.Float64() >= p.Rate {
			continue
		}
		if rng.Float64() < p.ResetRate {
			weights[i] = (rng.Float64()*2 - 1) * InitWeightRange
		} else {
			weights[i] += rng.NormFloat64() * p.Sigma
		}
		weights[i] = clampWeight(weights[i], p.MaxWeight)
		count++
	}
	return count
}

func clampWeight(w, limit float64) float64 {
	if w > limit {
		return limit
	}
	if w < -limit {
		return -limit
	}
	return w
}
