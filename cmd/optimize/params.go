// Package main tunes the evolution parameters with Nelder-Mead over headless runs.
package main

import (
	"github.com/pthm-cable/flap/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Path string  // Config path for logging
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "mutation_rate", Path: "evolution.mutation_rate", Min: 0.01, Max: 0.5},
			{Name: "mutation_sigma", Path: "evolution.mutation_sigma", Min: 0.02, Max: 1.5},
			{Name: "reset_rate", Path: "evolution.reset_rate", Min: 0, Max: 0.5},
			{Name: "crossover_rate", Path: "evolution.crossover_rate", Min: 0, Max: 1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds. Nelder-Mead is unconstrained,
// so every point it proposes passes through here before use.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Evolution.MutationRate = clamped[0]
	cfg.Evolution.MutationSigma = clamped[1]
	cfg.Evolution.ResetRate = clamped[2]
	cfg.Evolution.CrossoverRate = clamped[3]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Evolution.MutationRate,
		cfg.Evolution.MutationSigma,
		cfg.Evolution.ResetRate,
		cfg.Evolution.CrossoverRate,
	}
}
