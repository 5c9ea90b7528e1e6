// Package telemetry collects per-generation statistics, timings and experiment output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for one finished generation.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	Ticks      int32   `csv:"ticks"`
	SimTimeSec float64 `csv:"sim_time"`

	// Fitness distribution at the end of the generation
	BestFitness float64 `csv:"best"`
	MeanFitness float64 `csv:"mean"`
	StdFitness  float64 `csv:"std"`
	P10Fitness  float64 `csv:"p10"`
	P50Fitness  float64 `csv:"p50"`
	P90Fitness  float64 `csv:"p90"`

	// Course progress
	MaxPipes  int     `csv:"max_pipes"`
	MeanPipes float64 `csv:"mean_pipes"`

	// Champion
	BestGenomeID  uint64 `csv:"best_id"`
	BestGenomeAge int    `csv:"best_age"` // generations since the champion was born
	Elites        int    `csv:"elites"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates best, mean, standard deviation and percentiles.
// The standard deviation is the sample one and is 0 for fewer than two values.
func ComputeFitnessStats(values []float64) (best, mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	best = floats.Max(values)
	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return best, mean, std, p10, p50, p90
}

// ComputeGenerationStats summarizes a generation from per-bird fitness and
// pipes passed. Champion fields are left for the caller.
func ComputeGenerationStats(generation int, ticks int32, dt float64, fitnesses []float64, pipes []int) GenerationStats {
	s := GenerationStats{
		Generation: generation,
		Ticks:      ticks,
		SimTimeSec: float64(ticks) * dt,
	}
	s.BestFitness, s.MeanFitness, s.StdFitness, s.P10Fitness, s.P50Fitness, s.P90Fitness = ComputeFitnessStats(fitnesses)

	if len(pipes) > 0 {
		total := 0
		for _, p := range pipes {
			total += p
			if p > s.MaxPipes {
				s.MaxPipes = p
			}
		}
		s.MeanPipes = float64(total) / float64(len(pipes))
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("ticks", int(s.Ticks)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("best", s.BestFitness),
		slog.Float64("mean", s.MeanFitness),
		slog.Float64("std", s.StdFitness),
		slog.Float64("p10", s.P10Fitness),
		slog.Float64("p50", s.P50Fitness),
		slog.Float64("p90", s.P90Fitness),
		slog.Int("max_pipes", s.MaxPipes),
		slog.Float64("mean_pipes", s.MeanPipes),
		slog.Uint64("best_id", s.BestGenomeID),
		slog.Int("best_age", s.BestGenomeAge),
		slog.Int("elites", s.Elites),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation complete",
		"generation", s.Generation,
		"ticks", s.Ticks,
		"best", s.BestFitness,
		"mean", s.MeanFitness,
		"std", s.StdFitness,
		"p50", s.P50Fitness,
		"pipes", s.MaxPipes,
		"best_id", s.BestGenomeID,
		"best_age", s.BestGenomeAge,
	)
}
