package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one step of the simulation tick.
type Phase int

// Phases of the simulation step, in tick order.
const (
	PhasePipes Phase = iota
	PhasePhysics
	PhaseBounds
	PhaseBrains
	PhaseCollisions
	PhaseEvolve
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"pipes", "physics", "bounds", "brains", "collisions", "evolve", "telemetry",
}

// String returns the phase name used in logs and CSV columns.
func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       [numPhases]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of ticks.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    PerfSample
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  Phase // -1 when no phase is open

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		lastPhase:  -1,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PerfSample{}
	p.lastPhase = -1
}

// StartPhase closes the open phase, if any, and begins timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.lastPhase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.lastPhase >= 0 && p.lastPhase < numPhases {
		p.current.Phases[p.lastPhase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.lastPhase = -1
	p.current.TickDuration = now.Sub(p.tickStart)

	p.samples[p.writeIndex] = p.current
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average durations and share of the average tick, in percent
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TickDuration
		if i == 0 || s.TickDuration < stats.MinTickDuration {
			stats.MinTickDuration = s.TickDuration
		}
		if s.TickDuration > stats.MaxTickDuration {
			stats.MaxTickDuration = s.TickDuration
		}
		for ph, d := range s.Phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgTickDuration = total / n
	for ph := range phaseSum {
		stats.PhaseAvg[ph] = phaseSum[ph] / n
		if stats.AvgTickDuration > 0 {
			stats.PhasePct[ph] = float64(stats.PhaseAvg[ph]) / float64(stats.AvgTickDuration) * 100
		}
	}
	if stats.AvgTickDuration > 0 {
		stats.TicksPerSecond = float64(time.Second) / float64(stats.AvgTickDuration)
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation    int     `csv:"generation"`
	Tick          int32   `csv:"tick"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	PipesPct      float64 `csv:"pipes_pct"`
	PhysicsPct    float64 `csv:"physics_pct"`
	BoundsPct     float64 `csv:"bounds_pct"`
	BrainsPct     float64 `csv:"brains_pct"`
	CollisionsPct float64 `csv:"collisions_pct"`
	EvolvePct     float64 `csv:"evolve_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation int, tick int32) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:    generation,
		Tick:          tick,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		PipesPct:      s.PhasePct[PhasePipes],
		PhysicsPct:    s.PhasePct[PhasePhysics],
		BoundsPct:     s.PhasePct[PhaseBounds],
		BrainsPct:     s.PhasePct[PhaseBrains],
		CollisionsPct: s.PhasePct[PhaseCollisions],
		EvolvePct:     s.PhasePct[PhaseEvolve],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
