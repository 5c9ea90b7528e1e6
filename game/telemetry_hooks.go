package game

import (
	"log/slog"

	"github.com/pthm-cable/flap/telemetry"
)

// flushGeneration summarizes the finished generation and hands the stats to
// the hall of fame, the output files, the callback and the log.
func (g *Game) flushGeneration() {
	generation := g.pop.Generation()
	pipes := g.pipesPerGenome()

	stats := telemetry.ComputeGenerationStats(generation, g.genTick, g.cfg.Physics.DT, g.pop.Fitnesses(), pipes)
	best, idx := g.pop.Best()
	if best != nil {
		stats.BestGenomeID = best.ID
		stats.BestGenomeAge = generation - best.Born
		g.hallOfFame.Consider(best, generation, pipes[idx])
	}
	stats.Elites = g.evolver.Config().Elites
	g.lastStats = stats

	perfStats := g.perfCollector.Stats()

	// Call stats callback if provided
	if g.onGeneration != nil {
		g.onGeneration(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, generation, g.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
			slog.Error("failed to write hall of fame", "error", err)
		}
	}
}
