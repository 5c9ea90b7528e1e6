package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output generation stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and hall of fame")
	hallOfFame := flag.String("hall-of-fame", "", "Seed the first generation from a hall_of_fame.json")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	maxGenerations := flag.Int("max-generations", 0, "Stop after N generations (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		HallOfFamePath: *hallOfFame,
		Config:         cfg,
	}

	done := func(g *game.Game) bool {
		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "generation", g.Generation())
			return true
		}
		if *maxGenerations > 0 && g.Generation() >= *maxGenerations {
			slog.Info("max generations reached", "tick", g.Tick(), "generation", g.Generation())
			return true
		}
		return false
	}

	if *headless {
		// Headless mode - pure CPU simulation, no window
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to create game", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"population", cfg.Population.Size,
			"topology", cfg.Neural.Topology,
			"max_ticks", *maxTicks,
			"max_generations", *maxGenerations,
			"steps_per_update", *stepsPerUpdate,
		)

		for !done(g) {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("simulation failed", "tick", g.Tick(), "error", err)
				g.Unload()
				os.Exit(1)
			}
		}
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "FlapANN")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		rl.CloseWindow()
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if done(g) {
			break
		}
	}
}
