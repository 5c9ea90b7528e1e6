// Package game runs the flappy bird population: world setup, the per-tick
// system order, generation turnover and drawing.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/neural"
	"github.com/pthm-cable/flap/systems"
	"github.com/pthm-cable/flap/telemetry"
	"github.com/pthm-cable/flap/ui"
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool           // log generation and perf stats via slog
	OutputDir      string         // CSV, config and hall of fame output; empty disables
	StepsPerUpdate int            // ticks per UpdateHeadless call
	HallOfFamePath string         // seed the first generation from a saved hall of fame
	Config         *config.Config // nil uses config.Cfg()

	// OnGeneration is called with the stats of every finished generation.
	OnGeneration func(telemetry.GenerationStats)
}

// leaderView is what the brain panel shows for the fittest live bird.
type leaderView struct {
	index      int
	perception systems.Perception
	output     float64
	flapping   bool
	genomeID   uint64
	born       int
	valid      bool

	network     *neural.Network
	activations [][]float64
}

// Game holds the complete game state.
type Game struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	birdMapper *ecs.Map3[components.Position, components.Velocity, components.Bird]
	birdFilter ecs.Filter3[components.Position, components.Velocity, components.Bird]

	// Systems
	physics  *systems.BirdPhysicsSystem
	boundary *systems.BoundarySystem
	pipes    *systems.PipeSystem
	area     systems.Bounds

	// Evolution
	ids        *neural.IDGenerator
	pop        *neural.Population
	evolver    *neural.Evolver
	hallOfFame *telemetry.HallOfFame

	// State
	tick      int32 // ticks since start
	genTick   int32 // ticks in the current generation
	alive     int
	maxPipes  int // most pipes passed by any bird this generation
	inputs    []float64
	leader    leaderView
	controls  ui.ControlState
	headless  bool
	stepsPer  int
	logStats  bool
	lastStats telemetry.GenerationStats

	onGeneration  func(telemetry.GenerationStats)
	outputManager *telemetry.OutputManager
	perfCollector *telemetry.PerfCollector

	// UI
	hud           *ui.HUD
	brainPanel    *ui.BrainPanel
	controlsPanel *ui.ControlsPanel
	overlays      *ui.OverlayRegistry
}

// NewGameWithOptions creates a game with the first generation spawned.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	topology := neural.Topology(cfg.Neural.Topology)
	if topology.Inputs() != systems.NumInputs {
		return nil, fmt.Errorf("neural.topology %v: input layer must have %d neurons: %w",
			topology, systems.NumInputs, neural.ErrInvalidTopology)
	}
	hidden, err := neural.ParseActivation(cfg.Neural.HiddenActivation)
	if err != nil {
		return nil, fmt.Errorf("neural.hidden_activation: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	ids := neural.NewIDGenerator()

	pop, err := neural.NewPopulation(cfg.Population.Size, topology, hidden, rng, ids)
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}
	evolver, err := neural.NewEvolver(evolutionConfig(cfg.Evolution), rng, ids)
	if err != nil {
		return nil, fmt.Errorf("creating evolver: %w", err)
	}

	stepsPer := opts.StepsPerUpdate
	if stepsPer < 1 {
		stepsPer = 1
	}

	g := &Game{
		cfg:          cfg,
		world:        world,
		rng:          rng,
		birdMapper:   ecs.NewMap3[components.Position, components.Velocity, components.Bird](world),
		birdFilter:   *ecs.NewFilter3[components.Position, components.Velocity, components.Bird](world),
		physics:      systems.NewBirdPhysicsSystem(world, cfg.Physics),
		boundary:     systems.NewBoundarySystem(world, systems.BoundsFromConfig(cfg), cfg.Physics.DeadDriftSpeed),
		pipes:        systems.NewPipeSystem(world, cfg, rng),
		area:         systems.BoundsFromConfig(cfg),
		ids:          ids,
		pop:          pop,
		evolver:      evolver,
		hallOfFame:   telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize, topology, hidden),
		inputs:       make([]float64, systems.NumInputs),
		controls:     ui.ControlState{Speed: ui.MinSpeed},
		headless:     opts.Headless,
		stepsPer:     stepsPer,
		logStats:     opts.LogStats,
		onGeneration: opts.OnGeneration,
	}
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	if opts.HallOfFamePath != "" {
		if err := g.seedFromHallOfFame(opts.HallOfFamePath); err != nil {
			return nil, err
		}
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		g.outputManager = om
		slog.Info("output enabled", "dir", om.Dir())
	}

	if !opts.Headless {
		screenW := int32(cfg.Screen.Width)
		g.hud = ui.NewHUD()
		g.brainPanel = ui.NewBrainPanel(screenW-270, 10, 260)
		g.controlsPanel = ui.NewControlsPanel(screenW-270, 10, 260)
		g.overlays = ui.NewOverlayRegistry()
	}

	g.restart()
	return g, nil
}

// seedFromHallOfFame loads a saved hall and copies its champions into the
// first genomes of the population. The loaded hall keeps collecting.
func (g *Game) seedFromHallOfFame(path string) error {
	hof, err := telemetry.LoadHallOfFameFromFile(path)
	if err != nil {
		return err
	}
	n, err := hof.Seed(g.pop)
	if err != nil {
		return fmt.Errorf("seeding population: %w", err)
	}
	g.hallOfFame = hof
	slog.Info("population seeded from hall of fame", "path", path, "seeded", n, "top_fitness", hof.TopFitness())
	return nil
}

// UpdateHeadless runs StepsPerUpdate ticks without any rendering.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPer; i++ {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

// Update handles input and advances the simulation by the current speed.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()

	if g.controls.TakeSkip() {
		if err := g.skipGeneration(); err != nil {
			slog.Error("skip generation failed", "error", err)
			g.controls.Paused = true
		}
	}
	if g.controls.Paused {
		return
	}

	for i := 0; i < g.controls.Speed; i++ {
		if err := g.step(); err != nil {
			slog.Error("simulation step failed", "tick", g.tick, "error", err)
			g.controls.Paused = true
			return
		}
	}
}

// step advances the simulation by one tick.
func (g *Game) step() error {
	g.perfCollector.StartTick()
	defer g.perfCollector.EndTick()

	g.perfCollector.StartPhase(telemetry.PhasePipes)
	g.pipes.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseBounds)
	g.boundary.Update(g.world)
	g.pipes.AwardPasses(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseBrains)
	if err := g.updateBrains(); err != nil {
		return err
	}

	g.perfCollector.StartPhase(telemetry.PhaseCollisions)
	g.updateCollisions()

	g.tick++
	g.genTick++

	if g.allBirdsDead() {
		return g.evolveGeneration()
	}
	return nil
}

// Unload releases resources.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the number of ticks simulated since start.
func (g *Game) Tick() int32 {
	return g.tick
}

// Generation returns the number of the generation currently flying.
func (g *Game) Generation() int {
	return g.pop.Generation()
}

// Population returns the population currently flying.
func (g *Game) Population() *neural.Population {
	return g.pop
}

// Best returns the fittest genome of the current generation and its index.
func (g *Game) Best() (*neural.Genome, int) {
	return g.pop.Best()
}

// Alive returns the number of live birds.
func (g *Game) Alive() int {
	return g.alive
}

// HallOfFame returns the champions collected so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// LastStats returns the stats of the most recently finished generation.
func (g *Game) LastStats() telemetry.GenerationStats {
	return g.lastStats
}
