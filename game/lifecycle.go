package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/systems"
	"github.com/pthm-cable/flap/telemetry"
)

// restart clears the course and spawns one bird per genome at the start point.
func (g *Game) restart() {
	g.removeBirds()
	g.pipes.Reset(g.world)
	g.spawnBirds()

	g.genTick = 0
	g.maxPipes = 0
	g.leader = leaderView{}
}

// spawnBirds creates one bird per genome. Bird.Index links a bird to its genome.
func (g *Game) spawnBirds() {
	cfg := g.cfg
	for i := 0; i < g.pop.Size(); i++ {
		pos := components.Position{X: cfg.Derived.StartX, Y: cfg.Derived.StartY}
		vel := components.Velocity{}
		bird := components.Bird{Index: i, Radius: cfg.Bird.Radius}
		g.birdMapper.NewEntity(&pos, &vel, &bird)
	}
	g.alive = g.pop.Size()
}

// removeBirds deletes every bird entity.
func (g *Game) removeBirds() {
	// First pass: collect (must complete before modifying)
	var toRemove []ecs.Entity
	query := g.birdFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}

	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	g.alive = 0
}

// allBirdsDead reports whether every bird is dead and has drifted off screen.
func (g *Game) allBirdsDead() bool {
	if g.alive > 0 {
		return false
	}
	done := true
	query := g.birdFilter.Query()
	for query.Next() {
		pos, _, bird := query.Get()
		if !bird.Dead || pos.X >= 0 {
			done = false
		}
	}
	return done
}

// skipGeneration kills every live bird and evolves immediately.
func (g *Game) skipGeneration() error {
	query := g.birdFilter.Query()
	for query.Next() {
		_, vel, bird := query.Get()
		systems.Kill(vel, bird, g.cfg.Physics.DeadDriftSpeed)
	}
	g.alive = 0
	return g.evolveGeneration()
}

// evolveGeneration records the finished generation, breeds the next one and
// restarts the course.
func (g *Game) evolveGeneration() error {
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushGeneration()

	g.perfCollector.StartPhase(telemetry.PhaseEvolve)

	next, err := g.evolver.Evolve(g.pop)
	if err != nil {
		return fmt.Errorf("evolving generation %d: %w", g.pop.Generation(), err)
	}
	g.pop = next
	g.restart()
	return nil
}

// pipesPerGenome returns the pipes passed by each bird, indexed like the population.
func (g *Game) pipesPerGenome() []int {
	pipes := make([]int, g.pop.Size())
	query := g.birdFilter.Query()
	for query.Next() {
		_, _, bird := query.Get()
		if bird.Index >= 0 && bird.Index < len(pipes) {
			pipes[bird.Index] = bird.PipesPassed
		}
	}
	return pipes
}
