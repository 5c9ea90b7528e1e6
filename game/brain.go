package game

import (
	"fmt"

	"github.com/pthm-cable/flap/neural"
	"github.com/pthm-cable/flap/systems"
)

// updateBrains feeds each live bird's perception to its genome, flaps on a
// positive decision and stores the fitness. Dead birds keep the fitness they
// had when they died.
func (g *Game) updateBrains() error {
	flapSpeed := g.cfg.Physics.FlapVelocity
	leaderFitness := 0.0
	g.leader.valid = false

	var firstErr error
	query := g.birdFilter.Query()
	for query.Next() {
		pos, vel, bird := query.Get()
		if bird.Dead || firstErr != nil {
			continue
		}

		genome, err := g.pop.At(bird.Index)
		if err != nil {
			firstErr = err
			continue
		}

		pipe, ok := g.pipes.Nearest(pos.X)
		if !ok {
			genome.SetFitness(bird.Score)
			continue
		}

		p := systems.Sense(*pos, pipe, g.area)
		g.inputs = p.AsSlice(g.inputs)

		flap, err := genome.Evaluate(g.inputs)
		if err != nil {
			firstErr = fmt.Errorf("bird %d: %w", bird.Index, err)
			continue
		}
		if flap {
			systems.Flap(vel, bird, flapSpeed)
		}

		fitness := neural.Fitness(bird.Score, p.Horizontal, p.Vertical)
		genome.SetFitness(fitness)

		if bird.PipesPassed > g.maxPipes {
			g.maxPipes = bird.PipesPassed
		}
		if !g.leader.valid || fitness > leaderFitness {
			leaderFitness = fitness
			g.leader = leaderView{
				index:      bird.Index,
				perception: p,
				flapping:   flap,
				genomeID:   genome.ID,
				born:       genome.Born,
				network:    genome.Network,
				valid:      true,
			}
		}
	}

	// Layer activations are only needed for the brain panel.
	if firstErr == nil && g.leader.valid && !g.headless {
		acts, err := g.leader.network.Forward(g.leader.perception.AsSlice(nil))
		if err != nil {
			return err
		}
		g.leader.activations = acts
		g.leader.output = acts[len(acts)-1][neural.ActionOutput]
	}
	return firstErr
}

// updateCollisions kills live birds touching a pipe and recounts the living.
func (g *Game) updateCollisions() {
	drift := g.cfg.Physics.DeadDriftSpeed
	alive := 0

	query := g.birdFilter.Query()
	for query.Next() {
		pos, vel, bird := query.Get()
		if bird.Dead {
			continue
		}
		if g.pipes.Collides(*pos, bird.Radius) {
			systems.Kill(vel, bird, drift)
			continue
		}
		alive++
	}
	g.alive = alive
}
