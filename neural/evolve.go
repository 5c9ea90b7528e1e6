package neural

import (
	"fmt"
	"math/rand"
)

// Selection method names.
const (
	SelectRoulette   = "roulette"
	SelectTournament = "tournament"
)

// EvolutionConfig holds the genetic algorithm knobs.
type EvolutionConfig struct {
	Elites         int     // genomes copied unchanged into the next generation
	Selection      string  // SelectRoulette or SelectTournament
	TournamentSize int     // candidates per tournament
	CrossoverRate  float64 // probability a child is a crossover rather than a copy of parent A
	Mutation       MutationParams
}

// DefaultEvolutionConfig returns the settings the simulation ships with.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		Elites:         5,
		Selection:      SelectRoulette,
		TournamentSize: 3,
		CrossoverRate:  0.9,
		Mutation: MutationParams{
			Rate:      0.1,
			Sigma:     0.3,
			ResetRate: 0.1,
			MaxWeight: 4.0,
		},
	}
}

// Validate checks the ranges of every field.
func (c EvolutionConfig) Validate() error {
	if c.Elites < 0 {
		return fmt.Errorf("%w: elites %d < 0", ErrInvalidConfig, c.Elites)
	}
	switch c.Selection {
	case SelectRoulette:
	case SelectTournament:
		if c.TournamentSize < 1 {
			return fmt.Errorf("%w: tournament size %d < 1", ErrInvalidConfig, c.TournamentSize)
		}
	default:
		return fmt.Errorf("%w: unknown selection %q", ErrInvalidConfig, c.Selection)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate %v outside [0,1]", ErrInvalidConfig, c.CrossoverRate)
	}
	return c.Mutation.Validate()
}

// Evolver produces successive generations. It keeps no state between calls
// apart from the random source and the ID generator.
type Evolver struct {
	cfg EvolutionConfig
	rng *rand.Rand
	ids *IDGenerator
}

// NewEvolver validates cfg and binds the random source used by Evolve.
func NewEvolver(cfg EvolutionConfig, rng *rand.Rand, ids *IDGenerator) (*Evolver, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &Evolver{cfg: cfg, rng: rng, ids: ids}, nil
}

// Config returns the evolver settings.
func (e *Evolver) Config() EvolutionConfig {
	return e.cfg
}

// Evolve builds the next generation from pop, which is left unmodified.
//
// The top Elites genomes are carried over with their weights and fitness.
// The remaining slots are filled by children of two distinct parents:
// single-point crossover at a cut drawn from [1, n-1], then per-weight
// mutation. Children start at fitness 0.
func (e *Evolver) Evolve(pop *Population) (*Population, error) {
	if pop == nil {
		return nil, fmt.Errorf("%w: nil population", ErrInvalidPopulationSize)
	}
	if err := pop.validate(); err != nil {
		return nil, err
	}

	n := pop.Size()
	next := pop.generation + 1
	ranked := Rank(pop.genomes)

	elites := e.cfg.Elites
	if elites > n {
		elites = n
	}

	genomes := make([]*Genome, 0, n)
	for i := 0; i < elites; i++ {
		g := ranked[i].Genome
		genomes = append(genomes, g.Clone(g.ID, g.Born))
	}

	sel := newSelector(e.cfg, ranked)
	for len(genomes) < n {
		a, b := sel.pair(e.rng)
		child := e.breed(ranked[a].Genome, ranked[b].Genome)
		Mutate(child, e.rng, e.cfg.Mutation)
		genomes = append(genomes, NewGenome(e.ids.NextID(), next, newNetwork(pop.topology, child, pop.hidden)))
	}

	return &Population{
		genomes:    genomes,
		topology:   pop.topology.Clone(),
		hidden:     pop.hidden,
		generation: next,
	}, nil
}

// breed returns the child weight vector for one parent pair.
func (e *Evolver) breed(a, b *Genome) []float64 {
	wa, wb := a.Network.weights, b.Network.weights
	if e.rng.Float64() >= e.cfg.CrossoverRate {
		child := make([]float64, len(wa))
		copy(child, wa)
		return child
	}
	point := 1 + e.rng.Intn(len(wa)-1)
	return SinglePointCrossover(wa, wb, point)
}

// SinglePointCrossover returns a[:point] followed by b[point:].
// point is clamped to [0, len(a)]; both parents must have equal length.
func SinglePointCrossover(a, b []float64, point int) []float64 {
	if point < 0 {
		point = 0
	}
	if point > len(a) {
		point = len(a)
	}
	child := make([]float64, len(a))
	copy(child[:point], a[:point])
	copy(child[point:], b[point:])
	return child
}
