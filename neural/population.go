package neural

import (
	"fmt"
	"math/rand"
)

// MinPopulationSize is the smallest population that still has two distinct parents.
const MinPopulationSize = 2

// Population is the fixed-size set of genomes alive in one generation.
// Agent i is always steered by genome i.
type Population struct {
	genomes    []*Genome
	topology   Topology
	hidden     Activation
	generation int
}

// NewPopulation builds generation 0 with independently randomized networks.
// A nil ids starts a fresh generator.
func NewPopulation(size int, topology Topology, hidden Activation, rng *rand.Rand, ids *IDGenerator) (*Population, error) {
	if ids == nil {
		ids = NewIDGenerator()
	}
	if size < MinPopulationSize {
		return nil, fmt.Errorf("%w: need at least %d genomes, got %d",
			ErrInvalidPopulationSize, MinPopulationSize, size)
	}
	if err := topology.Validate(); err != nil {
		return nil, err
	}

	genomes := make([]*Genome, size)
	for i := range genomes {
		nn, err := NewNetwork(topology, rng, hidden)
		if err != nil {
			return nil, err
		}
		genomes[i] = NewGenome(ids.NextID(), 0, nn)
	}
	return &Population{
		genomes:  genomes,
		topology: topology.Clone(),
		hidden:   hidden,
	}, nil
}

// At returns the genome steering agent index.
func (p *Population) At(index int) (*Genome, error) {
	if index < 0 || index >= len(p.genomes) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(p.genomes))
	}
	return p.genomes[index], nil
}

// Size returns the number of genomes.
func (p *Population) Size() int {
	return len(p.genomes)
}

// Generation returns the generation counter, starting at 0.
func (p *Population) Generation() int {
	return p.generation
}

// Topology returns the shared layer sizes.
func (p *Population) Topology() Topology {
	return p.topology.Clone()
}

// Fitnesses returns every genome's fitness in agent order.
func (p *Population) Fitnesses() []float64 {
	f := make([]float64, len(p.genomes))
	for i, g := range p.genomes {
		f[i] = g.fitness
	}
	return f
}

// Best returns the fittest genome and its index. Ties go to the lowest index.
func (p *Population) Best() (*Genome, int) {
	best := 0
	for i, g := range p.genomes {
		if g.fitness > p.genomes[best].fitness {
			best = i
		}
	}
	return p.genomes[best], best
}

// ResetFitness sets every genome's fitness back to the baseline.
func (p *Population) ResetFitness() {
	for _, g := range p.genomes {
		g.fitness = 0
	}
}

// validate checks the invariants Evolve relies on.
func (p *Population) validate() error {
	if len(p.genomes) < MinPopulationSize {
		return fmt.Errorf("%w: %d genomes", ErrInvalidPopulationSize, len(p.genomes))
	}
	want := p.topology.ParamCount()
	for i, g := range p.genomes {
		if g == nil || g.Network == nil {
			return fmt.Errorf("%w: genome %d has no network", ErrTopologyMismatch, i)
		}
		if !g.Network.topology.Equal(p.topology) {
			return fmt.Errorf("%w: genome %d has %v, population has %v",
				ErrTopologyMismatch, i, g.Network.topology, p.topology)
		}
		if g.Network.ParamCount() != want {
			return fmt.Errorf("%w: genome %d has %d weights, want %d",
				ErrTopologyMismatch, i, g.Network.ParamCount(), want)
		}
	}
	return nil
}
