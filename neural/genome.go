package neural

import "sort"

// Action decision constants.
const (
	ActionOutput    = 0   // output index that drives the flap decision
	ActionThreshold = 0.5 // flap when output is strictly greater
)

// Genome pairs a network with the fitness it earned in the current generation.
type Genome struct {
	ID      uint64
	Born    int // generation the genome was created in
	Network *Network

	fitness float64
}

// NewGenome wraps a network with baseline fitness 0.
func NewGenome(id uint64, born int, network *Network) *Genome {
	return &Genome{ID: id, Born: born, Network: network}
}

// Evaluate runs the network and thresholds the action output.
// Fitness is left untouched.
func (g *Genome) Evaluate(input []float64) (bool, error) {
	out, err := g.Network.Infer(input)
	if err != nil {
		return false, err
	}
	return Decide(out), nil
}

// Decide maps raw network outputs to the flap decision.
func Decide(output []float64) bool {
	if len(output) <= ActionOutput {
		return false
	}
	return output[ActionOutput] > ActionThreshold
}

// Fitness returns the last value stored with SetFitness.
func (g *Genome) Fitness() float64 {
	return g.fitness
}

// SetFitness overwrites the stored fitness.
func (g *Genome) SetFitness(v float64) {
	g.fitness = v
}

// Clone copies the genome under a new identity, keeping its fitness.
func (g *Genome) Clone(id uint64, born int) *Genome {
	return &Genome{
		ID:      id,
		Born:    born,
		Network: g.Network.Clone(),
		fitness: g.fitness,
	}
}

// Ranked is a genome together with its index in the population it came from.
type Ranked struct {
	Index  int
	Genome *Genome
}

// Rank orders genomes by fitness, best first. Ties keep population order.
func Rank(genomes []*Genome) []Ranked {
	ranked := make([]Ranked, len(genomes))
	for i, g := range genomes {
		ranked[i] = Ranked{Index: i, Genome: g}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Genome.fitness > ranked[j].Genome.fitness
	})
	return ranked
}

// IDGenerator hands out unique genome IDs.
type IDGenerator struct {
	nextID uint64
}

// NewIDGenerator creates a generator starting at 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{nextID: 1}
}

// NextID returns the next unique genome ID.
func (g *IDGenerator) NextID() uint64 {
	id := g.nextID
	g.nextID++
	return id
}
