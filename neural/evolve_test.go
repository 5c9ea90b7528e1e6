package neural

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestEvolver(t *testing.T, cfg EvolutionConfig, seed int64) *Evolver {
	t.Helper()
	e, err := NewEvolver(cfg, rand.New(rand.NewSource(seed)), NewIDGenerator())
	if err != nil {
		t.Fatalf("NewEvolver: %v", err)
	}
	return e
}

func setFitnesses(pop *Population, f func(i int) float64) {
	for i, g := range pop.genomes {
		g.SetFitness(f(i))
	}
}

func maxFitness(pop *Population) float64 {
	best, _ := pop.Best()
	return best.Fitness()
}

func TestEvolvePreservesShape(t *testing.T) {
	topology := Topology{3, 8, 1}
	pop := newTestPopulation(t, 150, topology, 42)
	setFitnesses(pop, func(i int) float64 { return float64(i % 17) })
	e := newTestEvolver(t, DefaultEvolutionConfig(), 7)

	next, err := e.Evolve(pop)
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if next.Size() != pop.Size() {
		t.Errorf("size = %d, want %d", next.Size(), pop.Size())
	}
	if next.Generation() != pop.Generation()+1 {
		t.Errorf("generation = %d, want %d", next.Generation(), pop.Generation()+1)
	}
	for i, g := range next.genomes {
		if !g.Network.Topology().Equal(topology) {
			t.Fatalf("genome %d topology = %v", i, g.Network.Topology())
		}
		if g.Network.ParamCount() != topology.ParamCount() {
			t.Fatalf("genome %d weight count = %d", i, g.Network.ParamCount())
		}
	}
}

func TestEvolveManyGenerations(t *testing.T) {
	pop := newTestPopulation(t, 20, Topology{3, 4, 1}, 1)
	e := newTestEvolver(t, DefaultEvolutionConfig(), 2)
	rng := rand.New(rand.NewSource(3))

	for gen := 0; gen < 50; gen++ {
		setFitnesses(pop, func(int) float64 { return rng.Float64()*20 - 5 })
		next, err := e.Evolve(pop)
		if err != nil {
			t.Fatalf("generation %d: %v", gen, err)
		}
		pop = next
	}
	if pop.Generation() != 50 || pop.Size() != 20 {
		t.Errorf("after 50 evolutions: generation %d size %d", pop.Generation(), pop.Size())
	}
}

func TestEvolveElitism(t *testing.T) {
	pop := newTestPopulation(t, 30, Topology{3, 8, 1}, 42)
	rng := rand.New(rand.NewSource(9))
	setFitnesses(pop, func(int) float64 { return rng.Float64() * 100 })
	ranked := Rank(pop.genomes)

	cfg := DefaultEvolutionConfig()
	cfg.Elites = 3
	next, err := newTestEvolver(t, cfg, 7).Evolve(pop)
	if err != nil {
		t.Fatal(err)
	}

	if maxFitness(next) < maxFitness(pop) {
		t.Errorf("best fitness dropped: %v -> %v", maxFitness(pop), maxFitness(next))
	}

	for i := 0; i < cfg.Elites; i++ {
		elite, src := next.genomes[i], ranked[i].Genome
		if elite.ID != src.ID || elite.Fitness() != src.Fitness() {
			t.Errorf("elite %d = (id %d, %v), want (id %d, %v)", i, elite.ID, elite.Fitness(), src.ID, src.Fitness())
		}
		ew, sw := elite.Network.Weights(), src.Network.Weights()
		for j := range sw {
			if ew[j] != sw[j] {
				t.Fatalf("elite %d weight %d changed", i, j)
			}
		}
		if elite.Network == src.Network {
			t.Errorf("elite %d shares its network with the previous generation", i)
		}
	}

	for i := cfg.Elites; i < next.Size(); i++ {
		g := next.genomes[i]
		if g.Fitness() != 0 {
			t.Errorf("child %d fitness = %v, want 0", i, g.Fitness())
		}
		if g.Born != 1 {
			t.Errorf("child %d born = %d, want 1", i, g.Born)
		}
	}
}

func TestEvolveAllZeroFitness(t *testing.T) {
	pop := newTestPopulation(t, 10, Topology{3, 8, 1}, 42)
	next, err := newTestEvolver(t, DefaultEvolutionConfig(), 7).Evolve(pop)
	if err != nil {
		t.Fatalf("Evolve with zero fitness: %v", err)
	}
	if next.Size() != 10 {
		t.Errorf("size = %d, want 10", next.Size())
	}
}

func TestEvolveDegenerateFitness(t *testing.T) {
	tests := []struct {
		name    string
		fitness func(i int) float64
	}{
		{"all negative", func(i int) float64 { return -float64(i) - 1 }},
		{"all equal", func(int) float64 { return 4.2 }},
		{"single positive", func(i int) float64 {
			if i == 0 {
				return 1
			}
			return 0
		}},
	}

	for _, tt := range tests {
		for _, method := range []string{SelectRoulette, SelectTournament} {
			t.Run(tt.name+"/"+method, func(t *testing.T) {
				pop := newTestPopulation(t, 2, Topology{2, 1}, 42)
				setFitnesses(pop, tt.fitness)
				cfg := DefaultEvolutionConfig()
				cfg.Elites = 0
				cfg.Selection = method
				next, err := newTestEvolver(t, cfg, 7).Evolve(pop)
				if err != nil {
					t.Fatal(err)
				}
				if next.Size() != 2 {
					t.Errorf("size = %d, want 2", next.Size())
				}
			})
		}
	}
}

func TestEvolveIdenticalGenomes(t *testing.T) {
	pop := newTestPopulation(t, 6, Topology{2, 1}, 42)
	for _, g := range pop.genomes {
		if err := g.Network.SetWeights([]float64{0.5, 0.5, 0.5}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := newTestEvolver(t, DefaultEvolutionConfig(), 7).Evolve(pop); err != nil {
		t.Fatalf("Evolve on identical genomes: %v", err)
	}
}

func TestEvolveReproducible(t *testing.T) {
	run := func() [][]float64 {
		pop := newTestPopulation(t, 25, Topology{3, 8, 1}, 42)
		setFitnesses(pop, func(i int) float64 { return float64((i * 7) % 11) })
		next, err := newTestEvolver(t, DefaultEvolutionConfig(), 99).Evolve(pop)
		if err != nil {
			t.Fatal(err)
		}
		out := make([][]float64, next.Size())
		for i, g := range next.genomes {
			out[i] = g.Network.Weights()
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("genome %d weight %d differs between seeded runs", i, j)
			}
		}
	}
}

func TestEvolveLeavesSourceUntouched(t *testing.T) {
	pop := newTestPopulation(t, 8, Topology{3, 4, 1}, 42)
	setFitnesses(pop, func(i int) float64 { return float64(i) })
	before := make([][]float64, pop.Size())
	for i, g := range pop.genomes {
		before[i] = g.Network.Weights()
	}

	cfg := DefaultEvolutionConfig()
	cfg.Mutation.Rate = 1
	if _, err := newTestEvolver(t, cfg, 7).Evolve(pop); err != nil {
		t.Fatal(err)
	}

	for i, g := range pop.genomes {
		w := g.Network.Weights()
		for j := range w {
			if w[j] != before[i][j] {
				t.Fatalf("source genome %d weight %d changed", i, j)
			}
		}
		if g.Fitness() != float64(i) {
			t.Errorf("source genome %d fitness changed", i)
		}
	}
}

func TestEvolveElitesExceedSize(t *testing.T) {
	pop := newTestPopulation(t, 3, Topology{2, 1}, 42)
	setFitnesses(pop, func(i int) float64 { return float64(i) })
	cfg := DefaultEvolutionConfig()
	cfg.Elites = 10
	next, err := newTestEvolver(t, cfg, 7).Evolve(pop)
	if err != nil {
		t.Fatal(err)
	}
	if next.Size() != 3 {
		t.Errorf("size = %d, want 3", next.Size())
	}
}

func TestEvolveTopologyMismatch(t *testing.T) {
	pop := newTestPopulation(t, 4, Topology{3, 8, 1}, 42)
	odd, _ := NewNetworkFromWeights(Topology{2, 1}, []float64{1, 1, 1}, Sigmoid)
	pop.genomes[2].Network = odd

	_, err := newTestEvolver(t, DefaultEvolutionConfig(), 7).Evolve(pop)
	if !errors.Is(err, ErrTopologyMismatch) {
		t.Errorf("err = %v, want ErrTopologyMismatch", err)
	}
}

func TestEvolveNilPopulation(t *testing.T) {
	if _, err := newTestEvolver(t, DefaultEvolutionConfig(), 7).Evolve(nil); err == nil {
		t.Error("Evolve(nil) should fail")
	}
}

func TestNewEvolverInvalidConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name   string
		modify func(c *EvolutionConfig)
	}{
		{"negative elites", func(c *EvolutionConfig) { c.Elites = -1 }},
		{"unknown selection", func(c *EvolutionConfig) { c.Selection = "rank" }},
		{"tournament size", func(c *EvolutionConfig) { c.Selection = SelectTournament; c.TournamentSize = 0 }},
		{"crossover rate", func(c *EvolutionConfig) { c.CrossoverRate = 1.5 }},
		{"mutation rate", func(c *EvolutionConfig) { c.Mutation.Rate = -0.1 }},
		{"reset rate", func(c *EvolutionConfig) { c.Mutation.ResetRate = 2 }},
		{"sigma", func(c *EvolutionConfig) { c.Mutation.Sigma = 0 }},
		{"max weight", func(c *EvolutionConfig) { c.Mutation.MaxWeight = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEvolutionConfig()
			tt.modify(&cfg)
			if _, err := NewEvolver(cfg, rng, nil); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if _, err := NewEvolver(DefaultEvolutionConfig(), nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil rng: err = %v, want ErrInvalidConfig", err)
	}
}

func TestSinglePointCrossover(t *testing.T) {
	a := []float64{1, 1, 1}
	b := []float64{-1, -1, -1}

	child := SinglePointCrossover(a, b, 1)
	want := []float64{1, -1, -1}
	for i := range want {
		if child[i] != want[i] {
			t.Fatalf("child = %v, want %v", child, want)
		}
	}

	// Parents untouched.
	if a[1] != 1 || b[0] != -1 {
		t.Error("crossover modified a parent")
	}

	if c := SinglePointCrossover(a, b, -5); c[0] != -1 {
		t.Errorf("point clamped low: %v", c)
	}
	if c := SinglePointCrossover(a, b, 10); c[2] != 1 {
		t.Errorf("point clamped high: %v", c)
	}
}

func TestEvolveCrossoverWithoutMutation(t *testing.T) {
	// [2 1] has three parameters, so every cut lands at 1 or 2 and each
	// child must be a prefix of one parent followed by the other's suffix.
	pop := newTestPopulation(t, 2, Topology{2, 1}, 42)
	pop.genomes[0].Network.SetWeights([]float64{1, 1, 1})
	pop.genomes[1].Network.SetWeights([]float64{-1, -1, -1})
	setFitnesses(pop, func(i int) float64 { return float64(2 - i) })

	cfg := DefaultEvolutionConfig()
	cfg.Elites = 0
	cfg.CrossoverRate = 1
	cfg.Mutation.Rate = 0

	next, err := newTestEvolver(t, cfg, 7).Evolve(pop)
	if err != nil {
		t.Fatal(err)
	}
	for i, g := range next.genomes {
		w := g.Network.Weights()
		if w[0] == w[2] {
			t.Errorf("child %d = %v is not a single-point crossover", i, w)
		}
		cut := 1
		if w[1] == w[0] {
			cut = 2
		}
		for j := cut; j < 3; j++ {
			if w[j] != -w[0] {
				t.Errorf("child %d = %v mixes more than one segment", i, w)
			}
		}
	}
}

func TestMutate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	w := []float64{0.1, 0.2, 0.3}
	if n := Mutate(w, rng, MutationParams{Rate: 0, Sigma: 1, MaxWeight: 4}); n != 0 {
		t.Errorf("rate 0 mutated %d weights", n)
	}
	if w[0] != 0.1 || w[1] != 0.2 || w[2] != 0.3 {
		t.Errorf("rate 0 changed weights: %v", w)
	}

	big := make([]float64, 200)
	n := Mutate(big, rng, MutationParams{Rate: 1, Sigma: 100, MaxWeight: 2})
	if n != len(big) {
		t.Errorf("rate 1 mutated %d of %d weights", n, len(big))
	}
	for i, v := range big {
		if v > 2 || v < -2 {
			t.Fatalf("weight %d = %v escaped clamp", i, v)
		}
	}

	reset := make([]float64, 50)
	for i := range reset {
		reset[i] = 3
	}
	Mutate(reset, rng, MutationParams{Rate: 1, ResetRate: 1, Sigma: 1, MaxWeight: 4})
	for i, v := range reset {
		if v < -InitWeightRange || v > InitWeightRange {
			t.Fatalf("reset weight %d = %v outside init range", i, v)
		}
	}
}

func TestSelectorDistinctParents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tests := []struct {
		name    string
		fitness []float64
		method  string
	}{
		{"roulette spread", []float64{5, 3, 1, 0}, SelectRoulette},
		{"roulette single positive", []float64{10, 0, 0, 0}, SelectRoulette},
		{"uniform", []float64{0, 0, 0, 0}, SelectRoulette},
		{"tournament", []float64{5, 3, 1, 0}, SelectTournament},
		{"pair only", []float64{2, 1}, SelectTournament},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := rankedFrom(tt.fitness)
			cfg := DefaultEvolutionConfig()
			cfg.Selection = tt.method
			sel := newSelector(cfg, ranked)
			for i := 0; i < 500; i++ {
				a, b := sel.pair(rng)
				if a == b {
					t.Fatalf("pair returned identical parents %d", a)
				}
				if a < 0 || a >= len(ranked) || b < 0 || b >= len(ranked) {
					t.Fatalf("pair out of range: %d, %d", a, b)
				}
			}
		})
	}
}

func TestRouletteFavorsFitness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sel := newSelector(DefaultEvolutionConfig(), rankedFrom([]float64{10, 0, 0, 0}))
	for i := 0; i < 100; i++ {
		if got := sel.pick(rng, -1); got != 0 {
			t.Fatalf("pick = %d, want the only positive-fitness genome", got)
		}
	}
}

func rankedFrom(fitness []float64) []Ranked {
	genomes := make([]*Genome, len(fitness))
	for i, f := range fitness {
		nn, _ := NewNetworkFromWeights(Topology{2, 1}, []float64{0, 0, 0}, Sigmoid)
		genomes[i] = NewGenome(uint64(i+1), 0, nn)
		genomes[i].SetFitness(f)
	}
	return Rank(genomes)
}

func BenchmarkEvolve(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	pop, _ := NewPopulation(150, Topology{3, 8, 1}, Sigmoid, rng, NewIDGenerator())
	for i, g := range pop.genomes {
		g.SetFitness(float64(i))
	}
	e, _ := NewEvolver(DefaultEvolutionConfig(), rng, NewIDGenerator())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Evolve(pop)
	}
}
