package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/flap/neural"
)

// HallEntry records a generation champion's network and how it did.
type HallEntry struct {
	GenomeID    uint64    `json:"genome_id"`
	Generation  int       `json:"generation"`
	Born        int       `json:"born"`
	Fitness     float64   `json:"fitness"`
	PipesPassed int       `json:"pipes_passed"`
	Weights     []float64 `json:"weights"`
}

// HallOfFame keeps the best champions seen so far, sorted by fitness.
// A genome that stays champion over several generations holds one slot.
type HallOfFame struct {
	entries  []HallEntry
	maxSize  int
	topology neural.Topology
	hidden   neural.Activation
}

// NewHallOfFame creates an empty hall of fame for networks of the given shape.
func NewHallOfFame(maxSize int, topology neural.Topology, hidden neural.Activation) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries:  make([]HallEntry, 0, maxSize),
		maxSize:  maxSize,
		topology: topology.Clone(),
		hidden:   hidden,
	}
}

// Consider offers a champion for entry. Returns true if the hall changed.
func (hof *HallOfFame) Consider(g *neural.Genome, generation, pipesPassed int) bool {
	if g == nil || g.Network == nil {
		return false
	}

	entry := HallEntry{
		GenomeID:    g.ID,
		Generation:  generation,
		Born:        g.Born,
		Fitness:     g.Fitness(),
		PipesPassed: pipesPassed,
	}

	// Same genome seen again: keep its better run
	for i := range hof.entries {
		if hof.entries[i].GenomeID != g.ID {
			continue
		}
		if entry.Fitness <= hof.entries[i].Fitness {
			return false
		}
		hof.entries = append(hof.entries[:i], hof.entries[i+1:]...)
		break
	}

	entry.Weights = g.Network.Weights()
	hof.entries = hof.insertEntry(hof.entries, entry)
	return hof.contains(entry.GenomeID)
}

func (hof *HallOfFame) contains(id uint64) bool {
	for _, e := range hof.entries {
		if e.GenomeID == id {
			return true
		}
	}
	return false
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Entries returns the entries, best first. The slice must not be modified.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Shape returns the topology and hidden activation of the stored networks.
func (hof *HallOfFame) Shape() (neural.Topology, neural.Activation) {
	return hof.topology.Clone(), hof.hidden
}

// Seed copies hall weights into the leading genomes of pop, best entry first.
// Returns the number of genomes overwritten.
func (hof *HallOfFame) Seed(pop *neural.Population) (int, error) {
	if !hof.topology.Equal(pop.Topology()) {
		return 0, fmt.Errorf("hall topology %v, population %v: %w", hof.topology, pop.Topology(), neural.ErrTopologyMismatch)
	}
	first, err := pop.At(0)
	if err != nil {
		return 0, err
	}
	if act := first.Network.HiddenActivation(); act != hof.hidden {
		return 0, fmt.Errorf("hall activation %s, population %s: %w", hof.hidden, act, neural.ErrTopologyMismatch)
	}
	n := 0
	for i, e := range hof.entries {
		if i >= pop.Size() {
			break
		}
		g, err := pop.At(i)
		if err != nil {
			return n, err
		}
		if err := g.Network.SetWeights(e.Weights); err != nil {
			return n, fmt.Errorf("seeding genome %d from hall entry %d: %w", i, e.GenomeID, err)
		}
		n++
	}
	return n, nil
}

// hallJSON is the on-disk representation of a hall of fame.
type hallJSON struct {
	Topology         []int       `json:"topology"`
	HiddenActivation string      `json:"hidden_activation"`
	Entries          []HallEntry `json:"entries"`
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hallJSON{
		Topology:         hof.topology,
		HiddenActivation: hof.hidden.String(),
		Entries:          hof.entries,
	}, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame written by MarshalJSON.
// Entries whose weight count does not match the topology are rejected.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw hallJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	topology := neural.Topology(raw.Topology)
	if err := topology.Validate(); err != nil {
		return nil, fmt.Errorf("hall of fame topology: %w", err)
	}
	hidden, err := neural.ParseActivation(raw.HiddenActivation)
	if err != nil {
		return nil, fmt.Errorf("hall of fame activation: %w", err)
	}

	hof := NewHallOfFame(len(raw.Entries), topology, hidden)
	want := topology.ParamCount()
	for _, e := range raw.Entries {
		if len(e.Weights) != want {
			return nil, fmt.Errorf("hall entry %d has %d weights, want %d: %w", e.GenomeID, len(e.Weights), want, neural.ErrWeightCountMismatch)
		}
		hof.entries = hof.insertEntry(hof.entries, e)
	}
	return hof, nil
}
