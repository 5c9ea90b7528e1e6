// Package neural provides the fixed-topology feedforward networks that steer
// the birds, and the genetic algorithm that evolves them.
package neural

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// InitWeightRange bounds freshly drawn weights to [-InitWeightRange, InitWeightRange].
const InitWeightRange = 1.0

// Topology lists layer sizes from input to output, e.g. [3, 8, 1].
type Topology []int

// Validate reports whether the topology describes a usable network.
func (t Topology) Validate() error {
	if len(t) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrInvalidTopology, len(t))
	}
	for i, n := range t {
		if n < 1 {
			return fmt.Errorf("%w: layer %d has size %d", ErrInvalidTopology, i, n)
		}
	}
	return nil
}

// ParamCount returns the number of weights plus biases.
func (t Topology) ParamCount() int {
	total := 0
	for i := 1; i < len(t); i++ {
		total += t[i-1]*t[i] + t[i]
	}
	return total
}

// Inputs returns the input layer size.
func (t Topology) Inputs() int {
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// Outputs returns the output layer size.
func (t Topology) Outputs() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}

// Equal reports whether both topologies have identical layer sizes.
func (t Topology) Equal(o Topology) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (t Topology) Clone() Topology {
	c := make(Topology, len(t))
	copy(c, t)
	return c
}

func (t Topology) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = fmt.Sprint(n)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Activation selects the hidden-layer nonlinearity.
// The output layer is always sigmoid.
type Activation int

const (
	Sigmoid Activation = iota
	Tanh
)

// ParseActivation maps a config name to an Activation.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(name) {
	case "", "sigmoid":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	default:
		return Sigmoid, fmt.Errorf("unknown activation %q", name)
	}
}

func (a Activation) String() string {
	if a == Tanh {
		return "tanh"
	}
	return "sigmoid"
}

func (a Activation) apply(x float64) float64 {
	if a == Tanh {
		return math.Tanh(x)
	}
	return sigmoid(x)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// layer holds matrix views into the owning network's flat weight slice.
type layer struct {
	w *mat.Dense    // out x in, row = destination neuron
	b *mat.VecDense // out
}

// Network is a fully connected feedforward network with a fixed topology.
//
// Weights live in a single flat slice. For each consecutive layer pair the
// slice holds the out x in weight matrix row-major followed by the out
// biases, so a [2 1] network is laid out as [w0 w1 b].
type Network struct {
	topology Topology
	hidden   Activation
	weights  []float64
	layers   []layer
}

// NewNetwork creates a network with weights drawn uniformly from
// [-InitWeightRange, InitWeightRange].
func NewNetwork(topology Topology, rng *rand.Rand, hidden Activation) (*Network, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	weights := make([]float64, topology.ParamCount())
	for i := range weights {
		weights[i] = (rng.Float64()*2 - 1) * InitWeightRange
	}
	return newNetwork(topology, weights, hidden), nil
}

// NewNetworkFromWeights creates a network from an explicit weight vector.
// The vector is copied.
func NewNetworkFromWeights(topology Topology, weights []float64, hidden Activation) (*Network, error) {
	if err := topology.Validate(); err != nil {
		return nil, err
	}
	if len(weights) != topology.ParamCount() {
		return nil, fmt.Errorf("%w: topology %v needs %d, got %d",
			ErrInvalidTopologyWeights, topology, topology.ParamCount(), len(weights))
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return newNetwork(topology, w, hidden), nil
}

// newNetwork takes ownership of weights, which must already be sized.
func newNetwork(topology Topology, weights []float64, hidden Activation) *Network {
	nn := &Network{
		topology: topology.Clone(),
		hidden:   hidden,
		weights:  weights,
		layers:   make([]layer, 0, len(topology)-1),
	}
	off := 0
	for i := 1; i < len(topology); i++ {
		in, out := topology[i-1], topology[i]
		w := mat.NewDense(out, in, weights[off:off+in*out])
		off += in * out
		b := mat.NewVecDense(out, weights[off:off+out])
		off += out
		nn.layers = append(nn.layers, layer{w: w, b: b})
	}
	return nn
}

// Infer runs a forward pass. Each layer computes activation(W·x + b).
func (nn *Network) Infer(input []float64) ([]float64, error) {
	acts, err := nn.Forward(input)
	if err != nil {
		return nil, err
	}
	return acts[len(acts)-1], nil
}

// Forward runs a forward pass and returns the values of every layer, input
// first. Hidden layers use the hidden activation, the output layer sigmoid.
func (nn *Network) Forward(input []float64) ([][]float64, error) {
	if len(input) != nn.topology.Inputs() {
		return nil, fmt.Errorf("%w: want %d inputs, got %d",
			ErrInputSizeMismatch, nn.topology.Inputs(), len(input))
	}

	acts := make([][]float64, 0, len(nn.topology))
	x := make([]float64, len(input))
	copy(x, input)
	acts = append(acts, x)
	v := mat.NewVecDense(len(x), x)

	last := len(nn.layers) - 1
	for i, l := range nn.layers {
		out, _ := l.w.Dims()
		y := mat.NewVecDense(out, nil)
		y.MulVec(l.w, v)
		y.AddVec(y, l.b)

		act := nn.hidden
		if i == last {
			act = Sigmoid
		}
		raw := y.RawVector().Data
		for j := range raw {
			raw[j] = act.apply(raw[j])
		}
		acts = append(acts, raw)
		v = y
	}
	return acts, nil
}

// Weight returns the weight from neuron from in layer l to neuron to in layer l+1.
func (nn *Network) Weight(l, to, from int) float64 {
	return nn.layers[l].w.At(to, from)
}

// Weights returns a copy of the flat weight vector.
func (nn *Network) Weights() []float64 {
	w := make([]float64, len(nn.weights))
	copy(w, nn.weights)
	return w
}

// SetWeights replaces every weight. The layout must match Weights.
func (nn *Network) SetWeights(weights []float64) error {
	if len(weights) != len(nn.weights) {
		return fmt.Errorf("%w: want %d, got %d", ErrWeightCountMismatch, len(nn.weights), len(weights))
	}
	// Copy in place so the layer views stay valid.
	copy(nn.weights, weights)
	return nil
}

// Topology returns a copy of the layer sizes.
func (nn *Network) Topology() Topology {
	return nn.topology.Clone()
}

// ParamCount returns the length of the weight vector.
func (nn *Network) ParamCount() int {
	return len(nn.weights)
}

// HiddenActivation returns the hidden-layer nonlinearity.
func (nn *Network) HiddenActivation() Activation {
	return nn.hidden
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	return newNetwork(nn.topology, nn.Weights(), nn.hidden)
}
