package neural

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestTopologyParamCount(t *testing.T) {
	tests := []struct {
		name     string
		topology Topology
		want     int
	}{
		{"single layer pair", Topology{2, 1}, 3},
		{"bird brain", Topology{3, 8, 1}, 3*8 + 8 + 8*1 + 1},
		{"two hidden", Topology{4, 5, 3, 2}, 4*5 + 5 + 5*3 + 3 + 3*2 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.topology.ParamCount(); got != tt.want {
				t.Errorf("ParamCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTopologyValidate(t *testing.T) {
	bad := []Topology{nil, {3}, {3, 0, 1}, {-1, 2}}
	for _, topo := range bad {
		if err := topo.Validate(); !errors.Is(err, ErrInvalidTopology) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidTopology", topo, err)
		}
	}
	if err := (Topology{3, 8, 1}).Validate(); err != nil {
		t.Errorf("Validate([3 8 1]) = %v, want nil", err)
	}
}

func TestNewNetwork(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	topo := Topology{3, 8, 1}
	nn, err := NewNetwork(topo, rng, Sigmoid)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}

	w := nn.Weights()
	if want := topo.ParamCount(); len(w) != want || want != 41 {
		t.Fatalf("weight count = %d, ParamCount = %d, want 41", len(w), want)
	}
	for i, v := range w {
		if v < -InitWeightRange || v > InitWeightRange {
			t.Errorf("weight %d = %v outside init range", i, v)
		}
	}
}

func TestNewNetworkFromWeightsMismatch(t *testing.T) {
	_, err := NewNetworkFromWeights(Topology{2, 1}, []float64{1, 1}, Sigmoid)
	if !errors.Is(err, ErrInvalidTopologyWeights) {
		t.Errorf("err = %v, want ErrInvalidTopologyWeights", err)
	}
}

func TestNewNetworkFromWeightsCopies(t *testing.T) {
	w := []float64{1, 1, 0}
	nn, err := NewNetworkFromWeights(Topology{2, 1}, w, Sigmoid)
	if err != nil {
		t.Fatal(err)
	}
	w[0] = 99
	if nn.Weights()[0] != 1 {
		t.Error("network shares the caller's weight slice")
	}
}

func TestInferKnownValue(t *testing.T) {
	nn, err := NewNetworkFromWeights(Topology{2, 1}, []float64{1, 1, 0}, Sigmoid)
	if err != nil {
		t.Fatal(err)
	}

	out, err := nn.Infer([]float64{0.5, -0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != 0.5 {
		t.Fatalf("Infer = %v, want [0.5]", out)
	}
	if Decide(out) {
		t.Error("output exactly at threshold must not flap")
	}
}

func TestInferHiddenLayer(t *testing.T) {
	// [1 2 1]: hidden = sigmoid(x*w + b), output = sigmoid(h·w + b).
	weights := []float64{
		2, -1, // input -> hidden weights
		0.5, 0, // hidden biases
		1, 1, // hidden -> output weights
		-1, // output bias
	}
	nn, err := NewNetworkFromWeights(Topology{1, 2, 1}, weights, Sigmoid)
	if err != nil {
		t.Fatal(err)
	}

	x := 0.25
	h0 := sigmoid(2*x + 0.5)
	h1 := sigmoid(-1*x + 0)
	want := sigmoid(h0 + h1 - 1)

	out, err := nn.Infer([]float64{x})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("Infer = %v, want %v", out[0], want)
	}
}

func TestForwardLayers(t *testing.T) {
	weights := []float64{2, -1, 0.5, 0, 1, 1, -1}
	nn, err := NewNetworkFromWeights(Topology{1, 2, 1}, weights, Sigmoid)
	if err != nil {
		t.Fatal(err)
	}

	acts, err := nn.Forward([]float64{0.25})
	if err != nil {
		t.Fatal(err)
	}
	if len(acts) != 3 || len(acts[0]) != 1 || len(acts[1]) != 2 || len(acts[2]) != 1 {
		t.Fatalf("layer shapes = %v, want [1 2 1]", acts)
	}
	if acts[0][0] != 0.25 {
		t.Errorf("input layer = %v, want 0.25", acts[0][0])
	}
	if want := sigmoid(2*0.25 + 0.5); math.Abs(acts[1][0]-want) > 1e-12 {
		t.Errorf("hidden[0] = %v, want %v", acts[1][0], want)
	}

	out, _ := nn.Infer([]float64{0.25})
	if out[0] != acts[2][0] {
		t.Errorf("Infer = %v, Forward output = %v", out[0], acts[2][0])
	}

	if nn.Weight(0, 1, 0) != -1 || nn.Weight(1, 0, 1) != 1 {
		t.Errorf("Weight lookups do not follow the flat layout")
	}
}

func TestInferTanhHidden(t *testing.T) {
	weights := []float64{1, 0, 1, 0}
	nn, err := NewNetworkFromWeights(Topology{1, 1, 1}, weights, Tanh)
	if err != nil {
		t.Fatal(err)
	}
	out, err := nn.Infer([]float64{0.7})
	if err != nil {
		t.Fatal(err)
	}
	want := sigmoid(math.Tanh(0.7))
	if math.Abs(out[0]-want) > 1e-12 {
		t.Errorf("Infer = %v, want %v", out[0], want)
	}
}

func TestInferDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, err := NewNetwork(Topology{3, 8, 1}, rng, Sigmoid)
	if err != nil {
		t.Fatal(err)
	}

	input := []float64{0.3, -0.7, 0.5}
	first, err := nn.Infer(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		out, _ := nn.Infer(input)
		if out[0] != first[0] {
			t.Fatalf("call %d: Infer = %v, first call = %v", i, out[0], first[0])
		}
	}

	// A clone with the same weights must agree bit for bit.
	out, _ := nn.Clone().Infer(input)
	if out[0] != first[0] {
		t.Errorf("clone Infer = %v, want %v", out[0], first[0])
	}
}

func TestInferInputSizeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewNetwork(Topology{3, 8, 1}, rng, Sigmoid)

	if _, err := nn.Infer([]float64{1, 2}); !errors.Is(err, ErrInputSizeMismatch) {
		t.Errorf("err = %v, want ErrInputSizeMismatch", err)
	}
}

func TestInferDoesNotModifyInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewNetwork(Topology{3, 4, 1}, rng, Sigmoid)

	input := []float64{0.1, 0.2, 0.3}
	if _, err := nn.Infer(input); err != nil {
		t.Fatal(err)
	}
	if input[0] != 0.1 || input[1] != 0.2 || input[2] != 0.3 {
		t.Errorf("input modified: %v", input)
	}
}

func TestSetWeightsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewNetwork(Topology{3, 8, 1}, rng, Sigmoid)

	w := make([]float64, nn.ParamCount())
	for i := range w {
		w[i] = float64(i) * 0.01
	}
	if err := nn.SetWeights(w); err != nil {
		t.Fatal(err)
	}

	got := nn.Weights()
	for i := range w {
		if got[i] != w[i] {
			t.Fatalf("weight %d = %v, want %v", i, got[i], w[i])
		}
	}
}

func TestSetWeightsAffectsInference(t *testing.T) {
	nn, _ := NewNetworkFromWeights(Topology{2, 1}, []float64{0, 0, 0}, Sigmoid)
	if err := nn.SetWeights([]float64{0, 0, 10}); err != nil {
		t.Fatal(err)
	}
	out, _ := nn.Infer([]float64{0, 0})
	if out[0] != sigmoid(10) {
		t.Errorf("Infer after SetWeights = %v, want %v", out[0], sigmoid(10))
	}
}

func TestSetWeightsCountMismatch(t *testing.T) {
	nn, _ := NewNetworkFromWeights(Topology{2, 1}, []float64{1, 1, 0}, Sigmoid)
	if err := nn.SetWeights([]float64{1}); !errors.Is(err, ErrWeightCountMismatch) {
		t.Errorf("err = %v, want ErrWeightCountMismatch", err)
	}
}

func TestCloneIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewNetwork(Topology{3, 8, 1}, rng, Sigmoid)
	clone := nn.Clone()

	w := clone.Weights()
	w[0] = 999
	if err := clone.SetWeights(w); err != nil {
		t.Fatal(err)
	}
	if nn.Weights()[0] == 999 {
		t.Error("Clone is not independent")
	}
}

func TestParseActivation(t *testing.T) {
	if a, err := ParseActivation("tanh"); err != nil || a != Tanh {
		t.Errorf("ParseActivation(tanh) = %v, %v", a, err)
	}
	if a, err := ParseActivation(""); err != nil || a != Sigmoid {
		t.Errorf("ParseActivation(\"\") = %v, %v", a, err)
	}
	if _, err := ParseActivation("relu"); err == nil {
		t.Error("ParseActivation(relu) should fail")
	}
}

func BenchmarkInfer(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	nn, _ := NewNetwork(Topology{3, 8, 1}, rng, Sigmoid)
	input := []float64{0.5, -0.25, 0.75}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nn.Infer(input)
	}
}
