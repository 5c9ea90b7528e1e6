package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/neural"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.IsEnabled(OverlayBrainPanel) || !reg.IsEnabled(OverlayDeadBirds) {
		t.Error("brain panel and dead birds should start enabled")
	}
	if reg.IsEnabled(OverlaySensors) || reg.IsEnabled(OverlayHitboxes) {
		t.Error("debug overlays should start disabled")
	}

	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "visual" || cats[1] != "debug" {
		t.Errorf("Categories = %v, want [visual debug]", cats)
	}
	if n := len(reg.ByCategory("debug")); n != 2 {
		t.Errorf("debug overlays = %d, want 2", n)
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayLeaderOnly) {
		t.Fatal("Toggle should enable leader only")
	}
	if reg.IsEnabled(OverlayDeadBirds) {
		t.Error("enabling leader only should disable dead birds")
	}

	reg.SetEnabled(OverlayDeadBirds, true)
	if reg.IsEnabled(OverlayLeaderOnly) {
		t.Error("enabling dead birds should disable leader only")
	}

	if reg.Toggle("nope") {
		t.Error("unknown overlay toggled on")
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, state, ok := reg.HandleKeyPress(rl.KeyV)
	if !ok || id != OverlaySensors || !state {
		t.Errorf("HandleKeyPress(V) = (%q, %v, %v), want (sensors, true, true)", id, state, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key reported a toggle")
	}
}

func TestControlState(t *testing.T) {
	var s ControlState

	if got := s.SetSpeed(0); got != MinSpeed {
		t.Errorf("SetSpeed(0) = %d, want %d", got, MinSpeed)
	}
	if got := s.SetSpeed(42); got != MaxSpeed {
		t.Errorf("SetSpeed(42) = %d, want %d", got, MaxSpeed)
	}
	if got := s.SetSpeed(4); got != 4 || s.Speed != 4 {
		t.Errorf("SetSpeed(4) = %d, speed %d", got, s.Speed)
	}

	if s.TakeSkip() {
		t.Error("no skip was requested")
	}
	s.Skip = true
	if !s.TakeSkip() || s.TakeSkip() {
		t.Error("TakeSkip should report once then clear")
	}
}

func TestLayoutNetwork(t *testing.T) {
	nodes := LayoutNetwork(0, 0, 300, 200, neural.Topology{3, 8, 1})

	if len(nodes) != 3 || len(nodes[0]) != 3 || len(nodes[1]) != 8 || len(nodes[2]) != 1 {
		t.Fatalf("layer sizes wrong: %d layers", len(nodes))
	}
	// Columns go left to right.
	if !(nodes[0][0].X < nodes[1][0].X && nodes[1][0].X < nodes[2][0].X) {
		t.Error("layer columns are not ordered left to right")
	}
	// Neurons stay inside the box and go top to bottom.
	for l, layer := range nodes {
		for i, p := range layer {
			if p.Y < 0 || p.Y > 200 {
				t.Errorf("layer %d node %d at y=%v outside box", l, i, p.Y)
			}
			if i > 0 && p.Y <= layer[i-1].Y {
				t.Errorf("layer %d node %d not below node %d", l, i, i-1)
			}
		}
	}
	// A single output neuron sits at the vertical middle of the tallest layer.
	mid := (nodes[1][3].Y + nodes[1][4].Y) / 2
	if d := nodes[2][0].Y - mid; d > 0.01 || d < -0.01 {
		t.Errorf("output node y = %v, want %v", nodes[2][0].Y, mid)
	}
}

func TestActivationColor(t *testing.T) {
	pos := ActivationColor(1)
	neg := ActivationColor(-1)
	if pos.R <= pos.B {
		t.Errorf("positive activation color %v should be red", pos)
	}
	if neg.B <= neg.R {
		t.Errorf("negative activation color %v should be blue", neg)
	}
	if ActivationColor(5) != pos {
		t.Error("activation beyond 1 should saturate")
	}
}
