package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/neural"
)

// Labels for the bird network's input and output neurons.
var (
	InputLabels  = []string{"Horiz", "Vert", "Alt"}
	OutputLabels = []string{"Flap"}
)

// Network diagram colors.
var (
	ColorNodePositive = rl.Color{R: 255, G: 100, B: 100, A: 255}
	ColorNodeNegative = rl.Color{R: 100, G: 100, B: 255, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// minEdgeWeight hides connections too weak to matter visually.
const minEdgeWeight = 0.1

// LayoutNetwork places the neurons of every layer in evenly spaced columns
// inside the given box. Layers shorter than the tallest are centered.
func LayoutNetwork(x, y, width, height int32, topology neural.Topology) [][]rl.Vector2 {
	layers := len(topology)
	if layers == 0 {
		return nil
	}
	colWidth := float32(width) / float32(layers)
	usable := float32(height - 20)

	tallest := 0
	for _, n := range topology {
		tallest = max(tallest, n)
	}
	spacing := usable / float32(tallest)

	nodes := make([][]rl.Vector2, layers)
	for l, n := range topology {
		colX := float32(x) + float32(l)*colWidth + colWidth/2
		offset := (usable - float32(n)*spacing) / 2
		nodes[l] = make([]rl.Vector2, n)
		for i := 0; i < n; i++ {
			nodes[l][i] = rl.Vector2{
				X: colX,
				Y: float32(y) + 10 + offset + float32(i)*spacing + spacing/2,
			}
		}
	}
	return nodes
}

// DrawNetworkDiagram renders the network with its latest layer activations.
func DrawNetworkDiagram(x, y, width, height int32, nn *neural.Network, acts [][]float64) {
	if nn == nil {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	topology := nn.Topology()
	nodes := LayoutNetwork(x, y, width, height, topology)
	nodeRadius := float32(6)

	for l := 0; l+1 < len(topology); l++ {
		for to := 0; to < topology[l+1]; to++ {
			for from := 0; from < topology[l]; from++ {
				weight := nn.Weight(l, to, from)
				if math.Abs(weight) < minEdgeWeight {
					continue
				}
				drawEdge(nodes[l][from], nodes[l+1][to], weight)
			}
		}
	}

	last := len(topology) - 1
	for l, layer := range nodes {
		for i, pos := range layer {
			var activation float64
			if l < len(acts) && i < len(acts[l]) {
				activation = acts[l][i]
			}
			radius := nodeRadius
			if l == last {
				radius += 2
			}
			drawNode(pos, radius, activation)

			if l == 0 && i < len(InputLabels) {
				labelWidth := rl.MeasureText(InputLabels[i], 10)
				rl.DrawText(InputLabels[i], int32(pos.X-radius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
			}
			if l == last && i < len(OutputLabels) {
				rl.DrawText(OutputLabels[i], int32(pos.X+radius+6), int32(pos.Y)-5, 10, ColorLabelDim)
			}
		}
	}
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius float32, activation float64) {
	rl.DrawCircleV(pos, radius, ActivationColor(activation))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection; thickness and alpha follow the weight magnitude.
func drawEdge(from, to rl.Vector2, weight float64) {
	mag := math.Abs(weight)
	thickness := float32(math.Min(math.Max(mag*1.5, 0.5), 3))

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(math.Min(40+mag*40, 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// ActivationColor maps an activation to a color.
// Negative = blue, Zero = gray, Positive = red.
func ActivationColor(activation float64) rl.Color {
	t := math.Min(math.Abs(activation), 1)
	if activation >= 0 {
		return rl.Color{R: uint8(60 + t*195), G: uint8(60 - t*30), B: uint8(60 - t*30), A: 255}
	}
	return rl.Color{R: uint8(60 - t*30), G: uint8(60 - t*30), B: uint8(60 + t*195), A: 255}
}
