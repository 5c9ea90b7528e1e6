package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/neural"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Generation   int
	Alive        int
	Population   int
	Fitness      float64 // best fitness among birds this generation
	BestEver     float64 // top of the hall of fame
	Pipes        int     // most pipes passed by a live bird
	Tick         int32
	Speed        int
	FPS          int32
	Paused       bool
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)
	r.DrawPanel(x-5, y-5, 260, 150)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawLabelValue(x, y, "Generation", fmt.Sprintf("%d", data.Generation))
	y = r.DrawLabelValue(x, y, "Alive", fmt.Sprintf("%d / %d", data.Alive, data.Population))
	y = r.DrawLabelValue(x, y, "Fitness", fmt.Sprintf("%.2f (best %.2f)", data.Fitness, data.BestEver))
	y = r.DrawLabelValue(x, y, "Pipes", fmt.Sprintf("%d", data.Pipes))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d | %dx | %d fps", data.Tick, data.Speed, data.FPS))

	if data.Paused {
		rl.DrawText("PAUSED", x, y, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// BrainPanelData holds the leading bird's view of the world.
type BrainPanelData struct {
	Horizontal float64
	Vertical   float64
	Altitude   float64
	Output     float64
	Flapping   bool
	GenomeID   uint64
	Born       int

	Network     *neural.Network
	Activations [][]float64 // per layer, input first
}

// diagramHeight is the space reserved for the network diagram.
const diagramHeight = 150

// BrainPanel renders the inputs and output of one bird's network.
type BrainPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewBrainPanel creates a new brain panel.
func NewBrainPanel(x, y, width int32) *BrainPanel {
	return &BrainPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *BrainPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel and returns the Y below it.
func (p *BrainPanel) Draw(data BrainPanelData) int32 {
	r := p.renderer
	pad := r.Theme.Padding
	inner := p.width - pad*2

	height := r.Theme.LineHeight*8 + pad*2
	if data.Network != nil {
		height += diagramHeight
	}
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + pad
	y := r.DrawSectionHeader(x, p.y+pad, fmt.Sprintf("Leader #%d (gen %d)", data.GenomeID, data.Born))
	y = r.DrawCenteredBar(x, y, "Horizontal", data.Horizontal, inner)
	y = r.DrawCenteredBar(x, y, "Vertical", data.Vertical, inner)
	y = r.DrawBar(x, y, "Altitude", data.Altitude, inner)
	y = r.DrawBar(x, y, "Output", data.Output, inner)

	action := "glide"
	if data.Flapping {
		action = "FLAP"
	}
	y = r.DrawLabelValue(x, y, "Action", action)

	if data.Network != nil {
		DrawNetworkDiagram(x+40, y, inner-80, diagramHeight, data.Network, data.Activations)
		y += diagramHeight
	}
	return y
}
