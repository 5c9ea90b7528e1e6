package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed limits for the simulation speed slider, in ticks per frame.
const (
	MinSpeed = 1
	MaxSpeed = 10
)

// ControlState is what the control panel lets the user change.
type ControlState struct {
	Paused bool
	Speed  int
	Skip   bool // kill every bird and evolve now; consumed by the game
}

// SetSpeed clamps and stores the speed. Returns the stored value.
func (s *ControlState) SetSpeed(speed int) int {
	if speed < MinSpeed {
		speed = MinSpeed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	s.Speed = speed
	return speed
}

// TakeSkip reports and clears a pending skip request.
func (s *ControlState) TakeSkip() bool {
	skip := s.Skip
	s.Skip = false
	return skip
}

// ControlsPanel renders the right-side control panel with raygui widgets
// and the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel, applies widget interaction to state and returns
// the Y below the panel.
func (c *ControlsPanel) Draw(state *ControlState, overlays *OverlayRegistry) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	totalItems := int32(len(overlays.All()) + len(overlays.Categories()))
	panelHeight := 130 + totalItems*lineHeight + padding*2
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	x := float32(c.x + padding)
	y := c.y + padding
	inner := float32(c.width - padding*2)

	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += lineHeight + 6

	pauseText := "Pause"
	if state.Paused {
		pauseText = "Resume"
	}
	half := (inner - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 28}, pauseText) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: float32(y), Width: half, Height: 28}, "Skip generation") {
		state.Skip = true
	}
	y += 40

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.Speed), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += lineHeight
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: float32(y), Width: inner - 40, Height: 20},
		fmt.Sprint(MinSpeed), fmt.Sprint(MaxSpeed),
		float32(state.Speed), MinSpeed, MaxSpeed,
	)
	state.SetSpeed(int(math.Round(float64(newSpeed))))
	y += 36

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), int32(x), y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(int32(x), y, desc, overlays.IsEnabled(desc.ID), int32(inner))
			y += lineHeight
		}
	}

	return c.y + panelHeight
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+3, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
