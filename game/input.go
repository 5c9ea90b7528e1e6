package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.controls.Paused = !g.controls.Paused
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.controls.SetSpeed(g.controls.Speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.controls.SetSpeed(g.controls.Speed + 1)
	}

	if rl.IsKeyPressed(rl.KeyK) {
		g.controls.Skip = true
	}

	if key := rl.GetKeyPressed(); key != 0 {
		if id, enabled, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", enabled)
		}
	}
}
