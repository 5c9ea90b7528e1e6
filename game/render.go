package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/ui"
)

var (
	skyColor     = rl.Color{R: 112, G: 197, B: 206, A: 255}
	groundColor  = rl.Color{R: 222, G: 216, B: 149, A: 255}
	pipeColor    = rl.Color{R: 115, G: 191, B: 46, A: 255}
	pipeEdge     = rl.Color{R: 84, G: 56, B: 71, A: 255}
	birdColor    = rl.Color{R: 250, G: 200, B: 40, A: 255}
	leaderColor  = rl.Color{R: 240, G: 90, B: 60, A: 255}
	deadColor    = rl.Color{R: 120, G: 120, B: 120, A: 160}
	sensorColor  = rl.Color{R: 255, G: 255, B: 255, A: 60}
	hitboxColor  = rl.Red
	controlsHelp = "SPACE: Pause | < >: Speed | K: Skip generation | N H L V B: Overlays | F11: Fullscreen"
)

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(skyColor)

	g.drawPipes()
	g.drawGround()
	g.drawBirds()
	g.drawUI()

	rl.EndDrawing()
}

// drawPipes draws the upper and lower pipe of every pair.
func (g *Game) drawPipes() {
	hitboxes := g.overlays.IsEnabled(ui.OverlayHitboxes)
	for _, p := range g.pipes.Pipes() {
		x := int32(p.X)
		w := int32(p.Width)
		top := int32(p.GapTop())
		bottom := int32(p.GapBottom())
		ground := int32(g.area.GroundY)

		rl.DrawRectangle(x, 0, w, top, pipeColor)
		rl.DrawRectangle(x, bottom, w, ground-bottom, pipeColor)
		rl.DrawRectangleLines(x, 0, w, top, pipeEdge)
		rl.DrawRectangleLines(x, bottom, w, ground-bottom, pipeEdge)

		if hitboxes {
			rl.DrawRectangleLines(x, 0, w, top, hitboxColor)
			rl.DrawRectangleLines(x, bottom, w, ground-bottom, hitboxColor)
		}
	}
}

func (g *Game) drawGround() {
	ground := int32(g.area.GroundY)
	rl.DrawRectangle(0, ground, int32(g.area.Width), int32(g.area.Height)-ground, groundColor)
	rl.DrawLine(0, ground, int32(g.area.Width), ground, pipeEdge)
}

// drawBirds draws birds according to the enabled overlays. The leader is
// drawn last so it stays on top.
func (g *Game) drawBirds() {
	showDead := g.overlays.IsEnabled(ui.OverlayDeadBirds)
	leaderOnly := g.overlays.IsEnabled(ui.OverlayLeaderOnly)
	sensors := g.overlays.IsEnabled(ui.OverlaySensors)
	hitboxes := g.overlays.IsEnabled(ui.OverlayHitboxes)

	var leaderPos components.Position
	var leaderRadius float64
	haveLeader := false

	query := g.birdFilter.Query()
	for query.Next() {
		pos, _, bird := query.Get()

		if g.leader.valid && bird.Index == g.leader.index && !bird.Dead {
			leaderPos, leaderRadius, haveLeader = *pos, bird.Radius, true
			continue
		}
		if bird.Dead {
			if showDead {
				rl.DrawCircle(int32(pos.X), int32(pos.Y), float32(bird.Radius), deadColor)
			}
			continue
		}
		if leaderOnly {
			continue
		}

		if sensors {
			g.drawSensorLine(*pos)
		}
		rl.DrawCircle(int32(pos.X), int32(pos.Y), float32(bird.Radius), birdColor)
		if hitboxes {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(bird.Radius), hitboxColor)
		}
	}

	if haveLeader {
		if sensors {
			g.drawSensorLine(leaderPos)
		}
		rl.DrawCircle(int32(leaderPos.X), int32(leaderPos.Y), float32(leaderRadius), leaderColor)
		if hitboxes {
			rl.DrawCircleLines(int32(leaderPos.X), int32(leaderPos.Y), float32(leaderRadius), hitboxColor)
		}
	}
}

// drawSensorLine connects a bird to the gap center of the pipe it sees.
func (g *Game) drawSensorLine(pos components.Position) {
	pipe, ok := g.pipes.Nearest(pos.X)
	if !ok {
		return
	}
	rl.DrawLine(int32(pos.X), int32(pos.Y), int32(pipe.X), int32(pipe.GapY), sensorColor)
}

// drawUI draws the HUD, the leader's brain and the control panel.
func (g *Game) drawUI() {
	best := 0.0
	if genome, _ := g.pop.Best(); genome != nil {
		best = genome.Fitness()
	}

	g.hud.Draw(ui.HUDData{
		Title:        "FlapANN",
		Generation:   g.pop.Generation(),
		Alive:        g.alive,
		Population:   g.pop.Size(),
		Fitness:      best,
		BestEver:     g.hallOfFame.TopFitness(),
		Pipes:        g.maxPipes,
		Tick:         g.genTick,
		Speed:        g.controls.Speed,
		FPS:          rl.GetFPS(),
		Paused:       g.controls.Paused,
		ScreenHeight: int32(g.area.Height),
	})

	x := int32(g.area.Width) - 270
	y := int32(10)
	if g.overlays.IsEnabled(ui.OverlayBrainPanel) && g.leader.valid {
		g.brainPanel.SetPosition(x, y)
		y = g.brainPanel.Draw(g.leaderPanelData()) + 20
	}
	g.controlsPanel.SetPosition(x, y)
	g.controlsPanel.Draw(&g.controls, g.overlays)

	g.hud.DrawControls(int32(g.area.Height), controlsHelp)
}

func (g *Game) leaderPanelData() ui.BrainPanelData {
	l := g.leader
	return ui.BrainPanelData{
		Horizontal:  l.perception.Horizontal,
		Vertical:    l.perception.Vertical,
		Altitude:    l.perception.Altitude,
		Output:      l.output,
		Flapping:    l.flapping,
		GenomeID:    l.genomeID,
		Born:        l.born,
		Network:     l.network,
		Activations: l.activations,
	}
}
