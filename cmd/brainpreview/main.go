// Brain preview tool - shows where a network decides to flap.
//
// Usage: go run ./cmd/brainpreview -hall out/hall_of_fame.json
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/neural"
	"github.com/pthm-cable/flap/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 128
)

// source builds the network being previewed: a hall of fame entry, or a
// random network when no hall is loaded.
type source struct {
	hall     *telemetry.HallOfFame
	topology neural.Topology
	hidden   neural.Activation
}

func (s *source) count() int {
	if s.hall == nil {
		return 0
	}
	return s.hall.Size()
}

func (s *source) network(entry int, seed int64) (*neural.Network, string, error) {
	if s.hall != nil && s.hall.Size() > 0 {
		e := s.hall.Entries()[entry]
		nn, err := neural.NewNetworkFromWeights(s.topology, e.Weights, s.hidden)
		label := fmt.Sprintf("Genome #%d (gen %d) fitness %.2f, %d pipes", e.GenomeID, e.Generation, e.Fitness, e.PipesPassed)
		return nn, label, err
	}
	nn, err := neural.NewNetwork(s.topology, rand.New(rand.NewSource(seed)), s.hidden)
	return nn, fmt.Sprintf("Random network, seed %d", seed), err
}

func main() {
	hallPath := flag.String("hall", "", "hall_of_fame.json to preview (empty = random networks)")
	configPath := flag.String("config", "", "Config for the random network topology")
	flag.Parse()

	src := &source{}
	if *hallPath != "" {
		hof, err := telemetry.LoadHallOfFameFromFile(*hallPath)
		if err != nil {
			log.Fatalf("failed to load hall of fame: %v", err)
		}
		src.hall = hof
		src.topology, src.hidden = hof.Shape()
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		src.topology = neural.Topology(cfg.Neural.Topology)
		if src.hidden, err = neural.ParseActivation(cfg.Neural.HiddenActivation); err != nil {
			log.Fatalf("invalid activation: %v", err)
		}
	}
	if src.topology.Inputs() != 3 {
		log.Fatalf("topology %v does not take 3 inputs", src.topology)
	}

	rl.InitWindow(windowWidth, windowHeight, "Brain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	grid := make([]float64, gridSize*gridSize)
	altitude := float32(0.5)
	entry := 0
	seed := int64(1)
	label := ""
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			nn, l, err := src.network(entry, seed)
			if err != nil {
				log.Fatalf("building network: %v", err)
			}
			if err := decisionGrid(nn, gridSize, float64(altitude), grid); err != nil {
				log.Fatalf("evaluating network: %v", err)
			}
			rl.UpdateTexture(texture, gridPixels(grid))
			label = l
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawLine(10+previewSize/2, 10, 10+previewSize/2, 10+previewSize, rl.Gray)
		rl.DrawLine(10, 10+previewSize/2, 10+previewSize, 10+previewSize/2, rl.Gray)

		statsY := int32(previewSize + 25)
		rl.DrawText(label, 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Flaps in %.0f%% of the plane. x: horizontal, y: vertical", flapShare(grid)*100), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Decision Map", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Altitude (0 = top, 1 = bottom)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newAltitude := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			altitude, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", altitude), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newAltitude != altitude {
			altitude = newAltitude
			needsRegen = true
		}
		panelY += 45

		if n := src.count(); n > 1 {
			rl.DrawText("Hall of fame entry", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newEntry := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"1", fmt.Sprint(n),
				float32(entry), 0, float32(n-1),
			)
			rl.DrawText(fmt.Sprintf("%d", entry+1), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if int(newEntry+0.5) != entry {
				entry = int(newEntry + 0.5)
				needsRegen = true
			}
			panelY += 45
		} else if src.count() == 0 {
			if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
				seed = int64(rl.GetRandomValue(1, 99999))
				needsRegen = true
			}
			panelY += 45
		}

		rl.DrawText("Orange: flap   Blue: glide", int32(panelX), int32(panelY), 16, rl.DarkGray)
		rl.DrawText("Press C to copy the weights to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.Gray)

		if rl.IsKeyPressed(rl.KeyC) {
			if nn, _, err := src.network(entry, seed); err == nil {
				rl.SetClipboardText(fmt.Sprint(nn.Weights()))
			}
		}

		rl.EndDrawing()
	}
}
