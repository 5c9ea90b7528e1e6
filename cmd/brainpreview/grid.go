package main

import (
	"image/color"

	"github.com/pthm-cable/flap/neural"
)

// decisionGrid fills grid (size*size, row-major) with the network's action
// output over horizontal and vertical perception in [-1, 1] at a fixed
// altitude. Columns run from h=-1 to h=+1, rows from v=+1 down to v=-1.
func decisionGrid(nn *neural.Network, size int, altitude float64, grid []float64) error {
	input := make([]float64, 3)
	input[2] = altitude
	for y := 0; y < size; y++ {
		input[1] = 1 - 2*(float64(y)+0.5)/float64(size)
		for x := 0; x < size; x++ {
			input[0] = -1 + 2*(float64(x)+0.5)/float64(size)
			out, err := nn.Infer(input)
			if err != nil {
				return err
			}
			grid[y*size+x] = out[neural.ActionOutput]
		}
	}
	return nil
}

// flapShare returns the fraction of cells where the bird would flap.
func flapShare(grid []float64) float64 {
	if len(grid) == 0 {
		return 0
	}
	n := 0
	for _, v := range grid {
		if v > neural.ActionThreshold {
			n++
		}
	}
	return float64(n) / float64(len(grid))
}

// gridPixels maps outputs to colors: blue shades glide, orange shades flap.
func gridPixels(grid []float64) []color.RGBA {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		v = min(max(v, 0), 1)
		if v > neural.ActionThreshold {
			t := (v - neural.ActionThreshold) / (1 - neural.ActionThreshold)
			pixels[i] = color.RGBA{R: uint8(200 + t*55), G: uint8(140 - t*60), B: uint8(40), A: 255}
		} else {
			t := v / neural.ActionThreshold
			pixels[i] = color.RGBA{R: uint8(10 + t*50), G: uint8(30 + t*100), B: uint8(80 + t*140), A: 255}
		}
	}
	return pixels
}
