package systems

import (
	"math"

	"github.com/pthm-cable/flap/components"
)

// NumInputs is the length of the perception vector fed to a bird's network.
const NumInputs = 3

// Perception holds the sensor values for one bird.
type Perception struct {
	Horizontal float64 // signed distance to the nearest pipe, [-1, 1]
	Vertical   float64 // signed distance to the pipe's gap center, [-1, 1]
	Altitude   float64 // bird height, [0, 1]
}

// AsSlice writes the perception into dst and returns it. dst is grown if needed.
func (p Perception) AsSlice(dst []float64) []float64 {
	if cap(dst) < NumInputs {
		dst = make([]float64, NumInputs)
	}
	dst = dst[:NumInputs]
	dst[0] = p.Horizontal
	dst[1] = p.Vertical
	dst[2] = p.Altitude
	return dst
}

// Sense computes the perception of a bird at pos relative to pipe.
// Distances are positive while the target lies ahead (right of or below the
// bird) and negative otherwise, including at zero.
func Sense(pos components.Position, pipe PipeState, b Bounds) Perception {
	xDelta := pos.X - pipe.X
	h := clamp01(Normalize(0, b.Width, math.Abs(xDelta)))
	if xDelta >= 0 {
		h = -h
	}

	yDelta := pos.Y - pipe.GapY
	v := clamp01(Normalize(0, b.Height, math.Abs(yDelta)))
	if yDelta >= 0 {
		v = -v
	}

	return Perception{
		Horizontal: h,
		Vertical:   v,
		Altitude:   clamp01(Normalize(0, b.Height, math.Abs(pos.Y))),
	}
}
