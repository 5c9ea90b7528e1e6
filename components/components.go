// Package components defines ECS components for the simulation.
package components

// Position represents an entity's screen position. For birds it is the
// center; for pipes it is the left edge (X) and gap center (Y).
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in pixels per second.
type Velocity struct {
	X, Y float64
}

// Bird holds per-bird simulation state.
type Bird struct {
	Index       int // population slot steering this bird
	Radius      float64
	Dead        bool
	Score       float64 // survival score, monotonically increasing while alive
	PipesPassed int
	NextPipe    uint32 // ID of the next pipe this bird can be credited for
	AliveTicks  int32
}

// Pipe holds one upper/lower pipe pair.
type Pipe struct {
	Width float64
	Gap   float64 // vertical opening, centered on Position.Y
	ID    uint32  // spawn order, used to credit each pipe once per bird
}
