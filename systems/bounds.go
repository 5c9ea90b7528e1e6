package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// Bounds represents the playfield: screen size and the top of the ground.
type Bounds struct {
	Width, Height float64
	GroundY       float64
}

// BoundsFromConfig builds Bounds from derived config values.
func BoundsFromConfig(cfg *config.Config) Bounds {
	return Bounds{
		Width:   cfg.Derived.ScreenW,
		Height:  cfg.Derived.ScreenH,
		GroundY: cfg.Derived.GroundY,
	}
}

// BoundarySystem kills birds that leave the top of the screen or hit the ground.
type BoundarySystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Bird]
	bounds Bounds
	drift  float64
}

// NewBoundarySystem creates a new boundary system.
func NewBoundarySystem(w *ecs.World, bounds Bounds, drift float64) *BoundarySystem {
	return &BoundarySystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Bird](w),
		bounds: bounds,
		drift:  drift,
	}
}

// Update applies boundary rules and returns the number of birds killed this tick.
func (s *BoundarySystem) Update(w *ecs.World) int {
	killed := 0
	query := s.filter.Query()
	for query.Next() {
		pos, vel, bird := query.Get()
		if s.apply(pos, vel, bird) {
			killed++
		}
	}
	return killed
}

func (s *BoundarySystem) apply(pos *components.Position, vel *components.Velocity, bird *components.Bird) bool {
	killed := false
	if pos.Y < 0 {
		killed = Kill(vel, bird, s.drift)
	}

	// Grounded birds rest on the ground and slide left with the course
	if pos.Y+bird.Radius > s.bounds.GroundY {
		if Kill(vel, bird, s.drift) {
			killed = true
		}
		pos.Y = s.bounds.GroundY - bird.Radius
		vel.X = -s.drift
		vel.Y = 0
	}
	return killed
}
