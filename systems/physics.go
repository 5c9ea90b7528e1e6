// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// BirdPhysicsSystem integrates bird motion under gravity.
type BirdPhysicsSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Bird]
	dt     float64

	gravity float64
	maxFall float64
	drift   float64
}

// NewBirdPhysicsSystem creates a new physics system.
func NewBirdPhysicsSystem(w *ecs.World, cfg config.PhysicsConfig) *BirdPhysicsSystem {
	return &BirdPhysicsSystem{
		filter:  *ecs.NewFilter3[components.Position, components.Velocity, components.Bird](w),
		dt:      cfg.DT,
		gravity: cfg.Gravity,
		maxFall: cfg.MaxFallSpeed,
		drift:   cfg.DeadDriftSpeed,
	}
}

// Update runs the physics system. Live birds accumulate survival score.
func (s *BirdPhysicsSystem) Update(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, bird := query.Get()
		s.step(pos, vel, bird)
	}
}

func (s *BirdPhysicsSystem) step(pos *components.Position, vel *components.Velocity, bird *components.Bird) {
	vel.Y += s.gravity * s.dt
	if vel.Y > s.maxFall {
		vel.Y = s.maxFall
	}

	// Dead birds are carried off screen to the left
	if bird.Dead {
		vel.X = -s.drift
	}

	pos.X += vel.X * s.dt
	pos.Y += vel.Y * s.dt

	if !bird.Dead {
		bird.Score += s.dt
		bird.AliveTicks++
	}
}

// Flap sets an upward velocity. Dead birds cannot flap.
func Flap(vel *components.Velocity, bird *components.Bird, speed float64) bool {
	if bird.Dead {
		return false
	}
	vel.Y = -speed
	return true
}

// Kill marks a bird dead and starts its drift.
func Kill(vel *components.Velocity, bird *components.Bird, drift float64) bool {
	if bird.Dead {
		return false
	}
	bird.Dead = true
	vel.X = -drift
	return true
}
