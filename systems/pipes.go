package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flap/components"
	"github.com/pthm-cable/flap/config"
)

// PipeState is a flat snapshot of one pipe pair, refreshed every tick.
type PipeState struct {
	X     float64 // left edge
	GapY  float64 // gap center
	Width float64
	Gap   float64
	ID    uint32
}

// Right returns the x coordinate of the pipe's right edge.
func (p PipeState) Right() float64 {
	return p.X + p.Width
}

// GapTop returns the y coordinate of the upper pipe's bottom edge.
func (p PipeState) GapTop() float64 {
	return p.GapY - p.Gap/2
}

// GapBottom returns the y coordinate of the lower pipe's top edge.
func (p PipeState) GapBottom() float64 {
	return p.GapY + p.Gap/2
}

// PipeSystem scrolls, culls and spawns pipe pairs, and answers pipe queries.
type PipeSystem struct {
	mapper *ecs.Map2[components.Position, components.Pipe]
	filter ecs.Filter2[components.Position, components.Pipe]
	birds  ecs.Filter2[components.Position, components.Bird]

	cfg    config.PipesConfig
	bounds Bounds
	dt     float64
	bonus  float64
	rng    *rand.Rand

	nextID uint32
	pipes  []PipeState // sorted by X, ascending
}

// NewPipeSystem creates a new pipe system. The course is empty until Reset.
func NewPipeSystem(w *ecs.World, cfg *config.Config, rng *rand.Rand) *PipeSystem {
	return &PipeSystem{
		mapper: ecs.NewMap2[components.Position, components.Pipe](w),
		filter: *ecs.NewFilter2[components.Position, components.Pipe](w),
		birds:  *ecs.NewFilter2[components.Position, components.Bird](w),
		cfg:    cfg.Pipes,
		bounds: BoundsFromConfig(cfg),
		dt:     cfg.Physics.DT,
		bonus:  cfg.Score.PipeBonus,
		rng:    rng,
	}
}

// Reset removes every pipe and places the first pair at the right screen edge.
func (s *PipeSystem) Reset(w *ecs.World) {
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		w.RemoveEntity(e)
	}

	s.nextID = 0
	s.spawn(s.bounds.Width)
	s.refresh()
}

// Update scrolls pipes left, removes pipes that left the screen and spawns
// a new pair once the last one is inside the window.
func (s *PipeSystem) Update(w *ecs.World) {
	var toRemove []ecs.Entity
	lastX := math.Inf(-1)

	query := s.filter.Query()
	for query.Next() {
		pos, pipe := query.Get()
		pos.X -= s.cfg.Speed * s.dt
		if pos.X+pipe.Width < 0 {
			toRemove = append(toRemove, query.Entity())
			continue
		}
		if pos.X > lastX {
			lastX = pos.X
		}
	}

	for _, e := range toRemove {
		w.RemoveEntity(e)
	}

	if math.IsInf(lastX, -1) {
		s.spawn(s.bounds.Width)
	} else if lastX < s.bounds.Width {
		s.spawn(lastX + s.spacing())
	}

	s.refresh()
}

// spawn adds a pipe pair with its left edge at x and a random gap center.
func (s *PipeSystem) spawn(x float64) {
	lo := s.cfg.GapMargin + s.cfg.Gap/2
	hi := s.bounds.GroundY - s.cfg.GapMargin - s.cfg.Gap/2
	gapY := lo
	if hi > lo {
		gapY = lo + s.rng.Float64()*(hi-lo)
	}

	pos := components.Position{X: x, Y: gapY}
	pipe := components.Pipe{Width: s.cfg.Width, Gap: s.cfg.Gap, ID: s.nextID}
	s.mapper.NewEntity(&pos, &pipe)
	s.nextID++
}

func (s *PipeSystem) spacing() float64 {
	return s.cfg.SpacingMin + s.rng.Float64()*(s.cfg.SpacingMax-s.cfg.SpacingMin)
}

// refresh rebuilds the pipe snapshot, ordered by X.
func (s *PipeSystem) refresh() {
	s.pipes = s.pipes[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, pipe := query.Get()
		s.pipes = append(s.pipes, PipeState{
			X:     pos.X,
			GapY:  pos.Y,
			Width: pipe.Width,
			Gap:   pipe.Gap,
			ID:    pipe.ID,
		})
	}
	// Insertion sort: a handful of pipes, almost always already ordered
	for i := 1; i < len(s.pipes); i++ {
		for j := i; j > 0 && s.pipes[j].X < s.pipes[j-1].X; j-- {
			s.pipes[j], s.pipes[j-1] = s.pipes[j-1], s.pipes[j]
		}
	}
}

// Pipes returns the current pipe snapshot. The slice is reused between ticks.
func (s *PipeSystem) Pipes() []PipeState {
	return s.pipes
}

// Nearest returns the closest pipe whose right edge is still ahead of x.
func (s *PipeSystem) Nearest(x float64) (PipeState, bool) {
	for _, p := range s.pipes {
		if p.Right() >= x {
			return p, true
		}
	}
	return PipeState{}, false
}

// Collides reports whether a circle at pos with radius r touches any pipe.
func (s *PipeSystem) Collides(pos components.Position, r float64) bool {
	for _, p := range s.pipes {
		if p.X > pos.X+r {
			break
		}
		if CircleHitsPipe(pos, r, p, s.bounds.GroundY) {
			return true
		}
	}
	return false
}

// CircleHitsPipe tests a circle against the upper and lower rectangles of a pipe pair.
func CircleHitsPipe(pos components.Position, r float64, p PipeState, groundY float64) bool {
	return circleHitsRect(pos.X, pos.Y, r, p.X, 0, p.Right(), p.GapTop()) ||
		circleHitsRect(pos.X, pos.Y, r, p.X, p.GapBottom(), p.Right(), groundY)
}

func circleHitsRect(cx, cy, r, x0, y0, x1, y1 float64) bool {
	if y1 <= y0 {
		return false
	}
	nx := clampFloat(cx, x0, x1)
	ny := clampFloat(cy, y0, y1)
	return distanceSq(cx, cy, nx, ny) < r*r
}

// AwardPasses credits every live bird whose left edge has cleared a pipe's
// right edge. Each pipe is credited once per bird. Returns the number of
// credits handed out.
func (s *PipeSystem) AwardPasses(w *ecs.World) int {
	credited := 0
	query := s.birds.Query()
	for query.Next() {
		pos, bird := query.Get()
		if bird.Dead {
			continue
		}
		for _, p := range s.pipes {
			if p.ID < bird.NextPipe {
				continue
			}
			if p.Right() >= pos.X-bird.Radius {
				break
			}
			bird.Score += s.bonus
			bird.PipesPassed++
			bird.NextPipe = p.ID + 1
			credited++
		}
	}
	return credited
}
