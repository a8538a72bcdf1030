package agent

import (
	"math"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
)

// Controller steers an AI agent toward the nearest live player and shoots
// when it has line of sight.
type Controller struct {
	cfg          config.AIConfig
	target       ecs.EntityID
	nextRetarget float64
}

// NewController creates an idle controller
func NewController(cfg config.AIConfig) *Controller {
	return &Controller{cfg: cfg}
}

// Target returns the entity currently chased
func (c *Controller) Target() ecs.EntityID {
	return c.target
}

// Next returns this tick's intent for a
func (c *Controller) Next(a *Agent) input.Intent {
	w := a.env.World
	now := a.env.Clock.Now()

	if now >= c.nextRetarget || !w.IsAlive(c.target) {
		c.target = c.pick(a)
		c.nextRetarget = now + c.cfg.RetargetInterval
	}

	in := input.Intent{Look: w.Transform[a.id].Eye}
	if c.target == ecs.Nil {
		return in
	}

	eye := w.EyePosition(a.id)
	aim := w.Position(c.target).Add(geom.V(0, 0, w.Hull[c.target].Maxs.Z/2))
	in.Look = geom.LookAt(eye, aim)

	dist := w.Position(a.id).Sub(w.Position(c.target)).Length2D()
	if dist > c.cfg.StopDistance {
		in.Forward = 1
	}
	if dist <= c.cfg.AttackRange && c.visible(a, eye, aim) {
		in.Attack = true
	}
	return in
}

// pick returns the closest living agent under Player control
func (c *Controller) pick(a *Agent) ecs.EntityID {
	if a.env.Roster == nil {
		return ecs.Nil
	}
	w := a.env.World
	origin := w.Position(a.id)

	best, bestDist := ecs.Nil, math.Inf(1)
	for _, other := range a.env.Roster() {
		if other == a || other.Dead() || other.Mode() != state.ModePlayer {
			continue
		}
		if !w.IsAlive(other.id) {
			continue
		}
		d := w.Position(other.id).Distance(origin)
		if d < bestDist {
			best, bestDist = other.id, d
		}
	}
	return best
}

func (c *Controller) visible(a *Agent, eye, aim geom.Vec3) bool {
	w := a.env.World
	hit, ok := w.TraceFirst(eye, aim, func(id ecs.EntityID) bool {
		return id != a.id && (ecs.Has(w.IsAgent, id) || ecs.Has(w.IsSolid, id))
	})
	return ok && hit.Entity == c.target
}
