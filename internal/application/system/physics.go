package system

import (
	"math"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
)

const (
	maxPitch = 89.0
	// touching surfaces do not count as blocking
	contactSkin = 0.01
)

// PhysicsSystem moves live agents with Intent & Apply model. Animated
// agents bypass it: their frames are applied as-is.
type PhysicsSystem struct {
	movement config.MovementConfig
	agent    config.AgentConfig
	world    *ecs.World
}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem(mv config.MovementConfig, ag config.AgentConfig, w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		movement: mv,
		agent:    ag,
		world:    w,
	}
}

// AgentHull returns the standing or ducking hull for agents
func (s *PhysicsSystem) AgentHull(ducking bool) ecs.Hull {
	half := s.agent.HullWidth / 2
	height := s.agent.HullHeight
	if ducking && s.agent.DuckHeight > 0 {
		height = s.agent.DuckHeight
	}
	return ecs.Hull{Mins: geom.V(-half, -half, 0), Maxs: geom.V(half, half, height)}
}

// Update applies one tick of intent to an agent and reports whether a jump
// started this tick.
func (s *PhysicsSystem) Update(id ecs.EntityID, in input.Intent, dt float64) bool {
	w := s.world
	t := w.Transform[id]
	mot := w.Motion[id]

	// Look
	look := in.Look
	look.Pitch = math.Max(-maxPitch, math.Min(maxPitch, look.Pitch))
	t.Eye = look
	t.Rotation = geom.Angles{Yaw: look.Yaw}
	w.Transform[id] = t

	s.setDucking(id, &mot, in.Duck)

	// Horizontal acceleration toward the wish velocity
	wish := s.wishVelocity(t.Rotation, in, mot.Ducking)
	control := 1.0
	if !mot.Grounded {
		control = s.movement.AirControl
	}
	blend := math.Min(1, s.movement.Acceleration*control*dt)
	mot.Velocity.X += (wish.X - mot.Velocity.X) * blend
	mot.Velocity.Y += (wish.Y - mot.Velocity.Y) * blend

	if mot.Grounded && wish.IsZero() {
		keep := math.Max(0, 1-s.movement.Friction*dt)
		mot.Velocity.X *= keep
		mot.Velocity.Y *= keep
	}

	// Jump
	mot.DidJump = false
	if in.Jump && mot.Grounded && !mot.Ducking {
		mot.Velocity.Z = s.movement.JumpSpeed
		mot.Grounded = false
		mot.DidJump = true
	}

	s.applyGravity(&mot, dt)
	s.applyMovement(id, &mot, dt)

	w.Motion[id] = mot
	return mot.DidJump
}

// MarkJump flags a replayed jump on the agent's motion
func (s *PhysicsSystem) MarkJump(id ecs.EntityID) {
	mot := s.world.Motion[id]
	mot.DidJump = true
	s.world.Motion[id] = mot
}

// SetDucking resizes the hull of an agent whose frames are applied directly
func (s *PhysicsSystem) SetDucking(id ecs.EntityID, ducking bool) {
	mot := s.world.Motion[id]
	s.setDucking(id, &mot, ducking)
	s.world.Motion[id] = mot
}

func (s *PhysicsSystem) setDucking(id ecs.EntityID, mot *ecs.Motion, ducking bool) {
	if mot.Ducking == ducking {
		return
	}
	if !ducking && s.blocked(id, s.AgentHull(false), s.world.Position(id)) {
		return // no headroom to stand
	}
	mot.Ducking = ducking
	s.world.Hull[id] = s.AgentHull(ducking)
}

// wishVelocity converts move input to a horizontal velocity
func (s *PhysicsSystem) wishVelocity(body geom.Angles, in input.Intent, ducking bool) geom.Vec3 {
	fwd := geom.Angles{Yaw: body.Yaw}.Forward()
	right := body.Right()
	wish := fwd.Scale(in.Forward).Add(right.Scale(in.Side))
	if wish.Length() > 1 {
		wish = wish.Normal()
	}

	speed := s.movement.WalkSpeed
	if ducking {
		speed = s.movement.DuckSpeed
	}
	return wish.Scale(speed)
}

// applyGravity applies gravity acceleration to airborne agents
func (s *PhysicsSystem) applyGravity(mot *ecs.Motion, dt float64) {
	if mot.Grounded {
		return
	}
	mot.Velocity.Z -= s.movement.Gravity * dt
}

// applyMovement moves one axis at a time so agents slide along walls
func (s *PhysicsSystem) applyMovement(id ecs.EntityID, mot *ecs.Motion, dt float64) {
	hull := s.world.Hull[id]
	pos := s.world.Position(id)

	if next := pos.Add(geom.V(mot.Velocity.X*dt, 0, 0)); s.blocked(id, hull, next) {
		mot.Velocity.X = 0
	} else {
		pos = next
	}

	if next := pos.Add(geom.V(0, mot.Velocity.Y*dt, 0)); s.blocked(id, hull, next) {
		mot.Velocity.Y = 0
	} else {
		pos = next
	}

	if mot.Grounded && !s.supported(id, hull, pos) {
		mot.Grounded = false
	}
	if !mot.Grounded {
		next := pos.Add(geom.V(0, 0, mot.Velocity.Z*dt))
		switch {
		case next.Z <= ecs.FloorZ:
			next.Z = ecs.FloorZ
			mot.Velocity.Z = 0
			mot.Grounded = true
			pos = next
		case s.blocked(id, hull, next):
			if mot.Velocity.Z < 0 {
				mot.Grounded = true
			}
			mot.Velocity.Z = 0
		default:
			pos = next
		}
	}

	s.world.SetPosition(id, pos)
}

// supported reports whether something is directly below the hull
func (s *PhysicsSystem) supported(id ecs.EntityID, hull ecs.Hull, pos geom.Vec3) bool {
	if pos.Z <= ecs.FloorZ+contactSkin {
		return true
	}
	return s.blocked(id, hull, pos.Add(geom.V(0, 0, -2*contactSkin)))
}

// blocked reports whether hull placed at pos intersects a solid entity
func (s *PhysicsSystem) blocked(id ecs.EntityID, hull ecs.Hull, pos geom.Vec3) bool {
	inner := ecs.Hull{
		Mins: hull.Mins.Add(geom.V(contactSkin, contactSkin, contactSkin)),
		Maxs: hull.Maxs.Sub(geom.V(contactSkin, contactSkin, contactSkin)),
	}
	for _, solid := range ecs.Tagged(s.world.IsSolid) {
		if solid == id {
			continue
		}
		other, ok := s.world.Hull[solid]
		if !ok {
			continue
		}
		if inner.Overlaps(pos, other, s.world.Position(solid)) {
			return true
		}
	}
	return false
}
