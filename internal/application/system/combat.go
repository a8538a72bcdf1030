package system

import (
	"math/rand"

	"github.com/younwookim/remnant/internal/domain/ballistics"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/ecs"
)

// impulseScale converts bullet force to velocity on loose props
const impulseScale = 100.0

// CombatSystem handles hitscan fire and damage
type CombatSystem struct {
	world    *ecs.World
	registry *persist.Registry
	rng      *rand.Rand

	// Event callbacks
	OnKill func(victim, attacker ecs.EntityID)
}

// NewCombatSystem creates a new combat system. Spread is drawn from a
// seeded source so runs are reproducible.
func NewCombatSystem(w *ecs.World, reg *persist.Registry, seed int64) *CombatSystem {
	return &CombatSystem{
		world:    w,
		registry: reg,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Pellets returns the bullets for one trigger pull from origin along aim
func (s *CombatSystem) Pellets(kind WeaponKind, origin geom.Vec3, aim geom.Angles) []ballistics.Bullet {
	fwd := aim.Forward()
	right := aim.Right()
	up := geom.Angles{Pitch: aim.Pitch - 90, Yaw: aim.Yaw}.Forward()

	out := make([]ballistics.Bullet, 0, kind.Pellets)
	for i := 0; i < kind.Pellets; i++ {
		b := kind.Bullet
		b.Origin = origin
		dir := fwd
		if b.Spread > 0 {
			sx := (s.rng.Float64()*2 - 1) * b.Spread
			sy := (s.rng.Float64()*2 - 1) * b.Spread
			dir = dir.Add(right.Scale(sx)).Add(up.Scale(sy))
		}
		b.Direction = dir.Normal()
		out = append(out, b)
	}
	return out
}

// Fire traces a bullet from its origin, applies damage and returns the hits
// on entities that carry a persistent ID.
func (s *CombatSystem) Fire(shooter ecs.EntityID, b ballistics.Bullet) []ballistics.TraceHit {
	var out []ballistics.TraceHit
	for _, h := range s.bulletTrace(shooter, b.Origin, b.End()) {
		if pid, ok := s.registry.IDOf(h.Entity, false); ok {
			out = append(out, ballistics.TraceHit{
				EntityID:  pid,
				LocalHit:  h.Position.Sub(s.world.Position(h.Entity)),
				Normal:    h.Normal,
				Direction: b.Direction,
				Distance:  h.Distance,
			})
		}
		s.dealDamage(h, b, shooter)
	}
	return out
}

// ReplayShot reconstructs a recorded shot. With no recorded hits the bullet
// is fired fresh. Otherwise the trace snakes from hit to hit toward each
// recorded point on the entity's current position, and stops as soon as a
// segment no longer reaches its target.
func (s *CombatSystem) ReplayShot(shooter ecs.EntityID, b ballistics.Bullet, trace []ballistics.TraceHit) {
	if len(trace) == 0 {
		s.Fire(shooter, b)
		return
	}

	start := b.Origin
	ignore := shooter
	for _, th := range trace {
		target, ok := s.registry.Resolve(th.EntityID)
		if !ok {
			continue
		}
		end := s.world.Position(target).Add(th.LocalHit)
		// extend slightly so a hit on the box face still registers
		dir := end.Sub(start).Normal()
		hits := s.bulletTrace(ignore, start, end.Add(dir))

		if !s.damageUntil(hits, b, shooter, target) {
			break
		}
		start = end
		ignore = target
	}
}

func (s *CombatSystem) damageUntil(hits []ecs.Hit, b ballistics.Bullet, shooter, target ecs.EntityID) bool {
	for _, h := range hits {
		s.dealDamage(h, b, shooter)
		if h.Entity == target {
			return true
		}
	}
	return false
}

// bulletTrace returns the hits along start->end up to and including the
// first entity a bullet cannot pass.
func (s *CombatSystem) bulletTrace(ignore ecs.EntityID, start, end geom.Vec3) []ecs.Hit {
	hits := s.world.Trace(start, end, func(id ecs.EntityID) bool {
		if id == ignore {
			return false
		}
		return ecs.Has(s.world.IsAgent, id) || ecs.Has(s.world.IsSolid, id) || ecs.Has(s.world.IsWeapon, id)
	})

	for i, h := range hits {
		if !s.penetrable(h.Entity) {
			return hits[:i+1]
		}
	}
	return hits
}

// penetrable reports whether bullets continue through id. Only loose
// weapons are.
func (s *CombatSystem) penetrable(id ecs.EntityID) bool {
	return ecs.Has(s.world.IsWeapon, id)
}

// dealDamage applies falloff damage to agents and knocks loose props
func (s *CombatSystem) dealDamage(h ecs.Hit, b ballistics.Bullet, attacker ecs.EntityID) {
	w := s.world
	if !w.Exists(h.Entity) {
		return
	}

	if hp, ok := w.Health[h.Entity]; ok {
		dist := h.Position.Distance(b.Origin)
		killed := hp.TakeDamage(b.Falloff.Apply(b.Damage, dist))
		w.Health[h.Entity] = hp
		if killed && s.OnKill != nil {
			s.OnKill(h.Entity, attacker)
		}
		return
	}

	if mot, ok := w.Motion[h.Entity]; ok && !ecs.Has(w.IsAgent, h.Entity) {
		mot.Velocity = mot.Velocity.Add(b.Direction.Scale(b.Force * impulseScale))
		mot.Grounded = false
		w.Motion[h.Entity] = mot
	}
}
