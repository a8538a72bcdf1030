package system

import (
	"math"

	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// FindUsable returns the nearest usable prop or loose weapon along the
// user's view within reach. Solid entities and agents block the search.
func FindUsable(w *ecs.World, user ecs.EntityID, reach float64) (ecs.EntityID, bool) {
	eye := w.EyePosition(user)
	dir := w.Transform[user].Eye.Forward()

	for _, h := range w.Trace(eye, eye.Add(dir.Scale(reach)), ecs.Ignore(user)) {
		if u, ok := entity.UsableOf(w, h.Entity); ok {
			if !u.IsUsable(w, h.Entity, user) {
				return ecs.Nil, false
			}
			return h.Entity, true
		}
		if ecs.Has(w.IsWeapon, h.Entity) {
			return h.Entity, true
		}
		if ecs.Has(w.IsSolid, h.Entity) || ecs.Has(w.IsAgent, h.Entity) {
			return ecs.Nil, false
		}
	}
	return ecs.Nil, false
}

// NearestWeapon returns the closest loose weapon around the agent's feet
// within the given horizontal and vertical distances.
func NearestWeapon(w *ecs.World, agent ecs.EntityID, maxHorizontal, maxVertical float64) (ecs.EntityID, bool) {
	origin := w.Position(agent)
	best, bestDist := ecs.Nil, math.Inf(1)

	for _, id := range ecs.Tagged(w.IsWeapon) {
		if _, carried := w.Parent[id]; carried {
			continue
		}
		d := w.Position(id).Sub(origin)
		if math.Abs(d.Z) > maxVertical {
			continue
		}
		h := d.Length2D()
		if h > maxHorizontal || h >= bestDist {
			continue
		}
		best, bestDist = id, h
	}
	return best, best != ecs.Nil
}

// TouchTriggers updates which trigger volumes the agent is inside and
// returns the ones it just entered, in entity order.
func TouchTriggers(w *ecs.World, agent ecs.EntityID) []ecs.EntityID {
	hull, ok := w.Hull[agent]
	if !ok {
		return nil
	}
	pos := w.Position(agent)

	var entered []ecs.EntityID
	for _, id := range w.Entities() {
		vol, ok := w.Volume[id]
		if !ok {
			continue
		}
		trig, ok := w.Behavior[id].(*entity.UnlinkTrigger)
		if !ok {
			continue
		}
		if vol.Overlaps(w.Position(id), hull, pos) {
			if trig.Enter(agent) {
				entered = append(entered, id)
			}
		} else {
			trig.Leave(agent)
		}
	}
	return entered
}

// DropVelocity rotates the configured drop velocity into the agent's yaw
func DropVelocity(base geom.Vec3, yaw float64) geom.Vec3 {
	return geom.RotateYaw(base, yaw)
}
