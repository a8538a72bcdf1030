package ecs

import (
	"math"

	"github.com/younwookim/remnant/internal/domain/geom"
)

// FloorZ is the height of the arena floor
const FloorZ = 0.0

// LooseBodyConfig tunes free-falling props (dropped weapons)
type LooseBodyConfig struct {
	Gravity  float64 // units/s²
	Friction float64 // fraction of horizontal speed kept per second on the floor
}

// UpdateLooseBodies integrates gravity for unparented, non-agent entities
// that carry Motion. Bodies come to rest on the floor.
func UpdateLooseBodies(w *World, cfg LooseBodyConfig, dt float64) {
	for id, mot := range w.Motion {
		if Has(w.IsAgent, id) {
			continue
		}
		if _, carried := w.Parent[id]; carried {
			continue
		}

		pos := w.Position(id)
		if !mot.Grounded {
			mot.Velocity.Z -= cfg.Gravity * dt
		}
		pos = pos.Add(mot.Velocity.Scale(dt))

		if pos.Z <= FloorZ {
			pos.Z = FloorZ
			mot.Velocity.Z = 0
			mot.Grounded = true
		}
		if mot.Grounded {
			keep := math.Pow(cfg.Friction, dt)
			mot.Velocity.X *= keep
			mot.Velocity.Y *= keep
			if mot.Velocity.Length2D() < 1 {
				mot.Velocity = geom.Vec3{}
			}
		}

		w.SetPosition(id, pos)
		w.Motion[id] = mot
	}
}

// FollowParents snaps carried entities to their carrier's origin
func FollowParents(w *World) {
	for child, parent := range w.Parent {
		if !w.Exists(parent) {
			delete(w.Parent, child)
			continue
		}
		t := w.Transform[child]
		t.Position = w.Position(parent)
		t.Rotation = w.Transform[parent].Rotation
		w.Transform[child] = t
	}
}
