package ecs

import "github.com/younwookim/remnant/internal/domain/geom"

// Transform is an entity's placement in the world
type Transform struct {
	Position geom.Vec3
	Rotation geom.Angles // body
	Eye      geom.Angles // view, agents only
}

// Motion is kinematic state integrated by the movement systems
type Motion struct {
	Velocity geom.Vec3
	Grounded bool
	Ducking  bool
	DidJump  bool // set on the tick a jump started
}

// Hull is an axis-aligned box relative to Transform.Position
type Hull struct {
	Mins, Maxs geom.Vec3
}

// Bounds returns the hull in world coordinates
func (h Hull) Bounds(origin geom.Vec3) (mins, maxs geom.Vec3) {
	return origin.Add(h.Mins), origin.Add(h.Maxs)
}

// Contains reports whether p lies inside the hull placed at origin
func (h Hull) Contains(origin, p geom.Vec3) bool {
	mins, maxs := h.Bounds(origin)
	return p.X >= mins.X && p.X <= maxs.X &&
		p.Y >= mins.Y && p.Y <= maxs.Y &&
		p.Z >= mins.Z && p.Z <= maxs.Z
}

// Overlaps reports whether two placed hulls intersect
func (h Hull) Overlaps(origin geom.Vec3, other Hull, otherOrigin geom.Vec3) bool {
	amin, amax := h.Bounds(origin)
	bmin, bmax := other.Bounds(otherOrigin)
	return amin.X <= bmax.X && amax.X >= bmin.X &&
		amin.Y <= bmax.Y && amax.Y >= bmin.Y &&
		amin.Z <= bmax.Z && amax.Z >= bmin.Z
}

// Health represents entity health
type Health struct {
	Current float64
	Max     float64
}

// TakeDamage applies damage, returns true if this hit killed the entity
func (h *Health) TakeDamage(amount float64) bool {
	if h.Current <= 0 {
		return false
	}
	h.Current -= amount
	return h.Current <= 0
}

// IsAlive returns true if health > 0
func (h *Health) IsAlive() bool {
	return h.Current > 0
}

// Persistent holds the cross-round identity string
type Persistent struct {
	ID string
}
