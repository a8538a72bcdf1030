package ecs

import (
	"math"
	"sort"

	"github.com/younwookim/remnant/internal/domain/geom"
)

// Hit is one entity crossed by a ray
type Hit struct {
	Entity   EntityID
	Position geom.Vec3 // world hit point
	Normal   geom.Vec3
	Distance float64 // from ray start
}

// TraceFilter selects entities a trace may hit. Nil accepts all.
type TraceFilter func(id EntityID) bool

// Ignore returns a filter that skips the given entities
func Ignore(ids ...EntityID) TraceFilter {
	return func(id EntityID) bool {
		for _, skip := range ids {
			if id == skip {
				return false
			}
		}
		return true
	}
}

// Trace casts a segment from start to end against every unparented hull
// and returns the hits ordered by distance.
func (w *World) Trace(start, end geom.Vec3, filter TraceFilter) []Hit {
	dir := end.Sub(start)
	length := dir.Length()
	if length == 0 {
		return nil
	}

	var hits []Hit
	for id, hull := range w.Hull {
		if _, carried := w.Parent[id]; carried {
			continue
		}
		if filter != nil && !filter(id) {
			continue
		}
		mins, maxs := hull.Bounds(w.Position(id))
		t, normal, ok := intersectBox(start, dir, mins, maxs)
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Entity:   id,
			Position: start.Add(dir.Scale(t)),
			Normal:   normal,
			Distance: t * length,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Entity < hits[j].Entity
		}
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// TraceFirst returns the nearest hit
func (w *World) TraceFirst(start, end geom.Vec3, filter TraceFilter) (Hit, bool) {
	hits := w.Trace(start, end, filter)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// intersectBox is a slab test of start+dir*t, t in [0,1], against an AABB.
// A ray starting inside the box hits at t=0.
func intersectBox(start, dir, mins, maxs geom.Vec3) (float64, geom.Vec3, bool) {
	tmin, tmax := 0.0, 1.0
	var normal geom.Vec3

	o := [3]float64{start.X, start.Y, start.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{mins.X, mins.Y, mins.Z}
	hi := [3]float64{maxs.X, maxs.Y, maxs.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(d[axis]) < 1e-12 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, geom.Vec3{}, false
			}
			continue
		}
		inv := 1 / d[axis]
		t1 := (lo[axis] - o[axis]) * inv
		t2 := (hi[axis] - o[axis]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tmin {
			tmin = t1
			normal = axisNormal(axis, sign)
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, geom.Vec3{}, false
		}
	}
	return tmin, normal, true
}

func axisNormal(axis int, sign float64) geom.Vec3 {
	switch axis {
	case 0:
		return geom.Vec3{X: sign}
	case 1:
		return geom.Vec3{Y: sign}
	default:
		return geom.Vec3{Z: sign}
	}
}
