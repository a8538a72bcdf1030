// Package geom provides the small vector math used by the simulation.
//
// Coordinates are right-handed with Z up. Angles are in degrees.
package geom

import "math"

// Vec3 is a point or direction in world units
type Vec3 struct {
	X, Y, Z float64
}

// V is shorthand for Vec3{x, y, z}
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v+o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v-o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v*s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Length returns the euclidean length
func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Length2D returns the length on the horizontal plane
func (v Vec3) Length2D() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normal returns v scaled to unit length, or the zero vector
func (v Vec3) Normal() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Distance returns |v-o|
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// IsZero reports whether all components are zero
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

// Angles is an orientation (pitch, yaw, roll) in degrees
type Angles struct {
	Pitch, Yaw, Roll float64
}

// Forward returns the unit direction the angles face
func (a Angles) Forward() Vec3 {
	p := a.Pitch * math.Pi / 180
	y := a.Yaw * math.Pi / 180
	return Vec3{
		X: math.Cos(p) * math.Cos(y),
		Y: math.Cos(p) * math.Sin(y),
		Z: -math.Sin(p),
	}
}

// Right returns the horizontal unit vector to the right of the yaw
func (a Angles) Right() Vec3 {
	y := a.Yaw * math.Pi / 180
	return Vec3{X: math.Sin(y), Y: -math.Cos(y)}
}

// RotateYaw rotates v around the Z axis by yaw degrees
func RotateYaw(v Vec3, yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	s, c := math.Sincos(r)
	return Vec3{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

// LookAt returns the angles that face from -> to
func LookAt(from, to Vec3) Angles {
	d := to.Sub(from)
	yaw := math.Atan2(d.Y, d.X) * 180 / math.Pi
	pitch := -math.Atan2(d.Z, d.Length2D()) * 180 / math.Pi
	return Angles{Pitch: pitch, Yaw: yaw}
}
