// Package ballistics describes bullets and the reduced hit traces recorded
// with them.
package ballistics

import (
	"math"

	"github.com/younwookim/remnant/internal/domain/geom"
)

// MaxRange is how far a bullet trace reaches
const MaxRange = 2048.0

// FalloffMode selects the damage-over-distance curve
type FalloffMode int

const (
	FalloffConstant FalloffMode = iota
	FalloffLinear
	FalloffExponential
)

// String returns the string representation of the falloff mode
func (m FalloffMode) String() string {
	switch m {
	case FalloffConstant:
		return "constant"
	case FalloffLinear:
		return "linear"
	case FalloffExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// ParseFalloffMode maps a config name to a mode
func ParseFalloffMode(s string) (FalloffMode, bool) {
	switch s {
	case "", "constant":
		return FalloffConstant, true
	case "linear":
		return FalloffLinear, true
	case "exponential":
		return FalloffExponential, true
	default:
		return FalloffConstant, false
	}
}

// Falloff reduces damage with distance
type Falloff struct {
	Mode   FalloffMode
	Factor float64
}

// Apply returns the damage left after travelling distance. Never negative.
//
//	constant:    base
//	linear:      base - distance*factor
//	exponential: base - (factor+1)^distance
func (f Falloff) Apply(base, distance float64) float64 {
	var dmg float64
	switch f.Mode {
	case FalloffLinear:
		dmg = base - distance*f.Factor
	case FalloffExponential:
		dmg = base - math.Pow(f.Factor+1, distance)
	default:
		dmg = base
	}
	return math.Max(0, dmg)
}

// Bullet is one pellet's parameters. Origin and Direction are the ray it
// was fired along; Direction is a unit vector.
type Bullet struct {
	Origin    geom.Vec3
	Direction geom.Vec3
	Damage    float64
	Force     float64
	Range     float64
	Spread    float64
	Falloff   Falloff
}

// Reach returns the bullet range, defaulting to MaxRange
func (b Bullet) Reach() float64 {
	if b.Range <= 0 {
		return MaxRange
	}
	return b.Range
}

// End returns the point the bullet's ray reaches at full range
func (b Bullet) End() geom.Vec3 {
	return b.Origin.Add(b.Direction.Scale(b.Reach()))
}

// TraceHit is the reduced record of one entity a bullet struck.
// LocalHit is relative to the entity origin so it survives the entity
// moving or being recreated elsewhere.
type TraceHit struct {
	EntityID  string
	LocalHit  geom.Vec3
	Normal    geom.Vec3
	Direction geom.Vec3
	Distance  float64
}
