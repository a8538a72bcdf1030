package anim

import (
	"fmt"

	"github.com/younwookim/remnant/internal/domain/ballistics"
	"github.com/younwookim/remnant/internal/domain/geom"
)

// Stable IDs of continuous actions
const (
	UseActionID          = "use"
	ShootEffectsActionID = "shoot_effects"
)

// Performer is the body an action is replayed on.
// Entities are always named by persistent ID.
type Performer interface {
	Jump()
	BeginUse(targetID string) bool
	EndUse(targetID string)
	DropWeapon(velocity geom.Vec3, weaponID string) bool
	PickupWeapon(weaponID string) bool
	ReplayShot(b ballistics.Bullet, trace []ballistics.TraceHit)
	SetShootEffects(on bool)
}

// Action is a discrete recorded side effect.
// Run reports whether the action stays active until stopped.
type Action interface {
	ActionID() string
	Run(p Performer) bool
	Stop(p Performer)
	isAction()
}

// Jump starts a jump
type Jump struct{}

func (Jump) isAction() {}
func (Jump) ActionID() string { return "" }
func (Jump) Stop(Performer) {}

// Run jumps
func (Jump) Run(p Performer) bool {
	p.Jump()
	return false
}

// Use begins using the target entity
type Use struct {
	TargetID   string
	Continuous bool
}

func (Use) isAction() {}
func (Use) ActionID() string { return UseActionID }

// Run starts the interaction. Unresolvable targets are skipped by the performer.
func (u Use) Run(p Performer) bool {
	return p.BeginUse(u.TargetID) && u.Continuous
}

// Stop ends the interaction
func (u Use) Stop(p Performer) {
	p.EndUse(u.TargetID)
}

// StopAction ends the active action with TargetID
type StopAction struct {
	TargetID string
}

func (StopAction) isAction() {}
func (StopAction) ActionID() string { return "" }
func (StopAction) Run(Performer) bool { return false }
func (StopAction) Stop(Performer) {}

// DropWeapon throws a weapon with the given velocity.
// An empty WeaponID drops whatever is held.
type DropWeapon struct {
	Velocity geom.Vec3
	WeaponID string
}

func (DropWeapon) isAction() {}
func (DropWeapon) ActionID() string { return "" }
func (DropWeapon) Stop(Performer) {}

// Run drops the weapon
func (d DropWeapon) Run(p Performer) bool {
	p.DropWeapon(d.Velocity, d.WeaponID)
	return false
}

// PickupWeapon picks up the weapon with WeaponID
type PickupWeapon struct {
	WeaponID string
}

func (PickupWeapon) isAction() {}
func (PickupWeapon) ActionID() string { return "" }
func (PickupWeapon) Stop(Performer) {}

// Run picks the weapon up
func (a PickupWeapon) Run(p Performer) bool {
	p.PickupWeapon(a.WeaponID)
	return false
}

// Shoot fires one pellet. Trace holds the hits recorded when it was live.
type Shoot struct {
	Bullet ballistics.Bullet
	Trace  []ballistics.TraceHit
}

func (Shoot) isAction() {}
func (Shoot) ActionID() string { return "" }
func (Shoot) Stop(Performer) {}

// Run replays the shot toward the recorded hits
func (s Shoot) Run(p Performer) bool {
	p.ReplayShot(s.Bullet, s.Trace)
	return false
}

// ShootEffects toggles muzzle effects
type ShootEffects struct {
	Continuous bool
}

func (ShootEffects) isAction() {}
func (ShootEffects) ActionID() string { return ShootEffectsActionID }

// Run turns effects on
func (s ShootEffects) Run(p Performer) bool {
	p.SetShootEffects(true)
	return s.Continuous
}

// Stop turns effects off
func (ShootEffects) Stop(p Performer) {
	p.SetShootEffects(false)
}

// Describe returns a short human-readable form of a
func Describe(a Action) string {
	switch v := a.(type) {
	case Jump:
		return "jump"
	case Use:
		return fmt.Sprintf("use %s continuous=%t", v.TargetID, v.Continuous)
	case StopAction:
		return "stop " + v.TargetID
	case DropWeapon:
		return fmt.Sprintf("drop %s", v.WeaponID)
	case PickupWeapon:
		return "pickup " + v.WeaponID
	case Shoot:
		return fmt.Sprintf("shoot hits=%d", len(v.Trace))
	case ShootEffects:
		return fmt.Sprintf("shoot_effects continuous=%t", v.Continuous)
	default:
		return fmt.Sprintf("%T", a)
	}
}
