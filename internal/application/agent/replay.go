package agent

import (
	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/domain/ballistics"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/domain/timeline"
	"github.com/younwookim/remnant/internal/ecs"
)

// World returns the simulation world
func (a *Agent) World() *ecs.World {
	return a.env.World
}

// Self returns the body entity
func (a *Agent) Self() ecs.EntityID {
	return a.id
}

// Alive reports whether the body is alive
func (a *Agent) Alive() bool {
	return !a.dead && a.env.World.IsAlive(a.id)
}

// Lookup resolves a persistent ID to a live entity
func (a *Agent) Lookup(persistentID string) (timeline.Target, bool) {
	w := a.env.World
	e, ok := a.env.Registry.Resolve(persistentID)
	if !ok {
		return timeline.Target{}, false
	}
	_, carried := w.Parent[e]
	return timeline.Target{
		Entity:   e,
		Position: w.Position(e),
		Carried:  carried,
		Behavior: w.Behavior[e],
	}, true
}

// CanSwapWeapon reports whether the agent is unarmed or may drop its weapon
func (a *Agent) CanSwapWeapon() bool {
	_, wp, ok := entity.HeldWeapon(a.env.World, a.id)
	return !ok || wp.CanDrop()
}

// Animated reports whether a timeline drives the agent
func (a *Agent) Animated() bool {
	return a.mode == state.ModeAnimated
}

// Armed reports whether the agent holds a weapon
func (a *Agent) Armed() bool {
	_, _, ok := entity.HeldWeapon(a.env.World, a.id)
	return ok
}

// ApplyFrame moves the body to a recorded frame
func (a *Agent) ApplyFrame(f anim.Frame) {
	w := a.env.World
	w.Transform[a.id] = ecs.Transform{
		Position: f.Position,
		Rotation: f.Rotation,
		Eye:      f.EyeRotation,
	}
	w.Motion[a.id] = ecs.Motion{
		Velocity: f.Velocity,
		Grounded: f.Grounded,
		Ducking:  f.Ducking,
		DidJump:  f.DidJump,
	}
	w.Hull[a.id] = a.env.Physics.AgentHull(f.Ducking)
}

// EquipSpawn gives the agent the weapon a timeline started with
func (a *Agent) EquipSpawn(ws timeline.WeaponSpawn) {
	w := a.env.World
	id, err := a.env.Armory.Spawn(w, a.env.Registry, ws.Kind, ws.PersistentID, w.Position(a.id))
	if err != nil {
		a.log().WithError(err).Warn("failed to equip timeline weapon")
		return
	}
	w.Attach(id, a.id)
}

// Unlink hands the remnant to the AI controller and records what it does
// next as a fork filling at.
func (a *Agent) Unlink(at timeline.Fork) {
	if a.player != nil {
		a.player.StopActions()
	}
	a.mode = state.ModeAI
	a.prev = input.Intent{}
	a.effects = false
	if a.ai == nil {
		a.ai = NewController(a.env.Config.AI)
	}

	a.capture = timeline.NewForkedCapture(a.env.Arena, a.env.Clock, a.env.Config.TickRate, a.PersistentID(), at)
	if err := a.capture.Start(); err != nil {
		a.log().WithError(err).Warn("failed to start forked capture")
	}

	a.log().WithFields(logrus.Fields{"branch": at.From, "valid": at.Valid}).Info("remnant unlinked")
	if a.env.OnUnlink != nil {
		a.env.OnUnlink(a, at.From)
	}
}

// Jump flags a replayed jump
func (a *Agent) Jump() {
	a.env.Physics.MarkJump(a.id)
}

// BeginUse replays a use of targetID. It reports false when the target is
// gone or refuses the agent.
func (a *Agent) BeginUse(targetID string) bool {
	w := a.env.World
	target, ok := a.env.Registry.Resolve(targetID)
	if !ok {
		a.log().WithField("target", targetID).Debug("use target not found")
		return false
	}
	u, ok := entity.UsableOf(w, target)
	if !ok || !u.IsUsable(w, target, a.id) {
		return false
	}
	u.OnUse(w, target, a.id)
	return true
}

// EndUse replays releasing use on targetID
func (a *Agent) EndUse(targetID string) {
	w := a.env.World
	target, ok := a.env.Registry.Resolve(targetID)
	if !ok {
		return
	}
	if u, ok := entity.UsableOf(w, target); ok {
		u.OnStopUse(w, target, a.id)
	}
}

// DropWeapon replays a drop. weaponID picks a specific carried weapon;
// otherwise the held one is dropped.
func (a *Agent) DropWeapon(velocity geom.Vec3, weaponID string) bool {
	w := a.env.World
	weapon, ok := a.carried(weaponID)
	if !ok {
		return false
	}
	w.Detach(weapon, velocity)
	w.SetPosition(weapon, w.Position(a.id).Add(geom.V(0, 0, w.Hull[a.id].Maxs.Z/2)))
	return true
}

func (a *Agent) carried(weaponID string) (ecs.EntityID, bool) {
	w := a.env.World
	if weaponID != "" {
		if e, ok := a.env.Registry.Resolve(weaponID, persist.Weapons); ok && w.Parent[e] == a.id {
			return e, true
		}
	}
	held, _, ok := entity.HeldWeapon(w, a.id)
	return held, ok
}

// PickupWeapon replays picking up weaponID. A weapon someone else carries
// is left alone.
func (a *Agent) PickupWeapon(weaponID string) bool {
	w := a.env.World
	weapon, ok := a.env.Registry.Resolve(weaponID, persist.Weapons)
	if !ok {
		return false
	}
	if _, carried := w.Parent[weapon]; carried {
		return false
	}
	if held, wp, ok := entity.HeldWeapon(w, a.id); ok {
		if !wp.CanDrop() {
			return false
		}
		a.throw(held)
	}
	w.Attach(weapon, a.id)
	return true
}

// ReplayShot re-derives a recorded shot
func (a *Agent) ReplayShot(b ballistics.Bullet, trace []ballistics.TraceHit) {
	a.env.Combat.ReplayShot(a.id, b, trace)
}

// SetShootEffects toggles muzzle effects
func (a *Agent) SetShootEffects(on bool) {
	a.effects = on
}

// ShootEffects reports whether muzzle effects are on
func (a *Agent) ShootEffects() bool {
	return a.effects
}
