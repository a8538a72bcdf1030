package agent

import (
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/system"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/timeline"
	"github.com/younwookim/remnant/internal/ecs"
)

// drive applies live input and records what it does
func (a *Agent) drive(in input.Intent, dt float64) {
	if a.env.Physics.Update(a.id, in, dt) {
		a.record(anim.Jump{})
	}

	if in.Use && !a.prev.Use {
		a.pressUse()
	}
	if !in.Use && a.prev.Use && a.using != "" {
		a.releaseUse()
	}
	if in.Drop && !a.prev.Drop {
		a.dropHeld()
	}

	if in.Attack {
		a.fire()
	} else if a.effects {
		a.effects = false
		a.record(anim.StopAction{TargetID: anim.ShootEffectsActionID})
	}

	a.prev = in
}

func (a *Agent) pressUse() {
	w := a.env.World
	target, ok := system.FindUsable(w, a.id, a.env.Config.Agent.UseReach)
	if !ok {
		if wid, ok := system.NearestWeapon(w, a.id, timeline.PickupMaxHorizontal, timeline.PickupMaxVertical); ok {
			a.pickup(wid)
		}
		return
	}
	if ecs.Has(w.IsWeapon, target) {
		a.pickup(target)
		return
	}
	a.use(target)
}

// use records the canon event with the target's state before the
// interaction, then the action that performs it.
func (a *Agent) use(target ecs.EntityID) {
	w := a.env.World
	u, ok := entity.UsableOf(w, target)
	if !ok {
		return
	}
	pid, _ := a.env.Registry.IDOf(target, true)

	ev := timeline.Use{TargetID: pid, Position: w.Position(target)}
	if holder, ok := entity.StateOf(w, target); ok && holder.RequireUseStateMatch(a.id) {
		ev.DesiredState = timeline.IntPtr(holder.TimelineState(a.id))
	}
	a.event(ev)

	continuous := u.OnUse(w, target, a.id)
	a.record(anim.Use{TargetID: pid, Continuous: continuous})
	if continuous {
		a.using = pid
	}
}

func (a *Agent) releaseUse() {
	if target, ok := a.env.Registry.Resolve(a.using); ok {
		if u, ok := entity.UsableOf(a.env.World, target); ok {
			u.OnStopUse(a.env.World, target, a.id)
		}
	}
	a.record(anim.StopAction{TargetID: anim.UseActionID})
	a.using = ""
}

func (a *Agent) pickup(weapon ecs.EntityID) {
	if !a.CanSwapWeapon() {
		return
	}
	w := a.env.World
	if held, _, ok := entity.HeldWeapon(w, a.id); ok {
		a.dropWeapon(held)
	}

	pid, _ := a.env.Registry.IDOf(weapon, true)
	a.event(timeline.PickupWeapon{WeaponID: pid, Position: w.Position(weapon)})
	w.Attach(weapon, a.id)
	a.record(anim.PickupWeapon{WeaponID: pid})
}

func (a *Agent) dropHeld() {
	held, wp, ok := entity.HeldWeapon(a.env.World, a.id)
	if !ok || !wp.CanDrop() {
		return
	}
	a.dropWeapon(held)
}

func (a *Agent) dropWeapon(weapon ecs.EntityID) {
	pid, _ := a.env.Registry.IDOf(weapon, true)
	vel := a.throw(weapon)
	a.record(anim.DropWeapon{Velocity: vel, WeaponID: pid})
}

// throw detaches weapon from the agent's chest along the drop velocity
func (a *Agent) throw(weapon ecs.EntityID) geom.Vec3 {
	w := a.env.World
	yaw := w.Transform[a.id].Rotation.Yaw
	vel := system.DropVelocity(a.env.Config.Agent.DropVelocity.Geom(), yaw)
	w.Detach(weapon, vel)
	w.SetPosition(weapon, w.Position(a.id).Add(geom.V(0, 0, w.Hull[a.id].Maxs.Z/2)))
	return vel
}

func (a *Agent) fire() {
	w := a.env.World
	_, wp, ok := entity.HeldWeapon(w, a.id)
	if !ok {
		return
	}
	kind, ok := a.env.Armory.Kind(wp.Kind)
	if !ok {
		return
	}
	now := a.env.Clock.Now()
	if !wp.Ready(now) {
		return
	}
	wp.NextFire = now + kind.FireInterval

	if !a.effects {
		a.effects = true
		a.record(anim.ShootEffects{Continuous: true})
	}

	eye := w.EyePosition(a.id)
	aim := w.Transform[a.id].Eye
	for _, b := range a.env.Combat.Pellets(kind, eye, aim) {
		hits := a.env.Combat.Fire(a.id, b)
		a.record(anim.Shoot{Bullet: b, Trace: hits})
	}
}

// touchTriggers records a map-state event for every trigger just entered
func (a *Agent) touchTriggers() {
	w := a.env.World
	for _, trig := range system.TouchTriggers(w, a.id) {
		if !a.Capturing() {
			continue
		}
		t, ok := w.Behavior[trig].(*entity.UnlinkTrigger)
		if !ok {
			continue
		}
		tid, _ := a.env.Registry.IDOf(trig, true)
		ev := timeline.MapState{TriggerID: tid, ProviderID: t.Provider}

		lookup := t.Provider
		if lookup == "" {
			lookup = tid
		}
		target, ok := a.Lookup(lookup)
		if !ok {
			a.log().WithField("trigger", tid).Warn("trigger provider not found")
			continue
		}
		holder, ok := target.Behavior.(entity.HasTimelineState)
		if !ok {
			a.log().WithField("trigger", tid).Warn("trigger provider has no state")
			continue
		}
		ev.DesiredState = holder.TimelineState(a.id)
		a.event(ev)
	}
}

// event seals the open animation with ev
func (a *Agent) event(ev timeline.Event) {
	if !a.Capturing() {
		return
	}
	if _, err := a.capture.Event(ev, false); err != nil {
		a.log().WithError(err).Warn("failed to record event")
	}
}

// record queues act on the open animation
func (a *Agent) record(act anim.Action) {
	if a.Capturing() {
		a.capture.AddAction(act)
	}
}
