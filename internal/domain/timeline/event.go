// Package timeline chains recorded animations into a branching tree keyed
// on canon events, records new branches and replays existing ones.
package timeline

import (
	"fmt"
	"math"

	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// Pickup tolerances: how far a weapon may have drifted from where it was
// picked up in canon.
const (
	PickupMaxHorizontal = 64.0
	PickupMaxVertical   = 32.0
)

// UseMaxDrift is how far a used entity may have moved from where it was
// used in canon.
const UseMaxDrift = 64.0

// Target is a live entity resolved from a persistent ID
type Target struct {
	Entity   ecs.EntityID
	Position geom.Vec3
	Carried  bool
	Behavior any
}

// Subject is the agent an event is checked against
type Subject interface {
	World() *ecs.World
	Self() ecs.EntityID
	Alive() bool
	Lookup(persistentID string) (Target, bool)
	// CanSwapWeapon reports whether the subject is unarmed or can drop
	// what it holds.
	CanSwapWeapon() bool
}

// Event is a canon condition re-checked against live state on replay.
// It refers to entities only by persistent ID.
type Event interface {
	IsValid(s Subject) bool
	isEvent()
}

// Death is valid while the subject is dead
type Death struct{}

func (Death) isEvent() {}

// IsValid returns true when the subject is not alive
func (Death) IsValid(s Subject) bool { return !s.Alive() }

// GameEnd is always valid
type GameEnd struct{}

func (GameEnd) isEvent() {}

// IsValid returns true
func (GameEnd) IsValid(Subject) bool { return true }

// Use is valid when the target still exists near Position, is usable by
// the subject and, if it demands it, is in the recorded state.
type Use struct {
	TargetID     string
	Position     geom.Vec3
	DesiredState *int
}

func (Use) isEvent() {}

// IsValid checks the target through the registry
func (u Use) IsValid(s Subject) bool {
	target, ok := s.Lookup(u.TargetID)
	if !ok || target.Position.Distance(u.Position) > UseMaxDrift {
		return false
	}
	usable, ok := target.Behavior.(entity.Usable)
	if !ok {
		return false
	}
	if !usable.IsUsable(s.World(), target.Entity, s.Self()) {
		return false
	}
	if u.DesiredState == nil {
		return true
	}
	holder, ok := target.Behavior.(entity.HasTimelineState)
	if !ok || !holder.RequireUseStateMatch(s.Self()) {
		return true
	}
	return holder.TimelineState(s.Self()) == *u.DesiredState
}

// MapState is valid when the trigger's state provider reports
// DesiredState. Without a ProviderID the trigger itself is queried.
type MapState struct {
	TriggerID    string
	ProviderID   string
	DesiredState int
}

func (MapState) isEvent() {}

// IsValid compares the provider's live state
func (m MapState) IsValid(s Subject) bool {
	id := m.ProviderID
	if id == "" {
		id = m.TriggerID
	}
	target, ok := s.Lookup(id)
	if !ok {
		return false
	}
	holder, ok := target.Behavior.(entity.HasTimelineState)
	if !ok {
		return false
	}
	return holder.TimelineState(s.Self()) == m.DesiredState
}

// PickupWeapon is valid when the weapon is loose, close to where it was
// picked up, and the subject can take it.
type PickupWeapon struct {
	WeaponID string
	Position geom.Vec3
}

func (PickupWeapon) isEvent() {}

// IsValid checks the weapon against the recorded position
func (p PickupWeapon) IsValid(s Subject) bool {
	target, ok := s.Lookup(p.WeaponID)
	if !ok || target.Carried {
		return false
	}
	d := target.Position.Sub(p.Position)
	if d.Length2D() > PickupMaxHorizontal || math.Abs(d.Z) > PickupMaxVertical {
		return false
	}
	return s.CanSwapWeapon()
}

// IntPtr returns a pointer to v, for Use.DesiredState
func IntPtr(v int) *int {
	return &v
}

// Describe returns a short human-readable form of ev
func Describe(ev Event) string {
	switch v := ev.(type) {
	case Death:
		return "death"
	case GameEnd:
		return "game_end"
	case Use:
		if v.DesiredState != nil {
			return fmt.Sprintf("use %s state=%d", v.TargetID, *v.DesiredState)
		}
		return "use " + v.TargetID
	case MapState:
		return fmt.Sprintf("map %s %s=%d", v.TriggerID, v.ProviderID, v.DesiredState)
	case PickupWeapon:
		return "pickup " + v.WeaponID
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
