package entity

import (
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// Door toggles open/closed on use. A closed door is solid.
// Recorded uses only replay if the door is in the same state.
type Door struct {
	Open   bool
	Locked bool
}

// Door states as seen by timelines
const (
	DoorClosed = 0
	DoorOpen   = 1
)

// IsUsable returns false while locked
func (d *Door) IsUsable(_ *ecs.World, _, _ ecs.EntityID) bool {
	return !d.Locked
}

// OnUse flips the door
func (d *Door) OnUse(w *ecs.World, self, _ ecs.EntityID) bool {
	d.Open = !d.Open
	d.syncSolid(w, self)
	return false
}

// OnStopUse does nothing, doors are one-shot
func (d *Door) OnStopUse(*ecs.World, ecs.EntityID, ecs.EntityID) {}

// TimelineState returns DoorOpen or DoorClosed
func (d *Door) TimelineState(ecs.EntityID) int {
	if d.Open {
		return DoorOpen
	}
	return DoorClosed
}

// RequireUseStateMatch is always true for doors
func (d *Door) RequireUseStateMatch(ecs.EntityID) bool { return true }

// SetState forces the door state (operators, level reset)
func (d *Door) SetState(w *ecs.World, self ecs.EntityID, state int) {
	d.Open = state == DoorOpen
	d.syncSolid(w, self)
}

// Simulate keeps the solid tag in step with the door state
func (d *Door) Simulate(w *ecs.World, self ecs.EntityID, _ float64) {
	d.syncSolid(w, self)
}

func (d *Door) syncSolid(w *ecs.World, self ecs.EntityID) {
	if d.Open {
		delete(w.IsSolid, self)
	} else {
		w.IsSolid[self] = struct{}{}
	}
}

// SpawnDoor creates a door entity
func SpawnDoor(w *ecs.World, pos geom.Vec3, size geom.Vec3, open bool) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Hull[id] = ecs.Hull{
		Mins: geom.V(-size.X/2, -size.Y/2, 0),
		Maxs: geom.V(size.X/2, size.Y/2, size.Z),
	}
	d := &Door{Open: open}
	w.Behavior[id] = d
	w.IsProp[id] = struct{}{}
	d.syncSolid(w, id)
	return id
}
