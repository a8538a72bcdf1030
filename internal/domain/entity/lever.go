package entity

import (
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// Lever cycles through States values on use and exposes the current one
// to timelines. Operators may also set it directly.
type Lever struct {
	State  int
	States int
	Strict bool // recorded uses require the same state
}

// IsUsable is always true
func (l *Lever) IsUsable(*ecs.World, ecs.EntityID, ecs.EntityID) bool { return true }

// OnUse advances the state
func (l *Lever) OnUse(*ecs.World, ecs.EntityID, ecs.EntityID) bool {
	n := l.States
	if n < 2 {
		n = 2
	}
	l.State = (l.State + 1) % n
	return false
}

// OnStopUse does nothing
func (l *Lever) OnStopUse(*ecs.World, ecs.EntityID, ecs.EntityID) {}

// TimelineState returns the current state
func (l *Lever) TimelineState(ecs.EntityID) int { return l.State }

// RequireUseStateMatch returns Strict
func (l *Lever) RequireUseStateMatch(ecs.EntityID) bool { return l.Strict }

// SetState sets the state
func (l *Lever) SetState(state int) { l.State = state }

// SpawnLever creates a lever entity
func SpawnLever(w *ecs.World, pos geom.Vec3, states, initial int, strict bool) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Hull[id] = ecs.Hull{Mins: geom.V(-8, -8, 0), Maxs: geom.V(8, 8, 80)}
	w.Behavior[id] = &Lever{State: initial, States: states, Strict: strict}
	w.IsProp[id] = struct{}{}
	return id
}
