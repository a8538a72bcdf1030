// Package entity defines the capabilities level objects can offer and the
// props that implement them.
//
// A prop is stored in ecs.World.Behavior; systems type-assert the
// capability they need instead of walking a class hierarchy.
package entity

import "github.com/younwookim/remnant/internal/ecs"

// Usable is something an agent can press or hold "use" on
type Usable interface {
	IsUsable(w *ecs.World, self, user ecs.EntityID) bool
	// OnUse reports whether the use continues until OnStopUse
	OnUse(w *ecs.World, self, user ecs.EntityID) bool
	OnStopUse(w *ecs.World, self, user ecs.EntityID)
}

// HasTimelineState exposes an integer state that recorded timelines can
// compare against.
type HasTimelineState interface {
	TimelineState(user ecs.EntityID) int
	// RequireUseStateMatch reports whether a recorded use is only valid
	// when the state still matches.
	RequireUseStateMatch(user ecs.EntityID) bool
}

// Droppable is a carried item that may be thrown away
type Droppable interface {
	CanDrop() bool
}

// Simulatable advances its own state every tick
type Simulatable interface {
	Simulate(w *ecs.World, self ecs.EntityID, dt float64)
}

// SimulateAll ticks every Simulatable behavior in entity order
func SimulateAll(w *ecs.World, dt float64) {
	for _, id := range w.Entities() {
		if s, ok := w.Behavior[id].(Simulatable); ok {
			s.Simulate(w, id, dt)
		}
	}
}

// UsableOf returns the Usable behavior of id
func UsableOf(w *ecs.World, id ecs.EntityID) (Usable, bool) {
	u, ok := w.Behavior[id].(Usable)
	return u, ok
}

// StateOf returns the HasTimelineState behavior of id
func StateOf(w *ecs.World, id ecs.EntityID) (HasTimelineState, bool) {
	s, ok := w.Behavior[id].(HasTimelineState)
	return s, ok
}
