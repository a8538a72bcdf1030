package entity

import (
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// UnlinkTrigger is a volume that, when an agent enters it, asks for a
// timeline event comparing the state of its provider. The trigger's own
// persistent ID names it in the event; Provider is the persistent ID of
// the HasTimelineState entity it reports.
type UnlinkTrigger struct {
	Provider string
	inside   map[ecs.EntityID]bool
}

// NewUnlinkTrigger creates a trigger reporting provider
func NewUnlinkTrigger(provider string) *UnlinkTrigger {
	return &UnlinkTrigger{Provider: provider, inside: make(map[ecs.EntityID]bool)}
}

// Enter records that agent is inside and reports whether it just entered
func (t *UnlinkTrigger) Enter(agent ecs.EntityID) bool {
	if t.inside[agent] {
		return false
	}
	t.inside[agent] = true
	return true
}

// Leave forgets agent
func (t *UnlinkTrigger) Leave(agent ecs.EntityID) {
	delete(t.inside, agent)
}

// Inside reports whether agent is currently inside
func (t *UnlinkTrigger) Inside(agent ecs.EntityID) bool {
	return t.inside[agent]
}

// SpawnUnlinkTrigger creates a trigger volume. Triggers are not traceable.
func SpawnUnlinkTrigger(w *ecs.World, pos, size geom.Vec3, provider string) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Behavior[id] = NewUnlinkTrigger(provider)
	w.IsProp[id] = struct{}{}
	w.Volume[id] = ecs.Hull{
		Mins: geom.V(-size.X/2, -size.Y/2, 0),
		Maxs: geom.V(size.X/2, size.Y/2, size.Z),
	}
	return id
}
