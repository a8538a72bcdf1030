package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

func TestDoor(t *testing.T) {
	w := ecs.NewWorld()
	id := SpawnDoor(w, geom.V(0, 0, 0), geom.V(64, 8, 96), false)

	door, ok := w.Behavior[id].(*Door)
	require.True(t, ok)
	assert.True(t, ecs.Has(w.IsSolid, id), "closed doors block")

	u, ok := UsableOf(w, id)
	require.True(t, ok)
	assert.True(t, u.IsUsable(w, id, 99))
	assert.False(t, u.OnUse(w, id, 99), "doors are one-shot")
	assert.True(t, door.Open)
	assert.False(t, ecs.Has(w.IsSolid, id))

	s, ok := StateOf(w, id)
	require.True(t, ok)
	assert.Equal(t, DoorOpen, s.TimelineState(99))
	assert.True(t, s.RequireUseStateMatch(99))

	door.SetState(w, id, DoorClosed)
	assert.Equal(t, DoorClosed, s.TimelineState(99))
	assert.True(t, ecs.Has(w.IsSolid, id))

	door.Locked = true
	assert.False(t, u.IsUsable(w, id, 99))
}

func TestLever(t *testing.T) {
	w := ecs.NewWorld()
	id := SpawnLever(w, geom.V(0, 0, 0), 3, 0, false)
	lever := w.Behavior[id].(*Lever)

	for _, want := range []int{1, 2, 0} {
		lever.OnUse(w, id, 1)
		assert.Equal(t, want, lever.TimelineState(1))
	}
	assert.False(t, lever.RequireUseStateMatch(1))

	lever.SetState(2)
	assert.Equal(t, 2, lever.TimelineState(1))
}

func TestUnlinkTrigger(t *testing.T) {
	w := ecs.NewWorld()
	id := SpawnUnlinkTrigger(w, geom.V(0, 0, 0), geom.V(32, 32, 64), "lever1")
	trig := w.Behavior[id].(*UnlinkTrigger)

	_, traceable := w.Hull[id]
	assert.False(t, traceable)
	assert.Equal(t, "lever1", trig.Provider)

	assert.True(t, trig.Enter(7))
	assert.False(t, trig.Enter(7), "only the first tick inside counts")
	assert.True(t, trig.Inside(7))
	trig.Leave(7)
	assert.True(t, trig.Enter(7))
}

func TestWeapon(t *testing.T) {
	w := ecs.NewWorld()
	agent := w.NewEntity()
	w.Transform[agent] = ecs.Transform{}
	gun := SpawnWeapon(w, geom.V(10, 0, 0), "shotgun")

	_, _, held := HeldWeapon(w, agent)
	assert.False(t, held)

	w.Attach(gun, agent)
	id, wp, held := HeldWeapon(w, agent)
	require.True(t, held)
	assert.Equal(t, gun, id)
	assert.Equal(t, "shotgun", wp.Kind)
	assert.True(t, wp.CanDrop())

	wp.NextFire = 2
	assert.False(t, wp.Ready(1.5))
	assert.True(t, wp.Ready(2))
}

type counter struct{ n int }

func (c *counter) Simulate(*ecs.World, ecs.EntityID, float64) { c.n++ }

func TestSimulateAll(t *testing.T) {
	w := ecs.NewWorld()
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{}
	c := &counter{}
	w.Behavior[id] = c

	SimulateAll(w, 0.02)
	SimulateAll(w, 0.02)
	assert.Equal(t, 2, c.n)
}
