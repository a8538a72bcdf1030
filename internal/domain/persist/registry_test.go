package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

func spawn(w *ecs.World, id string) ecs.EntityID {
	e := w.NewEntity()
	w.Transform[e] = ecs.Transform{}
	if id != "" {
		w.Persistent[e] = ecs.Persistent{ID: id}
	}
	return e
}

func TestResolve(t *testing.T) {
	w := ecs.NewWorld()
	r := NewRegistry(w)
	door := spawn(w, "door1")
	w.IsProp[door] = struct{}{}

	got, ok := r.Resolve("door1")
	require.True(t, ok)
	assert.Equal(t, door, got)

	_, ok = r.Resolve("door1", Agents)
	assert.False(t, ok, "filter rejects the prop")

	_, ok = r.Resolve("door2")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}

func TestResolve_SurvivesRecreation(t *testing.T) {
	w := ecs.NewWorld()
	r := NewRegistry(w)

	first := spawn(w, "weapon1")
	w.DestroyEntity(first)
	_, ok := r.Resolve("weapon1")
	assert.False(t, ok)

	second := spawn(w, "weapon1")
	got, ok := r.Resolve("weapon1")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestResolve_FirstMatchWins(t *testing.T) {
	w := ecs.NewWorld()
	r := NewRegistry(w)
	a := spawn(w, "dup")
	spawn(w, "dup")

	got, ok := r.Resolve("dup")
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestIDOf(t *testing.T) {
	logger.Silence()
	w := ecs.NewWorld()
	r := NewRegistry(w)
	named := spawn(w, "p1.round1")
	anon := spawn(w, "")

	id, ok := r.IDOf(named, true)
	assert.True(t, ok)
	assert.Equal(t, "p1.round1", id)

	_, ok = r.IDOf(anon, false)
	assert.False(t, ok)

	id, ok = r.IDOf(anon, true)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(id), 8)

	again, _ := r.IDOf(anon, true)
	assert.Equal(t, id, again, "generated id sticks")

	_, ok = r.IDOf(999, true)
	assert.False(t, ok, "dead entities get no id")
}

func TestAssign(t *testing.T) {
	w := ecs.NewWorld()
	r := NewRegistry(w)
	e := spawn(w, "")

	r.Assign(e, "remnant-1")
	got, ok := r.Resolve("remnant-1")
	require.True(t, ok)
	assert.Equal(t, e, got)
}
