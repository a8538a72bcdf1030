package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/remnant/internal/domain/geom"
)

func boxAt(w *World, p geom.Vec3) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Position: p}
	w.Hull[id] = Hull{Mins: geom.V(-10, -10, -10), Maxs: geom.V(10, 10, 10)}
	return id
}

func TestTrace_OrderedHits(t *testing.T) {
	w := NewWorld()
	far := boxAt(w, geom.V(200, 0, 0))
	near := boxAt(w, geom.V(100, 0, 0))
	boxAt(w, geom.V(100, 100, 0)) // off the ray

	hits := w.Trace(geom.V(0, 0, 0), geom.V(1000, 0, 0), nil)

	require.Len(t, hits, 2)
	assert.Equal(t, near, hits[0].Entity)
	assert.Equal(t, far, hits[1].Entity)
	assert.InDelta(t, 90, hits[0].Distance, 1e-9)
	assert.InDelta(t, 90, hits[0].Position.X, 1e-9)
	assert.Equal(t, geom.V(-1, 0, 0), hits[0].Normal)
}

func TestTrace_FilterAndCarried(t *testing.T) {
	w := NewWorld()
	a := boxAt(w, geom.V(100, 0, 0))
	b := boxAt(w, geom.V(200, 0, 0))
	carrier := boxAt(w, geom.V(0, 500, 0))
	w.Attach(b, carrier)

	hits := w.Trace(geom.V(0, 0, 0), geom.V(1000, 0, 0), Ignore(a))
	assert.Empty(t, hits)
}

func TestTrace_ShortSegment(t *testing.T) {
	w := NewWorld()
	boxAt(w, geom.V(100, 0, 0))

	_, ok := w.TraceFirst(geom.V(0, 0, 0), geom.V(50, 0, 0), nil)
	assert.False(t, ok, "segment ends before the box")

	hit, ok := w.TraceFirst(geom.V(95, 0, 0), geom.V(300, 0, 0), nil)
	require.True(t, ok)
	assert.Equal(t, 0.0, hit.Distance, "starting inside hits immediately")
}
