package ecs

import (
	"sort"

	"github.com/younwookim/remnant/internal/domain/geom"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// Nil is the zero entity
const Nil EntityID = 0

// World holds all component maps and the next entity ID
type World struct {
	nextID EntityID

	// Components
	Transform  map[EntityID]Transform
	Motion     map[EntityID]Motion
	Hull       map[EntityID]Hull
	Volume     map[EntityID]Hull // trigger volumes, never traced
	Health     map[EntityID]Health
	Persistent map[EntityID]Persistent
	Parent     map[EntityID]EntityID // carried items -> carrier
	Behavior   map[EntityID]any      // capability provider (door, weapon, ...)

	// Tags
	IsAgent  map[EntityID]struct{}
	IsProp   map[EntityID]struct{}
	IsWeapon map[EntityID]struct{}
	IsSolid  map[EntityID]struct{} // blocks traces and movement
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID:     1, // 0 is "nil"
		Transform:  make(map[EntityID]Transform),
		Motion:     make(map[EntityID]Motion),
		Hull:       make(map[EntityID]Hull),
		Volume:     make(map[EntityID]Hull),
		Health:     make(map[EntityID]Health),
		Persistent: make(map[EntityID]Persistent),
		Parent:     make(map[EntityID]EntityID),
		Behavior:   make(map[EntityID]any),
		IsAgent:    make(map[EntityID]struct{}),
		IsProp:     make(map[EntityID]struct{}),
		IsWeapon:   make(map[EntityID]struct{}),
		IsSolid:    make(map[EntityID]struct{}),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// DestroyEntity removes all components for an entity.
// Anything parented to it is detached in place.
func (w *World) DestroyEntity(id EntityID) {
	for child, parent := range w.Parent {
		if parent == id {
			delete(w.Parent, child)
		}
	}
	delete(w.Transform, id)
	delete(w.Motion, id)
	delete(w.Hull, id)
	delete(w.Volume, id)
	delete(w.Health, id)
	delete(w.Persistent, id)
	delete(w.Parent, id)
	delete(w.Behavior, id)
	delete(w.IsAgent, id)
	delete(w.IsProp, id)
	delete(w.IsWeapon, id)
	delete(w.IsSolid, id)
}

// Exists checks if an entity has a Transform component
func (w *World) Exists(id EntityID) bool {
	_, ok := w.Transform[id]
	return ok
}

// Clear destroys every entity. IDs keep counting up.
func (w *World) Clear() {
	for _, id := range w.Entities() {
		w.DestroyEntity(id)
	}
}

// Entities returns all live entities in ascending ID order
func (w *World) Entities() []EntityID {
	ids := make([]EntityID, 0, len(w.Transform))
	for id := range w.Transform {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Tagged returns the members of a tag set in ascending ID order
func Tagged(tag map[EntityID]struct{}) []EntityID {
	ids := make([]EntityID, 0, len(tag))
	for id := range tag {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Has reports whether id is in the tag set
func Has(tag map[EntityID]struct{}, id EntityID) bool {
	_, ok := tag[id]
	return ok
}

// Position returns the entity origin
func (w *World) Position(id EntityID) geom.Vec3 {
	return w.Transform[id].Position
}

// SetPosition moves an entity, keeping its rotation
func (w *World) SetPosition(id EntityID, p geom.Vec3) {
	t := w.Transform[id]
	t.Position = p
	w.Transform[id] = t
}

// EyePosition returns the view origin for agents (hull top minus a margin)
func (w *World) EyePosition(id EntityID) geom.Vec3 {
	p := w.Transform[id].Position
	if h, ok := w.Hull[id]; ok {
		p.Z += h.Maxs.Z - 8
	}
	return p
}

// IsAlive reports whether the entity exists and has positive health.
// Entities without health are considered alive while they exist.
func (w *World) IsAlive(id EntityID) bool {
	if !w.Exists(id) {
		return false
	}
	h, ok := w.Health[id]
	if !ok {
		return true
	}
	return h.IsAlive()
}

// Attach parents child to carrier and moves it to the carrier origin
func (w *World) Attach(child, carrier EntityID) {
	w.Parent[child] = carrier
	w.SetPosition(child, w.Position(carrier))
	delete(w.Motion, child)
}

// Detach unparents child and gives it a velocity
func (w *World) Detach(child EntityID, velocity geom.Vec3) {
	delete(w.Parent, child)
	w.Motion[child] = Motion{Velocity: velocity}
}

// Children returns entities parented to carrier in ascending ID order
func (w *World) Children(carrier EntityID) []EntityID {
	var ids []EntityID
	for child, parent := range w.Parent {
		if parent == carrier {
			ids = append(ids, child)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
