// Package persist maps stable string identifiers to live entities.
//
// An ID outlives the entity that carries it: the same string is assigned
// again when the entity is recreated in a later round, which is how
// recorded timelines find "the same" door or weapon.
package persist

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

// Filter narrows a lookup to entities of one kind
type Filter func(w *ecs.World, id ecs.EntityID) bool

// Agents matches agent bodies
func Agents(w *ecs.World, id ecs.EntityID) bool { return ecs.Has(w.IsAgent, id) }

// Props matches level props
func Props(w *ecs.World, id ecs.EntityID) bool { return ecs.Has(w.IsProp, id) }

// Weapons matches weapon entities
func Weapons(w *ecs.World, id ecs.EntityID) bool { return ecs.Has(w.IsWeapon, id) }

// Registry resolves persistent IDs by scanning the world.
// Entity counts are small, so there is no index to keep in sync.
type Registry struct {
	world *ecs.World
	newID func() string
}

// NewRegistry creates a registry over w
func NewRegistry(w *ecs.World) *Registry {
	return &Registry{world: w, newID: randomToken}
}

// Resolve returns the first live entity (ascending entity ID) carrying id
// that passes every filter. Duplicate IDs are not detected.
func (r *Registry) Resolve(id string, filters ...Filter) (ecs.EntityID, bool) {
	if id == "" {
		return ecs.Nil, false
	}
	for _, e := range r.world.Entities() {
		p, ok := r.world.Persistent[e]
		if !ok || p.ID != id {
			continue
		}
		if !passes(r.world, e, filters) {
			continue
		}
		return e, true
	}
	return ecs.Nil, false
}

// IDOf returns the persistent ID of e. When e has none and generate is
// set, a random token is assigned; such IDs do not survive across rounds.
func (r *Registry) IDOf(e ecs.EntityID, generate bool) (string, bool) {
	if p, ok := r.world.Persistent[e]; ok && p.ID != "" {
		return p.ID, true
	}
	if !generate || !r.world.Exists(e) {
		return "", false
	}

	id := r.newID()
	r.world.Persistent[e] = ecs.Persistent{ID: id}
	logger.Log.WithFields(logrus.Fields{
		"entity":        e,
		"persistent_id": id,
	}).Warn("generated random persistent id, entity will not be recognised next round")
	return id, true
}

// Assign sets the persistent ID of e
func (r *Registry) Assign(e ecs.EntityID, id string) {
	r.world.Persistent[e] = ecs.Persistent{ID: id}
}

func passes(w *ecs.World, e ecs.EntityID, filters []Filter) bool {
	for _, f := range filters {
		if !f(w, e) {
			return false
		}
	}
	return true
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
