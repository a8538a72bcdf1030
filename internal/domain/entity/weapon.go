package entity

import (
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/ecs"
)

// Weapon is a carriable firearm. Its kind names an armory entry.
type Weapon struct {
	Kind        string
	NextFire    float64 // simulation time the weapon may fire again
	Undroppable bool
}

// CanDrop reports whether the weapon may be thrown away
func (wp *Weapon) CanDrop() bool {
	return !wp.Undroppable
}

// Ready reports whether the weapon may fire at time now
func (wp *Weapon) Ready(now float64) bool {
	return now >= wp.NextFire
}

// SpawnWeapon creates a loose weapon entity
func SpawnWeapon(w *ecs.World, pos geom.Vec3, kind string) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Hull[id] = ecs.Hull{Mins: geom.V(-12, -12, 0), Maxs: geom.V(12, 12, 8)}
	w.Motion[id] = ecs.Motion{}
	w.Behavior[id] = &Weapon{Kind: kind}
	w.IsWeapon[id] = struct{}{}
	return id
}

// WeaponOf returns the weapon behavior of id
func WeaponOf(w *ecs.World, id ecs.EntityID) (*Weapon, bool) {
	wp, ok := w.Behavior[id].(*Weapon)
	return wp, ok
}

// HeldWeapon returns the first weapon carried by carrier
func HeldWeapon(w *ecs.World, carrier ecs.EntityID) (ecs.EntityID, *Weapon, bool) {
	for _, child := range w.Children(carrier) {
		if wp, ok := WeaponOf(w, child); ok {
			return child, wp, true
		}
	}
	return ecs.Nil, nil, false
}
