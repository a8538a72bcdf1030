package system

import (
	"fmt"
	"sort"

	"github.com/younwookim/remnant/internal/domain/ballistics"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
)

// WeaponKind is a firearm template
type WeaponKind struct {
	Name         string
	Pellets      int
	FireInterval float64
	Undroppable  bool
	Bullet       ballistics.Bullet // ray left unset
}

// Armory holds the weapon kinds a session may spawn
type Armory struct {
	kinds map[string]WeaponKind
}

// NewArmory builds weapon kinds from config
func NewArmory(cfg map[string]config.WeaponConfig) (*Armory, error) {
	a := &Armory{kinds: make(map[string]WeaponKind, len(cfg))}
	for name, wc := range cfg {
		mode, ok := ballistics.ParseFalloffMode(wc.Falloff.Mode)
		if !ok {
			return nil, fmt.Errorf("weapon %s: unknown falloff mode %q", name, wc.Falloff.Mode)
		}
		a.kinds[name] = WeaponKind{
			Name:         name,
			Pellets:      max(wc.Pellets, 1),
			FireInterval: wc.FireInterval,
			Undroppable:  wc.Undroppable,
			Bullet: ballistics.Bullet{
				Damage:  wc.Damage,
				Force:   wc.Force,
				Range:   wc.Range,
				Spread:  wc.Spread,
				Falloff: ballistics.Falloff{Mode: mode, Factor: wc.Falloff.Factor},
			},
		}
	}
	return a, nil
}

// Kind returns the named weapon kind
func (a *Armory) Kind(name string) (WeaponKind, bool) {
	k, ok := a.kinds[name]
	return k, ok
}

// Names returns all weapon kind names, sorted
func (a *Armory) Names() []string {
	names := make([]string, 0, len(a.kinds))
	for name := range a.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spawn creates a loose weapon of the named kind. A non-empty persistentID
// is assigned so timelines can find the weapon again.
func (a *Armory) Spawn(w *ecs.World, reg *persist.Registry, name, persistentID string, pos geom.Vec3) (ecs.EntityID, error) {
	k, ok := a.kinds[name]
	if !ok {
		return ecs.Nil, fmt.Errorf("unknown weapon kind %q", name)
	}
	id := entity.SpawnWeapon(w, pos, name)
	if wp, ok := entity.WeaponOf(w, id); ok {
		wp.Undroppable = k.Undroppable
	}
	if persistentID != "" {
		reg.Assign(id, persistentID)
	}
	return id, nil
}
