package system

import (
	"fmt"

	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
)

// Spawn is a place agents enter the level
type Spawn struct {
	Position geom.Vec3
	Yaw      float64
}

// Level is what remains of a level config once its props are in the world
type Level struct {
	Name   string
	Bounds geom.Vec3
	Spawns []Spawn
}

// SpawnAt returns spawn i, wrapping around. Levels without spawns use the
// origin.
func (l *Level) SpawnAt(i int) Spawn {
	if len(l.Spawns) == 0 {
		return Spawn{}
	}
	return l.Spawns[i%len(l.Spawns)]
}

// LoadLevel populates the world from a level config. Props keep their
// configured IDs as persistent IDs so recorded events can find them in
// later rounds.
func LoadLevel(w *ecs.World, reg *persist.Registry, armory *Armory, cfg *config.LevelConfig) (*Level, error) {
	lvl := &Level{Name: cfg.Name, Bounds: cfg.Bounds.Geom()}
	for _, s := range cfg.Spawns {
		lvl.Spawns = append(lvl.Spawns, Spawn{Position: s.Position.Geom(), Yaw: s.Yaw})
	}

	for _, wc := range cfg.Walls {
		id := w.NewEntity()
		size := wc.Size.Geom()
		w.Transform[id] = ecs.Transform{Position: wc.Position.Geom()}
		w.Hull[id] = ecs.Hull{
			Mins: geom.V(-size.X/2, -size.Y/2, 0),
			Maxs: geom.V(size.X/2, size.Y/2, size.Z),
		}
		w.IsSolid[id] = struct{}{}
	}

	for _, dc := range cfg.Doors {
		id := entity.SpawnDoor(w, dc.Position.Geom(), dc.Size.Geom(), dc.Open)
		if d, ok := w.Behavior[id].(*entity.Door); ok {
			d.Locked = dc.Locked
		}
		assign(reg, id, dc.ID)
	}

	for _, lc := range cfg.Levers {
		states := max(lc.States, 2)
		if lc.Initial < 0 || lc.Initial >= states {
			return nil, fmt.Errorf("lever %s: initial state %d out of range", lc.ID, lc.Initial)
		}
		id := entity.SpawnLever(w, lc.Position.Geom(), states, lc.Initial, lc.Strict)
		assign(reg, id, lc.ID)
	}

	for _, tc := range cfg.Triggers {
		id := entity.SpawnUnlinkTrigger(w, tc.Position.Geom(), tc.Size.Geom(), tc.Provider)
		assign(reg, id, tc.ID)
	}

	for _, pc := range cfg.Weapons {
		if _, err := armory.Spawn(w, reg, pc.Kind, pc.ID, pc.Position.Geom()); err != nil {
			return nil, fmt.Errorf("weapon %s: %w", pc.ID, err)
		}
	}

	return lvl, nil
}

func assign(reg *persist.Registry, id ecs.EntityID, pid string) {
	if pid != "" {
		reg.Assign(id, pid)
	}
}
