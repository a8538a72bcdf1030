package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/remnant/configs"
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/domain/ballistics"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

const dt = 0.02

func init() {
	logger.Silence()
}

func createTestPhysics(w *ecs.World) *PhysicsSystem {
	return NewPhysicsSystem(
		config.MovementConfig{
			Gravity:      800,
			WalkSpeed:    190,
			DuckSpeed:    80,
			Acceleration: 10,
			Friction:     4,
			AirControl:   0.3,
			JumpSpeed:    268,
		},
		config.AgentConfig{
			MaxHealth:  100,
			HullWidth:  32,
			HullHeight: 72,
			DuckHeight: 36,
			UseReach:   85,
		},
		w,
	)
}

func spawnAgent(w *ecs.World, phys *PhysicsSystem, pos geom.Vec3) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Motion[id] = ecs.Motion{Grounded: true}
	w.Hull[id] = phys.AgentHull(false)
	w.Health[id] = ecs.Health{Current: 100, Max: 100}
	w.IsAgent[id] = struct{}{}
	return id
}

func spawnWall(w *ecs.World, pos, size geom.Vec3) ecs.EntityID {
	id := w.NewEntity()
	w.Transform[id] = ecs.Transform{Position: pos}
	w.Hull[id] = ecs.Hull{
		Mins: geom.V(-size.X/2, -size.Y/2, 0),
		Maxs: geom.V(size.X/2, size.Y/2, size.Z),
	}
	w.IsSolid[id] = struct{}{}
	return id
}

func TestPhysics_Walk(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	for i := 0; i < 50; i++ {
		phys.Update(a, input.Intent{Forward: 1}, dt)
	}

	pos := w.Position(a)
	assert.Greater(t, pos.X, 100.0)
	assert.InDelta(t, 0, pos.Y, 1e-6)
	assert.Equal(t, 0.0, pos.Z)
	assert.True(t, w.Motion[a].Grounded)
	assert.InDelta(t, 190, w.Motion[a].Velocity.Length2D(), 1)
}

func TestPhysics_Jump(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	assert.True(t, phys.Update(a, input.Intent{Jump: true}, dt))
	mot := w.Motion[a]
	assert.True(t, mot.DidJump)
	assert.False(t, mot.Grounded)
	assert.Greater(t, w.Position(a).Z, 0.0)

	// Holding jump mid-air does not jump again
	assert.False(t, phys.Update(a, input.Intent{Jump: true}, dt))
	assert.False(t, w.Motion[a].DidJump)

	for i := 0; i < 60; i++ {
		phys.Update(a, input.Intent{}, dt)
	}
	assert.True(t, w.Motion[a].Grounded)
	assert.Equal(t, 0.0, w.Position(a).Z)
}

func TestPhysics_WallBlocks(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))
	spawnWall(w, geom.V(100, 0, 0), geom.V(16, 400, 128))

	for i := 0; i < 100; i++ {
		phys.Update(a, input.Intent{Forward: 1}, dt)
	}

	// wall face at 92, agent half width 16
	assert.LessOrEqual(t, w.Position(a).X, 76.0+2*contactSkin)
	assert.Greater(t, w.Position(a).X, 60.0)
}

func TestPhysics_SlidesAlongWall(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(70, 0, 0))
	spawnWall(w, geom.V(100, 0, 0), geom.V(16, 400, 128))

	// Diagonal input into the wall keeps the Y component
	for i := 0; i < 25; i++ {
		phys.Update(a, input.Intent{Forward: 1, Look: geom.Angles{Yaw: 45}}, dt)
	}
	assert.Greater(t, w.Position(a).Y, 20.0)
	assert.LessOrEqual(t, w.Position(a).X, 76.0+2*contactSkin)
}

func TestPhysics_Duck(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	assert.False(t, phys.Update(a, input.Intent{Duck: true, Jump: true}, dt))
	assert.True(t, w.Motion[a].Ducking)
	assert.Equal(t, 36.0, w.Hull[a].Maxs.Z)

	phys.Update(a, input.Intent{}, dt)
	assert.False(t, w.Motion[a].Ducking)
	assert.Equal(t, 72.0, w.Hull[a].Maxs.Z)

	phys.SetDucking(a, true)
	assert.True(t, w.Motion[a].Ducking)
}

func TestPhysics_StayDuckedUnderCeiling(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	phys.Update(a, input.Intent{Duck: true}, dt)
	ceiling := spawnWall(w, geom.V(0, 0, 50), geom.V(200, 200, 10))
	require.True(t, w.Exists(ceiling))

	phys.Update(a, input.Intent{}, dt)
	assert.True(t, w.Motion[a].Ducking)
}

func TestPhysics_LookClamp(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	phys.Update(a, input.Intent{Look: geom.Angles{Pitch: 120, Yaw: 30}}, dt)
	assert.Equal(t, 89.0, w.Transform[a].Eye.Pitch)
	assert.Equal(t, 30.0, w.Transform[a].Rotation.Yaw)
	assert.Equal(t, 0.0, w.Transform[a].Rotation.Pitch)

	phys.MarkJump(a)
	assert.True(t, w.Motion[a].DidJump)
}

type combatFixture struct {
	w       *ecs.World
	reg     *persist.Registry
	combat  *CombatSystem
	shooter ecs.EntityID
	target  ecs.EntityID
}

func newCombatFixture() *combatFixture {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	reg := persist.NewRegistry(w)
	f := &combatFixture{
		w:       w,
		reg:     reg,
		combat:  NewCombatSystem(w, reg, 1),
		shooter: spawnAgent(w, phys, geom.V(0, 0, 0)),
		target:  spawnAgent(w, phys, geom.V(200, 0, 0)),
	}
	reg.Assign(f.shooter, "shooter")
	reg.Assign(f.target, "target")
	return f
}

func straightBullet(damage float64) ballistics.Bullet {
	return ballistics.Bullet{
		Origin:    geom.V(0, 0, 64),
		Direction: geom.V(1, 0, 0),
		Damage:    damage,
	}
}

func TestCombat_Fire(t *testing.T) {
	f := newCombatFixture()

	hits := f.combat.Fire(f.shooter, straightBullet(10))

	require.Len(t, hits, 1)
	assert.Equal(t, "target", hits[0].EntityID)
	assert.InDelta(t, -16, hits[0].LocalHit.X, 1e-9)
	assert.InDelta(t, 64, hits[0].LocalHit.Z, 1e-9)
	assert.InDelta(t, 184, hits[0].Distance, 1e-9)
	assert.Equal(t, 90.0, f.w.Health[f.target].Current)
	assert.Equal(t, 100.0, f.w.Health[f.shooter].Current)
}

func TestCombat_FireBlockedByWall(t *testing.T) {
	f := newCombatFixture()
	spawnWall(f.w, geom.V(100, 0, 0), geom.V(16, 400, 128))

	hits := f.combat.Fire(f.shooter, straightBullet(10))

	assert.Empty(t, hits, "walls carry no persistent id")
	assert.Equal(t, 100.0, f.w.Health[f.target].Current)
}

func TestCombat_FalloffAndKill(t *testing.T) {
	f := newCombatFixture()
	var kills []ecs.EntityID
	f.combat.OnKill = func(victim, attacker ecs.EntityID) {
		assert.Equal(t, f.shooter, attacker)
		kills = append(kills, victim)
	}

	b := straightBullet(60)
	b.Falloff = ballistics.Falloff{Mode: ballistics.FalloffLinear, Factor: 0.1}
	f.combat.Fire(f.shooter, b)
	// 60 - 184*0.1
	assert.InDelta(t, 100-41.6, f.w.Health[f.target].Current, 1e-9)
	assert.Empty(t, kills)

	f.combat.Fire(f.shooter, straightBullet(500))
	f.combat.Fire(f.shooter, straightBullet(500))
	assert.Equal(t, []ecs.EntityID{f.target}, kills)
}

func TestCombat_PenetratesLooseWeapons(t *testing.T) {
	f := newCombatFixture()
	gun := entity.SpawnWeapon(f.w, geom.V(100, 0, 0), "pistol")

	b := straightBullet(10)
	b.Origin = geom.V(0, 0, 4)
	b.Force = 1
	hits := f.combat.Fire(f.shooter, b)

	require.Len(t, hits, 1)
	assert.Equal(t, "target", hits[0].EntityID)
	assert.Greater(t, f.w.Motion[gun].Velocity.X, 0.0)
	assert.Equal(t, 90.0, f.w.Health[f.target].Current)
}

func TestCombat_ReplayShot(t *testing.T) {
	t.Run("follows the target", func(t *testing.T) {
		f := newCombatFixture()
		b := straightBullet(10)
		trace := f.combat.Fire(f.shooter, b)
		require.Len(t, trace, 1)

		// A fresh trace along the ray would now miss
		f.w.SetPosition(f.target, geom.V(300, 50, 0))
		f.combat.ReplayShot(f.shooter, b, trace)
		assert.Equal(t, 80.0, f.w.Health[f.target].Current)
	})

	t.Run("blocked segment stops", func(t *testing.T) {
		f := newCombatFixture()
		b := straightBullet(10)
		trace := f.combat.Fire(f.shooter, b)

		spawnWall(f.w, geom.V(100, 0, 0), geom.V(16, 400, 128))
		f.combat.ReplayShot(f.shooter, b, trace)
		assert.Equal(t, 90.0, f.w.Health[f.target].Current)
	})

	t.Run("unknown entities are skipped", func(t *testing.T) {
		f := newCombatFixture()
		trace := []ballistics.TraceHit{
			{EntityID: "gone", LocalHit: geom.V(0, 0, 10)},
			{EntityID: "target", LocalHit: geom.V(-16, 0, 64)},
		}
		f.combat.ReplayShot(f.shooter, straightBullet(10), trace)
		assert.Equal(t, 90.0, f.w.Health[f.target].Current)
	})

	t.Run("empty trace fires fresh", func(t *testing.T) {
		f := newCombatFixture()
		f.combat.ReplayShot(f.shooter, straightBullet(10), nil)
		assert.Equal(t, 90.0, f.w.Health[f.target].Current)
	})
}

func TestCombat_Pellets(t *testing.T) {
	f := newCombatFixture()
	origin := geom.V(0, 0, 64)

	shotgun := WeaponKind{Name: "shotgun", Pellets: 9, Bullet: ballistics.Bullet{Damage: 10, Spread: 0.25}}
	pellets := f.combat.Pellets(shotgun, origin, geom.Angles{Yaw: 90})
	require.Len(t, pellets, 9)
	distinct := map[geom.Vec3]bool{}
	for _, p := range pellets {
		assert.Equal(t, origin, p.Origin)
		assert.InDelta(t, 1, p.Direction.Length(), 1e-9)
		assert.Greater(t, p.Direction.Y, 0.8)
		distinct[p.Direction] = true
	}
	assert.Greater(t, len(distinct), 1)

	pistol := WeaponKind{Name: "pistol", Pellets: 1, Bullet: ballistics.Bullet{Damage: 25}}
	pellets = f.combat.Pellets(pistol, origin, geom.Angles{})
	require.Len(t, pellets, 1)
	assert.InDelta(t, 1, pellets[0].Direction.X, 1e-12)
}

func TestFindUsable(t *testing.T) {
	setup := func() (*ecs.World, ecs.EntityID) {
		w := ecs.NewWorld()
		phys := createTestPhysics(w)
		return w, spawnAgent(w, phys, geom.V(0, 0, 0))
	}

	t.Run("door in reach", func(t *testing.T) {
		w, user := setup()
		door := entity.SpawnDoor(w, geom.V(60, 0, 0), geom.V(16, 96, 112), false)
		got, ok := FindUsable(w, user, 85)
		assert.True(t, ok)
		assert.Equal(t, door, got)
	})

	t.Run("door out of reach", func(t *testing.T) {
		w, user := setup()
		entity.SpawnDoor(w, geom.V(200, 0, 0), geom.V(16, 96, 112), false)
		_, ok := FindUsable(w, user, 85)
		assert.False(t, ok)
	})

	t.Run("wall in front", func(t *testing.T) {
		w, user := setup()
		spawnWall(w, geom.V(30, 0, 0), geom.V(8, 100, 128))
		entity.SpawnDoor(w, geom.V(60, 0, 0), geom.V(16, 96, 112), false)
		_, ok := FindUsable(w, user, 85)
		assert.False(t, ok)
	})

	t.Run("locked door", func(t *testing.T) {
		w, user := setup()
		door := entity.SpawnDoor(w, geom.V(60, 0, 0), geom.V(16, 96, 112), false)
		w.Behavior[door].(*entity.Door).Locked = true
		_, ok := FindUsable(w, user, 85)
		assert.False(t, ok)
	})

	t.Run("lever", func(t *testing.T) {
		w, user := setup()
		lever := entity.SpawnLever(w, geom.V(50, 0, 0), 2, 0, false)
		got, ok := FindUsable(w, user, 85)
		assert.True(t, ok)
		assert.Equal(t, lever, got)
	})
}

func TestNearestWeapon(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))

	far := entity.SpawnWeapon(w, geom.V(40, 0, 0), "pistol")
	near := entity.SpawnWeapon(w, geom.V(20, 10, 0), "pistol")
	entity.SpawnWeapon(w, geom.V(5, 0, 50), "pistol")

	got, ok := NearestWeapon(w, a, 64, 32)
	assert.True(t, ok)
	assert.Equal(t, near, got)

	w.Attach(near, a)
	got, ok = NearestWeapon(w, a, 64, 32)
	assert.True(t, ok)
	assert.Equal(t, far, got)

	_, ok = NearestWeapon(w, a, 10, 32)
	assert.False(t, ok)
}

func TestTouchTriggers(t *testing.T) {
	w := ecs.NewWorld()
	phys := createTestPhysics(w)
	a := spawnAgent(w, phys, geom.V(0, 0, 0))
	trig := entity.SpawnUnlinkTrigger(w, geom.V(100, 0, 0), geom.V(64, 64, 72), "door1")

	assert.Empty(t, TouchTriggers(w, a))

	w.SetPosition(a, geom.V(100, 0, 0))
	assert.Equal(t, []ecs.EntityID{trig}, TouchTriggers(w, a))
	assert.Empty(t, TouchTriggers(w, a), "still inside")

	w.SetPosition(a, geom.V(0, 0, 0))
	assert.Empty(t, TouchTriggers(w, a))

	w.SetPosition(a, geom.V(100, 0, 0))
	assert.Equal(t, []ecs.EntityID{trig}, TouchTriggers(w, a))
}

func TestDropVelocity(t *testing.T) {
	v := DropVelocity(geom.V(192, 0, 192), 90)
	assert.InDelta(t, 0, v.X, 1e-9)
	assert.InDelta(t, 192, v.Y, 1e-9)
	assert.Equal(t, 192.0, v.Z)
}

func testWeapons() map[string]config.WeaponConfig {
	return map[string]config.WeaponConfig{
		"pistol": {Pellets: 1, Damage: 25, FireInterval: 0.25, Falloff: config.FalloffConfig{Mode: "constant"}},
		"knife":  {Pellets: 0, Damage: 40, FireInterval: 0.5, Undroppable: true},
	}
}

func TestArmory(t *testing.T) {
	a, err := NewArmory(testWeapons())
	require.NoError(t, err)
	assert.Equal(t, []string{"knife", "pistol"}, a.Names())

	knife, ok := a.Kind("knife")
	require.True(t, ok)
	assert.Equal(t, 1, knife.Pellets)

	w := ecs.NewWorld()
	reg := persist.NewRegistry(w)
	id, err := a.Spawn(w, reg, "knife", "p1.weapon", geom.V(1, 2, 3))
	require.NoError(t, err)

	wp, ok := entity.WeaponOf(w, id)
	require.True(t, ok)
	assert.False(t, wp.CanDrop())
	got, ok := reg.Resolve("p1.weapon", persist.Weapons)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, err = a.Spawn(w, reg, "bazooka", "", geom.Vec3{})
	assert.Error(t, err)
}

func TestArmory_BadFalloff(t *testing.T) {
	_, err := NewArmory(map[string]config.WeaponConfig{
		"odd": {Pellets: 1, Falloff: config.FalloffConfig{Mode: "quadratic"}},
	})
	assert.Error(t, err)
}

func TestLoadLevel(t *testing.T) {
	loader := config.NewFSLoader(configs.FS, "configs")
	game, err := loader.LoadGame()
	require.NoError(t, err)
	cfg, err := loader.LoadLevel("arena")
	require.NoError(t, err)

	armory, err := NewArmory(game.Weapons)
	require.NoError(t, err)

	w := ecs.NewWorld()
	reg := persist.NewRegistry(w)
	lvl, err := LoadLevel(w, reg, armory, cfg)
	require.NoError(t, err)

	assert.Equal(t, "arena", lvl.Name)
	assert.Len(t, lvl.Spawns, 4)
	assert.Equal(t, lvl.Spawns[1], lvl.SpawnAt(5))

	for _, pid := range []string{"door1", "lever1", "gate_zone"} {
		_, ok := reg.Resolve(pid, persist.Props)
		assert.True(t, ok, pid)
	}
	for _, pid := range []string{"floor_pistol", "floor_shotgun"} {
		_, ok := reg.Resolve(pid, persist.Weapons)
		assert.True(t, ok, pid)
	}

	// walls plus the closed door
	assert.Len(t, ecs.Tagged(w.IsSolid), len(cfg.Walls)+1)
}

func TestLoadLevel_Errors(t *testing.T) {
	armory, err := NewArmory(testWeapons())
	require.NoError(t, err)

	t.Run("lever state out of range", func(t *testing.T) {
		w := ecs.NewWorld()
		_, err := LoadLevel(w, persist.NewRegistry(w), armory, &config.LevelConfig{
			Levers: []config.LeverConfig{{ID: "l", States: 2, Initial: 2}},
		})
		assert.Error(t, err)
	})

	t.Run("unknown weapon", func(t *testing.T) {
		w := ecs.NewWorld()
		_, err := LoadLevel(w, persist.NewRegistry(w), armory, &config.LevelConfig{
			Weapons: []config.PickupConfig{{ID: "x", Kind: "railgun"}},
		})
		assert.Error(t, err)
	})

	t.Run("no spawns", func(t *testing.T) {
		w := ecs.NewWorld()
		lvl, err := LoadLevel(w, persist.NewRegistry(w), armory, &config.LevelConfig{Name: "empty"})
		require.NoError(t, err)
		assert.Equal(t, Spawn{}, lvl.SpawnAt(3))
	})
}
