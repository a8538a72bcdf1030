package config

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/remnant/configs"
)

func embedded() *Loader {
	return NewFSLoader(configs.FS, "configs")
}

func TestLoader_LoadGame(t *testing.T) {
	cfg, err := embedded().LoadGame()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.TickRate)
	assert.Equal(t, "arena", cfg.Level)
	assert.Equal(t, 85.0, cfg.Agent.UseReach)
	assert.Equal(t, Vec{X: 192, Z: 192}, cfg.Agent.DropVelocity)

	shotgun, ok := cfg.Weapons["shotgun"]
	require.True(t, ok)
	assert.Equal(t, 9, shotgun.Pellets)
	assert.Equal(t, 1.0, shotgun.FireInterval)

	pistol, ok := cfg.Weapons["pistol"]
	require.True(t, ok)
	assert.Equal(t, 1, pistol.Pellets)
	assert.Equal(t, 25.0, pistol.Damage)
}

func TestLoader_LoadGameRejectsInvalid(t *testing.T) {
	schema, err := configs.FS.ReadFile("game.schema.json")
	require.NoError(t, err)

	fsys := fstest.MapFS{
		"game.schema.json": {Data: schema},
		"game.json":        {Data: []byte(`{"tickRate": 0, "roundTime": 10}`)},
	}
	_, err = NewFSLoader(fsys, "mem").LoadGame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid game.json")
}

func TestLoader_LoadLevel(t *testing.T) {
	cfg, err := embedded().LoadLevel("arena")
	require.NoError(t, err)

	assert.Equal(t, "arena", cfg.Name)
	assert.Len(t, cfg.Spawns, 4)
	require.Len(t, cfg.Doors, 1)
	assert.Equal(t, "door1", cfg.Doors[0].ID)
	require.Len(t, cfg.Triggers, 1)
	assert.Equal(t, "door1", cfg.Triggers[0].Provider)
	require.Len(t, cfg.Levers, 1)
	assert.True(t, cfg.Levers[0].Strict)
}

func TestLoader_LoadLevelMissing(t *testing.T) {
	_, err := embedded().LoadLevel("nowhere")
	assert.Error(t, err)
}

func TestLoader_Bots(t *testing.T) {
	l := embedded()
	names, err := l.Bots()
	require.NoError(t, err)
	assert.Equal(t, []string{"door_runner", "patrol"}, names)

	bot, err := l.LoadBot("patrol")
	require.NoError(t, err)
	assert.True(t, bot.Loop)
	require.NotEmpty(t, bot.Steps)
	assert.Equal(t, 50, bot.Steps[0].Ticks)
	assert.Equal(t, 1.0, bot.Steps[0].Forward)
}

func TestLoader_LoadAll(t *testing.T) {
	b, err := embedded().LoadAll("")
	require.NoError(t, err)

	assert.NotNil(t, b.Game)
	require.NotNil(t, b.Level)
	assert.Equal(t, "arena", b.Level.Name)
}
