package arena

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/remnant/configs"
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/scene"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

const dt = 1.0 / 50.0

func init() {
	logger.Silence()
}

func newArena(t *testing.T, opts Options) *Arena {
	t.Helper()
	bundle, err := config.NewFSLoader(configs.FS, "configs").LoadAll("")
	require.NoError(t, err)

	s, err := session.New(bundle)
	require.NoError(t, err)

	a, err := New(s, 640, 480, opts)
	require.NoError(t, err)
	return a
}

func TestArena_ImplementsScene(t *testing.T) {
	var _ scene.Scene = (*Arena)(nil)
}

func TestNew_JoinsSession(t *testing.T) {
	a := newArena(t, Options{})

	parts := a.Session().Participants()
	require.Len(t, parts, 1)
	assert.Equal(t, "player", parts[0].ClientID)
	assert.False(t, a.Paused())
}

func TestNew_DuplicateClient(t *testing.T) {
	a := newArena(t, Options{ClientID: "alice"})

	_, err := New(a.Session(), 640, 480, Options{ClientID: "alice"})
	assert.ErrorIs(t, err, session.ErrDuplicateClient)
}

func TestArena_Update_TicksSession(t *testing.T) {
	a := newArena(t, Options{})

	before := a.Session().Ticks()
	next, err := a.Update(dt)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, before+1, a.Session().Ticks())
}

func TestArena_RoundDrivesKeyboardAgent(t *testing.T) {
	a := newArena(t, Options{ClientID: "alice"})

	a.run("round_start")
	assert.Contains(t, a.message, "round 1 started")

	self := a.self()
	require.NotNil(t, self)
	assert.Equal(t, round.LivePersistentID("alice", 1), self.PersistentID())
	assert.True(t, self.Capturing())

	_, err := a.Update(dt)
	require.NoError(t, err)

	a.run("round_end")
	assert.Contains(t, a.message, "round 1 ended")
	assert.Nil(t, a.self())

	_, ok := a.Session().Timeline(round.LivePersistentID("alice", 1))
	assert.True(t, ok)
}

func TestArena_ConsoleErrorsReachHUD(t *testing.T) {
	a := newArena(t, Options{})

	a.run("round_end")
	assert.NotEmpty(t, a.message)

	for i := 0; i < int(messageTTL/dt)+2; i++ {
		_, _ = a.Update(dt)
	}
	assert.Empty(t, a.message)
}

func TestArena_Recording(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bots"), 0o755))
	path := filepath.Join(dir, "bots", "keys.yaml")
	a := newArena(t, Options{Record: true, RecordPath: path})
	require.NotNil(t, a.recorder)

	a.run("round_start")
	for i := 0; i < 5; i++ {
		_, err := a.Update(dt)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, a.recorder.TickCount())

	a.saveRecording()
	bot, err := config.NewLoader(dir).LoadBot("keys")
	require.NoError(t, err)
	assert.NotEmpty(t, bot.Steps)
	assert.Equal(t, 5, input.NewScript(*bot).TotalTicks())
}

func TestArena_OnExitWithoutTicksSkipsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.yaml")
	a := newArena(t, Options{Record: true, RecordPath: path})

	a.OnExit()
	assert.NoFileExists(t, path)
}

func TestView(t *testing.T) {
	v := fit(geom.V(1000, 500, 100), 500, 500)
	assert.InDelta(t, 0.5, v.scale, 1e-9)

	x, y := v.toScreen(geom.V(0, 0, 50))
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 500.0, y, 1e-9)

	x, y = v.toScreen(geom.V(1000, 500, 0))
	assert.InDelta(t, 500.0, x, 1e-9)
	assert.InDelta(t, 250.0, y, 1e-9)

	flat := fit(geom.Vec3{}, 320, 240)
	assert.Equal(t, 1.0, flat.scale)
}

func TestKeys_Intent(t *testing.T) {
	tests := []struct {
		name    string
		keys    Keys
		forward float64
		side    float64
	}{
		{"idle", Keys{}, 0, 0},
		{"forward", Keys{Forward: true}, 1, 0},
		{"back", Keys{Back: true}, -1, 0},
		{"opposed cancel", Keys{Forward: true, Back: true}, 0, 0},
		{"strafe right", Keys{Right: true}, 0, 1},
		{"strafe left", Keys{Left: true, Forward: true}, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.keys.Intent(30)
			assert.Equal(t, tt.forward, in.Forward)
			assert.Equal(t, tt.side, in.Side)
			assert.Equal(t, 30.0, in.Look.Yaw)
		})
	}

	in := Keys{Jump: true, Use: true, Attack: true}.Intent(0)
	assert.True(t, in.Jump)
	assert.True(t, in.Use)
	assert.True(t, in.Attack)
	assert.False(t, in.Drop)
	assert.False(t, in.Duck)
}

func TestAimYaw(t *testing.T) {
	tests := []struct {
		name   string
		tx, ty float64
		want   float64
	}{
		{"right", 110, 100, 0},
		{"up the screen", 100, 90, 90},
		{"left", 90, 100, 180},
		{"down the screen", 100, 110, -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AimYaw(100, 100, tt.tx, tt.ty), 1e-9)
		})
	}
}

func TestKeyboard_Set(t *testing.T) {
	k := NewKeyboard()

	k.Set(Keys{Forward: true}, 100, 100, 100, 50)
	assert.InDelta(t, 90.0, k.Yaw(), 1e-9)
	assert.Equal(t, 1.0, k.Next().Forward)

	// cursor on top of the agent keeps the last aim
	k.Set(Keys{}, 100, 100, 101, 101)
	assert.InDelta(t, 90.0, k.Yaw(), 1e-9)
	assert.Equal(t, 0.0, k.Next().Forward)

	// no driven agent
	k.Set(Keys{}, math.NaN(), math.NaN(), 0, 0)
	assert.InDelta(t, 90.0, k.Yaw(), 1e-9)
}
