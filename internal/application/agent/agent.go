// Package agent is the body every participant, bot and remnant plays
// through. Live agents are captured into timelines, remnants replay them,
// and a remnant whose canon breaks is unlinked to the AI controller.
package agent

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/application/system"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/domain/timeline"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

var (
	ErrAlreadyCapturing = errors.New("agent is already capturing")
	ErrNotCapturing     = errors.New("agent is not capturing")
	ErrNoTimeline       = errors.New("agent has no timeline")
)

// Env is the simulation an agent lives in. One Env is shared by every
// agent of a session.
type Env struct {
	World    *ecs.World
	Registry *persist.Registry
	Arena    *timeline.Arena
	Clock    anim.Clock
	Armory   *system.Armory
	Physics  *system.PhysicsSystem
	Combat   *system.CombatSystem
	Config   *config.GameConfig

	// Roster lists the agents the AI controller may pick targets from
	Roster func() []*Agent
	// OnUnlink is called after a remnant leaves its timeline
	OnUnlink func(a *Agent, last timeline.BranchID)
}

// Agent is one controllable body
type Agent struct {
	env  *Env
	id   ecs.EntityID
	mode state.ControlMode
	dead bool

	source input.Source
	ai     *Controller
	prev   input.Intent

	capture *timeline.Capture
	player  *timeline.Player

	using   string // persistent ID of a target held with use
	effects bool
}

// Spawn creates an agent body at pos facing yaw. A non-empty persistentID
// is assigned to the body.
func Spawn(env *Env, persistentID string, pos geom.Vec3, yaw float64, mode state.ControlMode) *Agent {
	w := env.World
	id := w.NewEntity()
	look := geom.Angles{Yaw: yaw}
	w.Transform[id] = ecs.Transform{Position: pos, Rotation: look, Eye: look}
	w.Motion[id] = ecs.Motion{Grounded: pos.Z <= ecs.FloorZ}
	w.Hull[id] = env.Physics.AgentHull(false)
	w.Health[id] = ecs.Health{Current: env.Config.Agent.MaxHealth, Max: env.Config.Agent.MaxHealth}
	w.IsAgent[id] = struct{}{}
	if persistentID != "" {
		env.Registry.Assign(id, persistentID)
	}

	a := &Agent{env: env, id: id, mode: mode}
	if mode == state.ModeAI {
		a.ai = NewController(env.Config.AI)
	}
	return a
}

// ID returns the body entity
func (a *Agent) ID() ecs.EntityID {
	return a.id
}

// PersistentID returns the body's persistent ID, generating one if needed
func (a *Agent) PersistentID() string {
	pid, _ := a.env.Registry.IDOf(a.id, true)
	return pid
}

// Mode returns who drives the agent
func (a *Agent) Mode() state.ControlMode {
	return a.mode
}

// SetMode switches control. Leaving Animated stops playback.
func (a *Agent) SetMode(m state.ControlMode) {
	if a.mode == state.ModeAnimated && m != state.ModeAnimated && a.player != nil {
		a.player.Stop()
		a.player.StopActions()
	}
	if m == state.ModeAI && a.ai == nil {
		a.ai = NewController(a.env.Config.AI)
	}
	a.mode = m
	a.prev = input.Intent{}
}

// SetSource sets the live input for Player mode
func (a *Agent) SetSource(src input.Source) {
	a.source = src
}

// Dead reports whether the agent was killed
func (a *Agent) Dead() bool {
	return a.dead
}

// Capture returns the current capture, nil if never captured
func (a *Agent) Capture() *timeline.Capture {
	return a.capture
}

// Player returns the timeline player, nil if never animated
func (a *Agent) Player() *timeline.Player {
	return a.player
}

// Controller returns the AI controller, nil unless the agent was ever AI
func (a *Agent) Controller() *Controller {
	return a.ai
}

// Capturing reports whether an animation is being recorded
func (a *Agent) Capturing() bool {
	return a.capture != nil && a.capture.IsRecording()
}

// StartCapture begins a new timeline owned by the agent's persistent ID
func (a *Agent) StartCapture() error {
	if a.Capturing() {
		return ErrAlreadyCapturing
	}
	a.capture = timeline.NewCapture(a.env.Arena, a.env.Clock, a.env.Config.TickRate, a.PersistentID())
	return a.capture.Start()
}

// StopCapture seals the capture with GameEnd and returns its root
func (a *Agent) StopCapture() (timeline.BranchID, error) {
	if !a.Capturing() {
		return timeline.NoBranch, ErrNotCapturing
	}
	return a.capture.Complete()
}

// AbortCapture stops recording without sealing and returns the open
// animation.
func (a *Agent) AbortCapture() (*anim.Animation, error) {
	if !a.Capturing() {
		return nil, ErrNotCapturing
	}
	return a.capture.Abort()
}

// PlayTimeline replays a branch on this agent. The agent must be Animated.
func (a *Agent) PlayTimeline(id timeline.BranchID, isRoot bool) error {
	if a.player == nil {
		a.player = timeline.NewPlayer(a.env.Arena, a.env.Clock, a)
	}
	return a.player.PlayTimeline(id, isRoot)
}

// ActiveTimeline returns the tree this agent contributes to: its own
// capture root unless the capture is a fork, else the tree it replayed.
func (a *Agent) ActiveTimeline() timeline.BranchID {
	if a.capture != nil && !a.capture.Forked() && a.capture.Root() != timeline.NoBranch {
		return a.capture.Root()
	}
	if a.player != nil && a.player.Root() != timeline.NoBranch {
		return a.player.Root()
	}
	if a.capture != nil {
		return a.capture.Root()
	}
	return timeline.NoBranch
}

// Finalize closes the agent at round end: an open capture is sealed with
// GameEnd and playback stops. It returns the agent's timeline.
func (a *Agent) Finalize() (timeline.BranchID, error) {
	var err error
	if a.Capturing() {
		if _, cerr := a.capture.Complete(); cerr != nil {
			err = fmt.Errorf("failed to finalize %s: %w", a.PersistentID(), cerr)
		}
	}
	if a.player != nil {
		a.player.Stop()
		a.player.StopActions()
	}

	root := a.ActiveTimeline()
	if root == timeline.NoBranch && err == nil {
		err = fmt.Errorf("finalize %s: %w", a.PersistentID(), ErrNoTimeline)
	}
	return root, err
}

// Die seals the capture with a final Death event, stops playback and
// drops the held weapon. It returns the agent's timeline.
func (a *Agent) Die() timeline.BranchID {
	if a.dead {
		return a.ActiveTimeline()
	}
	a.dead = true

	if a.Capturing() {
		if _, err := a.capture.Event(timeline.Death{}, true); err != nil {
			a.log().WithError(err).Warn("failed to record death")
		}
	}
	if a.player != nil {
		a.player.Stop()
		a.player.StopActions()
	}
	if held, _, ok := entity.HeldWeapon(a.env.World, a.id); ok {
		a.env.World.Detach(held, geom.Vec3{})
	}
	return a.ActiveTimeline()
}

// GrantWeapon spawns a weapon in the agent's hands. An active capture
// records it so replays start armed the same way.
func (a *Agent) GrantWeapon(ws timeline.WeaponSpawn) error {
	w := a.env.World
	id, err := a.env.Armory.Spawn(w, a.env.Registry, ws.Kind, ws.PersistentID, w.Position(a.id))
	if err != nil {
		return fmt.Errorf("failed to grant weapon to %s: %w", a.PersistentID(), err)
	}
	w.Attach(id, a.id)
	if a.capture != nil {
		a.capture.SetWeaponSpawn(ws)
	}
	return nil
}

// Tick runs one simulation step for the agent
func (a *Agent) Tick(dt float64) {
	if a.dead || !a.env.World.Exists(a.id) {
		return
	}

	switch a.mode {
	case state.ModeAnimated:
		if a.player != nil {
			a.player.Tick()
		}
	case state.ModeAI:
		a.drive(a.ai.Next(a), dt)
	default:
		in := input.Intent{Look: a.env.World.Transform[a.id].Eye}
		if a.source != nil {
			in = a.source.Next()
		}
		a.drive(in, dt)
	}

	a.touchTriggers()

	if a.Capturing() {
		if err := a.capture.Tick(a.frame()); err != nil {
			a.log().WithError(err).Warn("failed to record frame")
		}
	}
}

func (a *Agent) frame() anim.Frame {
	t := a.env.World.Transform[a.id]
	m := a.env.World.Motion[a.id]
	return anim.Frame{
		Position:    t.Position,
		Velocity:    m.Velocity,
		Rotation:    t.Rotation,
		EyeRotation: t.Eye,
		Grounded:    m.Grounded,
		Ducking:     m.Ducking,
		DidJump:     m.DidJump,
	}
}

func (a *Agent) log() *logrus.Entry {
	pid, _ := a.env.Registry.IDOf(a.id, false)
	return logger.Log.WithFields(logrus.Fields{
		"agent": pid,
		"mode":  a.mode.String(),
	})
}
