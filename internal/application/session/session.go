// Package session owns the simulation between rounds: the world, the
// timeline arena, the agents and the per-owner timelines carried from one
// round into the next. Everything runs on the goroutine calling Tick;
// other goroutines talk to it through Do.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/application/agent"
	"github.com/younwookim/remnant/internal/application/round"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/application/system"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/domain/entity"
	"github.com/younwookim/remnant/internal/domain/persist"
	"github.com/younwookim/remnant/internal/domain/timeline"
	"github.com/younwookim/remnant/internal/ecs"
	"github.com/younwookim/remnant/internal/infrastructure/config"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

var (
	ErrRoundActive       = errors.New("a round is already running")
	ErrDuplicateClient   = errors.New("client already participating")
	ErrUnknownAgent      = errors.New("no agent with that persistent id")
	ErrUnknownWeaponKind = errors.New("unknown weapon kind")
)

// Session is one game: a level, a timeline arena and the rounds played on
// them.
type Session struct {
	id       string
	cfg      *config.GameConfig
	levelCfg *config.LevelConfig

	world    *ecs.World
	registry *persist.Registry
	arena    *timeline.Arena
	clock    *anim.SimClock
	armory   *system.Armory
	physics  *system.PhysicsSystem
	combat   *system.CombatSystem
	env      *agent.Env
	level    *system.Level

	agents       []*agent.Agent
	participants []round.Participant
	spawnIndex   int

	round     *round.Round
	roundID   int
	absorbed  bool
	timelines map[string]timeline.BranchID
	owners    []string // timelines insertion order
	prior     []timeline.BranchID

	commands chan command
	ticking  bool
	doomed   []*agent.Agent
	ticks    uint64
}

// New builds a session for bundle and loads its level
func New(bundle *config.Bundle) (*Session, error) {
	cfg := bundle.Game
	armory, err := system.NewArmory(cfg.Weapons)
	if err != nil {
		return nil, fmt.Errorf("failed to build armory: %w", err)
	}

	w := ecs.NewWorld()
	reg := persist.NewRegistry(w)
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		levelCfg:  bundle.Level,
		world:     w,
		registry:  reg,
		arena:     timeline.NewArena(),
		clock:     anim.NewSimClock(),
		armory:    armory,
		physics:   system.NewPhysicsSystem(cfg.Movement, cfg.Agent, w),
		combat:    system.NewCombatSystem(w, reg, 1),
		timelines: make(map[string]timeline.BranchID),
		commands:  make(chan command, commandBuffer),
	}
	s.env = &agent.Env{
		World:    w,
		Registry: reg,
		Arena:    s.arena,
		Clock:    s.clock,
		Armory:   armory,
		Physics:  s.physics,
		Combat:   s.combat,
		Config:   cfg,
		Roster:   s.Agents,
		OnUnlink: s.onUnlink,
	}
	s.combat.OnKill = s.onKill

	if err := s.ResetLevel(); err != nil {
		return nil, err
	}
	s.log().WithField("level", s.level.Name).Info("session created")
	return s, nil
}

// Tick advances the simulation by dt seconds
func (s *Session) Tick(dt float64) {
	s.drain()

	s.ticking = true
	entity.SimulateAll(s.world, dt)
	for _, a := range s.Agents() {
		a.Tick(dt)
	}
	ecs.UpdateLooseBodies(s.world, ecs.LooseBodyConfig{
		Gravity:  s.cfg.LooseBodies.Gravity,
		Friction: s.cfg.LooseBodies.Friction,
	}, dt)
	ecs.FollowParents(s.world)
	s.ticking = false
	s.bury()

	if s.round != nil {
		s.round.Tick(dt)
		s.absorb()
	}
	s.clock.Advance(dt)
	s.ticks++
}

// DoRound starts the next round with every timeline harvested so far
func (s *Session) DoRound() (*round.Completion, error) {
	if s.RoundRunning() {
		return nil, fmt.Errorf("start round %d: %w", s.roundID+1, ErrRoundActive)
	}
	r := round.New(s, s.arena, s.cfg.RoundTime, s.cfg.DefaultWeapon)
	done, err := r.Start(s.roundID+1, s.prior)
	if err != nil {
		return nil, err
	}
	s.roundID++
	s.round = r
	s.absorbed = false
	return done, nil
}

// EndRound ends the running round now
func (s *Session) EndRound() (round.Result, error) {
	if s.round == nil {
		return round.Result{}, round.ErrNotRunning
	}
	res, err := s.round.EndRound()
	if err != nil {
		return res, err
	}
	s.absorb()
	return res, nil
}

// absorb files a finished round's harvest for the next round
func (s *Session) absorb() {
	if s.absorbed || s.round.Phase() != state.RoundEnded {
		return
	}
	s.absorbed = true
	res, _ := s.round.Completion().Result()

	s.prior = s.prior[:0]
	seen := make(map[timeline.BranchID]bool)
	for _, h := range res.Timelines {
		s.TryAddTimeline(h.OwnerID, h.Root)
		if !seen[h.Root] {
			seen[h.Root] = true
			s.prior = append(s.prior, h.Root)
		}
	}
}

// TryAddTimeline files root under owner unless owner already has one
func (s *Session) TryAddTimeline(owner string, root timeline.BranchID) bool {
	if _, ok := s.timelines[owner]; ok {
		return false
	}
	s.timelines[owner] = root
	s.owners = append(s.owners, owner)
	return true
}

// Timeline returns the root filed under owner
func (s *Session) Timeline(owner string) (timeline.BranchID, bool) {
	root, ok := s.timelines[owner]
	return root, ok
}

// Owners returns every timeline owner in filing order
func (s *Session) Owners() []string {
	return append([]string(nil), s.owners...)
}

// Prior returns the roots the next round will replay
func (s *Session) Prior() []timeline.BranchID {
	return append([]timeline.BranchID(nil), s.prior...)
}

// Reset ends any round, forgets every timeline and reloads the level
func (s *Session) Reset() error {
	if s.RoundRunning() {
		if _, err := s.round.EndRound(); err != nil {
			s.log().WithError(err).Warn("failed to end round on reset")
		}
	}
	s.round = nil
	s.roundID = 0
	s.timelines = make(map[string]timeline.BranchID)
	s.owners = nil
	s.prior = nil
	s.arena = timeline.NewArena()
	s.env.Arena = s.arena
	return s.ResetLevel()
}

// ResetLevel removes every agent and rebuilds the level
func (s *Session) ResetLevel() error {
	s.world.Clear()
	s.agents = nil
	s.doomed = nil
	s.spawnIndex = 0

	lvl, err := system.LoadLevel(s.world, s.registry, s.armory, s.levelCfg)
	if err != nil {
		return fmt.Errorf("failed to reset level: %w", err)
	}
	s.level = lvl
	return nil
}

// Participants returns the connected player slots
func (s *Session) Participants() []round.Participant {
	return s.participants
}

// AddParticipant connects a player. It joins from the next round on.
func (s *Session) AddParticipant(p round.Participant) error {
	for _, other := range s.participants {
		if other.ClientID == p.ClientID {
			return fmt.Errorf("add %s: %w", p.ClientID, ErrDuplicateClient)
		}
	}
	s.participants = append(s.participants, p)
	s.log().WithField("client", p.ClientID).Info("participant added")
	return nil
}

// SpawnAgent creates a body at the next spawn point
func (s *Session) SpawnAgent(persistentID string, mode state.ControlMode) *agent.Agent {
	sp := s.level.SpawnAt(s.spawnIndex)
	s.spawnIndex++
	a := agent.Spawn(s.env, persistentID, sp.Position, sp.Yaw, mode)
	s.agents = append(s.agents, a)
	return a
}

// SpawnAI creates a free AI agent armed with weapon, outside any round
func (s *Session) SpawnAI(weapon string) (*agent.Agent, error) {
	if weapon != "" {
		if _, ok := s.armory.Kind(weapon); !ok {
			return nil, fmt.Errorf("spawn ai with %q: %w", weapon, ErrUnknownWeaponKind)
		}
	}
	a := s.SpawnAgent("", state.ModeAI)
	pid := a.PersistentID()
	if weapon != "" {
		if err := a.GrantWeapon(timeline.WeaponSpawn{Kind: weapon, PersistentID: pid + ".weapon"}); err != nil {
			return a, err
		}
	}
	return a, nil
}

// RemoveAgent deletes a body. During a tick the entity survives until the
// agents have all moved.
func (s *Session) RemoveAgent(a *agent.Agent) {
	for i, other := range s.agents {
		if other == a {
			s.agents = append(s.agents[:i], s.agents[i+1:]...)
			break
		}
	}
	s.doomed = append(s.doomed, a)
	if !s.ticking {
		s.bury()
	}
}

func (s *Session) bury() {
	for _, a := range s.doomed {
		s.world.DestroyEntity(a.ID())
	}
	s.doomed = s.doomed[:0]
}

// Agent returns the agent carrying persistentID
func (s *Session) Agent(persistentID string) (*agent.Agent, error) {
	for _, a := range s.agents {
		if pid, ok := s.registry.IDOf(a.ID(), false); ok && pid == persistentID {
			return a, nil
		}
	}
	return nil, fmt.Errorf("find %s: %w", persistentID, ErrUnknownAgent)
}

// Agents returns a snapshot of every agent body
func (s *Session) Agents() []*agent.Agent {
	return append([]*agent.Agent(nil), s.agents...)
}

func (s *Session) agentOf(id ecs.EntityID) *agent.Agent {
	for _, a := range s.agents {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

func (s *Session) onKill(victim, attacker ecs.EntityID) {
	a := s.agentOf(victim)
	if a == nil {
		return
	}
	killer, _ := s.registry.IDOf(attacker, false)
	s.log().WithFields(logrus.Fields{
		"victim":   a.PersistentID(),
		"attacker": killer,
	}).Info("agent killed")

	if s.RoundRunning() && s.round.Has(a) {
		s.round.OnAgentKilled(a)
		return
	}
	a.Die()
	s.RemoveAgent(a)
}

func (s *Session) onUnlink(a *agent.Agent, last timeline.BranchID) {
	s.log().WithFields(logrus.Fields{
		"agent":  a.PersistentID(),
		"branch": last,
		"round":  s.roundID,
	}).Info("remnant diverged from its timeline")
}

// RoundRunning reports whether a round is in progress
func (s *Session) RoundRunning() bool {
	return s.round != nil && s.round.Phase() == state.RoundRunning
}

// Round returns the current or last round, nil before the first
func (s *Session) Round() *round.Round {
	return s.round
}

// RoundID returns the number of the current or last round
func (s *Session) RoundID() int {
	return s.roundID
}

// ID returns the session's unique ID
func (s *Session) ID() string {
	return s.id
}

// Config returns the game configuration
func (s *Session) Config() *config.GameConfig {
	return s.cfg
}

// Level returns the loaded level
func (s *Session) Level() *system.Level {
	return s.level
}

// World returns the simulation world
func (s *Session) World() *ecs.World {
	return s.world
}

// Registry returns the persistent ID registry
func (s *Session) Registry() *persist.Registry {
	return s.registry
}

// Arena returns the timeline arena
func (s *Session) Arena() *timeline.Arena {
	return s.arena
}

// Armory returns the weapon kinds
func (s *Session) Armory() *system.Armory {
	return s.armory
}

// Now returns the simulation clock
func (s *Session) Now() float64 {
	return s.clock.Now()
}

// Ticks returns the number of ticks run
func (s *Session) Ticks() uint64 {
	return s.ticks
}

// Status is a one-line summary for operators
func (s *Session) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s level %s t=%.2f", s.id[:8], s.level.Name, s.clock.Now())
	if s.round != nil {
		fmt.Fprintf(&b, " round %d %s", s.roundID, s.round.Phase())
		if s.round.Phase() == state.RoundRunning {
			fmt.Fprintf(&b, " %.1fs left", s.round.TimeLeft())
		}
	}
	fmt.Fprintf(&b, " agents %d timelines %d branches %d", len(s.agents), len(s.timelines), s.arena.Len())
	return b.String()
}

func (s *Session) log() *logrus.Entry {
	return logger.Log.WithField("session", s.id[:8])
}
