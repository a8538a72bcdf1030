// Package round runs one round: it spawns remnants for the trees carried
// over from earlier rounds and live agents for the participants, counts
// down, and harvests every agent's timeline when the round ends.
package round

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/younwookim/remnant/internal/application/agent"
	"github.com/younwookim/remnant/internal/application/input"
	"github.com/younwookim/remnant/internal/application/state"
	"github.com/younwookim/remnant/internal/domain/timeline"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

var (
	ErrAlreadyStarted = errors.New("round already started")
	ErrNotRunning     = errors.New("round is not running")
)

// Participant is a connected player slot
type Participant struct {
	ClientID string
	Source   input.Source
}

// Host is the session a round runs in
type Host interface {
	// ResetLevel rebuilds the playable area and removes every agent
	ResetLevel() error
	Participants() []Participant
	// SpawnAgent creates a body at the next spawn point
	SpawnAgent(persistentID string, mode state.ControlMode) *agent.Agent
	// RemoveAgent deletes a body from the world
	RemoveAgent(a *agent.Agent)
}

// Round is a single round's state. Create a new Round for every round.
type Round struct {
	host      Host
	arena     *timeline.Arena
	roundTime float64
	weapon    string

	id        int
	phase     state.RoundPhase
	timeLeft  float64
	agents    []*agent.Agent
	remnants  map[*agent.Agent]bool
	harvested []Harvest
	done      *Completion
}

// New creates a round that lasts roundTime seconds and arms live agents
// with weapon
func New(host Host, arena *timeline.Arena, roundTime float64, weapon string) *Round {
	return &Round{
		host:      host,
		arena:     arena,
		roundTime: roundTime,
		weapon:    weapon,
		remnants:  make(map[*agent.Agent]bool),
		done:      newCompletion(),
	}
}

// LivePersistentID is the persistent ID a participant's body gets in a round
func LivePersistentID(clientID string, roundID int) string {
	return fmt.Sprintf("%s.round%d", clientID, roundID)
}

// Start resets the level, spawns a remnant per prior root and a live agent
// per participant, and arms the countdown.
func (r *Round) Start(id int, prior []timeline.BranchID) (*Completion, error) {
	if r.phase != state.RoundNotStarted {
		return nil, fmt.Errorf("start round %d: %w", id, ErrAlreadyStarted)
	}
	if err := r.host.ResetLevel(); err != nil {
		return nil, fmt.Errorf("failed to reset level for round %d: %w", id, err)
	}
	r.id = id

	for _, root := range prior {
		r.spawnRemnant(root)
	}
	live := 0
	for _, p := range r.host.Participants() {
		if r.spawnLive(p) {
			live++
		}
	}

	r.phase = state.RoundRunning
	r.timeLeft = r.roundTime
	r.log().WithFields(logrus.Fields{
		"remnants": len(r.remnants),
		"live":     live,
	}).Info("round started")
	return r.done, nil
}

func (r *Round) spawnRemnant(root timeline.BranchID) {
	b, ok := r.arena.Get(root)
	if !ok {
		r.log().WithField("branch", root).Warn("prior timeline not found")
		return
	}
	a := r.host.SpawnAgent(b.OwnerID, state.ModeAnimated)
	if err := a.PlayTimeline(root, true); err != nil {
		r.log().WithError(err).WithField("owner", b.OwnerID).Warn("failed to play remnant")
		r.host.RemoveAgent(a)
		return
	}
	r.agents = append(r.agents, a)
	r.remnants[a] = true
}

func (r *Round) spawnLive(p Participant) bool {
	pid := LivePersistentID(p.ClientID, r.id)
	a := r.host.SpawnAgent(pid, state.ModePlayer)
	a.SetSource(p.Source)

	log := r.log().WithField("agent", pid)
	if err := a.StartCapture(); err != nil {
		log.WithError(err).Warn("failed to start capture")
		r.host.RemoveAgent(a)
		return false
	}
	if r.weapon != "" {
		if err := a.GrantWeapon(timeline.WeaponSpawn{Kind: r.weapon, PersistentID: pid + ".weapon"}); err != nil {
			log.WithError(err).Warn("failed to grant weapon")
		}
	}
	r.agents = append(r.agents, a)
	return true
}

// Tick counts down and ends the round when time runs out or nobody is
// left.
func (r *Round) Tick(dt float64) {
	if r.phase != state.RoundRunning {
		return
	}
	r.timeLeft -= dt
	if r.timeLeft <= 0 || len(r.agents) == 0 {
		if _, err := r.EndRound(); err != nil {
			r.log().WithError(err).Error("failed to end round")
		}
	}
}

// EndRound finalizes every agent still present and resolves the
// completion with everything harvested this round. A faulty agent is
// logged and skipped; the round always ends.
func (r *Round) EndRound() (Result, error) {
	if r.phase != state.RoundRunning {
		return Result{}, fmt.Errorf("end round %d: %w", r.id, ErrNotRunning)
	}

	for _, a := range r.agents {
		root, err := a.Finalize()
		if err != nil {
			r.log().WithError(err).WithField("agent", a.PersistentID()).Error("failed to finalize agent")
		}
		if root == timeline.NoBranch {
			continue
		}
		r.harvest(a, root, false)
	}
	r.agents = nil
	r.phase = state.RoundEnded
	r.timeLeft = 0

	res := Result{RoundID: r.id, Timelines: r.harvested}
	r.done.resolve(res)
	r.log().WithField("timelines", len(res.Timelines)).Info("round ended")
	return res, nil
}

// OnAgentKilled seals a dying agent with Death, harvests its timeline and
// removes it from the roster.
func (r *Round) OnAgentKilled(a *agent.Agent) {
	i := r.indexOf(a)
	if i < 0 {
		return
	}
	r.agents = append(r.agents[:i], r.agents[i+1:]...)

	if root := a.Die(); root != timeline.NoBranch {
		r.harvest(a, root, true)
	}
	r.host.RemoveAgent(a)
	r.log().WithField("agent", a.PersistentID()).Info("agent killed")
}

func (r *Round) harvest(a *agent.Agent, root timeline.BranchID, died bool) {
	owner := a.PersistentID()
	if b, ok := r.arena.Get(root); ok {
		owner = b.OwnerID
	}
	r.harvested = append(r.harvested, Harvest{
		OwnerID: owner,
		Root:    root,
		Remnant: r.remnants[a],
		Died:    died,
	})
}

func (r *Round) indexOf(a *agent.Agent) int {
	for i, other := range r.agents {
		if other == a {
			return i
		}
	}
	return -1
}

// ID returns the round number
func (r *Round) ID() int {
	return r.id
}

// Phase returns the round phase
func (r *Round) Phase() state.RoundPhase {
	return r.phase
}

// TimeLeft returns the seconds until the round ends
func (r *Round) TimeLeft() float64 {
	return r.timeLeft
}

// Agents returns the agents still in play
func (r *Round) Agents() []*agent.Agent {
	return r.agents
}

// Has reports whether a is in play this round
func (r *Round) Has(a *agent.Agent) bool {
	return r.indexOf(a) >= 0
}

// Completion returns the round's completion handle
func (r *Round) Completion() *Completion {
	return r.done
}

func (r *Round) log() *logrus.Entry {
	return logger.Log.WithField("round", r.id)
}
