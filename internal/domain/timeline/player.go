package timeline

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

// timeEpsilon absorbs float error when comparing against end times
const timeEpsilon = 1e-9

// ErrNotAnimated is returned when playback is requested for a body that
// is not under animation control.
var ErrNotAnimated = errors.New("agent is not in animated mode")

// Host is the body a timeline is replayed on
type Host interface {
	Subject
	anim.Performer
	Animated() bool
	Armed() bool
	ApplyFrame(f anim.Frame)
	EquipSpawn(ws WeaponSpawn)
	// Unlink hands the body over to autonomous control. at names the
	// branch whose end event found no continuation and the empty slot
	// its outcome selected.
	Unlink(at Fork)
}

// Player walks a branch tree for one host
type Player struct {
	arena   *Arena
	host    Host
	anim    *anim.Player
	root    BranchID
	current BranchID
	playing bool
}

// NewPlayer creates an idle player for host
func NewPlayer(arena *Arena, clock anim.Clock, host Host) *Player {
	return &Player{
		arena: arena,
		host:  host,
		anim:  anim.NewPlayer(clock),
	}
}

// PlayTimeline starts branch from its first frame. isRoot marks the
// branch as the tree root reported by Root.
func (p *Player) PlayTimeline(id BranchID, isRoot bool) error {
	if !p.host.Animated() {
		return fmt.Errorf("play branch %d: %w", id, ErrNotAnimated)
	}
	b, ok := p.arena.Get(id)
	if !ok {
		return fmt.Errorf("play branch %d: %w", id, ErrUnknownBranch)
	}

	p.anim.Stop()
	if isRoot {
		p.root = id
	}
	if b.Weapon != nil && !p.host.Armed() {
		p.host.EquipSpawn(*b.Weapon)
	}
	p.anim.Play(b.Animation)
	p.current = id
	p.playing = true
	return nil
}

// Tick applies the current frame and, once the branch's end time is
// reached, follows the branch its end event selects.
func (p *Player) Tick() {
	if !p.playing || !p.host.Animated() {
		return
	}

	if f, ok := p.anim.Tick(p.host); ok {
		p.host.ApplyFrame(f)
	}

	// zero-length branches resolve in the same tick
	for p.playing {
		b, ok := p.arena.Get(p.current)
		if !ok || p.anim.Elapsed()+timeEpsilon < b.EndTime {
			return
		}
		if !p.advance(b) {
			return
		}
	}
}

// advance evaluates b's end event and starts the selected child.
// It reports whether a child started. A branch without an end event
// finishes playback without unlinking.
func (p *Player) advance(b *Branch) bool {
	if b.EndEvent == nil {
		p.playing = false
		p.anim.Stop()
		return false
	}

	valid := b.EndEvent.IsValid(p.host)
	next := b.IfInvalid
	if valid {
		next = b.IfValid
	}

	log := logger.Log.WithFields(logrus.Fields{
		"owner":  b.OwnerID,
		"branch": b.ID,
		"event":  Describe(b.EndEvent),
		"valid":  valid,
	})

	if next == NoBranch {
		log.Info("no matching branch, unlinking")
		p.playing = false
		p.anim.Stop()
		p.host.Unlink(Fork{From: b.ID, Valid: valid})
		return false
	}

	log.WithField("next", next).Debug("following branch")
	if err := p.PlayTimeline(next, false); err != nil {
		log.WithError(err).Warn("failed to play next branch")
		p.playing = false
		return false
	}
	if f, ok := p.anim.Tick(p.host); ok {
		p.host.ApplyFrame(f)
	}
	return true
}

// Stop halts playback. Continuous actions keep running; see StopActions.
func (p *Player) Stop() {
	p.playing = false
	p.anim.Stop()
}

// StopActions stops every continuous action started by playback
func (p *Player) StopActions() {
	p.anim.StopActive(p.host)
}

// IsPlaying returns whether a branch is playing
func (p *Player) IsPlaying() bool {
	return p.playing
}

// Root returns the root branch of the tree being played
func (p *Player) Root() BranchID {
	return p.root
}

// Current returns the branch being played, or the last one played
func (p *Player) Current() BranchID {
	return p.current
}

// Elapsed returns seconds into the current branch
func (p *Player) Elapsed() float64 {
	return p.anim.Elapsed()
}
