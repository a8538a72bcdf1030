package timeline

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/younwookim/remnant/internal/domain/anim"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

// ErrNoBranches is returned by Complete when nothing was ever sealed
var ErrNoBranches = errors.New("capture sealed no branches")

// Capture records an agent into a chain of branches.
//
// Each event seals the open animation into a branch linked after the
// previous one. A capture forked from a played branch attaches its first
// branch to the fork's empty slot instead.
type Capture struct {
	arena  *Arena
	rec    *anim.Recorder
	owner  string
	fork   Fork
	root   BranchID
	last   BranchID
	weapon *WeaponSpawn
}

// NewCapture creates a capture for owner
func NewCapture(arena *Arena, clock anim.Clock, tickRate int, owner string) *Capture {
	return &Capture{
		arena: arena,
		rec:   anim.NewRecorder(clock, tickRate),
		owner: owner,
	}
}

// NewForkedCapture creates a capture whose first branch fills the slot
// named by at
func NewForkedCapture(arena *Arena, clock anim.Clock, tickRate int, owner string, at Fork) *Capture {
	c := NewCapture(arena, clock, tickRate, owner)
	c.fork = at
	return c
}

// Start opens a new animation
func (c *Capture) Start() error {
	if err := c.rec.Start(); err != nil {
		return fmt.Errorf("failed to start capture for %s: %w", c.owner, err)
	}
	return nil
}

// IsRecording returns whether an animation is open
func (c *Capture) IsRecording() bool {
	return c.rec.IsRecording()
}

// Tick appends one frame with the actions queued since the last tick
func (c *Capture) Tick(f anim.Frame) error {
	return c.rec.Tick(f)
}

// AddAction queues a for the next tick
func (c *Capture) AddAction(a anim.Action) {
	c.rec.AddAction(a)
}

// SetWeaponSpawn stamps ws on the first branch this capture seals
func (c *Capture) SetWeaponSpawn(ws WeaponSpawn) {
	c.weapon = &ws
}

// Event seals the open animation with ev as its end event. Unless final,
// a new animation starts immediately. If the slot the branch would fill
// is already taken, nothing is sealed and the animation stays open.
func (c *Capture) Event(ev Event, final bool) (BranchID, error) {
	parent, valid := c.last, true
	if parent == NoBranch {
		parent, valid = c.fork.From, c.fork.Valid
	}
	if parent != NoBranch {
		if _, err := c.arena.slot(parent, valid); err != nil {
			return NoBranch, fmt.Errorf("failed to link branch for %s: %w", c.owner, err)
		}
	}

	a, err := c.rec.Stop()
	if err != nil {
		return NoBranch, fmt.Errorf("failed to seal %s for %s: %w", Describe(ev), c.owner, err)
	}

	b := Branch{
		Animation: a,
		EndEvent:  ev,
		EndTime:   a.Length(),
		OwnerID:   c.owner,
	}
	if c.root == NoBranch {
		b.Weapon = c.weapon
	}
	id := c.arena.Add(b)
	if parent != NoBranch {
		if err := c.arena.link(parent, id, valid); err != nil {
			return NoBranch, fmt.Errorf("failed to link branch for %s: %w", c.owner, err)
		}
	}

	if c.root == NoBranch {
		c.root = id
	}
	c.last = id

	logger.Log.WithFields(logrus.Fields{
		"owner":  c.owner,
		"branch": id,
		"event":  Describe(ev),
		"length": b.EndTime,
	}).Debug("sealed branch")

	if !final {
		if err := c.rec.Start(); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Complete seals any open animation with GameEnd and returns the root
func (c *Capture) Complete() (BranchID, error) {
	if c.rec.IsRecording() {
		if _, err := c.Event(GameEnd{}, true); err != nil {
			return NoBranch, err
		}
	}
	if c.root == NoBranch {
		return NoBranch, fmt.Errorf("complete capture for %s: %w", c.owner, ErrNoBranches)
	}
	return c.root, nil
}

// Abort closes the open animation without sealing a branch
func (c *Capture) Abort() (*anim.Animation, error) {
	c.rec.Discard()
	return c.rec.Stop()
}

// Root returns the first sealed branch, NoBranch before any seal
func (c *Capture) Root() BranchID {
	return c.root
}

// Last returns the most recently sealed branch
func (c *Capture) Last() BranchID {
	return c.last
}

// ForkedFrom returns the branch this capture diverged from
func (c *Capture) ForkedFrom() BranchID {
	return c.fork.From
}

// Forked reports whether this capture extends another tree
func (c *Capture) Forked() bool {
	return c.fork.From != NoBranch
}

// Owner returns the persistent ID branches are stamped with
func (c *Capture) Owner() string {
	return c.owner
}

// Elapsed returns seconds since the open animation started
func (c *Capture) Elapsed() float64 {
	return c.rec.Elapsed()
}
