package anim

import (
	"errors"
	"math"
)

// timeEpsilon absorbs float error when flooring elapsed seconds
const timeEpsilon = 1e-9

var (
	ErrAlreadyRecording = errors.New("animation already recording")
	ErrNotRecording     = errors.New("animation not recording")
)

// Recorder captures frames into time-anchored segments
type Recorder struct {
	clock     Clock
	tickRate  int
	anim      *Animation
	startedAt float64
	pending   []Action
}

// NewRecorder creates a recorder reading time from clock
func NewRecorder(clock Clock, tickRate int) *Recorder {
	return &Recorder{
		clock:    clock,
		tickRate: tickRate,
	}
}

// Start begins a fresh animation
func (r *Recorder) Start() error {
	if r.anim != nil {
		return ErrAlreadyRecording
	}
	r.anim = NewAnimation(r.tickRate)
	r.startedAt = r.clock.Now()
	return nil
}

// IsRecording returns whether an animation is open
func (r *Recorder) IsRecording() bool {
	return r.anim != nil
}

// Elapsed returns seconds since Start
func (r *Recorder) Elapsed() float64 {
	if r.anim == nil {
		return 0
	}
	return r.clock.Now() - r.startedAt
}

// Length returns the recorded length of the open animation
func (r *Recorder) Length() float64 {
	if r.anim == nil {
		return 0
	}
	return r.anim.Length()
}

// AddAction queues a for the next Tick. Queued actions carry over a
// Stop/Start pair so an action recorded right after an event lands on the
// first frame of the next animation.
func (r *Recorder) AddAction(a Action) {
	r.pending = append(r.pending, a)
}

// PendingActions returns how many actions wait for the next Tick
func (r *Recorder) PendingActions() int {
	return len(r.pending)
}

// Tick appends f to the segment for the current elapsed second and
// attaches every queued action to it.
func (r *Recorder) Tick(f Frame) error {
	if r.anim == nil {
		return ErrNotRecording
	}

	idx := int(math.Floor(r.Elapsed() + timeEpsilon))
	if idx < 0 {
		idx = 0
	}
	seg := r.anim.ensureSegment(idx)
	tick := seg.AddFrame(f)
	for _, a := range r.pending {
		seg.AddAction(tick, a)
	}
	r.pending = nil
	return nil
}

// Stop closes and returns the open animation
func (r *Recorder) Stop() (*Animation, error) {
	if r.anim == nil {
		return nil, ErrNotRecording
	}
	a := r.anim
	if a.SegmentCount() == 0 {
		a.ensureSegment(0)
	}
	r.anim = nil
	return a, nil
}

// Discard drops queued actions
func (r *Recorder) Discard() {
	r.pending = nil
}
