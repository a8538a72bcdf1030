// Package anim records and replays an agent's per-tick kinematic state
// together with the discrete actions it performed.
//
// Frames are grouped into segments of one second of wall-clock time.
// The segment index comes from elapsed time, not from tick counts, so a
// recording made while the server dropped ticks still plays back over the
// same real duration.
package anim

import "github.com/younwookim/remnant/internal/domain/geom"

// Frame is one tick of captured kinematic state
type Frame struct {
	Position    geom.Vec3
	Velocity    geom.Vec3
	Rotation    geom.Angles
	EyeRotation geom.Angles
	Grounded    bool
	Ducking     bool
	DidJump     bool
}

// Segment holds the frames of one second plus the actions keyed by the
// local tick they happened on.
type Segment struct {
	frames  []Frame
	actions map[int][]Action
}

// NewSegment creates an empty segment
func NewSegment() *Segment {
	return &Segment{actions: make(map[int][]Action)}
}

// AddFrame appends a frame and returns its local tick
func (s *Segment) AddFrame(f Frame) int {
	s.frames = append(s.frames, f)
	return len(s.frames) - 1
}

// Frame returns the frame at tick, clamped to the captured range.
// ok is false only when the segment holds no frames.
func (s *Segment) Frame(tick int) (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	if tick < 0 {
		tick = 0
	}
	if tick >= len(s.frames) {
		tick = len(s.frames) - 1
	}
	return s.frames[tick], true
}

// Len returns the number of frames
func (s *Segment) Len() int {
	return len(s.frames)
}

// AddAction records a at local tick
func (s *Segment) AddAction(tick int, a Action) {
	s.actions[tick] = append(s.actions[tick], a)
}

// Actions returns the actions at local tick, empty if none
func (s *Segment) Actions(tick int) []Action {
	return s.actions[tick]
}

// ActionTicks returns how many ticks carry actions
func (s *Segment) ActionTicks() int {
	return len(s.actions)
}

// lastActionTick returns the highest tick with actions, or -1
func (s *Segment) lastActionTick() int {
	last := -1
	for tick := range s.actions {
		if tick > last {
			last = tick
		}
	}
	return last
}
