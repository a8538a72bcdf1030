package anim

import "math"

// Player replays an animation against a Performer.
//
// Continuous actions stay registered across Play calls, so the next
// animation can stop what the previous one started.
type Player struct {
	clock     Clock
	anim      *Animation
	startedAt float64
	segIdx    int
	tick      int
	playing   bool
	active    map[string]Action
}

// NewPlayer creates an idle player
func NewPlayer(clock Clock) *Player {
	return &Player{
		clock:  clock,
		active: make(map[string]Action),
	}
}

// Play starts a from its first frame
func (p *Player) Play(a *Animation) {
	p.anim = a
	p.startedAt = p.clock.Now()
	p.segIdx = 0
	p.tick = 0
	p.playing = a != nil
}

// Stop halts playback. Active continuous actions are left running.
func (p *Player) Stop() {
	p.playing = false
}

// IsPlaying returns whether an animation is playing
func (p *Player) IsPlaying() bool {
	return p.playing
}

// Elapsed returns seconds since Play
func (p *Player) Elapsed() float64 {
	if !p.playing {
		return 0
	}
	return p.clock.Now() - p.startedAt
}

// Tick runs the actions due now and returns the frame to apply.
// ok is false when nothing is playing or the segment holds no frames.
func (p *Player) Tick(perf Performer) (Frame, bool) {
	if !p.playing || p.anim == nil || p.anim.SegmentCount() == 0 {
		return Frame{}, false
	}

	idx := int(math.Floor(p.Elapsed() + timeEpsilon))
	if idx >= p.anim.SegmentCount() {
		idx = p.anim.SegmentCount() - 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx != p.segIdx {
		p.catchUp(idx, perf)
		p.segIdx = idx
		p.tick = 0
	}

	seg := p.anim.Segment(idx)
	for _, a := range seg.Actions(p.tick) {
		p.run(a, perf)
	}
	f, ok := seg.Frame(p.tick)
	p.tick++
	return f, ok
}

// catchUp runs actions recorded on ticks that playback skipped before
// moving on to segment next.
func (p *Player) catchUp(next int, perf Performer) {
	if next < p.segIdx {
		return
	}
	for s := p.segIdx; s < next; s++ {
		seg := p.anim.Segment(s)
		from := 0
		if s == p.segIdx {
			from = p.tick
		}
		for t := from; t <= seg.lastActionTick(); t++ {
			for _, a := range seg.Actions(t) {
				p.run(a, perf)
			}
		}
	}
}

// run applies the continuous-action protocol: a StopAction ends the
// active action it names, and any action with an ID first stops the one
// currently registered under that ID.
func (p *Player) run(a Action, perf Performer) {
	if stop, ok := a.(StopAction); ok {
		if cur, ok := p.active[stop.TargetID]; ok {
			cur.Stop(perf)
			delete(p.active, stop.TargetID)
		}
		return
	}

	id := a.ActionID()
	if id != "" {
		if cur, ok := p.active[id]; ok {
			cur.Stop(perf)
			delete(p.active, id)
		}
	}
	if a.Run(perf) && id != "" {
		p.active[id] = a
	}
}

// StopActive stops every active continuous action
func (p *Player) StopActive(perf Performer) {
	for id, a := range p.active {
		a.Stop(perf)
		delete(p.active, id)
	}
}

// Active returns the continuous action registered under id
func (p *Player) Active(id string) (Action, bool) {
	a, ok := p.active[id]
	return a, ok
}

// ActiveCount returns the number of active continuous actions
func (p *Player) ActiveCount() int {
	return len(p.active)
}
