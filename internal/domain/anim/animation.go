package anim

// DefaultTickRate is the nominal simulation rate
const DefaultTickRate = 50

// Animation is a sequence of one-second segments
type Animation struct {
	TickRate int
	segments []*Segment
}

// NewAnimation creates an empty animation at the given nominal tick rate
func NewAnimation(tickRate int) *Animation {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Animation{TickRate: tickRate}
}

// SegmentCount returns the number of segments
func (a *Animation) SegmentCount() int {
	return len(a.segments)
}

// Segment returns segment i clamped to the existing range, nil when empty
func (a *Animation) Segment(i int) *Segment {
	if len(a.segments) == 0 {
		return nil
	}
	if i < 0 {
		i = 0
	}
	if i >= len(a.segments) {
		i = len(a.segments) - 1
	}
	return a.segments[i]
}

// ensureSegment appends segments until index i exists
func (a *Animation) ensureSegment(i int) *Segment {
	for len(a.segments) <= i {
		a.segments = append(a.segments, NewSegment())
	}
	return a.segments[i]
}

// Length returns the recorded duration in seconds:
// whole seconds for every full segment plus the fraction of the last one.
func (a *Animation) Length() float64 {
	n := len(a.segments)
	if n == 0 {
		return 0
	}
	last := a.segments[n-1].Len()
	return float64(n-1) + float64(last)/float64(a.TickRate)
}

// FrameCount returns the total number of frames
func (a *Animation) FrameCount() int {
	total := 0
	for _, s := range a.segments {
		total += s.Len()
	}
	return total
}

// ActionCount returns the total number of recorded actions
func (a *Animation) ActionCount() int {
	total := 0
	for _, s := range a.segments {
		for _, actions := range s.actions {
			total += len(actions)
		}
	}
	return total
}
