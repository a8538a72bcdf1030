package anim

// Clock reports simulation time in seconds
type Clock interface {
	Now() float64
}

// SimClock is advanced explicitly by the tick loop
type SimClock struct {
	now float64
}

// NewSimClock creates a clock at time zero
func NewSimClock() *SimClock {
	return &SimClock{}
}

// Now returns the current time
func (c *SimClock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt seconds
func (c *SimClock) Advance(dt float64) {
	c.now += dt
}

// Set jumps the clock to t
func (c *SimClock) Set(t float64) {
	c.now = t
}
