package input

import "github.com/younwookim/remnant/internal/infrastructure/config"

// Script replays a bot file as live input
type Script struct {
	cfg  config.BotConfig
	step int
	tick int // within step
	last Intent
	done bool
}

// NewScript creates a script source from bot config
func NewScript(cfg config.BotConfig) *Script {
	s := &Script{cfg: cfg}
	s.done = len(cfg.Steps) == 0
	return s
}

// Next returns the input for the current tick and advances. Once a
// non-looping script runs out it keeps looking where it last looked.
func (s *Script) Next() Intent {
	if s.done {
		return Intent{Look: s.last.Look}
	}

	in := FromStep(s.cfg.Steps[s.step])
	s.last = in

	s.tick++
	if s.tick >= max(s.cfg.Steps[s.step].Ticks, 1) {
		s.tick = 0
		s.step++
		if s.step >= len(s.cfg.Steps) {
			if s.cfg.Loop {
				s.step = 0
			} else {
				s.done = true
			}
		}
	}
	return in
}

// Name returns the bot name
func (s *Script) Name() string {
	return s.cfg.Name
}

// Done reports whether a non-looping script has played every step
func (s *Script) Done() bool {
	return s.done
}

// TotalTicks returns the ticks in one pass of the script
func (s *Script) TotalTicks() int {
	n := 0
	for _, st := range s.cfg.Steps {
		n += max(st.Ticks, 1)
	}
	return n
}

// Reset rewinds to the first step
func (s *Script) Reset() {
	s.step, s.tick = 0, 0
	s.last = Intent{}
	s.done = len(s.cfg.Steps) == 0
}
