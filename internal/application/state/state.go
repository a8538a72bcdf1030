package state

// RoundPhase is the lifecycle of a round
type RoundPhase int

const (
	RoundNotStarted RoundPhase = iota
	RoundRunning
	RoundEnded
)

// String returns the string representation of the round phase
func (p RoundPhase) String() string {
	switch p {
	case RoundNotStarted:
		return "NotStarted"
	case RoundRunning:
		return "Running"
	case RoundEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// ControlMode is who drives an agent each tick
type ControlMode int

const (
	// ModePlayer agents follow live input (a person or a bot script).
	ModePlayer ControlMode = iota
	// ModeAI agents are steered by the built-in controller.
	ModeAI
	// ModeAnimated agents replay a timeline.
	ModeAnimated
)

// String returns the string representation of the control mode
func (m ControlMode) String() string {
	switch m {
	case ModePlayer:
		return "Player"
	case ModeAI:
		return "AI"
	case ModeAnimated:
		return "Animated"
	default:
		return "Unknown"
	}
}

// ParseControlMode is the inverse of ControlMode.String
func ParseControlMode(s string) (ControlMode, bool) {
	for m := ModePlayer; m <= ModeAnimated; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return 0, false
}
