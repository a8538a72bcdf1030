package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPhase_String(t *testing.T) {
	tests := []struct {
		phase    RoundPhase
		expected string
	}{
		{RoundNotStarted, "NotStarted"},
		{RoundRunning, "Running"},
		{RoundEnded, "Ended"},
		{RoundPhase(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestControlMode_String(t *testing.T) {
	tests := []struct {
		mode     ControlMode
		expected string
	}{
		{ModePlayer, "Player"},
		{ModeAI, "AI"},
		{ModeAnimated, "Animated"},
		{ControlMode(7), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.mode.String())
		})
	}
}

func TestParseControlMode(t *testing.T) {
	m, ok := ParseControlMode("Animated")
	assert.True(t, ok)
	assert.Equal(t, ModeAnimated, m)

	_, ok = ParseControlMode("Spectator")
	assert.False(t, ok)
}

func TestConstants(t *testing.T) {
	// Verify the iota ordering
	assert.Equal(t, RoundPhase(0), RoundNotStarted)
	assert.Equal(t, ControlMode(0), ModePlayer)
	assert.Equal(t, ControlMode(2), ModeAnimated)
}
