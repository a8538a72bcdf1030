// Package input turns people, bot scripts and recordings into per-tick
// agent intents.
package input

import (
	"github.com/younwookim/remnant/internal/domain/geom"
	"github.com/younwookim/remnant/internal/infrastructure/config"
)

// Intent is what a controller wants an agent to do this tick. Look is an
// absolute eye orientation.
type Intent struct {
	Forward float64 // -1..1 along the view yaw
	Side    float64 // -1..1, positive is right
	Look    geom.Angles
	Jump    bool
	Duck    bool
	Use     bool
	Attack  bool
	Drop    bool
}

// Source produces one intent per tick
type Source interface {
	Next() Intent
}

// SourceFunc adapts a function to Source
type SourceFunc func() Intent

// Next calls f
func (f SourceFunc) Next() Intent { return f() }

// Static always returns the same intent
type Static Intent

// Next returns the held intent
func (s Static) Next() Intent { return Intent(s) }

// FromStep converts a scripted step to an intent
func FromStep(s config.StepConfig) Intent {
	return Intent{
		Forward: s.Forward,
		Side:    s.Side,
		Look:    geom.Angles{Pitch: s.Pitch, Yaw: s.Yaw},
		Jump:    s.Jump,
		Duck:    s.Duck,
		Use:     s.Use,
		Attack:  s.Attack,
		Drop:    s.Drop,
	}
}

// ToStep converts an intent to a one-tick scripted step
func ToStep(in Intent) config.StepConfig {
	return config.StepConfig{
		Ticks:   1,
		Forward: in.Forward,
		Side:    in.Side,
		Yaw:     in.Look.Yaw,
		Pitch:   in.Look.Pitch,
		Jump:    in.Jump,
		Duck:    in.Duck,
		Use:     in.Use,
		Attack:  in.Attack,
		Drop:    in.Drop,
	}
}
