package config

// BotConfig is the root config for bots/*.yaml. A bot replays its steps as
// live input, so everything it does is captured like a human player.
type BotConfig struct {
	Name  string       `yaml:"name"`
	Loop  bool         `yaml:"loop"`
	Steps []StepConfig `yaml:"steps"`
}

// StepConfig holds one input state for Ticks consecutive ticks.
type StepConfig struct {
	Ticks   int     `yaml:"ticks"`
	Forward float64 `yaml:"forward,omitempty"`
	Side    float64 `yaml:"side,omitempty"`
	Yaw     float64 `yaml:"yaw,omitempty"`
	Pitch   float64 `yaml:"pitch,omitempty"`
	Jump    bool    `yaml:"jump,omitempty"`
	Duck    bool    `yaml:"duck,omitempty"`
	Use     bool    `yaml:"use,omitempty"`
	Attack  bool    `yaml:"attack,omitempty"`
	Drop    bool    `yaml:"drop,omitempty"`
}
