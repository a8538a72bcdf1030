package config

// LevelConfig is the root config for levels/*.yaml
type LevelConfig struct {
	Name     string          `yaml:"name"`
	Bounds   Vec             `yaml:"bounds"`
	Spawns   []SpawnConfig   `yaml:"spawns"`
	Walls    []WallConfig    `yaml:"walls"`
	Doors    []DoorConfig    `yaml:"doors"`
	Levers   []LeverConfig   `yaml:"levers"`
	Triggers []TriggerConfig `yaml:"triggers"`
	Weapons  []PickupConfig  `yaml:"weapons"`
}

type SpawnConfig struct {
	Position Vec     `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
}

type WallConfig struct {
	Position Vec `yaml:"position"`
	Size     Vec `yaml:"size"`
}

type DoorConfig struct {
	ID       string `yaml:"id"`
	Position Vec    `yaml:"position"`
	Size     Vec    `yaml:"size"`
	Open     bool   `yaml:"open"`
	Locked   bool   `yaml:"locked"`
}

// LeverConfig describes a multi-state switch. Strict levers require the
// recorded state to match when a timeline replays a use of them.
type LeverConfig struct {
	ID       string `yaml:"id"`
	Position Vec    `yaml:"position"`
	States   int    `yaml:"states"`
	Initial  int    `yaml:"initial"`
	Strict   bool   `yaml:"strict"`
}

// TriggerConfig describes a volume that records a map-state event when an
// agent enters it. Provider names the entity whose state is sampled.
type TriggerConfig struct {
	ID       string `yaml:"id"`
	Position Vec    `yaml:"position"`
	Size     Vec    `yaml:"size"`
	Provider string `yaml:"provider"`
}

type PickupConfig struct {
	ID       string `yaml:"id"`
	Kind     string `yaml:"kind"`
	Position Vec    `yaml:"position"`
}
