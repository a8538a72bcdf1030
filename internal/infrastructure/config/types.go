package config

import "github.com/younwookim/remnant/internal/domain/geom"

// GameConfig is the root config for game.json
type GameConfig struct {
	TickRate      int                     `json:"tickRate"`
	RoundTime     float64                 `json:"roundTime"`
	Level         string                  `json:"level"`
	DefaultWeapon string                  `json:"defaultWeapon"`
	Movement      MovementConfig          `json:"movement"`
	Agent         AgentConfig             `json:"agent"`
	AI            AIConfig                `json:"ai"`
	LooseBodies   LooseBodyConfig         `json:"looseBodies"`
	Weapons       map[string]WeaponConfig `json:"weapons"`
}

// MovementConfig tunes live agent movement. Units are world units per second.
type MovementConfig struct {
	Gravity      float64 `json:"gravity"`
	WalkSpeed    float64 `json:"walkSpeed"`
	DuckSpeed    float64 `json:"duckSpeed"`
	Acceleration float64 `json:"acceleration"`
	Friction     float64 `json:"friction"`
	AirControl   float64 `json:"airControl"`
	JumpSpeed    float64 `json:"jumpSpeed"`
}

type AgentConfig struct {
	MaxHealth    float64 `json:"maxHealth"`
	HullWidth    float64 `json:"hullWidth"`
	HullHeight   float64 `json:"hullHeight"`
	DuckHeight   float64 `json:"duckHeight"`
	UseReach     float64 `json:"useReach"`
	DropVelocity Vec     `json:"dropVelocity"`
}

// AIConfig tunes the built-in controller that drives unlinked remnants.
type AIConfig struct {
	RetargetInterval float64 `json:"retargetInterval"`
	AttackRange      float64 `json:"attackRange"`
	StopDistance     float64 `json:"stopDistance"`
}

type LooseBodyConfig struct {
	Gravity  float64 `json:"gravity"`
	Friction float64 `json:"friction"`
}

type WeaponConfig struct {
	Pellets      int           `json:"pellets"`
	Spread       float64       `json:"spread"`
	Damage       float64       `json:"damage"`
	Force        float64       `json:"force"`
	Range        float64       `json:"range"`
	FireInterval float64       `json:"fireInterval"`
	Undroppable  bool          `json:"undroppable"`
	Falloff      FalloffConfig `json:"falloff"`
}

type FalloffConfig struct {
	Mode   string  `json:"mode"`
	Factor float64 `json:"factor"`
}

// Vec is a position or size in level and game files.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Geom converts v to a world vector.
func (v Vec) Geom() geom.Vec3 {
	return geom.V(v.X, v.Y, v.Z)
}
