// Package config provides YAML-based game configuration loading and
// difficulty management for the platformer.
package config

// PlatformerConfig contains all configuration for the platformer.
type PlatformerConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Zombie     ZombieConfig     `yaml:"zombie"`
	Input      InputConfig      `yaml:"input"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Signals    SignalsConfig    `yaml:"signals"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines world physics. Units are cells and ticks.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity" validate:"gt=0"`
	MaxFallSpeed float64 `yaml:"max_fall_speed" validate:"gt=0"`
}

// PlayerConfig defines player movement and resources.
type PlayerConfig struct {
	MoveSpeed   float64 `yaml:"move_speed" validate:"gt=0"`
	SpiritSpeed float64 `yaml:"spirit_speed" validate:"gt=0"`
	JumpImpulse float64 `yaml:"jump_impulse" validate:"lt=0"`
	JumpCut     float64 `yaml:"jump_cut" validate:"gte=0,lte=1"` // Fraction of upward velocity kept on release
	MaxHealth   int     `yaml:"max_health" validate:"gte=1"`
	MaxMana     float64 `yaml:"max_mana" validate:"gt=0"`
	SpiritDrain float64 `yaml:"spirit_drain" validate:"gte=0"` // Mana per tick in spirit form
	ManaRegen   float64 `yaml:"mana_regen" validate:"gte=0"`   // Mana per tick in body form
	HitCooldown int     `yaml:"hit_cooldown" validate:"gte=0"` // Ticks of invulnerability after a hit
}

// ZombieConfig defines the chase behaviour.
type ZombieConfig struct {
	Thrust       float64 `yaml:"thrust" validate:"gt=0"`
	MaxVelocity  float64 `yaml:"max_velocity" validate:"gt=0"`
	WanderRange  float64 `yaml:"wander_range" validate:"gte=0"`
	ArriveRadius float64 `yaml:"arrive_radius" validate:"gt=0"`
	Damage       int     `yaml:"damage" validate:"gte=0"`
	BanishScore  int     `yaml:"banish_score" validate:"gte=0"`  // Points for touching a zombie in spirit form
	RespawnTicks int     `yaml:"respawn_ticks" validate:"gte=0"` // Ticks a banished zombie stays away
}

// InputConfig defines how terminal key events become held actions.
type InputConfig struct {
	HoldTicks int `yaml:"hold_ticks" validate:"gte=1"` // Ticks a key counts as held after its last event
}

// ScoringConfig defines survival scoring.
type ScoringConfig struct {
	TicksPerPoint int `yaml:"ticks_per_point" validate:"gte=1"`
}

// SignalsConfig configures the signal box the game is built with.
type SignalsConfig struct {
	Validate bool `yaml:"validate"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" validate:"gte=0,lte=1"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type" validate:"oneof=score time none"` // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" validate:"gte=0"`               // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier" validate:"gte=0"` // Added to zombie speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
