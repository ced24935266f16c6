package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultPlatformerYAML []byte

// DefaultPlatformerConfig returns the default platformer configuration.
func DefaultPlatformerConfig() PlatformerConfig {
	return PlatformerConfig{
		Physics: PhysicsConfig{
			Gravity:      0.08,
			MaxFallSpeed: 1.2,
		},
		Player: PlayerConfig{
			MoveSpeed:   0.3,
			SpiritSpeed: 0.25,
			JumpImpulse: -1.05,
			JumpCut:     0.45,
			MaxHealth:   5,
			MaxMana:     100,
			SpiritDrain: 0.6,
			ManaRegen:   0.25,
			HitCooldown: 45,
		},
		Zombie: ZombieConfig{
			Thrust:       0.02,
			MaxVelocity:  0.12,
			WanderRange:  2.5,
			ArriveRadius: 0.25,
			Damage:       1,
			BanishScore:  5,
			RespawnTicks: 240,
		},
		Input: InputConfig{
			HoldTicks: 30,
		},
		Scoring: ScoringConfig{
			TicksPerPoint: 6,
		},
		Signals: SignalsConfig{
			Validate: true,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.8,
			},
		},
	}
}
