package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate caches struct information across calls.
var validate = validator.New()

// Validate checks cfg against the bounds in its validate tags.
func (cfg PlatformerConfig) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: invalid platformer config: %w", err)
	}
	return nil
}
