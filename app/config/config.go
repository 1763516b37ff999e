// Package config loads service settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// New reads configuration from environment variables and unmarshals them
// into a struct of type T.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
