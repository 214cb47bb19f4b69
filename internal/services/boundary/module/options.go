package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the boundary module
type Options struct {
	Source string `env:"CORE_BOUNDARY_SOURCE" validate:"omitempty,source"`
	Key    string `env:"CORE_BOUNDARY_KEY" validate:"required"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	bc := cfg.Prefix("CORE_BOUNDARY_")
	return Options{
		Source: bc.MayString("SOURCE", ""),
		Key:    bc.MayString("KEY", "DISTRICT"),
	}
}
