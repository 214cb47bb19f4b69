package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the render module
type Options struct {
	Palette string `env:"CORE_RENDER_PALETTE" validate:"required"`
	Title   string `env:"CORE_RENDER_TITLE"`
	Enabled bool   `env:"CORE_RENDER_ENABLED"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_RENDER_")
	return Options{
		Palette: rc.MayString("PALETTE", "smooth-blue-red"),
		Title:   rc.MayString("TITLE", "Mean sentiment by council district"),
		Enabled: rc.MayBool("ENABLED", true),
	}
}
