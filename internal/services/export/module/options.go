package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the export module
type Options struct {
	Dir string `env:"CORE_OUTPUT_DIR" validate:"required"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{Dir: cfg.Prefix("CORE_OUTPUT_").MayPath("DIR", "out")}
}
