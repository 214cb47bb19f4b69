package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the pipeline module
type Options struct {
	Branch string `env:"CORE_PIPELINE_BRANCH" validate:"oneof=all map keyness"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{Branch: cfg.Prefix("CORE_PIPELINE_").MayEnum("BRANCH", "all", "all", "map", "keyness")}
}
