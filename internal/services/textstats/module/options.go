package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the textstats module
// Target 0 means unset; the keyness branch rejects it when it runs
type Options struct {
	Target         int      `env:"CORE_KEYNESS_TARGET" validate:"min=0,max=99"`
	Measure        string   `env:"CORE_KEYNESS_MEASURE" validate:"oneof=chi2 lr pmi"`
	Top            int      `env:"CORE_KEYNESS_TOP" validate:"min=1,max=500"`
	CompoundsFile  string   `env:"CORE_KEYNESS_COMPOUNDS_FILE" validate:"omitempty,source"`
	Compounds      []string `env:"CORE_KEYNESS_COMPOUNDS"`
	StopwordsExtra []string `env:"CORE_KEYNESS_STOPWORDS_EXTRA"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	kc := cfg.Prefix("CORE_KEYNESS_")
	return Options{
		Target:         kc.MayInt("TARGET", 0),
		Measure:        kc.MayEnum("MEASURE", "chi2", "chi2", "lr", "pmi"),
		Top:            kc.MayInt("TOP", 20),
		CompoundsFile:  kc.MayString("COMPOUNDS_FILE", ""),
		Compounds:      kc.MayCSV("COMPOUNDS", nil),
		StopwordsExtra: kc.MayCSV("STOPWORDS_EXTRA", nil),
	}
}
