package module

import (
	"surveylens/internal/platform/config"
)

// DefaultLexicon is the AFINN-165 word list
const DefaultLexicon = "https://raw.githubusercontent.com/fnielsen/afinn/master/afinn/data/AFINN-en-165.txt"

// Options holds configuration settings for the sentiment module
type Options struct {
	LexiconSource string `env:"CORE_LEXICON_SOURCE" validate:"source"`
	Lowercase     bool   `env:"CORE_LEXICON_LOWERCASE"`
	Unmatched     string `env:"CORE_LEXICON_UNMATCHED" validate:"oneof=exclude zero"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LEXICON_")
	return Options{
		LexiconSource: lc.MayString("SOURCE", DefaultLexicon),
		Lowercase:     lc.MayBool("LOWERCASE", true),
		Unmatched:     lc.MayEnum("UNMATCHED", "exclude", "exclude", "zero"),
	}
}
