package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"surveylens/internal/core/version"
	"surveylens/internal/platform/config"
	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"

	boundarymod "surveylens/internal/services/boundary/module"
	sentimentmod "surveylens/internal/services/sentiment/module"
	surveymod "surveylens/internal/services/survey/module"
	textstatsmod "surveylens/internal/services/textstats/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

// Config carries the command line; empty fields leave the env in place
type Config struct {
	Survey     string
	Lexicon    string
	Boundaries string
	Compounds  string
	CacheDir   string
	Refresh    bool
	Version    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Survey, "survey", "", "Survey export path or URL (default CORE_SURVEY_SOURCE)")
	fs.StringVar(&cfg.Lexicon, "lexicon", "", "Lexicon path or URL (default CORE_LEXICON_SOURCE, then AFINN-165)")
	fs.StringVar(&cfg.Boundaries, "boundaries", "", "Boundary GeoJSON path or URL (default CORE_BOUNDARY_SOURCE)")
	fs.StringVar(&cfg.Compounds, "compounds", "", "Phrase list path or URL (default CORE_KEYNESS_COMPOUNDS_FILE)")
	fs.StringVar(&cfg.CacheDir, "cache-dir", "", "Download cache directory (default .cache/surveylens)")
	fs.BoolVar(&cfg.Refresh, "refresh", false, "Revalidate every cached copy with the origin")
	fs.BoolVar(&cfg.Version, "version", false, "Print the build version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.CacheDir != "" {
		cfg.CacheDir = filepath.Clean(cfg.CacheDir)
	}
	return cfg, nil
}

// resource is one configured source to warm
type resource struct {
	Name   string
	Source string
}

// resources lists the configured sources in pipeline order, skipping unset ones
func resources(root config.Conf) []resource {
	all := []resource{
		{"survey", surveymod.FromConfig(root).Source},
		{"lexicon", sentimentmod.FromConfig(root).LexiconSource},
		{"boundaries", boundarymod.FromConfig(root).Source},
		{"compounds", textstatsmod.FromConfig(root).CompoundsFile},
	}
	out := all[:0]
	for _, r := range all {
		if r.Source != "" {
			out = append(out, r)
		}
	}
	return out
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := parseFlags(flag.NewFlagSet("surveylens-fetch", flag.ContinueOnError), args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if cfg.Version {
		fmt.Fprintln(stdout, version.Info("surveylens-fetch"))
		return 0
	}

	mustSetEnv("CORE_SURVEY_SOURCE", cfg.Survey)
	mustSetEnv("CORE_LEXICON_SOURCE", cfg.Lexicon)
	mustSetEnv("CORE_BOUNDARY_SOURCE", cfg.Boundaries)
	mustSetEnv("CORE_KEYNESS_COMPOUNDS_FILE", cfg.Compounds)
	mustSetEnv("CORE_FETCH_CACHE_DIR", cfg.CacheDir)

	logger.Init(logger.FromEnv())
	l := logger.Named("surveylens-fetch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	fc := fetch.FromConfig(root)
	opts := []fetch.Option{fetch.WithTimeout(fc.Timeout), fetch.WithRefreshAfter(fc.RefreshAfter)}
	if cfg.Refresh {
		opts = append(opts, fetch.WithRefreshAfter(time.Nanosecond))
	}
	f := fetch.New(fc.CacheDir, opts...)

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	code := 0
	for _, r := range resources(root) {
		res, err := f.Resolve(ctx, r.Source)
		if err != nil {
			l.Error().Err(err).Str("resource", r.Name).Str("source", r.Source).Msg("fetch failed")
			code = max(code, perr.ExitCode(err))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, state(res), res.Path)
	}
	_ = tw.Flush()
	return code
}

func state(r fetch.Result) string {
	switch {
	case !r.Remote:
		return "local"
	case r.FromCache:
		return "cached"
	default:
		return "fetched"
	}
}
