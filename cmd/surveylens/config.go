package main

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
)

// Config carries the command line; empty fields leave the env (or default) in place
type Config struct {
	Survey       string
	SurveyMember string
	SurveySheet  string
	IDCol        string
	DistrictCol  string
	TextCols     string

	Lexicon   string
	Unmatched string

	Boundaries  string
	BoundaryKey string

	Target    int
	Measure   string
	Top       int
	Compounds string

	Palette string
	Title   string
	Render  bool

	CacheDir string
	Out      string
	Branch   string

	Version bool

	// set holds the flag names given explicitly
	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Survey, "survey", "", "Survey export: path or http(s) URL to a .csv, .xlsx or .zip")
	fs.StringVar(&cfg.SurveyMember, "survey-member", "", "Member to read when the export is a zip archive")
	fs.StringVar(&cfg.SurveySheet, "survey-sheet", "", "Sheet to read when the export is a workbook (default first)")
	fs.StringVar(&cfg.IDCol, "id-col", "", "Respondent id column (default response_id)")
	fs.StringVar(&cfg.DistrictCol, "district-col", "", "Council district column (default likely_council_district)")
	fs.StringVar(&cfg.TextCols, "text-cols", "", "Comma separated open-response columns (default open_response)")

	fs.StringVar(&cfg.Lexicon, "lexicon", "", "Sentiment lexicon: path or URL (default AFINN-165)")
	fs.StringVar(&cfg.Unmatched, "unmatched", "", "Unmatched token policy: exclude|zero")

	fs.StringVar(&cfg.Boundaries, "boundaries", "", "Council district GeoJSON: path or URL (map branch)")
	fs.StringVar(&cfg.BoundaryKey, "boundary-key", "", "Feature property holding the district number (default DISTRICT)")

	fs.IntVar(&cfg.Target, "target", 0, "Target district for keyness")
	fs.StringVar(&cfg.Measure, "measure", "", "Keyness measure: chi2|lr|pmi")
	fs.IntVar(&cfg.Top, "top", 0, "Keyness terms per side (default 20)")
	fs.StringVar(&cfg.Compounds, "compounds", "", "YAML phrase list to compound before stopword removal")

	fs.StringVar(&cfg.Palette, "palette", "", "Map palette (default smooth-blue-red)")
	fs.StringVar(&cfg.Title, "title", "", "Map title")
	fs.BoolVar(&cfg.Render, "render", true, "Draw the map, scatter and keyness figures")

	fs.StringVar(&cfg.CacheDir, "cache-dir", "", "Download cache directory (default .cache/surveylens)")
	fs.StringVar(&cfg.Out, "out", "", "Output directory (default out)")
	fs.StringVar(&cfg.Branch, "branch", "", "Which branch to run: all|map|keyness")

	fs.BoolVar(&cfg.Version, "version", false, "Print the build version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if cfg.CacheDir != "" {
		cfg.CacheDir = filepath.Clean(cfg.CacheDir)
	}
	if cfg.Out != "" {
		cfg.Out = filepath.Clean(cfg.Out)
	}
	return cfg, nil
}

// Env maps the given flags onto the CORE_* keys the modules read
func (c Config) Env() map[string]string {
	env := map[string]string{
		"CORE_SURVEY_SOURCE":          c.Survey,
		"CORE_SURVEY_ARCHIVE_MEMBER":  c.SurveyMember,
		"CORE_SURVEY_SHEET":           c.SurveySheet,
		"CORE_SURVEY_ID_COLUMN":       c.IDCol,
		"CORE_SURVEY_DISTRICT_COLUMN": c.DistrictCol,
		"CORE_SURVEY_TEXT_COLUMNS":    c.TextCols,
		"CORE_LEXICON_SOURCE":         c.Lexicon,
		"CORE_LEXICON_UNMATCHED":      c.Unmatched,
		"CORE_BOUNDARY_SOURCE":        c.Boundaries,
		"CORE_BOUNDARY_KEY":           c.BoundaryKey,
		"CORE_KEYNESS_MEASURE":        c.Measure,
		"CORE_KEYNESS_COMPOUNDS_FILE": c.Compounds,
		"CORE_RENDER_PALETTE":         c.Palette,
		"CORE_RENDER_TITLE":           c.Title,
		"CORE_FETCH_CACHE_DIR":        c.CacheDir,
		"CORE_OUTPUT_DIR":             c.Out,
		"CORE_PIPELINE_BRANCH":        c.Branch,
	}
	if c.set["target"] {
		env["CORE_KEYNESS_TARGET"] = strconv.Itoa(c.Target)
	}
	if c.set["top"] {
		env["CORE_KEYNESS_TOP"] = strconv.Itoa(c.Top)
	}
	if c.set["render"] {
		env["CORE_RENDER_ENABLED"] = map[bool]string{true: "1", false: "0"}[c.Render]
	}
	return env
}
