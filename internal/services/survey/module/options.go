package module

import (
	"surveylens/internal/platform/config"
)

// Options holds configuration settings for the survey module
type Options struct {
	Source         string   `env:"CORE_SURVEY_SOURCE" validate:"source"`
	Member         string   `env:"CORE_SURVEY_ARCHIVE_MEMBER"`
	Sheet          string   `env:"CORE_SURVEY_SHEET"`
	IDColumn       string   `env:"CORE_SURVEY_ID_COLUMN" validate:"required"`
	DistrictColumn string   `env:"CORE_SURVEY_DISTRICT_COLUMN" validate:"required"`
	TextColumns    []string `env:"CORE_SURVEY_TEXT_COLUMNS" validate:"min=1,dive,required"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_SURVEY_")
	return Options{
		Source:         sc.MayString("SOURCE", ""),
		Member:         sc.MayString("ARCHIVE_MEMBER", ""),
		Sheet:          sc.MayString("SHEET", ""),
		IDColumn:       sc.MayString("ID_COLUMN", "response_id"),
		DistrictColumn: sc.MayString("DISTRICT_COLUMN", "likely_council_district"),
		TextColumns:    sc.MayCSV("TEXT_COLUMNS", []string{"open_response"}),
	}
}
