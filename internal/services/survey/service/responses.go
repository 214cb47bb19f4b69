package service

import (
	"context"

	"surveylens/internal/platform/logger"
	"surveylens/internal/services/survey/domain"
)

// Responses binds a loader, an extractor and the configured source and columns
type Responses struct {
	Loader    domain.LoaderPort
	Extractor domain.ExtractorPort
	Source    domain.Source
	Columns   domain.Columns
}

// Responses loads the export and returns the extracted long-format rows
func (s *Responses) Responses(ctx context.Context) ([]domain.Response, error) {
	t, err := s.Loader.Load(ctx, s.Source)
	if err != nil {
		return nil, err
	}
	rs, st, err := s.Extractor.Extract(t, s.Columns)
	if err != nil {
		return nil, err
	}
	logger.C(ctx).Debug().
		Int("rows", st.Rows).
		Int("blank_rows", st.BlankRows).
		Int("empty_text", st.EmptyText).
		Int("single", st.SingleRows).
		Int("combined", st.Combined).
		Int("unknown", st.Unknown).
		Msg("responses extracted")
	logger.C(ctx).Info().Int("responses", st.Responses).Msg("survey responses ready")
	return rs, nil
}
