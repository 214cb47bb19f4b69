// Package service implements the boundary loader and joiner
package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	perr "surveylens/internal/platform/errors"
	"surveylens/internal/platform/fetch"
	"surveylens/internal/platform/logger"
	"surveylens/internal/services/boundary/domain"

	"github.com/paulmach/orb/geojson"
)

// Loader implements domain.LoaderPort for GeoJSON FeatureCollections
type Loader struct {
	Fetch  *fetch.Fetcher
	Source string
	Key    string
}

// NewLoader constructs a Loader
func NewLoader(f *fetch.Fetcher, source, key string) *Loader {
	return &Loader{Fetch: f, Source: source, Key: key}
}

// Load fetches and decodes the configured boundary file
func (l *Loader) Load(ctx context.Context) ([]domain.Boundary, error) {
	const op = "boundary.Load"
	if strings.TrimSpace(l.Source) == "" {
		return nil, perr.WithOp(perr.WithField(perr.InvalidArgf("boundary source is required for the map branch"), "CORE_BOUNDARY_SOURCE"), op)
	}
	b, err := l.Fetch.Bytes(ctx, l.Source)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	bs, st, err := Decode(b, l.Key)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	logger.C(ctx).Debug().
		Int("features", st.Features).
		Int("no_key", st.NoKey).
		Int("no_geometry", st.NoGeometry).
		Int("duplicate", st.Duplicate).
		Msg("boundary features filtered")
	logger.C(ctx).Info().Str("source", l.Source).Str("key", l.Key).Int("districts", st.Kept).Msg("boundaries loaded")
	return bs, nil
}

// Decode parses a FeatureCollection keyed by the numeric property key
// Features without a numeric key or geometry are dropped; the first feature per key wins
// Output is ordered by district
func Decode(b []byte, key string) ([]domain.Boundary, domain.LoadStats, error) {
	var st domain.LoadStats
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, st, perr.Wrap(err, perr.ErrorCodeParse, "decode geojson")
	}

	seen := map[int]bool{}
	out := make([]domain.Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		st.Features++
		if f == nil || f.Geometry == nil {
			st.NoGeometry++
			continue
		}
		d, ok := districtKey(f.Properties, key)
		if !ok {
			st.NoKey++
			continue
		}
		if seen[d] {
			st.Duplicate++
			continue
		}
		seen[d] = true
		props := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = v
		}
		out = append(out, domain.Boundary{District: d, Geometry: f.Geometry, Properties: props})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].District < out[j].District })
	st.Kept = len(out)
	return out, st, nil
}

// districtKey accepts integral JSON numbers and numeric strings
// The property name is matched exactly first, then case-insensitively; among several
// case-insensitive matches the lowest name in byte order wins
func districtKey(props geojson.Properties, key string) (int, bool) {
	v, ok := props[key]
	if !ok {
		name := ""
		for k, pv := range props {
			if strings.EqualFold(k, key) && (!ok || k < name) {
				name, v, ok = k, pv, true
			}
		}
	}
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case int:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}
