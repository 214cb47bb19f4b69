package service

import (
	"sort"
	"strings"

	perr "surveylens/internal/platform/errors"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

var palettes = map[string]func() palette.ColorMap{
	"smooth-blue-red":      func() palette.ColorMap { return moreland.SmoothBlueRed() },
	"smooth-blue-tan":      func() palette.ColorMap { return moreland.SmoothBlueTan() },
	"smooth-green-red":     func() palette.ColorMap { return moreland.SmoothGreenRed() },
	"smooth-green-purple":  func() palette.ColorMap { return moreland.SmoothGreenPurple() },
	"smooth-purple-orange": func() palette.ColorMap { return moreland.SmoothPurpleOrange() },
	"kindlmann":            moreland.Kindlmann,
	"extended-kindlmann":   moreland.ExtendedKindlmann,
	"black-body":           moreland.BlackBody,
	"extended-black-body":  moreland.ExtendedBlackBody,
}

// PaletteNames lists the accepted palette ids, sorted
func PaletteNames() []string {
	out := make([]string, 0, len(palettes))
	for k := range palettes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ColorMap returns a fresh color map for name scaled to [lo, hi]
// A degenerate range is widened by 0.5 on each side
func ColorMap(name string, lo, hi float64) (palette.ColorMap, error) {
	mk, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, perr.WithField(perr.InvalidArgf("unknown palette %q (have %s)", name, strings.Join(PaletteNames(), ", ")), "palette")
	}
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	cm := mk()
	cm.SetMax(hi)
	cm.SetMin(lo)
	return cm, nil
}
