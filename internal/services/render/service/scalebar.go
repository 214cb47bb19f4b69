package service

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// scaleBar is a horizontal bar in map coordinates and its length in kilometres
type scaleBar struct {
	X0, X1, Y float64
	Km        float64
}

// newScaleBar picks a 1/2/5 x 10^k km length near a quarter of the bound's width
// measured geodesically along the bound's middle latitude, anchored bottom left
func newScaleBar(b orb.Bound) (scaleBar, bool) {
	dx := b.Max[0] - b.Min[0]
	if dx <= 0 {
		return scaleBar{}, false
	}
	midY := (b.Min[1] + b.Max[1]) / 2
	widthM := geo.Distance(orb.Point{b.Min[0], midY}, orb.Point{b.Max[0], midY})
	if widthM <= 0 || math.IsNaN(widthM) {
		return scaleBar{}, false
	}
	km := niceLength(widthM / 1000 / 4)
	perKm := dx / (widthM / 1000)

	x0 := b.Min[0] + dx*0.05
	y := b.Min[1] + (b.Max[1]-b.Min[1])*0.04
	return scaleBar{X0: x0, X1: x0 + km*perKm, Y: y, Km: km}, true
}

// niceLength rounds v down to 1, 2 or 5 times a power of ten
func niceLength(v float64) float64 {
	if v <= 0 {
		return 0
	}
	p := math.Pow(10, math.Floor(math.Log10(v)))
	switch m := v / p; {
	case m >= 5:
		return 5 * p
	case m >= 2:
		return 2 * p
	default:
		return p
	}
}
