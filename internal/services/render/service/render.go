// Package service implements the map, scatter and keyness renderers
package service

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"surveylens/internal/core/keyness"
	perr "surveylens/internal/platform/errors"
	boundary "surveylens/internal/services/boundary/domain"
	sentiment "surveylens/internal/services/sentiment/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Config for the renderer
type Config struct {
	Palette string
	Title   string
	Width   vg.Length
	Height  vg.Length
}

// Renderer implements domain.RendererPort
type Renderer struct {
	Cfg Config
}

var (
	targetColor    = color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	referenceColor = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	outlineColor   = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

// New constructs a Renderer with 8x6 inch defaults
func New(cfg Config) *Renderer {
	if cfg.Width <= 0 {
		cfg.Width = 8 * vg.Inch
	}
	if cfg.Height <= 0 {
		cfg.Height = 6 * vg.Inch
	}
	return &Renderer{Cfg: cfg}
}

// Map draws the choropleth: filled district polygons, centroid labels, a scale bar,
// the title, and a vertical color bar to the right
func (r *Renderer) Map(rows []boundary.SpatialDistrictSentiment, format string) (io.WriterTo, error) {
	const op = "render.Map"
	if len(rows) == 0 {
		return nil, perr.WithOp(perr.InvalidArgf("no joined districts to draw"), op)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range rows {
		lo = math.Min(lo, row.Sentiment)
		hi = math.Max(hi, row.Sentiment)
	}
	cm, err := ColorMap(r.Cfg.Palette, lo, hi)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}

	p := plot.New()
	p.Title.Text = r.Cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.HideAxes()

	var (
		bound  orb.Bound
		first  = true
		labels plotter.XYLabels
	)
	for _, row := range rows {
		c, err := cm.At(row.Sentiment)
		if err != nil {
			return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeUnknown, "color for district %d", row.District), op)
		}
		polys, err := polygons(row.Geometry, c)
		if err != nil {
			return nil, perr.WithOp(err, op)
		}
		if len(polys) == 0 {
			continue
		}
		for _, pg := range polys {
			p.Add(pg)
		}
		if first {
			bound, first = row.Geometry.Bound(), false
		} else {
			bound = bound.Union(row.Geometry.Bound())
		}
		centroid, _ := planar.CentroidArea(row.Geometry)
		labels.XYs = append(labels.XYs, plotter.XY{X: centroid[0], Y: centroid[1]})
		labels.Labels = append(labels.Labels, strconv.Itoa(row.District))
	}
	if first {
		return nil, perr.WithOp(perr.InvalidArgf("no polygon geometry to draw"), op)
	}

	lbl, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "labels"), op)
	}
	p.Add(lbl)

	if sb, ok := newScaleBar(bound); ok {
		line, err := plotter.NewLine(plotter.XYs{{X: sb.X0, Y: sb.Y}, {X: sb.X1, Y: sb.Y}})
		if err == nil {
			line.Width = vg.Points(2)
			p.Add(line)
			if sl, err := plotter.NewLabels(plotter.XYLabels{
				XYs:    []plotter.XY{{X: sb.X0, Y: sb.Y}},
				Labels: []string{formatKm(sb.Km)},
			}); err == nil {
				sl.Offset = vg.Point{Y: vg.Points(4)}
				p.Add(sl)
			}
		}
	}

	fitAspect(p, bound, r.Cfg.Width-vg.Inch, r.Cfg.Height)

	bar := &plotter.ColorBar{ColorMap: cm, Vertical: true}
	legend := plot.New()
	legend.Add(bar)
	legend.HideX()
	legend.Y.Label.Text = "Sentiment"
	legend.Y.Padding = 0

	return composite(format, r.Cfg.Width, r.Cfg.Height, p, legend)
}

// Scatter draws mean sentiment per district on a categorical x axis
func (r *Renderer) Scatter(rows []sentiment.DistrictSentiment, format string) (io.WriterTo, error) {
	const op = "render.Scatter"
	if len(rows) == 0 {
		return nil, perr.WithOp(perr.InvalidArgf("no district sentiment to draw"), op)
	}
	p := plot.New()
	p.Title.Text = "Mean sentiment by district"
	p.X.Label.Text = "District"
	p.Y.Label.Text = "Mean sentiment"

	pts := make(plotter.XYs, len(rows))
	names := make([]string, len(rows))
	for i, row := range rows {
		pts[i] = plotter.XY{X: float64(i), Y: row.Sentiment}
		names[i] = strconv.Itoa(row.District)
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "scatter"), op)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(4)
	s.GlyphStyle.Color = targetColor
	p.Add(plotter.NewGrid(), s)
	p.NominalX(names...)

	return writerTo(p, r.Cfg.Width, r.Cfg.Height, format, op)
}

// Keyness draws two-sided horizontal bars: target terms to the right, reference terms to the left
// terms must already be ranked (see keyness.Top); the first term is drawn at the top
func (r *Renderer) Keyness(terms []keyness.Term, target int, format string) (io.WriterTo, error) {
	const op = "render.Keyness"
	var finite []keyness.Term
	for _, t := range terms {
		if !math.IsInf(t.Score, 0) && !math.IsNaN(t.Score) && t.Score != 0 {
			finite = append(finite, t)
		}
	}
	if len(finite) == 0 {
		return nil, perr.WithOp(perr.InvalidArgf("no keyness terms to draw"), op)
	}

	n := len(finite)
	tgt := make(plotter.Values, n)
	ref := make(plotter.Values, n)
	names := make([]string, n)
	for i, t := range finite {
		// y=0 is the bottom row
		row := n - 1 - i
		names[row] = t.Feature
		if t.Side == keyness.SideTarget {
			tgt[row] = t.Score
		} else {
			ref[row] = t.Score
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Keyness: district %d vs all other districts", target)
	p.X.Label.Text = "Keyness"

	width := vg.Points(math.Max(4, math.Min(16, float64(r.Cfg.Height)/float64(n)*0.6)))
	for _, s := range []struct {
		vals plotter.Values
		c    color.Color
		name string
	}{
		{tgt, targetColor, fmt.Sprintf("District %d", target)},
		{ref, referenceColor, "Reference"},
	} {
		bars, err := plotter.NewBarChart(s.vals, width)
		if err != nil {
			return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeUnknown, "bars"), op)
		}
		bars.Horizontal = true
		bars.Color = s.c
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}
	p.Legend.Top = true
	p.NominalY(names...)
	p.Add(plotter.NewGrid())

	return writerTo(p, r.Cfg.Width, r.Cfg.Height, format, op)
}

// polygons converts a (Multi)Polygon into filled plotters; other geometry types yield none
func polygons(g orb.Geometry, fill color.Color) ([]*plotter.Polygon, error) {
	var polys []orb.Polygon
	switch x := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{x}
	case orb.MultiPolygon:
		polys = x
	default:
		return nil, nil
	}
	out := make([]*plotter.Polygon, 0, len(polys))
	for _, poly := range polys {
		rings := make([]plotter.XYer, 0, len(poly))
		for _, ring := range poly {
			if len(ring) < 3 {
				continue
			}
			xys := make(plotter.XYs, len(ring))
			for i, pt := range ring {
				xys[i] = plotter.XY{X: pt[0], Y: pt[1]}
			}
			rings = append(rings, xys)
		}
		if len(rings) == 0 {
			continue
		}
		pg, err := plotter.NewPolygon(rings...)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "polygon")
		}
		pg.Color = fill
		pg.LineStyle.Color = outlineColor
		pg.LineStyle.Width = vg.Points(0.5)
		out = append(out, pg)
	}
	return out, nil
}

// fitAspect pads the data range so one degree of longitude and latitude keep their
// ground ratio at the map's middle latitude
func fitAspect(p *plot.Plot, b orb.Bound, w, h vg.Length) {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	k := math.Cos((b.Min[1] + b.Max[1]) / 2 * math.Pi / 180)
	if dx <= 0 || dy <= 0 || k <= 0 || w <= 0 || h <= 0 {
		return
	}
	ground := dx * k / dy
	canvas := float64(w) / float64(h)
	cx, cy := (b.Min[0]+b.Max[0])/2, (b.Min[1]+b.Max[1])/2
	if ground > canvas {
		dy = dx * k / canvas
	} else {
		dx = dy * canvas / k
	}
	dx, dy = dx*1.05, dy*1.05
	p.X.Min, p.X.Max = cx-dx/2, cx+dx/2
	p.Y.Min, p.Y.Max = cy-dy/2, cy+dy/2
}

// composite draws main on the left and a one inch legend strip on the right
func composite(format string, w, h vg.Length, main, legend *plot.Plot) (io.WriterTo, error) {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	main.Draw(draw.Crop(dc, 0, -vg.Inch, 0, 0))
	legend.Draw(draw.Crop(dc, w-vg.Inch+vg.Points(8), -vg.Points(8), vg.Inch, -vg.Inch))

	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "png":
		return vgimg.PngCanvas{Canvas: img}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: img}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: img}, nil
	default:
		return nil, perr.WithOp(perr.InvalidArgf("unsupported map format %q", format), "render.Map")
	}
}

func writerTo(p *plot.Plot, w, h vg.Length, format, op string) (io.WriterTo, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "" {
		f = "png"
	}
	wt, err := p.WriterTo(w, h, f)
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "format %q", format), op)
	}
	return wt, nil
}

func formatKm(km float64) string {
	if km < 1 {
		return strconv.FormatFloat(km*1000, 'f', 0, 64) + " m"
	}
	return strconv.FormatFloat(km, 'f', -1, 64) + " km"
}
