package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrEmptyFigure is returned when a Figure holds no samples.
var ErrEmptyFigure = errors.New("render: figure holds no samples")

// fitCurveSamples is the density of the overlaid fit curve.
const fitCurveSamples = 200

// Figure holds everything the result plot shows. It deliberately consumes
// plain values rather than pipeline types, so the computation stays free of
// any graphics dependency.
type Figure struct {
	Time   []float64
	Signal []float64
	InROI  []bool // ROI membership mask, same length as Time

	Fit        func(x float64) float64 // fitted model curve
	Background float64                 // background level the area is measured against
	Area       float64
	StdErr     float64
}

// Save renders the figure to the given file. The format follows the file
// extension (png, svg, pdf, ...). Background samples and ROI samples are
// drawn as separate scatters, the fit as a dense curve, and the integrated
// area as a filled band between the ROI samples and the background level.
func (f Figure) Save(path string) error {
	if len(f.Time) == 0 {
		return ErrEmptyFigure
	}

	if len(f.Signal) != len(f.Time) || len(f.InROI) != len(f.Time) {
		return fmt.Errorf("render: inconsistent figure lengths (%d time, %d signal, %d mask)",
			len(f.Time), len(f.Signal), len(f.InROI))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Area = %.6g ± %.6g", f.Area, f.StdErr)
	p.X.Label.Text = "time"
	p.Y.Label.Text = "signal"
	p.Add(plotter.NewGrid())

	var roiPts, backPts plotter.XYs

	for i := range f.Time {
		pt := plotter.XY{X: f.Time[i], Y: f.Signal[i]}
		if f.InROI[i] {
			roiPts = append(roiPts, pt)
		} else {
			backPts = append(backPts, pt)
		}
	}

	if len(roiPts) >= 2 {
		if err := f.addAreaBand(p, roiPts); err != nil {
			return err
		}
	}

	if err := addScatter(p, backPts, "Background", color.RGBA{R: 31, G: 119, B: 180, A: 255}); err != nil {
		return err
	}

	if err := addScatter(p, roiPts, "Region of Interest", color.RGBA{R: 255, G: 127, B: 14, A: 255}); err != nil {
		return err
	}

	if f.Fit != nil {
		if err := f.addFitCurve(p); err != nil {
			return err
		}
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("render: saving %s: %w", path, err)
	}

	return nil
}

// addFitCurve overlays the fitted model, densely sampled over the full time
// range.
func (f Figure) addFitCurve(p *plot.Plot) error {
	xs := floats.Span(make([]float64, fitCurveSamples), floats.Min(f.Time), floats.Max(f.Time))

	pts := make(plotter.XYs, len(xs))
	for i, x := range xs {
		pts[i] = plotter.XY{X: x, Y: f.Fit(x)}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("render: fit curve: %w", err)
	}

	line.LineStyle.Color = color.Black
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(line)
	p.Legend.Add("Gaussian Fit", line)

	return nil
}

// addAreaBand fills the region between the ROI samples and the background
// level.
func (f Figure) addAreaBand(p *plot.Plot, roiPts plotter.XYs) error {
	band := make(plotter.XYs, 0, 2*len(roiPts))
	band = append(band, roiPts...)

	for i := len(roiPts) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: roiPts[i].X, Y: f.Background})
	}

	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return fmt.Errorf("render: area band: %w", err)
	}

	poly.Color = color.RGBA{R: 44, G: 160, B: 44, A: 51}
	poly.LineStyle.Width = 0

	p.Add(poly)
	p.Legend.Add("Area Integrated", poly)

	return nil
}

// addScatter adds one point set with a legend entry; empty sets are
// skipped.
func addScatter(p *plot.Plot, pts plotter.XYs, label string, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("render: %s scatter: %w", label, err)
	}

	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2)
	s.Shape = draw.CircleGlyph{}

	p.Add(s)
	p.Legend.Add(label, s)

	return nil
}
