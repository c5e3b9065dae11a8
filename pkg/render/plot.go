// Package render draws fitted plume models: reduced-order plots via
// gonum/plot, diagnostic overlays and movies via OpenCV.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/plumelab/go-plume/pkg/rom"
)

// PlotConfig bounds the sampled abscissa range of a model plot.
type PlotConfig struct {
	XMin, XMax float64
	Samples    int
}

// DefaultPlotConfig samples 200 points over [0, 1100] frame pixels.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{XMin: 0, XMax: 1100, Samples: 200}
}

var (
	meanColor  = color.RGBA{R: 0xd6, G: 0x28, B: 0x28, A: 0xff}
	upperColor = color.RGBA{B: 0xd6, A: 0xff}
	lowerColor = color.RGBA{G: 0x96, A: 0xff}
)

// FramePlot draws the fitted mean curve and both reconstructed edges of one
// frame in frame coordinates. Edge samples the model misses are simply left
// out of the lines.
func FramePlot(s *rom.Session, t int, cfg PlotConfig) (*plot.Plot, error) {
	if cfg.Samples < 2 {
		return nil, fmt.Errorf("render: need at least 2 samples, got %d", cfg.Samples)
	}
	if cfg.XMax <= cfg.XMin {
		return nil, fmt.Errorf("render: empty x range %g:%g", cfg.XMin, cfg.XMax)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("plume model, frame %d", t)
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"

	step := (cfg.XMax - cfg.XMin) / float64(cfg.Samples-1)

	var mean, upper, lower plotter.XYs
	for i := 0; i < cfg.Samples; i++ {
		x := cfg.XMin + float64(i)*step
		if y, ok := s.MeanY(t, x); ok {
			mean = append(mean, plotter.XY{X: x, Y: y})
		}
		if e, ok := s.EvalEdge(rom.SideUpper, t, x); ok {
			upper = append(upper, plotter.XY{X: e.X, Y: e.Y})
		}
		if e, ok := s.EvalEdge(rom.SideLower, t, x); ok {
			lower = append(lower, plotter.XY{X: e.X, Y: e.Y})
		}
	}
	if len(mean) == 0 {
		return nil, fmt.Errorf("render: frame %d has no mean curve", t)
	}

	for _, series := range []struct {
		name string
		xys  plotter.XYs
		col  color.RGBA
	}{
		{"mean", mean, meanColor},
		{"upper edge", upper, upperColor},
		{"lower edge", lower, lowerColor},
	} {
		if len(series.xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return nil, fmt.Errorf("render: %s line: %w", series.name, err)
		}
		line.Color = series.col
		p.Add(line)
		p.Legend.Add(series.name, line)
	}

	origin := s.Config().Origin
	dot, err := plotter.NewScatter(plotter.XYs{{X: origin.X, Y: origin.Y}})
	if err != nil {
		return nil, fmt.Errorf("render: origin marker: %w", err)
	}
	p.Add(dot)
	p.Legend.Add("origin", dot)

	return p, nil
}

// SavePNG writes a frame plot to disk at the given size in points.
func SavePNG(s *rom.Session, t int, cfg PlotConfig, w, h vg.Length, path string) error {
	p, err := FramePlot(s, t, cfg)
	if err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
