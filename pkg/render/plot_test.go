package render

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/rom"
)

// fittedSession runs the pipeline on a tiny synthetic horizontal plume.
func fittedSession(t *testing.T) *rom.Session {
	t.Helper()
	origin := geom.Point{X: 100, Y: 200}

	cfg := rom.DefaultSessionConfig(origin)
	cfg.Tracking.RingSpacing = 50
	cfg.Tracking.NumRings = 4
	cfg.Tracking.MeanSmoothing = false
	cfg.Ensemble.Trials = 2
	cfg.Ensemble.Workers = 1
	cfg.Ensemble.Seed = 11

	s, err := rom.NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	frame := func() *plume.Frame {
		pix := make([]uint8, 400*400)
		for k := 1; k <= 4; k++ {
			pix[200*400+100+k*50] = 255
		}
		return plume.NewFrame(pix, 400, 400)
	}
	contours := func() plume.ContourSet {
		var c plume.Contour
		for k := 1; k <= 4; k++ {
			r := k * 50
			c = append(c,
				image.Point{X: 100 + r*4/5, Y: 200 + r*3/5},
				image.Point{X: 100 + r*4/5, Y: 200 - r*3/5},
			)
		}
		return plume.ContourSet{c}
	}

	inputs := make([]rom.FrameInput, 4)
	for i := range inputs {
		inputs[i] = rom.FrameInput{Frame: frame(), Contours: contours()}
	}
	if err := s.Track(inputs); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := s.RegressMean(); err != nil {
		t.Fatalf("RegressMean: %v", err)
	}
	if err := s.TrainVariance(); err != nil {
		t.Fatalf("TrainVariance: %v", err)
	}
	return s
}

func TestFramePlot(t *testing.T) {
	s := fittedSession(t)
	cfg := PlotConfig{XMin: 100, XMax: 300, Samples: 50}
	p, err := FramePlot(s, 0, cfg)
	if err != nil {
		t.Fatalf("FramePlot: %v", err)
	}
	if p == nil {
		t.Fatal("nil plot")
	}
}

func TestFramePlotValidation(t *testing.T) {
	s := fittedSession(t)
	if _, err := FramePlot(s, 0, PlotConfig{XMin: 0, XMax: 100, Samples: 1}); err == nil {
		t.Fatal("want error for one sample")
	}
	if _, err := FramePlot(s, 0, PlotConfig{XMin: 100, XMax: 100, Samples: 10}); err == nil {
		t.Fatal("want error for empty range")
	}
	if _, err := FramePlot(s, 99, DefaultPlotConfig()); err == nil {
		t.Fatal("want error for untracked frame")
	}
}

func TestVarianceScatter(t *testing.T) {
	s := fittedSession(t)
	for _, side := range []rom.Side{rom.SideUpper, rom.SideLower} {
		p, err := VarianceScatter(s, side)
		if err != nil {
			t.Fatalf("VarianceScatter(%v): %v", side, err)
		}
		if p == nil {
			t.Fatal("nil plot")
		}
	}
}

func TestSavePNG(t *testing.T) {
	s := fittedSession(t)
	path := filepath.Join(t.TempDir(), "frame0.png")
	cfg := PlotConfig{XMin: 100, XMax: 300, Samples: 50}
	if err := SavePNG(s, 0, cfg, 6*vg.Inch, 4*vg.Inch, path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty plot file")
	}
}
