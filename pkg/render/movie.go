package render

import (
	"fmt"

	"gocv.io/x/gocv"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/plumelab/go-plume/internal/log"
	"github.com/plumelab/go-plume/pkg/rom"
)

// MovieConfig tunes the rendered model movie.
type MovieConfig struct {
	Plot   PlotConfig
	FPS    float64
	Width  int // pixels
	Height int // pixels
}

// DefaultMovieConfig renders 960x720 at 15 fps.
func DefaultMovieConfig() MovieConfig {
	return MovieConfig{
		Plot:   DefaultPlotConfig(),
		FPS:    15,
		Width:  960,
		Height: 720,
	}
}

// WriteMovie renders one model plot per tracked frame and encodes them as an
// mp4v movie. Frames without a usable mean fit are skipped.
func WriteMovie(s *rom.Session, cfg MovieConfig, path string) error {
	if cfg.FPS <= 0 || cfg.Width < 1 || cfg.Height < 1 {
		return fmt.Errorf("render: bad movie geometry %dx%d@%g", cfg.Width, cfg.Height, cfg.FPS)
	}
	nFrames := len(s.State().MeanCoef)
	if nFrames == 0 {
		return fmt.Errorf("render: session has no fitted frames")
	}
	done := log.Stage("write_movie", "path", path, "frames", nFrames)
	defer done()

	vw, err := gocv.VideoWriterFile(path, "mp4v", cfg.FPS, cfg.Width, cfg.Height, true)
	if err != nil {
		return fmt.Errorf("render: open writer %s: %w", path, err)
	}
	defer vw.Close()

	written := 0
	for t := 0; t < nFrames; t++ {
		p, err := FramePlot(s, t, cfg.Plot)
		if err != nil {
			log.Warn("skipping frame in movie", "frame", t, "error", err)
			continue
		}
		canvas := vgimg.NewWith(
			vgimg.UseWH(vg.Length(cfg.Width)*vg.Inch/vgimg.DefaultDPI, vg.Length(cfg.Height)*vg.Inch/vgimg.DefaultDPI),
			vgimg.UseDPI(vgimg.DefaultDPI),
		)
		p.Draw(draw.New(canvas))

		mat, err := gocv.ImageToMatRGB(canvas.Image())
		if err != nil {
			return fmt.Errorf("render: rasterize frame %d: %w", t, err)
		}
		gocv.CvtColor(mat, &mat, gocv.ColorRGBToBGR)
		err = vw.Write(mat)
		mat.Close()
		if err != nil {
			return fmt.Errorf("render: write frame %d: %w", t, err)
		}
		written++
	}
	if written == 0 {
		return fmt.Errorf("render: no frame of %d was renderable", nFrames)
	}
	return nil
}
