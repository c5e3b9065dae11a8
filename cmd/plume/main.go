// Command plume extracts a reduced-order model from a plume video: it
// cleans the frames, tracks the plume along concentric rings, regresses the
// mean path and trains the edge variance models, then writes plots and an
// optional model movie.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"

	"github.com/plumelab/go-plume/internal/config"
	"github.com/plumelab/go-plume/internal/log"
	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/render"
	"github.com/plumelab/go-plume/pkg/rom"
	"github.com/plumelab/go-plume/pkg/tracking/detection"
	"github.com/plumelab/go-plume/pkg/video"
)

func main() {
	var (
		videoPath = flag.String("video", "", "input video file (required)")
		originArg = flag.String("origin", "", "plume source as x,y in frame pixels (required)")
		framesArg = flag.String("frames", "", "frame range a:b, default all")
		outDir    = flag.String("out", config.OutDir(), "output directory")
		logLevel  = flag.String("log-level", config.LogLevel(), "debug|info|warn|error")

		rings   = flag.Int("rings", 22, "number of search rings")
		spacing = flag.Float64("spacing", 50, "ring spacing in pixels")
		noClean = flag.Bool("no-clean", false, "skip background subtraction and blurring")

		trials = flag.Int("trials", 2000, "bootstrap trials per edge model")
		seed   = flag.Int64("seed", 1234, "bootstrap seed")

		plotEvery = flag.Int("plot-every", 0, "write a model plot every N frames (0 = first frame only)")
		movie     = flag.Bool("movie", false, "write a model movie")
	)
	flag.Parse()
	log.Init(*logLevel)

	if err := run(*videoPath, *originArg, *framesArg, *outDir,
		*rings, *spacing, *noClean, *trials, *seed, *plotEvery, *movie); err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(videoPath, originArg, framesArg, outDir string,
	rings int, spacing float64, noClean bool,
	trials int, seed int64, plotEvery int, movie bool) error {

	if videoPath == "" || originArg == "" {
		return fmt.Errorf("both -video and -origin are required")
	}
	ox, oy, err := config.ParsePoint(originArg)
	if err != nil {
		return fmt.Errorf("-origin: %w", err)
	}
	start, end, err := config.ParseRange(framesArg)
	if err != nil {
		return fmt.Errorf("-frames: %w", err)
	}

	cfg := rom.DefaultSessionConfig(geom.Point{X: ox, Y: oy})
	cfg.Tracking.NumRings = rings
	cfg.Tracking.RingSpacing = spacing
	cfg.Ensemble.Trials = trials
	cfg.Ensemble.Seed = seed
	session, err := rom.NewSession(cfg)
	if err != nil {
		return err
	}
	log.Info("session started", "id", session.ID().String(), "video", videoPath)

	inputs, err := loadFrames(videoPath, start, end, noClean)
	if err != nil {
		return err
	}

	if err := session.Track(inputs); err != nil {
		return err
	}
	if err := session.RegressMean(); err != nil {
		return err
	}
	if err := session.TrainVariance(); err != nil {
		return err
	}

	st := session.State()
	log.Info("model trained",
		"frames", len(st.MeanCoef),
		"upper", fmt.Sprintf("%.4g", st.VarUpper.Params),
		"lower", fmt.Sprintf("%.4g", st.VarLower.Params))

	return writeArtifacts(session, outDir, plotEvery, movie)
}

// loadFrames reads, cleans and detects every frame up front. Batch videos
// are short; holding the grayscale mats for one pass keeps the temporal
// blur simple.
func loadFrames(path string, start, end int, noClean bool) ([]rom.FrameInput, error) {
	reader, err := video.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	mats, err := reader.ReadGray(start, end)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range mats {
			mats[i].Close()
		}
	}()
	log.Info("video loaded", "frames", len(mats), "fps", reader.FPS())

	if !noClean {
		if err := video.Clean(mats, video.DefaultCleanConfig()); err != nil {
			return nil, err
		}
	}

	detector, err := detection.NewThresholdDetector(detection.DefaultConfig())
	if err != nil {
		return nil, err
	}
	defer detector.Close()

	inputs := make([]rom.FrameInput, len(mats))
	for i := range mats {
		contours, err := detector.Detect(mats[i])
		if err != nil {
			return nil, fmt.Errorf("detect frame %d: %w", i, err)
		}
		frame, err := video.ToFrame(mats[i])
		if err != nil {
			return nil, fmt.Errorf("convert frame %d: %w", i, err)
		}
		inputs[i] = rom.FrameInput{Frame: frame, Contours: contours}
	}
	return inputs, nil
}

func writeArtifacts(session *rom.Session, outDir string, plotEvery int, movie bool) error {
	dir := filepath.Join(outDir, session.ID().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	nFrames := len(session.State().MeanCoef)
	plotCfg := render.DefaultPlotConfig()
	for t := 0; t < nFrames; t++ {
		if t != 0 && (plotEvery == 0 || t%plotEvery != 0) {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("model_%04d.png", t))
		if err := render.SavePNG(session, t, plotCfg, 8*vg.Inch, 6*vg.Inch, path); err != nil {
			log.Warn("plot failed", "frame", t, "error", err)
		}
	}

	for _, side := range []rom.Side{rom.SideUpper, rom.SideLower} {
		p, err := render.VarianceScatter(session, side)
		if err != nil {
			log.Warn("variance scatter failed", "side", side.String(), "error", err)
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("variance_%s.png", side))
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			log.Warn("variance scatter save failed", "path", path, "error", err)
		}
	}

	if movie {
		path := filepath.Join(dir, "model.mp4")
		if err := render.WriteMovie(session, render.DefaultMovieConfig(), path); err != nil {
			return err
		}
		log.Info("movie written", "path", path)
	}

	log.Info("artifacts written", "dir", dir)
	return nil
}
