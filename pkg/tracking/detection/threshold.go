package detection

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"

	"github.com/plumelab/go-plume/pkg/plume"
)

// ThresholdDetector segments frames by intensity threshold and ranks the
// resulting external contours by area.
type ThresholdDetector struct {
	cfg Config
}

// NewThresholdDetector creates a detector with the given configuration.
func NewThresholdDetector(cfg Config) (*ThresholdDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("detection config: %w", err)
	}
	return &ThresholdDetector{cfg: cfg}, nil
}

// Detect implements Detector.
func (d *ThresholdDetector) Detect(img gocv.Mat) (plume.ContourSet, error) {
	if img.Empty() {
		return nil, fmt.Errorf("detection: empty frame")
	}

	bin := gocv.NewMat()
	defer bin.Close()
	typ := gocv.ThresholdBinary
	if d.cfg.Threshold == 0 {
		typ |= gocv.ThresholdOtsu
	}
	gocv.Threshold(img, &bin, float32(d.cfg.Threshold), 255, typ)

	found := gocv.FindContours(bin, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer found.Close()

	type ranked struct {
		idx  int
		area float64
	}
	order := make([]ranked, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		order = append(order, ranked{idx: i, area: gocv.ContourArea(found.At(i))})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].area != order[j].area {
			return order[i].area > order[j].area
		}
		return order[i].idx < order[j].idx
	})
	if len(order) > d.cfg.NumContours {
		order = order[:d.cfg.NumContours]
	}

	out := make(plume.ContourSet, 0, len(order))
	for _, r := range order {
		contour := found.At(r.idx)
		if d.cfg.Smoothing {
			simplified := gocv.ApproxPolyDP(contour, d.cfg.SmoothingEps, true)
			out = append(out, plume.Contour(simplified.ToPoints()))
			simplified.Close()
			continue
		}
		out = append(out, plume.Contour(contour.ToPoints()))
	}
	return out, nil
}

// Close implements Detector. The threshold backend holds no resources.
func (d *ThresholdDetector) Close() error { return nil }
