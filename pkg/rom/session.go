// Package rom assembles the full reduced-order model of a plume video: a
// tracking pass over the frames, a multi-frame regression of the mean path
// and a pair of bootstrap-trained edge models, held together by an immutable
// session configuration and an explicit fitted state.
package rom

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/plumelab/go-plume/internal/log"
	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/regression"
	"github.com/plumelab/go-plume/pkg/tracking"
)

// SessionConfig is fixed at session creation. The plume origin is part of
// the configuration: every downstream coordinate is translated so the origin
// sits at (0, 0).
type SessionConfig struct {
	Origin   geom.Point
	Tracking tracking.Config

	// Mean curve regression across frames.
	MeanMethod    regression.Method
	MeanDeg       int
	MeanDirection regression.Direction

	// Edge model training.
	Ensemble regression.EnsembleConfig
	// TrainSplit is the fraction of flattened edge rows used for
	// training; the rest score the bootstrap trials.
	TrainSplit float64
}

// DefaultSessionConfig returns the recommended configuration for the given
// plume origin.
func DefaultSessionConfig(origin geom.Point) SessionConfig {
	return SessionConfig{
		Origin:        origin,
		Tracking:      tracking.DefaultConfig(),
		MeanMethod:    regression.MethodPoly,
		MeanDeg:       2,
		MeanDirection: regression.DirEither,
		Ensemble:      regression.DefaultEnsembleConfig(),
		TrainSplit:    0.8,
	}
}

// Validate reports configuration errors.
func (c SessionConfig) Validate() error {
	if err := c.Tracking.Validate(); err != nil {
		return err
	}
	if c.MeanDeg < 1 {
		return fmt.Errorf("mean degree must be at least 1, got %d", c.MeanDeg)
	}
	if _, err := regression.CoefCount(c.MeanMethod, c.MeanDeg); err != nil {
		return err
	}
	if c.TrainSplit <= 0 || c.TrainSplit >= 1 {
		return fmt.Errorf("train split must be in (0, 1), got %g", c.TrainSplit)
	}
	return nil
}

// FittedState accumulates everything the pipeline derives from the frames.
// Frame indices are session-relative and contiguous from zero; a frame whose
// tracking failed keeps its slot with empty points so the coefficient series
// stays aligned with time.
type FittedState struct {
	Mean      []plume.FramePoints
	EdgeAbove []plume.FramePoints
	EdgeBelow []plume.FramePoints

	MeanCoef plume.CoefficientSeries

	VarUpper *VarianceModel
	VarLower *VarianceModel
}

// Session runs the extraction pipeline for one video.
type Session struct {
	id      uuid.UUID
	cfg     SessionConfig
	tracker *tracking.Tracker
	state   FittedState
}

// NewSession creates a session with a fixed configuration.
func NewSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	tr, err := tracking.New(cfg.Tracking)
	if err != nil {
		return nil, err
	}
	tr.SetOrigin(cfg.Origin)
	return &Session{id: uuid.New(), cfg: cfg, tracker: tr}, nil
}

// ID returns the session identifier used to key output artifacts.
func (s *Session) ID() uuid.UUID { return s.id }

// Config returns a copy of the session configuration.
func (s *Session) Config() SessionConfig { return s.cfg }

// State exposes the fitted state for rendering and inspection.
func (s *Session) State() *FittedState { return &s.state }

// FrameInput is one frame ready for tracking: its intensity buffer plus the
// contours the detector found in it. Inputs are processed in slice order and
// assigned session-relative frame numbers from zero.
type FrameInput struct {
	Frame    *plume.Frame
	Contours plume.ContourSet
}

// Track runs the ring search over all frames. A frame whose search halts too
// early for the mean fit is logged and keeps an empty slot; it surfaces
// later as a NaN coefficient row.
func (s *Session) Track(inputs []FrameInput) error {
	if len(inputs) == 0 {
		return errors.New("rom: no frames to track")
	}
	done := log.Stage("track", "session", s.id.String(), "frames", len(inputs))
	defer done()

	s.state.Mean = make([]plume.FramePoints, len(inputs))
	s.state.EdgeAbove = make([]plume.FramePoints, len(inputs))
	s.state.EdgeBelow = make([]plume.FramePoints, len(inputs))
	for i, in := range inputs {
		res, err := s.tracker.Track(in.Frame, in.Contours)
		if err != nil {
			if errors.Is(err, tracking.ErrOriginUnset) {
				return err
			}
			log.Warn("tracking failed, leaving empty frame slot", "frame", i, "error", err)
			s.state.Mean[i] = plume.FramePoints{Frame: i}
			s.state.EdgeAbove[i] = plume.FramePoints{Frame: i}
			s.state.EdgeBelow[i] = plume.FramePoints{Frame: i}
			continue
		}
		s.state.Mean[i] = plume.FramePoints{Frame: i, Points: res.MeanPath}
		s.state.EdgeAbove[i] = plume.FramePoints{Frame: i, Points: res.EdgeAbove}
		s.state.EdgeBelow[i] = plume.FramePoints{Frame: i, Points: res.EdgeBelow}
	}
	return nil
}

// RegressMean fits the configured mean model to every tracked frame in
// origin-translated coordinates and stores the coefficient series.
func (s *Session) RegressMean() error {
	if len(s.state.Mean) == 0 {
		return errors.New("rom: no tracked frames; call Track first")
	}
	done := log.Stage("regress_mean", "session", s.id.String(), "method", string(s.cfg.MeanMethod))
	defer done()

	origin := s.cfg.Origin
	series, err := regression.MultiframeMean(s.state.Mean, s.cfg.MeanMethod, s.cfg.MeanDeg, s.cfg.MeanDirection, &origin)
	if err != nil {
		return err
	}
	s.state.MeanCoef = series
	return nil
}

// TrainVariance flattens both edge point sets into (t, r) -> d rows, splits
// them into train and held-out sets, and bootstrap-trains one sinusoid edge
// model per side.
func (s *Session) TrainVariance() error {
	if len(s.state.MeanCoef) == 0 {
		return errors.New("rom: no mean coefficients; call RegressMean first")
	}
	// Edge reconstruction intersects circles with y = p(x); the inverse and
	// parametric mean forms have no such curve to measure from.
	if s.cfg.MeanMethod != regression.MethodPoly && s.cfg.MeanMethod != regression.MethodLinear {
		return fmt.Errorf("rom: edge models need a y = p(x) mean, got method %q", s.cfg.MeanMethod)
	}
	done := log.Stage("train_variance", "session", s.id.String(), "trials", s.cfg.Ensemble.Trials)
	defer done()

	upper, err := s.trainSide(SideUpper, s.state.EdgeAbove)
	if err != nil {
		return fmt.Errorf("upper edge: %w", err)
	}
	lower, err := s.trainSide(SideLower, s.state.EdgeBelow)
	if err != nil {
		return fmt.Errorf("lower edge: %w", err)
	}
	s.state.VarUpper = upper
	s.state.VarLower = lower
	return nil
}

func (s *Session) trainSide(side Side, edges []plume.FramePoints) (*VarianceModel, error) {
	vari := make([]plume.TimedDistances, 0, len(edges))
	for i, e := range edges {
		rd := FlattenEdgePoints(s.state.Mean[i].Points, e.Points)
		if len(rd) == 0 {
			continue
		}
		vari = append(vari, plume.TimedDistances{Frame: e.Frame, RD: rd})
	}
	X, Y := regression.FlattenVariDist(vari)
	if len(X) == 0 {
		return nil, errors.New("no edge distances to train on")
	}

	trainX, trainY, testX, testY := splitRows(X, Y, s.cfg.TrainSplit, s.cfg.Ensemble.Seed)
	if len(trainX) == 0 || len(testX) == 0 {
		return nil, fmt.Errorf("split %g left an empty set (%d rows)", s.cfg.TrainSplit, len(X))
	}

	res, err := regression.VarEnsembleLearn(trainX, trainY, testX, testY, s.cfg.Ensemble)
	if err != nil {
		return nil, err
	}
	log.Info("edge model trained",
		"side", side.String(), "rows", len(X), "test_mse", res.TestMSE,
		"params", fmt.Sprintf("%.4g", res.Params))
	return &VarianceModel{
		Params:   res.Params,
		Side:     side,
		MeanCoef: s.state.MeanCoef,
		Training: res,
	}, nil
}

// splitRows shuffles the rows with a seeded generator and splits them at the
// given fraction. The inputs are left untouched.
func splitRows(X [][2]float64, Y []float64, frac float64, seed int64) (trainX [][2]float64, trainY []float64, testX [][2]float64, testY []float64) {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	nTrain := int(frac * float64(len(idx)))
	for k, i := range idx {
		if k < nTrain {
			trainX = append(trainX, X[i])
			trainY = append(trainY, Y[i])
		} else {
			testX = append(testX, X[i])
			testY = append(testY, Y[i])
		}
	}
	return trainX, trainY, testX, testY
}

// EvalEdge evaluates a trained edge model at frame t and abscissa x, both in
// frame coordinates. ok follows VarianceModel.EvalEdge.
func (s *Session) EvalEdge(side Side, t int, x float64) (geom.Point, bool) {
	var m *VarianceModel
	if side == SideUpper {
		m = s.state.VarUpper
	} else {
		m = s.state.VarLower
	}
	if m == nil {
		return geom.Point{}, false
	}
	p, ok := m.EvalEdge(t, x-s.cfg.Origin.X)
	if !ok {
		return geom.Point{}, false
	}
	return geom.Point{X: p.X + s.cfg.Origin.X, Y: p.Y + s.cfg.Origin.Y}, true
}

// MeanY evaluates the fitted mean curve at frame t and abscissa x in frame
// coordinates. ok is false for untracked or degenerate frames.
func (s *Session) MeanY(t int, x float64) (float64, bool) {
	if t < 0 || t >= len(s.state.MeanCoef) || s.state.MeanCoef.NaNRow(t) {
		return 0, false
	}
	y := geom.EvalPolyDesc(s.state.MeanCoef[t], x-s.cfg.Origin.X)
	return y + s.cfg.Origin.Y, true
}
