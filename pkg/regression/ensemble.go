package regression

import (
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/plumelab/go-plume/internal/log"
)

// EnsembleConfig tunes the bootstrap variance-model training.
type EnsembleConfig struct {
	// Trials is the number of bootstrap resamples.
	Trials int
	// NSamples is the size of each resample, drawn with replacement from
	// the training rows. Zero means 80% of the training set.
	NSamples int
	// Seed makes the resampling reproducible. Trial i draws from a
	// sub-generator seeded Seed+i, so results are independent of worker
	// scheduling.
	Seed int64
	// Guess is the sinusoid starting point. The zero value means
	// DefaultSinusoidGuess.
	Guess [4]float64
	// KernelFit smooths each resample's distances with a Gaussian kernel
	// over the radius before fitting.
	KernelFit   bool
	KernelSigma float64
	// Workers bounds the number of concurrent trials. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultEnsembleConfig returns the recommended training configuration.
func DefaultEnsembleConfig() EnsembleConfig {
	return EnsembleConfig{
		Trials:      2000,
		Seed:        1234,
		Guess:       DefaultSinusoidGuess,
		KernelSigma: 50,
	}
}

// EnsembleResult is the outcome of a bootstrap training run.
type EnsembleResult struct {
	// Params is the sinusoid (A, w, g, B) of the trial with the lowest
	// test MSE.
	Params [4]float64
	// TestMSE is that trial's mean squared error on the held-out rows.
	TestMSE float64
	// History holds every trial's fitted parameters in trial order; a
	// failed fit leaves an all-NaN entry.
	History [][4]float64
	// Accepted counts the trials that produced a usable fit.
	Accepted int
}

// ErrNoUsableTrial is returned when every bootstrap trial failed to fit.
var ErrNoUsableTrial = errors.New("regression: no bootstrap trial produced a usable fit")

// VarEnsembleLearn trains the sinusoid edge model by bootstrap: each trial
// resamples the training rows with replacement, fits from cfg.Guess and is
// scored on the held-out rows. The lowest-MSE trial wins; ties resolve to
// the earlier trial, so a fixed seed gives a fixed result regardless of
// worker count.
func VarEnsembleLearn(trainX [][2]float64, trainY []float64, testX [][2]float64, testY []float64, cfg EnsembleConfig) (EnsembleResult, error) {
	if len(trainX) != len(trainY) || len(testX) != len(testY) {
		return EnsembleResult{}, errors.New("regression: mismatched ensemble inputs")
	}
	if len(trainX) == 0 {
		return EnsembleResult{}, errors.New("regression: empty training set")
	}
	if len(testX) == 0 {
		return EnsembleResult{}, errors.New("regression: empty test set")
	}
	if cfg.Trials < 1 {
		return EnsembleResult{}, errors.New("regression: at least one trial required")
	}
	nSamples := cfg.NSamples
	if nSamples <= 0 {
		nSamples = int(0.8 * float64(len(trainX)))
		if nSamples < 1 {
			nSamples = 1
		}
	}
	guess := cfg.Guess
	if guess == ([4]float64{}) {
		guess = DefaultSinusoidGuess
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}

	history := make([][4]float64, cfg.Trials)
	mses := make([]float64, cfg.Trials)

	trials := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sx := make([][2]float64, nSamples)
			sy := make([]float64, nSamples)
			for i := range trials {
				rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
				for j := 0; j < nSamples; j++ {
					k := rng.Intn(len(trainX))
					sx[j] = trainX[k]
					sy[j] = trainY[k]
				}
				fitY := sy
				if cfg.KernelFit {
					fitY = kernelSmooth(sx, sy, cfg.KernelSigma)
				}
				params, err := Sinusoid(sx, fitY, guess)
				if err != nil {
					history[i] = [4]float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
					mses[i] = math.NaN()
					continue
				}
				history[i] = params
				mses[i] = sinusoidMSE(params, testX, testY)
			}
		}()
	}
	for i := 0; i < cfg.Trials; i++ {
		trials <- i
	}
	close(trials)
	wg.Wait()

	res := EnsembleResult{History: history, TestMSE: math.Inf(1)}
	for i, mse := range mses {
		if math.IsNaN(mse) {
			continue
		}
		res.Accepted++
		if mse < res.TestMSE {
			res.TestMSE = mse
			res.Params = history[i]
		}
	}
	if res.Accepted == 0 {
		return EnsembleResult{History: history}, ErrNoUsableTrial
	}
	log.Debug("ensemble training done",
		"trials", cfg.Trials, "accepted", res.Accepted, "test_mse", res.TestMSE)
	return res, nil
}

// sinusoidMSE is the mean squared error of d = A·sin(w·r - g·t) + B·r on
// rows of (t, r) -> d.
func sinusoidMSE(p [4]float64, X [][2]float64, Y []float64) float64 {
	a, w, g, b := p[0], p[1], p[2], p[3]
	var sse float64
	for i, xy := range X {
		t, r := xy[0], xy[1]
		e := a*math.Sin(w*r-g*t) + b*r - Y[i]
		sse += e * e
	}
	return sse / float64(len(X))
}

// kernelSmooth replaces each distance with its Nadaraya-Watson estimate over
// the sample radii, damping per-pixel jitter before the nonlinear fit.
func kernelSmooth(X [][2]float64, Y []float64, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 50
	}
	out := make([]float64, len(Y))
	inv := 1 / (2 * sigma * sigma)
	for i := range Y {
		var num, den float64
		for j := range Y {
			dr := X[i][1] - X[j][1]
			w := math.Exp(-dr * dr * inv)
			num += w * Y[j]
			den += w
		}
		out[i] = num / den
	}
	return out
}
