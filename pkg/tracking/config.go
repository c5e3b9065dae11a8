package tracking

import "fmt"

// Config holds all tunable parameters for the concentric-ring search.
type Config struct {
	// Ring geometry
	RingSpacing float64 // Radius step Δr between consecutive rings (pixels)
	NumRings    int     // Maximum number of rings to search

	// Locality constraint: a ring-k candidate must lie within
	// k·Δr·InteriorScale of the previously accepted point.
	InteriorScale float64

	// Ring membership tolerance: |dist - r| <= ATol + RTol·r.
	// Empirically tuned for typical video resolutions; revalidate before
	// reusing at other frame scales.
	RTol float64
	ATol float64

	// Mean curve
	PolyDeg            int     // Polynomial degree fitted to the mean path
	MeanSmoothing      bool    // Gaussian-smooth the mean path y coordinates
	MeanSmoothingSigma float64 // Smoothing kernel standard deviation
}

// DefaultConfig returns the recommended configuration for plume video at
// roughly 1080p scale.
func DefaultConfig() Config {
	return Config{
		RingSpacing:   50,
		NumRings:      22,
		InteriorScale: 3.0 / 5.0,

		RTol: 1e-2,
		ATol: 1e-6,

		PolyDeg:            2,
		MeanSmoothing:      true,
		MeanSmoothingSigma: 2,
	}
}

// Validate reports configuration errors. These are fatal; the tracker does
// not attempt to repair bad parameters.
func (c Config) Validate() error {
	if c.RingSpacing <= 0 {
		return fmt.Errorf("ring spacing must be positive, got %g", c.RingSpacing)
	}
	if c.NumRings < 1 {
		return fmt.Errorf("at least one ring required, got %d", c.NumRings)
	}
	if c.InteriorScale <= 0 {
		return fmt.Errorf("interior scale must be positive, got %g", c.InteriorScale)
	}
	if c.RTol < 0 || c.ATol < 0 {
		return fmt.Errorf("tolerances must be non-negative, got rtol=%g atol=%g", c.RTol, c.ATol)
	}
	if c.PolyDeg < 1 {
		return fmt.Errorf("mean curve degree must be at least 1, got %d", c.PolyDeg)
	}
	if c.MeanSmoothing && c.MeanSmoothingSigma <= 0 {
		return fmt.Errorf("smoothing sigma must be positive, got %g", c.MeanSmoothingSigma)
	}
	return nil
}
