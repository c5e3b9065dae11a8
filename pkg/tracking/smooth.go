package tracking

import (
	"math"

	"github.com/plumelab/go-plume/pkg/plume"
)

// smoothMeanY applies a 1-D Gaussian kernel to the y coordinates of the mean
// path, in ring-index order, with reflected boundaries. The x coordinates are
// never smoothed.
func smoothMeanY(points plume.Points, sigma float64) {
	if len(points) < 2 {
		return
	}
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y
	}
	smoothed := gaussianFilter1D(ys, sigma)
	for i := range points {
		points[i].Y = smoothed[i]
	}
}

// gaussianFilter1D convolves data with a normalized Gaussian kernel of the
// given standard deviation. The kernel radius follows the usual 4σ truncation
// rule; out-of-range samples reflect about the array edges.
func gaussianFilter1D(data []float64, sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	n := len(data)
	out := make([]float64, n)
	for i := range out {
		var acc float64
		for j, w := range kernel {
			acc += w * data[reflectIndex(i+j-radius, n)]
		}
		out[i] = acc
	}
	return out
}

// reflectIndex maps an out-of-range index into [0, n) by reflecting about the
// edges ("abcd" extends as "dcba|abcd|dcba").
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i = ((i % period) + period) % period
	if i >= n {
		i = period - 1 - i
	}
	return i
}
