package detection

import (
	"testing"

	"gocv.io/x/gocv"
)

func squareMat(t *testing.T, w, h int, x0, y0, size int, v uint8) gocv.Mat {
	t.Helper()
	data := make([]byte, w*h)
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			data[y*w+x] = v
		}
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	return m
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero contours", func(c *Config) { c.NumContours = 0 }, false},
		{"threshold too high", func(c *Config) { c.Threshold = 300 }, false},
		{"smoothing without eps", func(c *Config) { c.Smoothing = true; c.SmoothingEps = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.wantOK {
				t.Fatalf("Validate() = %v, want ok=%v", err, tt.wantOK)
			}
		})
	}
}

func TestDetectLargestContour(t *testing.T) {
	// Two bright squares; only the larger should survive NumContours=1.
	big := squareMat(t, 200, 200, 20, 20, 60, 255)
	defer big.Close()
	small := squareMat(t, 200, 200, 120, 120, 20, 255)
	defer small.Close()
	img := gocv.NewMat()
	defer img.Close()
	gocv.BitwiseOr(big, small, &img)

	d, err := NewThresholdDetector(DefaultConfig())
	if err != nil {
		t.Fatalf("NewThresholdDetector: %v", err)
	}
	defer d.Close()

	contours, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("contours = %d, want 1", len(contours))
	}
	for _, p := range contours[0] {
		if p.X > 100 || p.Y > 100 {
			t.Fatalf("point %v belongs to the smaller square", p)
		}
	}
}

func TestDetectSmoothing(t *testing.T) {
	img := squareMat(t, 200, 200, 40, 40, 80, 255)
	defer img.Close()

	cfg := DefaultConfig()
	cfg.Smoothing = true
	cfg.SmoothingEps = 5
	d, err := NewThresholdDetector(cfg)
	if err != nil {
		t.Fatalf("NewThresholdDetector: %v", err)
	}
	defer d.Close()

	contours, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(contours) != 1 {
		t.Fatalf("contours = %d, want 1", len(contours))
	}
	// Douglas-Peucker reduces a square outline to its corners.
	if n := len(contours[0]); n > 8 {
		t.Fatalf("smoothed contour has %d points, want a handful", n)
	}
}

func TestDetectEmptyFrame(t *testing.T) {
	d, err := NewThresholdDetector(DefaultConfig())
	if err != nil {
		t.Fatalf("NewThresholdDetector: %v", err)
	}
	if _, err := d.Detect(gocv.NewMat()); err == nil {
		t.Fatal("want error for empty mat")
	}

	dark := squareMat(t, 50, 50, 0, 0, 0, 0)
	defer dark.Close()
	contours, err := d.Detect(dark)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(contours) != 0 {
		t.Fatalf("contours = %d on an all-dark frame, want 0", len(contours))
	}
}
