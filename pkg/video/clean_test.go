package video

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func grayMat(t *testing.T, w, h int, fill uint8) gocv.Mat {
	t.Helper()
	data := make([]byte, w*h)
	for i := range data {
		data[i] = fill
	}
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes: %v", err)
	}
	return m
}

func matPix(t *testing.T, m gocv.Mat) []uint8 {
	t.Helper()
	pix, err := m.DataPtrUint8()
	if err != nil {
		t.Fatalf("DataPtrUint8: %v", err)
	}
	return pix
}

func TestCleanConfigValidate(t *testing.T) {
	cfg := DefaultCleanConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}

	cfg.SpaceKernel = 80
	if err := cfg.Validate(); !errors.Is(err, ErrEvenKernel) {
		t.Fatalf("even space kernel: err = %v", err)
	}

	cfg = DefaultCleanConfig()
	cfg.TimeKernel = 4
	if err := cfg.Validate(); !errors.Is(err, ErrEvenKernel) {
		t.Fatalf("even time kernel: err = %v", err)
	}

	cfg = DefaultCleanConfig()
	cfg.TimeSigma = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("want error for zero time sigma")
	}
}

func TestSubtractBackground(t *testing.T) {
	frames := []gocv.Mat{
		grayMat(t, 4, 4, 10),
		grayMat(t, 4, 4, 10),
		grayMat(t, 4, 4, 10),
	}
	defer closeMats(frames)
	// A plume pixel brighter than the background in the last frame.
	matPix(t, frames[2])[5] = 60

	if err := subtractBackground(frames, 0, 1); err != nil {
		t.Fatalf("subtractBackground: %v", err)
	}
	for i := 0; i < 2; i++ {
		for _, v := range matPix(t, frames[i]) {
			if v != 0 {
				t.Fatalf("background frame %d kept intensity %d", i, v)
			}
		}
	}
	last := matPix(t, frames[2])
	for j, v := range last {
		want := uint8(0)
		if j == 5 {
			want = 50
		}
		if v != want {
			t.Fatalf("pixel %d = %d, want %d", j, v, want)
		}
	}
}

func TestTimeBlur(t *testing.T) {
	frames := make([]gocv.Mat, 5)
	for i := range frames {
		frames[i] = grayMat(t, 3, 3, 100)
	}
	defer closeMats(frames)

	if err := timeBlur(frames, 3, 1); err != nil {
		t.Fatalf("timeBlur: %v", err)
	}
	if v := matPix(t, frames[2])[0]; v != 100 {
		t.Fatalf("interior frame = %d, want 100", v)
	}
	// Zero padding darkens the clip ends.
	if v := matPix(t, frames[0])[0]; v >= 100 {
		t.Fatalf("first frame = %d, want < 100", v)
	}
}

func TestCleanRejectsEmptyInput(t *testing.T) {
	if err := Clean(nil, DefaultCleanConfig()); err == nil {
		t.Fatal("want error for empty frame slice")
	}
}

func TestToFrame(t *testing.T) {
	m := grayMat(t, 4, 2, 7)
	defer m.Close()
	matPix(t, m)[3] = 42

	f, err := ToFrame(m)
	if err != nil {
		t.Fatalf("ToFrame: %v", err)
	}
	if f.Width != 4 || f.Height != 2 {
		t.Fatalf("frame is %dx%d, want 4x2", f.Width, f.Height)
	}
	if f.At(3, 0) != 42 || f.At(0, 1) != 7 {
		t.Fatalf("pixels = %d, %d, want 42, 7", f.At(3, 0), f.At(0, 1))
	}

	// The frame owns a copy.
	matPix(t, m)[3] = 0
	if f.At(3, 0) != 42 {
		t.Fatal("frame shares the mat buffer")
	}

	color := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer color.Close()
	if _, err := ToFrame(color); err == nil {
		t.Fatal("want error for multi-channel mat")
	}
}
