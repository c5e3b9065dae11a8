// Package video reads plume footage into grayscale frames and cleans it for
// tracking: background subtraction plus spatial and temporal Gaussian
// blurring.
package video

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/plumelab/go-plume/internal/log"
	"github.com/plumelab/go-plume/pkg/plume"
)

// Reader decodes frames from a video file.
type Reader struct {
	cap  *gocv.VideoCapture
	path string
}

// Open opens a video file for reading.
func Open(path string) (*Reader, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("open video %s: no decodable stream", path)
	}
	return &Reader{cap: cap, path: path}, nil
}

// FrameCount returns the container's reported frame count.
func (r *Reader) FrameCount() int {
	return int(r.cap.Get(gocv.VideoCaptureFrameCount))
}

// FPS returns the container's reported frame rate.
func (r *Reader) FPS() float64 {
	return r.cap.Get(gocv.VideoCaptureFPS)
}

// ReadGray decodes frames [start, end] as single-channel grayscale mats. A
// negative end reads through the last frame. The caller owns the returned
// mats and must Close them.
func (r *Reader) ReadGray(start, end int) ([]gocv.Mat, error) {
	if start < 0 {
		return nil, fmt.Errorf("read %s: negative start frame %d", r.path, start)
	}
	if end >= 0 && end < start {
		return nil, fmt.Errorf("read %s: empty frame range %d:%d", r.path, start, end)
	}
	done := log.Stage("read_video", "path", r.path, "start", start, "end", end)
	defer done()

	img := gocv.NewMat()
	defer img.Close()

	var frames []gocv.Mat
	for i := 0; end < 0 || i <= end; i++ {
		if !r.cap.Read(&img) {
			if end >= 0 {
				closeMats(frames)
				return nil, fmt.Errorf("read %s: stream ended at frame %d, wanted %d", r.path, i, end)
			}
			break
		}
		if i < start {
			continue
		}
		gray := gocv.NewMat()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
		frames = append(frames, gray)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("read %s: no frames in range %d:%d", r.path, start, end)
	}
	return frames, nil
}

// Close releases the underlying capture.
func (r *Reader) Close() error {
	return r.cap.Close()
}

// ToFrame copies a single-channel mat into a plain intensity buffer.
func ToFrame(m gocv.Mat) (*plume.Frame, error) {
	if m.Empty() {
		return nil, fmt.Errorf("video: empty mat")
	}
	if m.Channels() != 1 || m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("video: want 8-bit single channel, got type %d with %d channels", m.Type(), m.Channels())
	}
	return plume.NewFrame(m.ToBytes(), m.Cols(), m.Rows()), nil
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
