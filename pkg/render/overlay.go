package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/plumelab/go-plume/pkg/geom"
	"github.com/plumelab/go-plume/pkg/plume"
	"github.com/plumelab/go-plume/pkg/tracking"
)

var (
	ringColor    = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	pathColor    = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	aboveColor   = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
	belowColor   = color.RGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	contourColor = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
)

// DrawTracking overlays one frame's tracking result on a BGR image: the
// search rings, the accepted mean path and the split edge points.
func DrawTracking(img *gocv.Mat, res tracking.Result, origin geom.Point, ringSpacing float64) {
	center := image.Pt(int(origin.X), int(origin.Y))
	for k := 1; k <= len(res.MeanPath)-1; k++ {
		gocv.Circle(img, center, int(ringSpacing)*k, ringColor, 1)
	}

	prev := center
	for _, p := range res.MeanPath {
		pt := image.Pt(int(p.X), int(p.Y))
		gocv.Line(img, prev, pt, pathColor, 2)
		gocv.Circle(img, pt, 4, pathColor, -1)
		prev = pt
	}

	drawPoints(img, res.EdgeAbove, aboveColor)
	drawPoints(img, res.EdgeBelow, belowColor)
}

// DrawContours overlays detector output on a BGR image.
func DrawContours(img *gocv.Mat, contours plume.ContourSet) {
	if len(contours) == 0 {
		return
	}
	pts := make([][]image.Point, len(contours))
	for i, c := range contours {
		pts[i] = c
	}
	pv := gocv.NewPointsVectorFromPoints(pts)
	defer pv.Close()
	gocv.DrawContours(img, pv, -1, contourColor, 2)
}

func drawPoints(img *gocv.Mat, points plume.Points, col color.RGBA) {
	for _, p := range points {
		gocv.Circle(img, image.Pt(int(p.X), int(p.Y)), 5, col, -1)
	}
}
