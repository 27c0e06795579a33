package feed

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ScaledSize returns the size of a w x h image scaled to width, keeping
// the aspect ratio.
func ScaledSize(w, h, width int) image.Point {
	if w <= 0 {
		return image.Pt(width, 0)
	}
	height := int(math.Round(float64(h) * float64(width) / float64(w)))
	return image.Pt(width, height)
}

// Resize returns a copy of src scaled to width with its aspect ratio kept.
func Resize(src gocv.Mat, width int) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), ErrNoFrame
	}
	if width <= 0 {
		return gocv.NewMat(), errors.Errorf("resize: invalid width %d", width)
	}

	dst := gocv.NewMat()
	if src.Cols() == width {
		src.CopyTo(&dst)
		return dst, nil
	}

	gocv.Resize(src, &dst, ScaledSize(src.Cols(), src.Rows(), width), 0, 0, gocv.InterpolationArea)
	if dst.Empty() {
		dst.Close()
		return gocv.NewMat(), errors.Errorf("resize: %dx%d to width %d failed", src.Cols(), src.Rows(), width)
	}
	return dst, nil
}
