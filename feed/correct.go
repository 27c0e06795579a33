package feed

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Corrector removes lens distortion from a frame. The result has the same
// shape as the input and is owned by the caller.
type Corrector interface {
	Correct(src gocv.Mat) (gocv.Mat, error)
}

// CorrectorFunc adapts a function to Corrector.
type CorrectorFunc func(src gocv.Mat) (gocv.Mat, error)

func (f CorrectorFunc) Correct(src gocv.Mat) (gocv.Mat, error) { return f(src) }

// Undistorter corrects frames with a pinhole camera model.
type Undistorter struct {
	camera gocv.Mat
	dist   gocv.Mat
}

// NewUndistorter builds an Undistorter from a row-major 3x3 camera matrix
// and the distortion coefficients (k1, k2, p1, p2[, k3...]).
func NewUndistorter(cameraMatrix [9]float64, distCoeffs []float64) (*Undistorter, error) {
	if len(distCoeffs) < 4 {
		return nil, errors.Errorf("undistort: need at least 4 distortion coefficients, got %d", len(distCoeffs))
	}

	camera := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for i, v := range cameraMatrix {
		camera.SetDoubleAt(i/3, i%3, v)
	}

	dist := gocv.NewMatWithSize(1, len(distCoeffs), gocv.MatTypeCV64F)
	for i, v := range distCoeffs {
		dist.SetDoubleAt(0, i, v)
	}

	return &Undistorter{camera: camera, dist: dist}, nil
}

// Correct implements Corrector.
func (u *Undistorter) Correct(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), ErrNoFrame
	}
	dst := gocv.NewMat()
	gocv.Undistort(src, &dst, u.camera, u.dist, u.camera)
	if dst.Empty() || dst.Rows() != src.Rows() || dst.Cols() != src.Cols() {
		dst.Close()
		return gocv.NewMat(), errors.New("undistort: unexpected output shape")
	}
	return dst, nil
}

// Close releases the calibration matrices.
func (u *Undistorter) Close() error {
	u.camera.Close()
	return u.dist.Close()
}
