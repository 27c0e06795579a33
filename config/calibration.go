package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/abihf/stitchcap/feed"
)

// Calibration is the intrinsic model used for distortion correction.
type Calibration struct {
	// CameraMatrix is the row-major 3x3 intrinsic matrix.
	CameraMatrix [9]float64 `yaml:"camera-matrix,flow"`
	// DistCoeffs holds k1, k2, p1, p2 and optionally k3.
	DistCoeffs []float64 `yaml:"dist-coeffs,flow"`
}

// LoadCalibration reads a calibration file.
func LoadCalibration(path string) (*Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read calibration")
	}

	cal := &Calibration{}
	if err := yaml.Unmarshal(data, cal); err != nil {
		return nil, errors.Wrapf(err, "decode calibration %s", path)
	}
	if cal.CameraMatrix[8] == 0 {
		return nil, errors.Errorf("calibration %s: camera-matrix is missing", path)
	}
	return cal, nil
}

// Corrector builds the distortion corrector for this calibration.
func (c *Calibration) Corrector() (*feed.Undistorter, error) {
	return feed.NewUndistorter(c.CameraMatrix, c.DistCoeffs)
}
