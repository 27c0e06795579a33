package feed

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Device is the capture handle a feed reads from.
type Device interface {
	Read(m *gocv.Mat) bool
	IsOpened() bool
	Get(prop gocv.VideoCaptureProperties) float64
	Set(prop gocv.VideoCaptureProperties, param float64)
	Close() error
}

// Opener opens a Device for a camera index (int) or a path (string).
type Opener func(source interface{}) (Device, error)

// OpenCV opens source through OpenCV's VideoCapture.
func OpenCV(source interface{}) (Device, error) {
	vc, err := gocv.OpenVideoCapture(source)
	if err != nil {
		return nil, errors.Wrapf(err, "open capture %v", source)
	}
	return &cvDevice{vc: vc}, nil
}

type cvDevice struct {
	vc *gocv.VideoCapture
}

func (d *cvDevice) Read(m *gocv.Mat) bool { return d.vc.Read(m) }
func (d *cvDevice) IsOpened() bool        { return d.vc.IsOpened() }
func (d *cvDevice) Close() error          { return d.vc.Close() }

func (d *cvDevice) Get(prop gocv.VideoCaptureProperties) float64 {
	return d.vc.Get(prop)
}

func (d *cvDevice) Set(prop gocv.VideoCaptureProperties, param float64) {
	d.vc.Set(prop, param)
}

// Clock abstracts wall time for pacing and capture loops.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
