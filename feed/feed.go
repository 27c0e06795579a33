// Package feed wraps OpenCV capture handles as sequential frame sources.
//
// A Feed owns exactly one Device. Frames returned by Next belong to the
// caller, who must Close them.
package feed

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Feed is a sequential source of frames.
type Feed interface {
	// Valid probes the source without consuming a frame the caller would see.
	Valid() bool

	// HasNext reports whether another frame can be requested.
	HasNext() bool

	// Next returns the next frame, optionally distortion corrected and
	// resized to the feed's target width.
	Next(resize, correct bool) (gocv.Mat, error)

	// Close releases the underlying device.
	Close() error
}

var (
	// ErrNoFrame is returned when the device yields no frame, either at
	// end of stream or on device failure.
	ErrNoFrame = errors.New("feed: no frame")

	// ErrClosed is returned by operations on a closed feed.
	ErrClosed = errors.New("feed: closed")

	// ErrNoCorrector is returned when correction is requested but no
	// Corrector was configured.
	ErrNoCorrector = errors.New("feed: no distortion corrector configured")
)

// Defaults for Options.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultFPS    = 30.0

	// DefaultOverhead is the measured per-frame timing residual at 30 fps.
	DefaultOverhead = 72906 * time.Microsecond
)

// Options configures a Camera or Video feed. Zero fields take defaults.
type Options struct {
	Width  int
	Height int
	FPS    float64

	// Overhead is subtracted from every pacing sleep. Negative disables it.
	Overhead time.Duration

	// Open defaults to OpenCV when nil.
	Open      Opener
	Clock     Clock
	Corrector Corrector
}

// DefaultOptions returns options for a 640x480 30 fps camera.
func DefaultOptions() Options {
	return Options{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Overhead: DefaultOverhead,
		Clock:    SystemClock{},
	}
}

func (o *Options) withDefaults() Options {
	def := DefaultOptions()
	if o == nil {
		return def
	}
	opt := *o
	if opt.Width <= 0 {
		opt.Width = def.Width
	}
	if opt.Height <= 0 {
		opt.Height = def.Height
	}
	if opt.FPS <= 0 {
		opt.FPS = def.FPS
	}
	if opt.Overhead == 0 {
		opt.Overhead = def.Overhead
	} else if opt.Overhead < 0 {
		opt.Overhead = 0
	}
	if opt.Open == nil {
		opt.Open = OpenCV
	}
	if opt.Clock == nil {
		opt.Clock = def.Clock
	}
	return opt
}

// read pulls one frame from dev and applies correction and resizing.
func read(dev Device, width int, corrector Corrector, resize, correct bool) (gocv.Mat, error) {
	frame := gocv.NewMat()
	if !dev.Read(&frame) || frame.Empty() {
		frame.Close()
		return gocv.NewMat(), ErrNoFrame
	}

	if correct {
		if corrector == nil {
			frame.Close()
			return gocv.NewMat(), ErrNoCorrector
		}
		corrected, err := corrector.Correct(frame)
		frame.Close()
		if err != nil {
			return gocv.NewMat(), errors.Wrap(err, "correct distortion")
		}
		frame = corrected
	}

	if resize {
		resized, err := Resize(frame, width)
		frame.Close()
		if err != nil {
			return gocv.NewMat(), err
		}
		frame = resized
	}

	return frame, nil
}

// probe reads and discards one frame from dev.
func probe(dev Device) (ok bool, dark bool) {
	frame := gocv.NewMat()
	defer frame.Close()

	if !dev.Read(&frame) || frame.Empty() {
		return false, false
	}
	return true, isDark(frame)
}
