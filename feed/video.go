package feed

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/internal/log"
)

// Video is a feed backed by a video file. Frames are read back to back;
// timing is left to the file's own frame rate.
type Video struct {
	path      string
	width     int
	open      Opener
	corrector Corrector

	dev Device
}

var _ Feed = (*Video)(nil)

// NewVideo opens the video file at path.
func NewVideo(path string, opt *Options) (*Video, error) {
	o := opt.withDefaults()

	dev, err := o.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open video %s", path)
	}

	return &Video{
		path:      path,
		width:     o.Width,
		open:      o.Open,
		corrector: o.Corrector,
		dev:       dev,
	}, nil
}

// Path returns the video file path.
func (v *Video) Path() string { return v.path }

// Valid reads one probe frame and rewinds by reopening the file.
func (v *Video) Valid() bool {
	l := log.With().Str("video", v.path).Logger()
	if v.dev == nil {
		l.Warn().Msg("video is closed")
		return false
	}

	if ok, _ := probe(v.dev); !ok {
		l.Warn().Msg("video file is invalid")
		return false
	}

	v.dev.Close()
	dev, err := v.open(v.path)
	if err != nil {
		v.dev = nil
		l.Error().Err(err).Msg("video reopen failed")
		return false
	}
	v.dev = dev

	l.Info().Msg("video file is valid")
	return true
}

// HasNext reports whether frames remain. When the container does not
// report a frame count, an open device is assumed to have more.
func (v *Video) HasNext() bool {
	if v.dev == nil || !v.dev.IsOpened() {
		return false
	}
	count := v.dev.Get(gocv.VideoCaptureFrameCount)
	if count <= 0 {
		return true
	}
	return v.dev.Get(gocv.VideoCapturePosFrames) < count
}

// Next reads the next frame without pacing.
func (v *Video) Next(resize, correct bool) (gocv.Mat, error) {
	if v.dev == nil {
		return gocv.NewMat(), ErrClosed
	}
	return read(v.dev, v.width, v.corrector, resize, correct)
}

// FPS returns the frame rate stored in the file.
func (v *Video) FPS() float64 {
	if v.dev == nil {
		return 0
	}
	return v.dev.Get(gocv.VideoCaptureFPS)
}

// Close releases the file. Closing twice is a no-op.
func (v *Video) Close() error {
	if v.dev == nil {
		return nil
	}
	err := v.dev.Close()
	v.dev = nil
	return err
}

// WithVideo opens the video at path, runs fn and always closes it.
func WithVideo(path string, opt *Options, fn func(*Video) error) error {
	v, err := NewVideo(path, opt)
	if err != nil {
		return err
	}
	defer v.Close()
	return fn(v)
}
