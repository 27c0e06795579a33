package feed

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/internal/log"
)

// DefaultRamp is the number of frames discarded before a capture so auto
// exposure and white balance can settle.
const DefaultRamp = 30

// Camera is a live camera feed paced to a target frame rate.
type Camera struct {
	source    interface{}
	width     int
	height    int
	fps       float64
	open      Opener
	clock     Clock
	corrector Corrector
	pacer     *Pacer

	dev Device
}

var _ Feed = (*Camera)(nil)

// NewCamera opens the camera at index.
func NewCamera(index int, opt *Options) (*Camera, error) {
	return newCamera(index, opt)
}

// NewCameraDevice opens the camera at a device path such as /dev/video0.
func NewCameraDevice(path string, opt *Options) (*Camera, error) {
	return newCamera(path, opt)
}

func newCamera(source interface{}, opt *Options) (*Camera, error) {
	o := opt.withDefaults()

	dev, err := o.Open(source)
	if err != nil {
		return nil, errors.Wrapf(err, "open camera %v", source)
	}

	c := &Camera{
		source:    source,
		width:     o.Width,
		height:    o.Height,
		fps:       o.FPS,
		open:      o.Open,
		clock:     o.Clock,
		corrector: o.Corrector,
		pacer:     NewPacer(o.FPS, o.Overhead, o.Clock),
		dev:       dev,
	}
	c.configure()
	return c, nil
}

func (c *Camera) configure() {
	c.dev.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	c.dev.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	c.dev.Set(gocv.VideoCaptureFPS, c.fps)
}

// Source returns the index or path the camera was opened with.
func (c *Camera) Source() interface{} { return c.source }

// Width returns the target width frames are resized to.
func (c *Camera) Width() int { return c.width }

// Valid reads one probe frame. When it succeeds the device is reopened so
// the caller's first Next still sees a fresh stream.
func (c *Camera) Valid() bool {
	l := log.With().Interface("camera", c.source).Logger()
	if c.dev == nil {
		l.Warn().Msg("camera is closed")
		return false
	}

	ok, dark := probe(c.dev)
	if !ok {
		l.Warn().Msg("camera is invalid")
		return false
	}
	if dark {
		l.Warn().Msg("camera returned a nearly black frame")
	}

	c.dev.Close()
	dev, err := c.open(c.source)
	if err != nil {
		c.dev = nil
		l.Error().Err(err).Msg("camera reopen failed")
		return false
	}
	c.dev = dev
	c.configure()

	l.Info().Msg("camera is valid")
	return true
}

// HasNext reports whether the device is open.
func (c *Camera) HasNext() bool {
	return c.dev != nil && c.dev.IsOpened()
}

// Next reads the next frame and sleeps out the rest of the frame interval.
func (c *Camera) Next(resize, correct bool) (gocv.Mat, error) {
	if c.dev == nil {
		return gocv.NewMat(), ErrClosed
	}

	start := c.clock.Now()
	frame, err := read(c.dev, c.width, c.corrector, resize, correct)
	if err != nil {
		return frame, err
	}
	c.pacer.Wait(start)
	return frame, nil
}

// Ramp reads and discards n frames.
func (c *Camera) Ramp(n int) error {
	for i := 0; i < n; i++ {
		frame, err := c.Next(false, false)
		frame.Close()
		if err != nil {
			return errors.Wrapf(err, "ramp frame %d/%d", i+1, n)
		}
	}
	return nil
}

// SetFPS changes the pacing target and asks the device for the same rate.
func (c *Camera) SetFPS(fps float64) {
	if fps <= 0 {
		return
	}
	c.fps = fps
	c.pacer.Interval = Interval(fps)
	if c.dev != nil {
		c.dev.Set(gocv.VideoCaptureFPS, fps)
	}
}

// FPS returns the frame rate reported by the device.
func (c *Camera) FPS() float64 {
	if c.dev == nil {
		return 0
	}
	return c.dev.Get(gocv.VideoCaptureFPS)
}

// Close releases the device. Closing twice is a no-op.
func (c *Camera) Close() error {
	if c.dev == nil {
		return nil
	}
	err := c.dev.Close()
	c.dev = nil
	return err
}

// WithCamera opens the camera at index, runs fn and always closes it.
func WithCamera(index int, opt *Options, fn func(*Camera) error) error {
	c, err := NewCamera(index, opt)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}
