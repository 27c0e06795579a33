//go:build linux

package feed

import (
	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/internal/log"
)

// Motion-JPEG fourcc.
const mjpeg webcam.PixelFormat = 0x47504A4D

// frameTimeout is the V4L2 frame wait in seconds.
const frameTimeout = 1

// stream is the part of *webcam.Webcam a device reads through.
type stream interface {
	WaitForFrame(timeout uint32) error
	ReadFrame() ([]byte, error)
	StopStreaming() error
	Close() error
}

type webcamDevice struct {
	path   string
	cam    stream
	width  int
	height int
	fps    float64
}

// V4L2Opener returns an Opener that talks to a V4L2 device path directly
// and decodes its Motion-JPEG stream with OpenCV.
func V4L2Opener(width, height int) Opener {
	return func(source interface{}) (Device, error) {
		path, ok := source.(string)
		if !ok {
			return nil, errors.Errorf("v4l2: source must be a device path, got %T", source)
		}
		return openWebcam(path, width, height)
	}
}

func openWebcam(path string, width, height int) (*webcamDevice, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can not open device")
	}

	if _, ok := cam.GetSupportedFormats()[mjpeg]; !ok {
		cam.Close()
		return nil, errors.Errorf("%s does not support Motion-JPEG", path)
	}

	_, w, h, err := cam.SetImageFormat(mjpeg, uint32(width), uint32(height))
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not set image format")
	}

	err = cam.StartStreaming()
	if err != nil {
		cam.Close()
		return nil, errors.Wrap(err, "Can not start streaming")
	}

	return &webcamDevice{
		path:   path,
		cam:    cam,
		width:  int(w),
		height: int(h),
	}, nil
}

func (d *webcamDevice) Read(m *gocv.Mat) bool {
	if d.cam == nil {
		return false
	}

	err := d.cam.WaitForFrame(frameTimeout)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		log.Warn().Str("device", d.path).Msg("frame wait timed out")
		return false
	default:
		log.Error().Err(err).Str("device", d.path).Msg("frame wait failed")
		return false
	}

	buf, err := d.cam.ReadFrame()
	if err != nil || len(buf) == 0 {
		return false
	}

	img, err := gocv.IMDecode(buf, gocv.IMReadColor)
	if err != nil {
		return false
	}
	defer img.Close()

	img.CopyTo(m)
	return !m.Empty()
}

func (d *webcamDevice) IsOpened() bool {
	return d.cam != nil
}

func (d *webcamDevice) Get(prop gocv.VideoCaptureProperties) float64 {
	switch prop {
	case gocv.VideoCaptureFrameWidth:
		return float64(d.width)
	case gocv.VideoCaptureFrameHeight:
		return float64(d.height)
	case gocv.VideoCaptureFPS:
		return d.fps
	}
	return 0
}

// Set records the requested rate; geometry is fixed when the stream starts.
func (d *webcamDevice) Set(prop gocv.VideoCaptureProperties, param float64) {
	if prop == gocv.VideoCaptureFPS {
		d.fps = param
	}
}

func (d *webcamDevice) Close() error {
	if d.cam == nil {
		return nil
	}
	stopErr := d.cam.StopStreaming()
	err := d.cam.Close()
	d.cam = nil
	if err != nil {
		return errors.Wrap(err, "Can not close device")
	}
	return errors.Wrap(stopErr, "Can not stop streaming")
}
