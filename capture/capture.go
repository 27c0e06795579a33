// Package capture takes stills and timed clips from cameras and writes them
// to timestamp named files.
package capture

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/feed"
	"github.com/abihf/stitchcap/internal/log"
)

// Default output locations and formats.
const (
	FramesDir   = "out/captured_frames"
	VideosDir   = "out/captured_videos"
	FrameType   = "jpg"
	VideoType   = "avi"
	VideoCodec  = "MJPG"
	VideoLength = 5 * time.Second
)

// Processor receives each frame. The frame is closed after it returns, so
// it must not be retained. Returning false stops the capture.
type Processor func(frame gocv.Mat) (bool, error)

// Option selects and configures the camera a capture runs against.
type Option struct {
	// Index is the OpenCV camera index. Ignored when Device is set.
	Index int
	// Device is a V4L2 device path such as /dev/video0.
	Device string
	// DeviceOpener builds the opener for Device when Feed.Open is nil.
	// Defaults to feed.V4L2Opener.
	DeviceOpener func(width, height int) feed.Opener

	Feed feed.Options

	// Ramp is the number of warm-up frames; zero takes the default.
	Ramp    int
	Resize  bool
	Correct bool

	OutputDir string
	Filetype  string
}

// DefaultOption returns the single frame defaults for camera 0.
func DefaultOption() Option {
	return Option{
		Feed:      feed.DefaultOptions(),
		Ramp:      feed.DefaultRamp,
		Resize:    true,
		OutputDir: FramesDir,
		Filetype:  FrameType,
	}
}

func (o Option) withDefaults(dir, ext string, ramp int) Option {
	if o.Ramp <= 0 {
		o.Ramp = ramp
	}
	if o.OutputDir == "" {
		o.OutputDir = dir
	}
	if o.Filetype == "" {
		o.Filetype = ext
	}
	if o.Feed.Clock == nil {
		o.Feed.Clock = feed.SystemClock{}
	}
	return o
}

// Open opens the camera described by opt.
func Open(opt *Option) (*feed.Camera, error) {
	if opt.Device == "" {
		return feed.NewCamera(opt.Index, &opt.Feed)
	}

	fo := opt.Feed
	if fo.Open == nil {
		w, h := fo.Width, fo.Height
		if w <= 0 || h <= 0 {
			w, h = feed.DefaultWidth, feed.DefaultHeight
		}
		newOpener := opt.DeviceOpener
		if newOpener == nil {
			newOpener = feed.V4L2Opener
		}
		fo.Open = newOpener(w, h)
	}
	return feed.NewCameraDevice(opt.Device, &fo)
}

// Capture opens and ramps the camera, then feeds frames to processor until
// it returns false or fails. The camera is always closed.
func Capture(opt *Option, processor Processor) error {
	o := opt.withDefaults(FramesDir, FrameType, feed.DefaultRamp)

	cam, err := Open(&o)
	if err != nil {
		return err
	}
	defer cam.Close()

	if err := cam.Ramp(o.Ramp); err != nil {
		return err
	}

	for cam.HasNext() {
		frame, err := cam.Next(o.Resize, o.Correct)
		if err != nil {
			frame.Close()
			return errors.Wrap(err, "Can not read frame")
		}

		cont, err := processor(frame)
		frame.Close()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}

	return feed.ErrClosed
}

// Frame ramps the camera and writes a single frame. It returns the path
// of the written file.
func Frame(opt *Option) (string, error) {
	o := opt.withDefaults(FramesDir, FrameType, feed.DefaultRamp)

	path, err := prepare(o.OutputDir, o.Filetype, o.Feed.Clock.Now())
	if err != nil {
		return "", err
	}

	err = Capture(&o, func(frame gocv.Mat) (bool, error) {
		if !gocv.IMWrite(path, frame) {
			return false, errors.Errorf("Can not write %s", path)
		}
		return false, nil
	})
	if err != nil {
		return "", err
	}

	log.Info().Str("path", path).Msg("frame was captured")
	return path, nil
}

// VideoOption configures a timed clip. The target frame rate is
// Option.Feed.FPS.
type VideoOption struct {
	Option

	Duration  time.Duration
	Codec     string
	NewWriter WriterFactory
}

// DefaultVideoOption returns the defaults for a 5 second 30 fps clip.
func DefaultVideoOption() VideoOption {
	opt := DefaultOption()
	opt.OutputDir = VideosDir
	opt.Filetype = VideoType
	opt.Ramp = int(opt.Feed.FPS)
	return VideoOption{
		Option:    opt,
		Duration:  VideoLength,
		Codec:     VideoCodec,
		NewWriter: OpenVideoWriter,
	}
}

// Video ramps the camera and records frames until Duration of wall time
// has passed. The clip size is taken from the first frame.
func Video(opt *VideoOption) (string, error) {
	v := *opt
	if v.Feed.FPS <= 0 {
		v.Feed.FPS = feed.DefaultFPS
	}
	v.Option = v.Option.withDefaults(VideosDir, VideoType, int(v.Feed.FPS))
	if v.Duration <= 0 {
		v.Duration = VideoLength
	}
	if v.Codec == "" {
		v.Codec = VideoCodec
	}
	if v.NewWriter == nil {
		v.NewWriter = OpenVideoWriter
	}
	clock := v.Feed.Clock

	cam, err := Open(&v.Option)
	if err != nil {
		return "", err
	}
	defer cam.Close()

	if err := cam.Ramp(v.Ramp); err != nil {
		return "", err
	}

	start := clock.Now()
	path, err := prepare(v.OutputDir, v.Filetype, start)
	if err != nil {
		return "", err
	}

	var writer Writer
	frames := 0
	for clock.Now().Before(start.Add(v.Duration)) {
		frame, err := cam.Next(v.Resize, v.Correct)
		if err != nil {
			frame.Close()
			closeWriter(writer)
			return "", errors.Wrap(err, "Can not read frame")
		}

		if writer == nil {
			writer, err = v.NewWriter(path, v.Codec, v.Feed.FPS, frame.Cols(), frame.Rows())
			if err != nil {
				frame.Close()
				return "", err
			}
		}

		err = writer.Write(frame)
		frame.Close()
		if err != nil {
			closeWriter(writer)
			return "", errors.Wrapf(err, "Can not write frame %d", frames)
		}
		frames++
	}

	if writer == nil {
		return "", errors.New("no frame captured")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "Can not finalize video")
	}

	log.Info().Str("path", path).Int("frames", frames).Dur("duration", v.Duration).Msg("video was captured")
	return path, nil
}

// Cameras opens and ramps one camera per index, one after another. If any
// camera fails, the ones already opened are closed.
func Cameras(opt *Option, indices ...int) ([]*feed.Camera, error) {
	o := opt.withDefaults(FramesDir, FrameType, feed.DefaultRamp)

	cams := make([]*feed.Camera, 0, len(indices))
	for _, index := range indices {
		cam, err := feed.NewCamera(index, &o.Feed)
		if err != nil {
			CloseAll(cams)
			return nil, err
		}
		cams = append(cams, cam)

		if err := cam.Ramp(o.Ramp); err != nil {
			CloseAll(cams)
			return nil, errors.Wrapf(err, "camera %d", index)
		}
		log.Debug().Int("camera", index).Msg("camera ramped")
	}
	return cams, nil
}

// CloseAll closes every camera and returns the first error.
func CloseAll(cams []*feed.Camera) error {
	var first error
	for _, cam := range cams {
		if err := cam.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func prepare(dir, ext string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "Can not create %s", dir)
	}
	return Filepath(dir, ext, t), nil
}

func closeWriter(w Writer) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		log.Warn().Err(err).Msg("video writer close failed")
	}
}
