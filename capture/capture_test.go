package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/config"
	"github.com/abihf/stitchcap/feed"
)

type fixture struct {
	frame  gocv.Mat
	opener *feed.MockOpener
	clock  *feed.MockClock
}

func newFixture(t *testing.T, frames int, cost time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		frame: gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 100, 110, 0), 480, 640, gocv.MatTypeCV8UC3),
		clock: feed.NewMockClock(time.Date(2026, 10, 17, 9, 30, 15, 0, time.Local)),
	}
	t.Cleanup(func() { f.frame.Close() })

	f.opener = &feed.MockOpener{New: func(interface{}) (*feed.MockDevice, error) {
		d := feed.NewMockDevice(f.frame)
		d.Remaining = frames
		d.Clock = f.clock
		d.ReadCost = cost
		return d, nil
	}}
	return f
}

func (f *fixture) option(dir string) Option {
	opt := DefaultOption()
	opt.Feed.Open = f.opener.Open
	opt.Feed.Clock = f.clock
	opt.OutputDir = dir
	return opt
}

func TestFrameWritesOneTimestampedFile(t *testing.T) {
	f := newFixture(t, -1, time.Millisecond)
	dir := filepath.Join(t.TempDir(), "out", "captured_frames")

	opt := f.option(dir)
	path, err := Frame(&opt)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())

	name := entries[0].Name()
	assert.Equal(t, ".jpg", filepath.Ext(name))
	base := strings.TrimSuffix(name, ".jpg")
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, base)
	assert.Len(t, digits, 14)
	assert.Equal(t, "20261017093015", digits)

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	assert.Equal(t, 640, img.Cols())
	assert.Equal(t, 480, img.Rows())

	require.Len(t, f.opener.Opened, 1)
	dev := f.opener.Opened[0]
	assert.Equal(t, feed.DefaultRamp+1, dev.Reads)
	assert.True(t, dev.Closed)
}

func TestFrameRampFailureClosesCamera(t *testing.T) {
	f := newFixture(t, 3, 0)
	dir := t.TempDir()

	opt := f.option(dir)
	_, err := Frame(&opt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrNoFrame))
	assert.True(t, f.opener.Opened[0].Closed)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestCaptureStopsWhenProcessorDeclines(t *testing.T) {
	f := newFixture(t, -1, 0)
	opt := f.option(t.TempDir())
	opt.Ramp = 1
	opt.Resize = true
	opt.Feed.Width = 320

	seen := 0
	err := Capture(&opt, func(frame gocv.Mat) (bool, error) {
		seen++
		assert.Equal(t, 320, frame.Cols())
		return seen < 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, seen)
	assert.Equal(t, 5, f.opener.Opened[0].Reads)

	boom := errors.New("disk full")
	err = Capture(&opt, func(gocv.Mat) (bool, error) { return true, boom })
	assert.Equal(t, boom, err)
}

type recordingWriter struct {
	path          string
	codec         string
	fps           float64
	width, height int
	frames        int
	closed        bool
}

func (w *recordingWriter) Write(frame gocv.Mat) error {
	w.frames++
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestVideoRecordsForDuration(t *testing.T) {
	f := newFixture(t, -1, 100*time.Millisecond)
	dir := t.TempDir()

	var w *recordingWriter
	opt := DefaultVideoOption()
	opt.Feed.Open = f.opener.Open
	opt.Feed.Clock = f.clock
	opt.Feed.Width = 320
	opt.OutputDir = dir
	opt.Ramp = 2
	opt.Duration = time.Second
	opt.NewWriter = func(path, codec string, fps float64, width, height int) (Writer, error) {
		w = &recordingWriter{path: path, codec: codec, fps: fps, width: width, height: height}
		return w, nil
	}

	path, err := Video(&opt)
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Equal(t, path, w.path)
	assert.Equal(t, ".avi", filepath.Ext(path))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "MJPG", w.codec)
	assert.Equal(t, 30.0, w.fps)
	assert.Equal(t, 320, w.width, "size comes from the first frame")
	assert.Equal(t, 240, w.height)
	assert.Equal(t, 10, w.frames)
	assert.True(t, w.closed)
	assert.True(t, f.opener.Opened[0].Closed)
}

func TestVideoReadFailureClosesWriter(t *testing.T) {
	f := newFixture(t, 5, 100*time.Millisecond)

	var w *recordingWriter
	opt := DefaultVideoOption()
	opt.Feed.Open = f.opener.Open
	opt.Feed.Clock = f.clock
	opt.OutputDir = t.TempDir()
	opt.Ramp = 2
	opt.Duration = time.Minute
	opt.NewWriter = func(path, codec string, fps float64, width, height int) (Writer, error) {
		w = &recordingWriter{}
		return w, nil
	}

	_, err := Video(&opt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, feed.ErrNoFrame))
	assert.Equal(t, 3, w.frames)
	assert.True(t, w.closed)
	assert.True(t, f.opener.Opened[0].Closed)
}

func TestCamerasRampsEach(t *testing.T) {
	f := newFixture(t, -1, 0)
	opt := f.option(t.TempDir())
	opt.Ramp = 4

	cams, err := Cameras(&opt, 0, 1, 2)
	require.NoError(t, err)
	require.Len(t, cams, 3)
	for i, d := range f.opener.Opened {
		assert.Equal(t, 4, d.Reads, "camera %d", i)
	}

	require.NoError(t, CloseAll(cams))
	for _, d := range f.opener.Opened {
		assert.True(t, d.Closed)
	}
}

func TestCamerasClosesOnFailure(t *testing.T) {
	f := newFixture(t, -1, 0)
	open := f.opener.New
	f.opener.New = func(src interface{}) (*feed.MockDevice, error) {
		if src == 2 {
			return nil, errors.New("no camera")
		}
		return open(src)
	}
	opt := f.option(t.TempDir())
	opt.Ramp = 1

	cams, err := Cameras(&opt, 0, 1, 2)
	require.Error(t, err)
	assert.Nil(t, cams)
	require.Len(t, f.opener.Opened, 2)
	for _, d := range f.opener.Opened {
		assert.True(t, d.Closed)
	}
}

func TestOpenDeviceUsesDeviceOpener(t *testing.T) {
	f := newFixture(t, -1, 0)
	conf := config.Load(filepath.Join(t.TempDir(), "missing.yml"))

	var gotW, gotH int
	opt := Option{
		Device: "/dev/video2",
		Feed:   conf.FeedOptions(),
		DeviceOpener: func(width, height int) feed.Opener {
			gotW, gotH = width, height
			return f.opener.Open
		},
	}
	opt.Feed.Clock = f.clock

	cam, err := Open(&opt)
	require.NoError(t, err)
	defer cam.Close()

	assert.Equal(t, feed.DefaultWidth, gotW)
	assert.Equal(t, feed.DefaultHeight, gotH)
	require.Len(t, f.opener.Opened, 1)
	assert.Equal(t, "/dev/video2", cam.Source())
}

func TestOpenDeviceKeepsInjectedOpener(t *testing.T) {
	f := newFixture(t, -1, 0)
	opt := f.option(t.TempDir())
	opt.Device = "/dev/video0"
	opt.DeviceOpener = func(int, int) feed.Opener {
		t.Fatal("device opener must not be used when Feed.Open is set")
		return nil
	}

	cam, err := Open(&opt)
	require.NoError(t, err)
	defer cam.Close()
	assert.Len(t, f.opener.Opened, 1)
}
