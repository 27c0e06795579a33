package feed

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newVideoFixture(t *testing.T, frames int) (*MockOpener, *MockClock, *Options) {
	t.Helper()
	frame := testFrame(240, 320)
	t.Cleanup(func() { frame.Close() })

	clock := NewMockClock(time.Unix(0, 0))
	opener := &MockOpener{New: func(interface{}) (*MockDevice, error) {
		d := NewMockDevice(frame)
		d.Remaining = frames
		d.Clock = clock
		d.ReadCost = 5 * time.Millisecond
		d.Props[gocv.VideoCaptureFrameCount] = float64(frames)
		d.Props[gocv.VideoCaptureFPS] = 25
		return d, nil
	}}
	return opener, clock, &Options{Width: 160, Open: opener.Open, Clock: clock}
}

func TestVideoReadsToEnd(t *testing.T) {
	opener, clock, opts := newVideoFixture(t, 3)

	err := WithVideo("testdata/clip.avi", opts, func(v *Video) error {
		assert.Equal(t, "testdata/clip.avi", v.Path())
		assert.Equal(t, 25.0, v.FPS())
		require.True(t, v.Valid())

		n := 0
		for v.HasNext() {
			frame, err := v.Next(true, false)
			require.NoError(t, err)
			assert.Equal(t, 160, frame.Cols())
			assert.Equal(t, 120, frame.Rows())
			frame.Close()
			n++
		}
		assert.Equal(t, 3, n)

		frame, err := v.Next(false, false)
		frame.Close()
		assert.True(t, errors.Is(err, ErrNoFrame))
		return nil
	})
	require.NoError(t, err)

	require.Len(t, opener.Opened, 2)
	assert.True(t, opener.Opened[1].Closed)
	assert.Empty(t, clock.Slept, "video frames are not paced")
}

func TestVideoHasNextUnknownCount(t *testing.T) {
	opener, _, opts := newVideoFixture(t, -1)

	v, err := NewVideo("stream.mjpg", opts)
	require.NoError(t, err)

	opener.Opened[0].Props[gocv.VideoCaptureFrameCount] = 0
	assert.True(t, v.HasNext())

	require.NoError(t, v.Close())
	assert.False(t, v.HasNext())
	assert.Equal(t, 0.0, v.FPS())
}

func TestVideoInvalid(t *testing.T) {
	opener, _, opts := newVideoFixture(t, 0)

	v, err := NewVideo("empty.avi", opts)
	require.NoError(t, err)
	defer v.Close()

	assert.False(t, v.Valid())
	assert.Len(t, opener.Opened, 1)
}
