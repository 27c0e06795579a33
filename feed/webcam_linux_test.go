//go:build linux

package feed

import (
	"testing"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

type fakeStream struct {
	frame   []byte
	waitErr error
	stopErr error
	stopped bool
	closed  bool
}

func (s *fakeStream) WaitForFrame(uint32) error   { return s.waitErr }
func (s *fakeStream) ReadFrame() ([]byte, error) { return s.frame, nil }
func (s *fakeStream) StopStreaming() error       { s.stopped = true; return s.stopErr }
func (s *fakeStream) Close() error               { s.closed = true; return nil }

func TestWebcamDeviceDecodesJPEG(t *testing.T) {
	src := testFrame(48, 64)
	defer src.Close()
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, src)
	require.NoError(t, err)
	defer buf.Close()

	d := &webcamDevice{path: "/dev/video0", cam: &fakeStream{frame: buf.GetBytes()}, width: 64, height: 48}
	m := gocv.NewMat()
	defer m.Close()

	require.True(t, d.Read(&m))
	assert.Equal(t, 64, m.Cols())
	assert.Equal(t, 48, m.Rows())
	assert.Equal(t, 64.0, d.Get(gocv.VideoCaptureFrameWidth))

	d.Set(gocv.VideoCaptureFPS, 15)
	assert.Equal(t, 15.0, d.Get(gocv.VideoCaptureFPS))
}

func TestWebcamDeviceTimeout(t *testing.T) {
	d := &webcamDevice{path: "/dev/video0", cam: &fakeStream{waitErr: &webcam.Timeout{}}}
	m := gocv.NewMat()
	defer m.Close()
	assert.False(t, d.Read(&m))
}

func TestWebcamDeviceCloseReportsStopError(t *testing.T) {
	s := &fakeStream{stopErr: errors.New("VIDIOC_STREAMOFF failed")}
	d := &webcamDevice{path: "/dev/video0", cam: s}

	err := d.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIDIOC_STREAMOFF")
	assert.True(t, s.stopped)
	assert.True(t, s.closed, "device closed even when stop fails")
	assert.False(t, d.IsOpened())

	assert.NoError(t, d.Close())
}
