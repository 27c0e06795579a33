package feed

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// MockDevice is an in-memory Device that returns copies of Frame.
type MockDevice struct {
	Frame gocv.Mat

	// Remaining is the number of frames left; negative means unlimited.
	Remaining int

	// ReadCost advances Clock on every successful read.
	Clock    *MockClock
	ReadCost time.Duration

	Reads  int
	Closed bool
	Props  map[gocv.VideoCaptureProperties]float64
}

// NewMockDevice returns an unlimited device serving frame.
func NewMockDevice(frame gocv.Mat) *MockDevice {
	return &MockDevice{
		Frame:     frame,
		Remaining: -1,
		Props:     map[gocv.VideoCaptureProperties]float64{},
	}
}

func (d *MockDevice) Read(m *gocv.Mat) bool {
	if d.Closed || d.Remaining == 0 || d.Frame.Empty() {
		return false
	}
	if d.Remaining > 0 {
		d.Remaining--
	}
	d.Reads++
	d.Props[gocv.VideoCapturePosFrames]++
	if d.Clock != nil {
		d.Clock.Advance(d.ReadCost)
	}
	d.Frame.CopyTo(m)
	return true
}

func (d *MockDevice) IsOpened() bool { return !d.Closed }

func (d *MockDevice) Get(prop gocv.VideoCaptureProperties) float64 {
	return d.Props[prop]
}

func (d *MockDevice) Set(prop gocv.VideoCaptureProperties, param float64) {
	d.Props[prop] = param
}

func (d *MockDevice) Close() error {
	d.Closed = true
	return nil
}

// MockOpener hands out devices built by New and remembers them.
type MockOpener struct {
	New    func(source interface{}) (*MockDevice, error)
	Opened []*MockDevice
}

// Open implements Opener.
func (o *MockOpener) Open(source interface{}) (Device, error) {
	if o.New == nil {
		return nil, errors.Errorf("mock: no device for %v", source)
	}
	d, err := o.New(source)
	if err != nil {
		return nil, err
	}
	o.Opened = append(o.Opened, d)
	return d, nil
}

// MockClock is a manual clock. Sleep advances it and records the duration.
type MockClock struct {
	now   time.Time
	Slept []time.Duration
}

// NewMockClock returns a clock set to t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time { return c.now }

func (c *MockClock) Sleep(d time.Duration) {
	c.Slept = append(c.Slept, d)
	c.now = c.now.Add(d)
}

// Advance moves the clock forward without recording a sleep.
func (c *MockClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
