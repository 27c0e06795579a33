package feed

import "time"

// Pacer holds a fixed inter-frame interval by sleeping off whatever is left
// of the interval after a frame was read and processed. It only corrects
// per-frame overshoot; drift across frames is not compensated.
type Pacer struct {
	Interval time.Duration
	Overhead time.Duration
	Clock    Clock
}

// NewPacer returns a pacer for fps frames per second.
func NewPacer(fps float64, overhead time.Duration, clock Clock) *Pacer {
	return &Pacer{
		Interval: Interval(fps),
		Overhead: overhead,
		Clock:    clock,
	}
}

// Interval converts a frame rate to a frame duration.
func Interval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// Wait sleeps until start+Interval-Overhead and returns how long it slept.
func (p *Pacer) Wait(start time.Time) time.Duration {
	elapsed := p.Clock.Now().Sub(start)
	left := p.Interval - elapsed - p.Overhead
	if left <= 0 {
		return 0
	}
	p.Clock.Sleep(left)
	return left
}
