// Package stitchcap captures frames from cameras and video files for the
// stereo stitcher.
package stitchcap

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/abihf/stitchcap/feed"
	"github.com/abihf/stitchcap/internal/log"
)

// Preview shows f in a window until the feed runs out or q is pressed.
// The feed is closed before Preview returns.
func Preview(f feed.Feed, title string, correct bool) error {
	defer f.Close()

	if !f.Valid() {
		return errors.Errorf("%s: feed is not valid", title)
	}

	window := gocv.NewWindow(title)
	defer window.Close()

	for f.HasNext() {
		frame, err := f.Next(true, correct)
		if err != nil {
			frame.Close()
			if errors.Is(err, feed.ErrNoFrame) {
				break
			}
			return errors.Wrap(err, "Can not read frame")
		}

		window.IMShow(frame)
		frame.Close()
		if window.WaitKey(1)&0xFF == 'q' {
			break
		}
	}

	log.Info().Str("feed", title).Msg("Cleaning up the feed")
	return nil
}
