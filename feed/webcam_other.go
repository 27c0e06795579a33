//go:build !linux

package feed

import "github.com/pkg/errors"

// V4L2Opener is only available on Linux.
func V4L2Opener(width, height int) Opener {
	return func(source interface{}) (Device, error) {
		return nil, errors.Errorf("v4l2: %v: not supported on this platform", source)
	}
}
