//go:build !linux

package thread

import "github.com/pkg/errors"

// Pin is only supported on Linux.
func Pin(core int) error {
	return errors.Errorf("cpu pinning is not supported on this platform")
}

// Unpin is a no-op.
func Unpin() {}
