package capture

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// TimestampLayout names captured files by the local time of the capture.
const TimestampLayout = "2006-01-02-15-04-05"

// Filepath builds <dir>/<YYYY-MM-DD-HH-MM-SS>.<ext>. Two calls within the
// same second return the same path.
func Filepath(dir, ext string, t time.Time) string {
	return filepath.Join(dir, t.Format(TimestampLayout)+"."+ext)
}

// Writer appends frames to a video file.
type Writer interface {
	Write(frame gocv.Mat) error
	Close() error
}

// WriterFactory opens a Writer for a clip of the given size.
type WriterFactory func(path, codec string, fps float64, width, height int) (Writer, error)

// OpenVideoWriter opens an OpenCV video writer.
func OpenVideoWriter(path, codec string, fps float64, width, height int) (Writer, error) {
	vw, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open video writer %s", path)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, errors.Errorf("Can not open video writer %s with codec %s", path, codec)
	}
	return vw, nil
}
