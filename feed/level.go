package feed

import "gocv.io/x/gocv"

const (
	darkLevel    = 16
	darkFraction = 0.98
)

func isDark(frame gocv.Mat) bool {
	gray := frame
	if frame.Channels() > 1 {
		gray = gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	}
	return darkness(gray.ToBytes(), darkLevel) > darkFraction
}

// darkness returns the fraction of samples below level.
func darkness(img []byte, level byte) float64 {
	total := len(img)
	if total == 0 {
		return 1
	}
	dark := 0
	for i := 0; i < total; i++ {
		if img[i] < level {
			dark++
		}
	}
	return float64(dark) / float64(total)
}
