package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/abihf/stitchcap/capture"
	"github.com/abihf/stitchcap/config"
	"github.com/abihf/stitchcap/internal/log"
	"github.com/abihf/stitchcap/utils/thread"
)

var (
	captureType = flag.String("type", "frame", "Type of capture: frame or video.")
	numCameras  = flag.Int("cameras", 1, "Number of cameras.")
	index       = flag.Int("index", 0, "Camera index.")
	device      = flag.String("device", "", "V4L2 device path, overrides -index.")
	configPath  = flag.String("config", config.Path(), "Capture settings file.")
	cpu         = flag.Int("cpu", -1, "Pin the capture thread to this CPU core.")
	logLevel    = flag.String("log-level", "", "Log level, overrides the settings file.")
	toJournal   = flag.Bool("journal", false, "Log to systemd-journald.")
)

func main() {
	flag.Parse()
	if err := mainE(); err != nil {
		log.Error().Err(err).Msg("capture failed")
		os.Exit(1)
	}
}

func mainE() error {
	conf := config.Load(*configPath)

	level := conf.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log.Init(level, *toJournal)

	if problems := conf.Validate(); len(problems) > 0 {
		return errors.Errorf("invalid settings in %s: %s", *configPath, strings.Join(problems, "; "))
	}

	if *cpu >= 0 {
		if err := thread.Pin(*cpu); err != nil {
			return err
		}
		defer thread.Unpin()
	}

	opt := capture.Option{
		Index:  *index,
		Device: *device,
		Feed:   conf.FeedOptions(),
		Ramp:   conf.Ramp,
		Resize: true,
	}

	if conf.Calibration != "" {
		cal, err := config.LoadCalibration(conf.Calibration)
		if err != nil {
			return err
		}
		corrector, err := cal.Corrector()
		if err != nil {
			return err
		}
		defer corrector.Close()
		opt.Feed.Corrector = corrector
		opt.Correct = true
	}

	return dispatch(*captureType, *numCameras, conf, opt, capturers{
		frame: capture.Frame,
		video: capture.Video,
	})
}

// capturers are the capture entry points dispatch chooses from.
type capturers struct {
	frame func(*capture.Option) (string, error)
	video func(*capture.VideoOption) (string, error)
}

// dispatch runs the capture named by kind. Only single camera captures are
// performed; other camera counts are reported and skipped.
func dispatch(kind string, cameras int, conf *config.Config, opt capture.Option, run capturers) error {
	switch kind {
	case "frame":
		if cameras != 1 {
			log.Info().Msgf("You chose to capture frames for %d cameras.", cameras)
			return nil
		}
		opt.OutputDir = conf.FramesDir
		opt.Filetype = conf.FrameFormat
		_, err := run.frame(&opt)
		return err

	case "video":
		if cameras != 1 {
			log.Info().Msgf("You chose to capture video for %d cameras.", cameras)
			return nil
		}
		opt.OutputDir = conf.VideosDir
		opt.Filetype = conf.VideoFormat
		opt.Ramp = int(opt.Feed.FPS)
		_, err := run.video(&capture.VideoOption{
			Option:    opt,
			Duration:  conf.Duration,
			Codec:     conf.Codec,
			NewWriter: capture.OpenVideoWriter,
		})
		return err
	}

	return errors.Errorf("Please provide a proper capture argument, got %q.", kind)
}
