package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abihf/stitchcap"
	"github.com/abihf/stitchcap/config"
	"github.com/abihf/stitchcap/feed"
	"github.com/abihf/stitchcap/internal/log"
)

func main() {
	index := flag.Int("index", 0, "Camera index.")
	file := flag.String("file", "", "Video file to play instead of a camera.")
	correct := flag.Bool("correct", false, "Apply distortion correction from the calibration file.")
	configPath := flag.String("config", config.Path(), "Capture settings file.")
	flag.Parse()

	conf := config.Load(*configPath)
	opts := conf.FeedOptions()

	if *correct {
		cal, err := config.LoadCalibration(conf.Calibration)
		must(err)
		corrector, err := cal.Corrector()
		must(err)
		defer corrector.Close()
		opts.Corrector = corrector
	}

	var (
		f     feed.Feed
		title string
		err   error
	)
	if *file != "" {
		f, err = feed.NewVideo(*file, &opts)
		title = "Video Feed"
	} else {
		f, err = feed.NewCamera(*index, &opts)
		title = fmt.Sprintf("Camera Feed %d", *index)
	}
	must(err)

	must(stitchcap.Preview(f, title, *correct))
}

func must(err error) {
	if err != nil {
		log.Error().Err(err).Msg("preview failed")
		os.Exit(1)
	}
}
