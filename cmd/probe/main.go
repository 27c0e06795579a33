package main

import (
	"flag"
	"fmt"

	"github.com/abihf/stitchcap/config"
	"github.com/abihf/stitchcap/feed"
	"github.com/abihf/stitchcap/internal/log"
)

func main() {
	limit := flag.Int("max", 4, "Probe camera indices 0 to max-1.")
	configPath := flag.String("config", config.Path(), "Capture settings file.")
	flag.Parse()

	opts := config.Load(*configPath).FeedOptions()

	var valid []int
	for i := 0; i < *limit; i++ {
		cam, err := feed.NewCamera(i, &opts)
		if err != nil {
			log.Warn().Int("camera", i).Err(err).Msg("camera is invalid")
			continue
		}
		if cam.Valid() {
			valid = append(valid, i)
		}
		cam.Close()
	}

	fmt.Println("Valid camera indices:", valid)
}
