package main

import (
	"flag"
	"os"

	"github.com/abihf/stitchcap/config"
	"github.com/abihf/stitchcap/internal/log"
)

func main() {
	out := flag.String("out", config.ProfilePath, "Where to write the profile.")
	flag.Parse()

	prof, err := config.PromptProfile(config.NewPrompter(os.Stdin, os.Stdout))
	must(err)
	must(config.WriteProfile(*out, prof))

	log.Info().Str("path", *out).Msg("profile written")
}

func must(err error) {
	if err != nil {
		log.Error().Err(err).Msg("configure failed")
		os.Exit(1)
	}
}
