// Package config loads capture settings and reads and writes the stereo
// stitching profile.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/abihf/stitchcap/feed"
	"github.com/abihf/stitchcap/internal/log"
)

// DefaultPath is where the capture tool looks for its settings.
// STITCHCAP_CONFIG overrides it.
const DefaultPath = "config/capture.yml"

// Camera is the geometry and timing of a capture camera.
type Camera struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	FPS      float64       `yaml:"fps"`
	Overhead time.Duration `yaml:"overhead"`
}

// Config holds the capture tool settings.
type Config struct {
	Camera      Camera        `yaml:"camera"`
	Ramp        int           `yaml:"ramp"`
	FramesDir   string        `yaml:"frames-dir"`
	VideosDir   string        `yaml:"videos-dir"`
	FrameFormat string        `yaml:"frame-format"`
	VideoFormat string        `yaml:"video-format"`
	Codec       string        `yaml:"codec"`
	Duration    time.Duration `yaml:"duration"`
	Calibration string        `yaml:"calibration"`
	LogLevel    string        `yaml:"log-level"`
}

// Path returns the config path from STITCHCAP_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("STITCHCAP_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads path and fills unset fields with defaults. A missing or
// unreadable file is logged and the defaults are used.
func Load(path string) *Config {
	conf, err := loadFromFile(path)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load config file")
	}
	if conf == nil {
		conf = &Config{}
	}
	conf.fill()
	return conf
}

func (c *Config) fill() {
	if c.Camera.Width == 0 {
		c.Camera.Width = feed.DefaultWidth
	}
	if c.Camera.Height == 0 {
		c.Camera.Height = feed.DefaultHeight
	}
	if c.Camera.FPS == 0 {
		c.Camera.FPS = feed.DefaultFPS
	}
	if c.Camera.Overhead == 0 {
		c.Camera.Overhead = feed.DefaultOverhead
	}
	if c.Ramp == 0 {
		c.Ramp = feed.DefaultRamp
	}
	if c.FramesDir == "" {
		c.FramesDir = "out/captured_frames"
	}
	if c.VideosDir == "" {
		c.VideosDir = "out/captured_videos"
	}
	if c.FrameFormat == "" {
		c.FrameFormat = "jpg"
	}
	if c.VideoFormat == "" {
		c.VideoFormat = "avi"
	}
	if c.Codec == "" {
		c.Codec = "MJPG"
	}
	if c.Duration == 0 {
		c.Duration = 5 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func loadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{}
	err = yaml.NewDecoder(file).Decode(config)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return config, nil
}

// Validate checks value ranges. It returns a list of problems, or nil.
func (c *Config) Validate() []string {
	var problems []string

	if c.Camera.Width < 16 || c.Camera.Width > 8192 {
		problems = append(problems, "camera.width must be between 16 and 8192")
	}
	if c.Camera.Height < 16 || c.Camera.Height > 8192 {
		problems = append(problems, "camera.height must be between 16 and 8192")
	}
	if c.Camera.FPS <= 0 || c.Camera.FPS > 240 {
		problems = append(problems, "camera.fps must be between 0 and 240")
	}
	if c.Ramp < 0 {
		problems = append(problems, "ramp must not be negative")
	}
	if len(c.Codec) != 4 {
		problems = append(problems, fmt.Sprintf("codec %q must be a four character code", c.Codec))
	}
	if c.Duration <= 0 {
		problems = append(problems, "duration must be positive")
	}

	return problems
}

// FeedOptions converts the camera section to feed options.
func (c *Config) FeedOptions() feed.Options {
	opt := feed.DefaultOptions()
	opt.Width = c.Camera.Width
	opt.Height = c.Camera.Height
	opt.FPS = c.Camera.FPS
	opt.Overhead = c.Camera.Overhead
	return opt
}
