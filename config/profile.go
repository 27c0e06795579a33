package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProfilePath is where the configure tool writes the profile.
const ProfilePath = "config/profile.yml"

// Profile is the stereo stitching settings profile. Values are not cross
// checked; getting them right is up to the operator.
type Profile struct {
	LeftIndex  int    `yaml:"left-index"`
	RightIndex int    `yaml:"right-index"`
	SourceDir  string `yaml:"source-dir"`
	DestDir    string `yaml:"dest-dir"`
	KeyFrame   string `yaml:"key-frame"`
	Width      int    `yaml:"width"`
	Format     string `yaml:"format"`
}

// Ordered returns the profile entries in file order.
func (p Profile) Ordered() *OrderedMap {
	m := NewOrderedMap()
	m.Set("left-index", p.LeftIndex)
	m.Set("right-index", p.RightIndex)
	m.Set("source-dir", p.SourceDir)
	m.Set("dest-dir", p.DestDir)
	m.Set("key-frame", p.KeyFrame)
	m.Set("width", p.Width)
	m.Set("format", p.Format)
	return m
}

// MarshalYAML implements yaml.Marshaler.
func (p Profile) MarshalYAML() (interface{}, error) {
	return p.Ordered().MarshalYAML()
}

// WriteProfile writes p to path, creating its directory.
func WriteProfile(path string, p *Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create profile directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create profile")
	}

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		file.Close()
		return errors.Wrap(err, "encode profile")
	}
	if err := enc.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadProfile reads a profile written by WriteProfile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read profile")
	}
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, "decode profile %s", path)
	}
	return p, nil
}
