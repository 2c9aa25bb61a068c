package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivlev/camsweep/internal/geom"
	"github.com/spf13/viper"
)

// ErrConfig is returned when a scene configuration cannot be read or decoded.
var ErrConfig = errors.New("invalid configuration")

// CameraConfig is the initial camera placement.
type CameraConfig struct {
	Position []float64 `mapstructure:"position"`
	Up       []float64 `mapstructure:"up"`
}

// SweepConfig overrides the run's sweep settings for one scene. Zero values are unset.
type SweepConfig struct {
	Sessions int     `mapstructure:"sessions"`
	Steps    int     `mapstructure:"steps"`
	Delta    float64 `mapstructure:"delta"`
}

// Scene is one configuration file: the dataset, camera and output of a render job.
type Scene struct {
	Path string `mapstructure:"-"`

	DataFilename string    `mapstructure:"filename"`
	DataVariable string    `mapstructure:"variable"`
	DataType     string    `mapstructure:"dataType"`
	Timeseries   []string  `mapstructure:"timeseries"`
	Dimensions   []float64 `mapstructure:"dimensions"`

	Camera        CameraConfig `mapstructure:"camera"`
	ImageSize     []int        `mapstructure:"imageSize"`
	ImageFilename string       `mapstructure:"imageFilename"`
	Samples       int          `mapstructure:"samples"`
	Background    []float64    `mapstructure:"background"`

	ColorMap           []float64 `mapstructure:"colorMap"`
	OpacityMap         []float64 `mapstructure:"opacityMap"`
	OpacityAttenuation float64   `mapstructure:"opacityAttenuation"`
	IsosurfaceValues   []float64 `mapstructure:"isosurfaceValues"`

	Sweep SweepConfig `mapstructure:"sweep"`
}

// LoadScene reads a scene configuration. JSON is assumed unless the extension names
// another format viper understands.
func LoadScene(path string) (*Scene, error) {
	v := viper.New()

	v.SetDefault("camera.up", []float64{0, 1, 0})
	v.SetDefault("imageSize", []int{512, 512})
	v.SetDefault("samples", 1)
	v.SetDefault("background", []float64{0, 0, 0})
	v.SetDefault("opacityAttenuation", 1.0)

	v.SetConfigFile(path)
	v.SetConfigType(configType(path))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: error reading %s: %v", ErrConfig, path, err)
	}

	var sc Scene
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("%w: error decoding %s: %v", ErrConfig, path, err)
	}
	sc.Path = path

	if sc.DataFilename == "" && len(sc.Timeseries) == 0 {
		return nil, fmt.Errorf("%w: %s declares no data filename", ErrConfig, path)
	}
	if n := len(sc.ColorMap); n%3 != 0 {
		return nil, fmt.Errorf("%w: %s: colour map has %d entries, want RGB triples", ErrConfig, path, n)
	}

	return &sc, nil
}

func configType(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, known := range viper.SupportedExts {
		if ext == known {
			return ext
		}
	}
	return "json"
}

// Dims returns the dataset half-extents used to bound random camera positions.
func (s *Scene) Dims() geom.Vec3 {
	return geom.FromSlice(s.Dimensions)
}

// CameraPosition returns the configured camera seed position.
func (s *Scene) CameraPosition() geom.Vec3 {
	return geom.FromSlice(s.Camera.Position)
}

// CameraUp returns the configured up-vector.
func (s *Scene) CameraUp() geom.Vec3 {
	if len(s.Camera.Up) == 0 {
		return geom.Up
	}
	return geom.FromSlice(s.Camera.Up)
}

// ImageDims returns the output width and height.
func (s *Scene) ImageDims() (int, int) {
	w, h := 512, 512
	if len(s.ImageSize) > 0 && s.ImageSize[0] > 0 {
		w = s.ImageSize[0]
	}
	if len(s.ImageSize) > 1 && s.ImageSize[1] > 0 {
		h = s.ImageSize[1]
	}
	return w, h
}
