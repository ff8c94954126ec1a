// Package config handles generator configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all generator settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Bumps   BumpsConfig   `yaml:"bumps"`
	Profile ProfileConfig `yaml:"profile"`
	Paint   PaintConfig   `yaml:"paint"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig holds cubemap resolution settings.
type GridConfig struct {
	Dim int `yaml:"dim"` // texels per face edge
}

// BumpsConfig holds fractal bump placement settings.
type BumpsConfig struct {
	Seed          int64   `yaml:"seed"`
	Seeds         int     `yaml:"seeds"`           // number of top-level bump clusters
	Capacity      int     `yaml:"capacity"`        // hard bound on total bumps
	SeedHeight    float32 `yaml:"seed_height"`     // amplitude of each cluster's root bump
	SeedRadiusMax float32 `yaml:"seed_radius_max"` // root radius is uniform in [0, max)
	Shrink        float32 `yaml:"shrink"`
	RadiusLimit   float32 `yaml:"radius_limit"`
	Branching     int     `yaml:"branching"`
	Radii         float32 `yaml:"radii"` // sample image spans this many bump radii
}

// ProfileConfig selects the greyscale sample profile.
type ProfileConfig struct {
	Source      string  `yaml:"source"` // "file" or "noise"
	Path        string  `yaml:"path"`
	NoiseWidth  int     `yaml:"noise_width"`
	NoiseHeight int     `yaml:"noise_height"`
	NoiseScale  float64 `yaml:"noise_scale"`
}

// PaintConfig holds rasterization settings.
type PaintConfig struct {
	SeaLevel    float32  `yaml:"sea_level"`
	WaterColor  [3]uint8 `yaml:"water_color"`
	WaterNormal [3]uint8 `yaml:"water_normal"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	HeightPrefix string `yaml:"height_prefix"`
	NormalPrefix string `yaml:"normal_prefix"`
	BumpManifest string `yaml:"bump_manifest"` // CSV file name, empty disables
	SaveConfig   bool   `yaml:"save_config"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Profile sources.
const (
	SourceFile  = "file"
	SourceNoise = "noise"
)

// Default returns a Config with the reference generator values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Dim: 1024,
		},
		Bumps: BumpsConfig{
			Seed:          1,
			Seeds:         80,
			Capacity:      100000,
			SeedHeight:    0.08,
			SeedRadiusMax: 0.4,
			Shrink:        0.52,
			RadiusLimit:   0.01,
			Branching:     3,
			Radii:         3.0,
		},
		Profile: ProfileConfig{
			Source:      SourceFile,
			Path:        "heightdata.png",
			NoiseWidth:  512,
			NoiseHeight: 512,
			NoiseScale:  1.0 / 64,
		},
		Paint: PaintConfig{
			SeaLevel:    0.08,
			WaterColor:  [3]uint8{20, 100, 200},
			WaterNormal: [3]uint8{127, 127, 255},
		},
		Output: OutputConfig{
			Dir:          ".",
			HeightPrefix: "heightmap",
			NormalPrefix: "normalmap",
			BumpManifest: "",
			SaveConfig:   false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot produce a usable run.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Dim < 2 {
		errs = append(errs, fmt.Errorf("grid.dim must be at least 2, got %d", c.Grid.Dim))
	}
	if c.Bumps.Seeds < 0 {
		errs = append(errs, fmt.Errorf("bumps.seeds must not be negative, got %d", c.Bumps.Seeds))
	}
	if c.Bumps.Capacity < 0 {
		errs = append(errs, fmt.Errorf("bumps.capacity must not be negative, got %d", c.Bumps.Capacity))
	}
	if c.Bumps.Shrink <= 0 || c.Bumps.Shrink >= 1 {
		errs = append(errs, fmt.Errorf("bumps.shrink must be in (0, 1), got %g", c.Bumps.Shrink))
	}
	if c.Bumps.RadiusLimit <= 0 {
		errs = append(errs, fmt.Errorf("bumps.radius_limit must be positive, got %g", c.Bumps.RadiusLimit))
	}
	if c.Bumps.SeedRadiusMax <= 0 {
		errs = append(errs, fmt.Errorf("bumps.seed_radius_max must be positive, got %g", c.Bumps.SeedRadiusMax))
	}
	if c.Bumps.Branching < 1 {
		errs = append(errs, fmt.Errorf("bumps.branching must be at least 1, got %d", c.Bumps.Branching))
	}
	if c.Bumps.Radii < 2 {
		errs = append(errs, fmt.Errorf("bumps.radii must be at least 2, got %g", c.Bumps.Radii))
	}
	if c.Paint.SeaLevel < 0 || c.Paint.SeaLevel > 1 {
		errs = append(errs, fmt.Errorf("paint.sea_level must be in [0, 1], got %g", c.Paint.SeaLevel))
	}
	switch c.Profile.Source {
	case SourceFile:
		if c.Profile.Path == "" {
			errs = append(errs, errors.New("profile.path is required when profile.source is file"))
		}
	case SourceNoise:
		if c.Profile.NoiseWidth < 1 || c.Profile.NoiseHeight < 1 {
			errs = append(errs, fmt.Errorf("profile noise size must be positive, got %dx%d",
				c.Profile.NoiseWidth, c.Profile.NoiseHeight))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown profile.source %q", c.Profile.Source))
	}
	return errors.Join(errs...)
}
