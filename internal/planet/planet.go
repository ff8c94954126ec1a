// Package planet runs the generator pipeline: bump placement, distortion,
// height analysis and painting of the height and normal cubemaps.
package planet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/earthlike/internal/bump"
	"github.com/Faultbox/earthlike/internal/config"
	"github.com/Faultbox/earthlike/internal/cubemap"
	"github.com/Faultbox/earthlike/internal/logger"
	"github.com/Faultbox/earthlike/internal/output"
	"github.com/Faultbox/earthlike/internal/paint"
	"github.com/Faultbox/earthlike/internal/profile"
	"github.com/Faultbox/earthlike/internal/render"
)

// Result holds everything produced by one generator run.
type Result struct {
	Grid       *cubemap.Grid
	Bumps      []bump.Bump
	Dropped    int   // bumps rejected after the field filled
	OutOfRange int64 // clamped profile samples
	Min, Max   float32
	Stats      cubemap.HeightStats

	Height *paint.Cubemap
	Normal *paint.Cubemap
}

// LoadProfile returns the sample profile selected by cfg.
func LoadProfile(cfg *config.Config) (*profile.Profile, error) {
	switch cfg.Profile.Source {
	case config.SourceNoise:
		return profile.Noise(cfg.Profile.NoiseWidth, cfg.Profile.NoiseHeight, cfg.Bumps.Seed, cfg.Profile.NoiseScale), nil
	case config.SourceFile, "":
		prof, err := profile.Load(cfg.Profile.Path)
		if err != nil {
			return nil, fmt.Errorf("loading sample profile: %w", err)
		}
		return prof, nil
	default:
		return nil, fmt.Errorf("unknown profile source %q", cfg.Profile.Source)
	}
}

// BumpParams converts the bump section of cfg.
func BumpParams(cfg *config.Config) bump.Params {
	b := cfg.Bumps
	return bump.Params{
		Capacity:      b.Capacity,
		SeedHeight:    b.SeedHeight,
		SeedRadiusMax: b.SeedRadiusMax,
		Shrink:        b.Shrink,
		RadiusLimit:   b.RadiusLimit,
		Branching:     b.Branching,
		Radii:         b.Radii,
	}
}

// PaintOptions converts the paint section of cfg.
func PaintOptions(cfg *config.Config) paint.Options {
	return paint.Options{
		SeaLevel:    cfg.Paint.SeaLevel,
		WaterColor:  cfg.Paint.WaterColor,
		WaterNormal: cfg.Paint.WaterNormal,
	}
}

// Generate runs the whole pipeline for cfg using prof as the sample profile.
// Filling the bump field is reported but not fatal; render failures are.
func Generate(ctx context.Context, cfg *config.Config, prof *profile.Profile) (*Result, error) {
	log := logger.Named("planet")
	res := &Result{}

	grid, err := cubemap.NewGrid(cfg.Grid.Dim)
	if err != nil {
		return nil, err
	}
	res.Grid = grid

	min, max := grid.MinMaxHeight()
	log.Info("sphere initialized",
		zap.Int("dim", grid.Dim),
		zap.Float32("min", min),
		zap.Float32("max", max))

	done := logger.Stage("bumps", zap.Int("seeds", cfg.Bumps.Seeds))
	field := bump.NewField(BumpParams(cfg), prof.Width, prof.Height, bump.NewRand(cfg.Bumps.Seed))
	if _, err := field.AddSeeds(cfg.Bumps.Seeds); err != nil {
		if !errors.Is(err, bump.ErrCapacity) {
			return nil, fmt.Errorf("placing bumps: %w", err)
		}
		logger.Warn("bump field full, remaining bumps dropped",
			zap.Int("capacity", field.Params().Capacity),
			zap.Int("dropped", field.Dropped()))
	}
	done()
	res.Bumps = field.Bumps()
	res.Dropped = field.Dropped()
	log.Info("bumps placed", zap.Int("count", field.Len()))

	done = logger.Stage("render", zap.Int("bumps", len(res.Bumps)))
	r := render.New(grid, res.Bumps, prof, logger.Named("render"))
	if err := r.RenderAll(ctx); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	done()
	res.OutOfRange = r.OutOfRange()
	if res.OutOfRange > 0 {
		logger.Warn("profile samples outside the image were clamped",
			zap.Int64("samples", res.OutOfRange))
	}

	res.Min, res.Max = grid.MinMaxHeight()
	res.Stats = grid.HeightStats(cfg.Paint.SeaLevel)
	log.Info("height range",
		zap.Float32("min", res.Min),
		zap.Float32("max", res.Max),
		zap.Float64("mean", res.Stats.Mean),
		zap.Float64("stddev", res.Stats.StdDev),
		zap.Float64("land", res.Stats.LandFraction))

	opts := PaintOptions(cfg)
	done = logger.Stage("paint")
	res.Height = paint.PaintHeight(grid, res.Min, res.Max, opts)
	normals := paint.ComputeNormals(res.Height)
	res.Normal = paint.PaintNormal(grid, normals, res.Min, res.Max, opts)
	done()

	return res, nil
}

// Save writes the height and normal sets and, when enabled, the bump
// manifest and config snapshot. Every file is attempted; failures are
// returned together.
func (r *Result) Save(cfg *config.Config) error {
	defer logger.Stage("save")()
	log := logger.Named("output")
	w := output.NewWriter(cfg.Output.Dir)

	var errs error
	for _, set := range []struct {
		prefix string
		maps   *paint.Cubemap
	}{
		{cfg.Output.HeightPrefix, r.Height},
		{cfg.Output.NormalPrefix, r.Normal},
	} {
		paths, err := w.WriteSet(set.prefix, set.maps)
		for _, p := range paths {
			log.Debug("wrote face", zap.String("path", p))
		}
		if err != nil {
			logger.Error("cubemap set incomplete", zap.String("prefix", set.prefix), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("writing %s set: %w", set.prefix, err))
		}
	}

	if cfg.Output.BumpManifest != "" {
		path, err := w.WriteManifest(cfg.Output.BumpManifest, r.Bumps)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			log.Info("wrote bump manifest", zap.String("path", path), zap.Int("bumps", len(r.Bumps)))
		}
	}

	if cfg.Output.SaveConfig {
		path, err := w.WriteConfig(cfg)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			logger.Debug("wrote config snapshot", zap.String("path", path))
		}
	}

	if errs == nil {
		log.Info("outputs saved", zap.String("dir", w.Dir()))
	}
	return errs
}
