package config

import (
	"flag"
	"strconv"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = optionalInt64Flag("seed", "Random seed for bump placement")
	flagSeeds   = flag.Int("seeds", -1, "Number of bump clusters")
	flagDim     = flag.Int("dim", 0, "Cubemap face resolution")
	flagSample  = flag.String("sample", "", "Path to the greyscale sample image")
	flagNoise   = flag.Bool("noise", false, "Use a generated noise sample profile")
	flagOut     = flag.String("out", "", "Output directory")
	flagLogFile = flag.String("log-file", "", "Write logs to this file as well")
)

// optionalInt64 is an int64 flag that records whether it was given on the
// command line, so any value, zero included, can override the config file.
type optionalInt64 struct {
	value int64
	set   bool
}

func optionalInt64Flag(name, usage string) *optionalInt64 {
	o := &optionalInt64{}
	flag.Var(o, name, usage)
	return o
}

func (o *optionalInt64) String() string {
	return strconv.FormatInt(o.value, 10)
}

func (o *optionalInt64) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return err
	}
	o.value, o.set = v, true
	return nil
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagSeed.set {
		cfg.Bumps.Seed = flagSeed.value
	}
	if *flagSeeds >= 0 {
		cfg.Bumps.Seeds = *flagSeeds
	}
	if *flagDim > 0 {
		cfg.Grid.Dim = *flagDim
	}
	if *flagSample != "" {
		cfg.Profile.Source = SourceFile
		cfg.Profile.Path = *flagSample
	}
	if *flagNoise {
		cfg.Profile.Source = SourceNoise
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
