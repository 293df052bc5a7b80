package main

import (
	"flag"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config controls a stress run. Every field can be set from the environment
// (BATCH_STRESS_*) and overridden on the command line.
type Config struct {
	Duration   time.Duration `config:"BATCH_STRESS_DURATION"`
	BatchSize  int           `config:"BATCH_STRESS_BATCH_SIZE"`
	Archetypes int           `config:"BATCH_STRESS_ARCHETYPES"`
	MaxRows    int           `config:"BATCH_STRESS_MAX_ROWS"`
	Parallel   bool          `config:"BATCH_STRESS_PARALLEL"`
	Profile    string        `config:"BATCH_STRESS_PROFILE"`
	LogLevel   string        `config:"BATCH_STRESS_LOG_LEVEL"`
}

func defaultConfig() Config {
	return Config{
		Duration:   10 * time.Second,
		BatchSize:  4096,
		Archetypes: 8,
		MaxRows:    1 << 20,
		LogLevel:   "info",
	}
}

// loadConfig layers defaults, environment and flags, in that order.
func loadConfig(args []string) (Config, error) {
	cfg := defaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to read environment")
	}

	fs := flag.NewFlagSet("batch-stress", flag.ContinueOnError)
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Entities spawned per column batch.")
	fs.IntVar(&cfg.Archetypes, "archetypes", cfg.Archetypes, "Number of distinct component sets to cycle through.")
	fs.IntVar(&cfg.MaxRows, "max-rows", cfg.MaxRows, "Clear an archetype once it holds this many rows.")
	fs.BoolVar(&cfg.Parallel, "parallel", cfg.Parallel, "Fill the columns of a batch from separate goroutines.")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "Write a profile for the run: cpu or mem.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level name.")
	if err := fs.Parse(args); err != nil {
		return cfg, eris.Wrap(err, "failed to parse flags")
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Duration <= 0:
		return eris.Errorf("duration must be positive, got %s", c.Duration)
	case c.BatchSize <= 0:
		return eris.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.Archetypes < 1 || c.Archetypes > maxArchetypes():
		return eris.Errorf("archetypes must be within [1, %d], got %d", maxArchetypes(), c.Archetypes)
	case c.MaxRows < c.BatchSize:
		return eris.Errorf("max rows %d is below the batch size %d", c.MaxRows, c.BatchSize)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return eris.Errorf("unknown profile mode %q", c.Profile)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}
