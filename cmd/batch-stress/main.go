package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/colbatch/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(2)
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	report, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("stress test failed")
	}

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info().Msg("stress test complete")
}

// run spawns column batches until cfg.Duration elapses or ctx is done.
func run(ctx context.Context, cfg Config, logger zerolog.Logger) (*Report, error) {
	storage := ecs.NewStorage(ecs.WithLogger(logger))
	spawner := newSpawner(storage, cfg)

	report := &Report{
		Duration:   cfg.Duration,
		BatchSize:  cfg.BatchSize,
		Archetypes: cfg.Archetypes,
		Parallel:   cfg.Parallel,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().
		Dur("duration", cfg.Duration).
		Int("batch", cfg.BatchSize).
		Int("archetypes", cfg.Archetypes).
		Bool("parallel", cfg.Parallel).
		Msg("running column batch stress test")

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	startTime := time.Now()

Loop:
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		batchStart := time.Now()
		if err := spawner.spawn(i, cfg.BatchSize); err != nil {
			return nil, err
		}
		report.BatchTime.Samples = append(report.BatchTime.Samples, time.Since(batchStart))
		report.TotalBatches++
		report.TotalEntities += int64(cfg.BatchSize)
	}

	report.TotalTime = time.Since(startTime)
	report.BatchTime.Finalize()
	report.Storage = storage.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().
		Int64("batches", report.TotalBatches).
		Int64("entities", report.TotalEntities).
		Msg("simulation finished")

	return report, nil
}
