package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/logger"
	"github.com/dvloznov/sales-generator/internal/pipeline"
)

func main() {
	// Every flag is optional; defaults reproduce the reference dataset.
	flags := config.BindFlags(flag.CommandLine)
	flag.Parse()

	cfg, err := flags.Resolve()
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}
}

// run owns every resource of the run so deferred cleanup happens before main
// decides the exit status.
func run(cfg config.Config, log zerolog.Logger) error {
	// Create context with timeout so a stuck upload or load doesn't hang the run
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps, closeDeps, err := pipeline.NewDefaultDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDeps(); err != nil {
			log.Warn().Err(err).Msg("Failed to close warehouse client")
		}
	}()

	state, err := pipeline.GenerateSalesData(ctx, cfg, deps)
	if err != nil {
		return err
	}

	return state.Summary.Print(os.Stdout)
}
