package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/sales-generator/internal/config"
	infraBQ "github.com/dvloznov/sales-generator/internal/infra/bigquery"
	"github.com/dvloznov/sales-generator/internal/logger"
)

func main() {
	log := logger.New()

	defaults := config.Default().BigQuery
	projectID := flag.String("project", "", "GCP project ID (required)")
	dataset := flag.String("dataset", defaults.Dataset, "BigQuery dataset ID")
	salesTable := flag.String("sales-table", defaults.SalesTable, "Table receiving generated transactions")
	runsTable := flag.String("runs-table", defaults.RunsTable, "Table tracking generation runs")
	flag.Parse()

	if *projectID == "" {
		log.Fatal().Msg("Error: -project flag is required. Please specify your GCP project ID.")
	}

	cfg := config.BigQueryConfig{
		ProjectID:  *projectID,
		Dataset:    *dataset,
		SalesTable: *salesTable,
		RunsTable:  *runsTable,
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	fmt.Printf("Tables ready in %s.%s: %s, %s\n", *projectID, *dataset, *salesTable, *runsTable)
}

func run(cfg config.BigQueryConfig, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewSalesRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.EnsureTables(ctx)
}
