// Package pipeline runs one generation of the synthetic sales dataset:
// generate, sort, write the CSV, then optionally upload it and load it into
// the warehouse.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/gcsuploader"
	infra "github.com/dvloznov/sales-generator/internal/infra/bigquery"
	"github.com/dvloznov/sales-generator/internal/logger"
)

// Deps are the external sinks of a run. A nil field disables that sink.
type Deps struct {
	Storage   StorageService
	Warehouse Warehouse
}

// NewDefaultDeps builds the Cloud Storage and BigQuery sinks enabled by cfg.
// The returned close function releases the warehouse client and is safe to
// call when nothing was opened.
func NewDefaultDeps(ctx context.Context, cfg config.Config) (Deps, func() error, error) {
	var deps Deps
	closeFn := func() error { return nil }

	if cfg.UploadEnabled() {
		deps.Storage = gcsuploader.NewGCSStorageService()
	}
	if cfg.WarehouseEnabled() {
		repo, err := infra.NewSalesRepository(ctx, cfg.BigQuery)
		if err != nil {
			return Deps{}, closeFn, fmt.Errorf("NewDefaultDeps: %w", err)
		}
		deps.Warehouse = repo
		closeFn = repo.Close
	}
	return deps, closeFn, nil
}

// NewGenerationPipeline creates the standard 8-step generation pipeline.
func NewGenerationPipeline(deps Deps) *Pipeline {
	return NewPipeline(
		&StartRunStep{Warehouse: deps.Warehouse},
		&GenerateStep{},
		&SortStep{},
		&WriteCSVStep{},
		&UploadStep{Storage: deps.Storage},
		&LoadWarehouseStep{Warehouse: deps.Warehouse},
		&MarkSuccessStep{Warehouse: deps.Warehouse},
		&SummarizeStep{},
	)
}

// GenerateSalesData validates cfg and runs the generation pipeline under a
// fresh run id. A run already recorded in the warehouse is marked FAILED if a
// later step fails.
func GenerateSalesData(ctx context.Context, cfg config.Config, deps Deps) (*PipelineState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("GenerateSalesData: %w", err)
	}

	state := &PipelineState{
		RunID:  uuid.NewString(),
		Config: cfg,
	}
	ctx = logger.WithContext(ctx, logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id": state.RunID,
	}))
	log := logger.FromContext(ctx)

	log.Info().
		Int("count", cfg.Count).
		Int64("seed", cfg.Seed).
		Str("start", cfg.StartDate.String()).
		Str("end", cfg.EndDate.String()).
		Msg("Generation started")

	if err := NewGenerationPipeline(deps).Execute(ctx, state); err != nil {
		if state.RunStarted && deps.Warehouse != nil {
			deps.Warehouse.MarkGenerationRunFailed(ctx, state.RunID, err)
		}
		return state, fmt.Errorf("GenerateSalesData: %w", err)
	}

	log.Info().
		Int("rows", len(state.Transactions)).
		Str("output", state.OutputPath).
		Str("gcs_uri", state.GCSURI).
		Int("rows_loaded", state.RowsLoaded).
		Msg("Generation finished")

	return state, nil
}
