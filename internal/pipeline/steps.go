package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
	"github.com/dvloznov/sales-generator/internal/export"
	"github.com/dvloznov/sales-generator/internal/gcsuploader"
	"github.com/dvloznov/sales-generator/internal/generator"
	"github.com/dvloznov/sales-generator/internal/logger"
)

// PipelineStep represents a single step of a generation run.
type PipelineStep interface {
	Name() string
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID  string
	Config config.Config

	Transactions []domain.SalesTransaction
	OutputPath   string
	GCSURI       string

	RunStarted bool
	RowsLoaded int
	Summary    *Summary
}

// Step 1: StartRunStep prepares the warehouse tables and records the run as RUNNING.
type StartRunStep struct {
	Warehouse Warehouse
}

func (s *StartRunStep) Name() string { return "start-run" }

func (s *StartRunStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Warehouse == nil {
		return nil
	}
	if err := s.Warehouse.EnsureTables(ctx); err != nil {
		return err
	}
	if err := s.Warehouse.StartGenerationRun(ctx, state.RunID, state.Config); err != nil {
		return err
	}
	state.RunStarted = true
	return nil
}

// Step 2: GenerateStep draws Config.Count transactions from a seeded generator.
type GenerateStep struct{}

func (s *GenerateStep) Name() string { return "generate" }

func (s *GenerateStep) Execute(ctx context.Context, state *PipelineState) error {
	g, err := generator.New(state.Config)
	if err != nil {
		return err
	}
	txs, err := g.Batch(state.Config.Count)
	if err != nil {
		return err
	}
	state.Transactions = txs
	return nil
}

// Step 3: SortStep orders transactions by date. Ties keep generation order.
type SortStep struct{}

func (s *SortStep) Name() string { return "sort" }

func (s *SortStep) Execute(ctx context.Context, state *PipelineState) error {
	slices.SortStableFunc(state.Transactions, func(a, b domain.SalesTransaction) int {
		return a.Date.DaysSince(b.Date)
	})
	return nil
}

// Step 4: WriteCSVStep writes the sorted table to Config.OutputPath.
type WriteCSVStep struct{}

func (s *WriteCSVStep) Name() string { return "write-csv" }

func (s *WriteCSVStep) Execute(ctx context.Context, state *PipelineState) error {
	path, err := filepath.Abs(state.Config.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path %s: %w", state.Config.OutputPath, err)
	}
	if err := export.WriteFile(path, state.Transactions); err != nil {
		return err
	}
	state.OutputPath = path
	return nil
}

// Step 5: UploadStep copies the CSV to gs://bucket/prefix/<run_id>/<file>
// when a bucket is configured.
type UploadStep struct {
	Storage StorageService
}

func (s *UploadStep) Name() string { return "upload" }

func (s *UploadStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Storage == nil || !state.Config.UploadEnabled() {
		return nil
	}

	bucket := state.Config.GCS.Bucket
	object := gcsuploader.ObjectName(state.Config.GCS.Prefix, state.RunID, state.OutputPath)
	metadata := map[string]string{
		"run_id": state.RunID,
		"seed":   strconv.FormatInt(state.Config.Seed, 10),
		"rows":   strconv.Itoa(len(state.Transactions)),
	}

	if err := s.Storage.UploadFile(ctx, bucket, object, state.OutputPath, metadata); err != nil {
		return err
	}
	state.GCSURI = gcsuploader.GCSURI(bucket, object)
	return nil
}

// Step 6: LoadWarehouseStep streams the rows into the sales table.
type LoadWarehouseStep struct {
	Warehouse Warehouse
}

func (s *LoadWarehouseStep) Name() string { return "load-warehouse" }

func (s *LoadWarehouseStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Warehouse == nil {
		return nil
	}
	n, err := s.Warehouse.InsertSales(ctx, state.RunID, state.Transactions)
	if err != nil {
		return err
	}
	state.RowsLoaded = n
	return nil
}

// Step 7: MarkSuccessStep marks the generation run as SUCCESS.
type MarkSuccessStep struct {
	Warehouse Warehouse
}

func (s *MarkSuccessStep) Name() string { return "mark-success" }

func (s *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Warehouse == nil {
		return nil
	}
	outputURI := state.GCSURI
	if outputURI == "" {
		outputURI = state.OutputPath
	}
	return s.Warehouse.MarkGenerationRunSucceeded(ctx, state.RunID, state.RowsLoaded, outputURI)
}

// Step 8: SummarizeStep computes the console summary.
type SummarizeStep struct{}

func (s *SummarizeStep) Name() string { return "summarize" }

func (s *SummarizeStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Summary = Summarize(state.Transactions, state.Config.SampleRows, state.OutputPath)
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		log := logger.FromContext(ctx).With().
			Str("run_id", state.RunID).
			Str("step", step.Name()).
			Logger()

		log.Debug().Msg("Step started")
		if err := step.Execute(ctx, state); err != nil {
			log.Error().Err(err).Msg("Step failed")
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, step.Name(), err)
		}
		log.Debug().Msg("Step finished")
	}
	return nil
}
