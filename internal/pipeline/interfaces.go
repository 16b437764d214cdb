package pipeline

import (
	"context"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
)

// StorageService copies the written CSV to object storage.
type StorageService interface {
	UploadFile(ctx context.Context, bucketName, objectName, filePath string, metadata map[string]string) error
}

// Warehouse loads generated rows and tracks each run.
// This interface enables mocking of the BigQuery sink in tests.
type Warehouse interface {
	EnsureTables(ctx context.Context) error
	StartGenerationRun(ctx context.Context, runID string, cfg config.Config) error
	InsertSales(ctx context.Context, runID string, txs []domain.SalesTransaction) (int, error)
	MarkGenerationRunSucceeded(ctx context.Context, runID string, rowsLoaded int, outputURI string) error
	// MarkGenerationRunFailed logs its own failures; the run error is what
	// the caller reports.
	MarkGenerationRunFailed(ctx context.Context, runID string, runErr error)
}
