// Package bigquery loads generated sales data into BigQuery and records each
// generation run in a runs table.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/sales-generator/internal/config"
)

// Run statuses stored in the runs table.
const (
	StatusRunning = "RUNNING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// SalesRepository is the BigQuery-backed warehouse. It holds a shared client
// so one run does not open a connection per operation.
type SalesRepository struct {
	client     *bigquery.Client
	projectID  string
	dataset    string
	salesTable string
	runsTable  string
}

// NewSalesRepository opens a client for cfg.ProjectID.
func NewSalesRepository(ctx context.Context, cfg config.BigQueryConfig) (*SalesRepository, error) {
	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewSalesRepository: creating client: %w", err)
	}
	return &SalesRepository{
		client:     client,
		projectID:  cfg.ProjectID,
		dataset:    cfg.Dataset,
		salesTable: cfg.SalesTable,
		runsTable:  cfg.RunsTable,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *SalesRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// tableRef returns the backquoted fully qualified name for use in SQL.
func (r *SalesRepository) tableRef(table string) string {
	return fmt.Sprintf("`%s.%s.%s`", r.projectID, r.dataset, table)
}
