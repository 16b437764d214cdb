package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

type GenerationRunRow struct {
	RunID string `bigquery:"run_id"` // REQUIRED

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Seed              int64      `bigquery:"seed"`
	RequestedCount    int64      `bigquery:"requested_count"`
	StartDate         civil.Date `bigquery:"start_date"`
	EndDate           civil.Date `bigquery:"end_date"`
	Q4KeepProbability float64    `bigquery:"q4_keep_probability"`

	RowsLoaded bigquery.NullInt64 `bigquery:"rows_loaded"` // NULLABLE
	OutputURI  string             `bigquery:"output_uri,nullable"`

	Status       string `bigquery:"status,nullable"`
	ErrorMessage string `bigquery:"error_message,nullable"`
}
