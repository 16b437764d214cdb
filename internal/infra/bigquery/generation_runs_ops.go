package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/logger"
)

const maxErrorMessageLen = 2000

// StartGenerationRun inserts a row for runID with status=RUNNING and the
// parameters that reproduce the run.
func (r *SalesRepository) StartGenerationRun(ctx context.Context, runID string, cfg config.Config) error {
	q := r.client.Query(fmt.Sprintf(`
		INSERT %s (
			run_id,
			started_ts,
			seed,
			requested_count,
			start_date,
			end_date,
			q4_keep_probability,
			status
		)
		VALUES (
			@run_id,
			@started_ts,
			@seed,
			@requested_count,
			@start_date,
			@end_date,
			@q4_keep_probability,
			@status
		)
	`, r.tableRef(r.runsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
		{Name: "started_ts", Value: time.Now()},
		{Name: "seed", Value: cfg.Seed},
		{Name: "requested_count", Value: int64(cfg.Count)},
		{Name: "start_date", Value: cfg.StartDate},
		{Name: "end_date", Value: cfg.EndDate},
		{Name: "q4_keep_probability", Value: cfg.Q4KeepProbability},
		{Name: "status", Value: StatusRunning},
	}

	if err := runDML(ctx, q); err != nil {
		return fmt.Errorf("StartGenerationRun: %w", err)
	}
	return nil
}

// MarkGenerationRunSucceeded sets status=SUCCESS, finished_ts, the loaded row
// count and where the CSV ended up. It clears error_message.
func (r *SalesRepository) MarkGenerationRunSucceeded(ctx context.Context, runID string, rowsLoaded int, outputURI string) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    rows_loaded = @rows_loaded,
		    output_uri = @output_uri,
		    error_message = ""
		WHERE run_id = @run_id
	`, r.tableRef(r.runsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "rows_loaded", Value: int64(rowsLoaded)},
		{Name: "output_uri", Value: outputURI},
		{Name: "run_id", Value: runID},
	}

	if err := runDML(ctx, q); err != nil {
		return fmt.Errorf("MarkGenerationRunSucceeded: %w", err)
	}
	return nil
}

// MarkGenerationRunFailed sets status=FAILED, finished_ts and error_message.
// It is called on an error path already, so failures are logged rather than
// returned.
func (r *SalesRepository) MarkGenerationRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE run_id = @run_id
	`, r.tableRef(r.runsTable)))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: TruncateError(runErr)},
		{Name: "run_id", Value: runID},
	}

	if err := runDML(ctx, q); err != nil {
		log.Error().
			Err(err).
			Str("run_id", runID).
			Msg("MarkGenerationRunFailed: update failed")
	}
}

// TruncateError renders err for the error_message column.
func TruncateError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	return msg
}

func runDML(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
