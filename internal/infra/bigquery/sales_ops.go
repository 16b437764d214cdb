package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/sales-generator/internal/domain"
	"github.com/dvloznov/sales-generator/internal/logger"
)

// insertBatchSize bounds the rows sent in one streaming insert request.
const insertBatchSize = 500

// EnsureTables creates the dataset, the sales table and the runs table when
// they do not exist yet. Schemas are inferred from SalesRow and
// GenerationRunRow; the sales table is partitioned by transaction_date.
func (r *SalesRepository) EnsureTables(ctx context.Context) error {
	log := logger.FromContext(ctx)

	ds := r.client.Dataset(r.dataset)
	if _, err := ds.Metadata(ctx); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("EnsureTables: dataset %s metadata: %w", r.dataset, err)
		}
		if err := ds.Create(ctx, &bigquery.DatasetMetadata{}); err != nil {
			return fmt.Errorf("EnsureTables: creating dataset %s: %w", r.dataset, err)
		}
		log.Info().Str("dataset", r.dataset).Msg("Created dataset")
	}

	salesSchema, err := bigquery.InferSchema(SalesRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring sales schema: %w", err)
	}
	if err := r.ensureTable(ctx, r.salesTable, &bigquery.TableMetadata{
		Schema: salesSchema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: "transaction_date",
		},
		Clustering: &bigquery.Clustering{Fields: []string{"run_id", "category"}},
	}); err != nil {
		return err
	}

	runsSchema, err := bigquery.InferSchema(GenerationRunRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring runs schema: %w", err)
	}
	return r.ensureTable(ctx, r.runsTable, &bigquery.TableMetadata{Schema: runsSchema})
}

func (r *SalesRepository) ensureTable(ctx context.Context, name string, md *bigquery.TableMetadata) error {
	t := r.client.Dataset(r.dataset).Table(name)
	if _, err := t.Metadata(ctx); err == nil {
		return nil
	} else if !isNotFound(err) {
		return fmt.Errorf("EnsureTables: table %s metadata: %w", name, err)
	}

	if err := t.Create(ctx, md); err != nil {
		return fmt.Errorf("EnsureTables: creating table %s: %w", name, err)
	}
	log := logger.FromContext(ctx)
	log.Info().
		Str("dataset", r.dataset).
		Str("table", name).
		Msg("Created table")
	return nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// InsertSales streams txs into the sales table tagged with runID and returns
// the number of rows sent. Insert ids are derived from the run and the
// transaction id, so retrying a batch does not duplicate rows.
func (r *SalesRepository) InsertSales(ctx context.Context, runID string, txs []domain.SalesTransaction) (int, error) {
	log := logger.FromContext(ctx)
	inserter := r.client.Dataset(r.dataset).Table(r.salesTable).Inserter()
	created := time.Now()

	inserted := 0
	for start := 0; start < len(txs); start += insertBatchSize {
		end := min(start+insertBatchSize, len(txs))

		savers := make([]*bigquery.StructSaver, 0, end-start)
		for _, tx := range txs[start:end] {
			savers = append(savers, &bigquery.StructSaver{
				Struct:   NewSalesRow(runID, tx, created),
				InsertID: runID + "/" + tx.TransactionID,
			})
		}

		if err := inserter.Put(ctx, savers); err != nil {
			return inserted, fmt.Errorf("InsertSales: inserting rows %d-%d: %w", start+1, end, err)
		}
		inserted += len(savers)

		log.Debug().
			Str("run_id", runID).
			Int("rows", inserted).
			Int("total", len(txs)).
			Msg("Inserted sales batch")
	}

	return inserted, nil
}

// QueryCategorySummary returns transaction counts and revenue per category
// for runID, or for the most recent successful run when runID is empty.
func (r *SalesRepository) QueryCategorySummary(ctx context.Context, runID string) ([]CategorySummaryRow, error) {
	runFilter := "@run_id"
	if runID == "" {
		runFilter = fmt.Sprintf(`(
			SELECT run_id FROM %s
			WHERE status = @status
			ORDER BY finished_ts DESC
			LIMIT 1
		)`, r.tableRef(r.runsTable))
	}

	q := r.client.Query(fmt.Sprintf(`
		SELECT
			category,
			COUNT(*) AS transactions,
			SUM(final_amount) AS revenue
		FROM %s
		WHERE run_id = %s
		GROUP BY category
		ORDER BY category
	`, r.tableRef(r.salesTable), runFilter))

	if runID == "" {
		q.Parameters = []bigquery.QueryParameter{{Name: "status", Value: StatusSuccess}}
	} else {
		q.Parameters = []bigquery.QueryParameter{{Name: "run_id", Value: runID}}
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryCategorySummary: reading query: %w", err)
	}

	var rows []CategorySummaryRow
	for {
		var row CategorySummaryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryCategorySummary: iterating: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
