// Package config defines the settings of a generation run and where they come
// from: built-in defaults, an optional JSON file, the environment (including a
// .env file) and command-line flags, applied in that order.
package config

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"

	"github.com/dvloznov/sales-generator/internal/catalog"
)

// ErrInvalidConfig is returned for any configuration problem detected before
// generation begins.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultCount             = 10000
	DefaultSeed              = 42
	DefaultOutputPath        = "sales_data.csv"
	DefaultQ4KeepProbability = 0.3
	DefaultMaxDateRetries    = 10000
	DefaultSampleRows        = 10
	DefaultLogLevel          = "info"
	DefaultDataset           = "sales"
	DefaultSalesTable        = "sales_transactions"
	DefaultRunsTable         = "generation_runs"

	// MaxCount keeps transaction ids within TXN + six digits.
	MaxCount = 999999
)

var validate = validator.New()

// GCSConfig controls the optional upload of the written CSV.
type GCSConfig struct {
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
}

// BigQueryConfig controls the optional warehouse load. An empty ProjectID
// disables it.
type BigQueryConfig struct {
	ProjectID  string `json:"project_id"`
	Dataset    string `json:"dataset" validate:"required_with=ProjectID"`
	SalesTable string `json:"sales_table" validate:"required_with=ProjectID"`
	RunsTable  string `json:"runs_table" validate:"required_with=ProjectID"`
}

// Config is the full set of parameters for one generation run. It is built
// once at startup and passed by value from then on.
type Config struct {
	Count      int        `json:"count" validate:"gt=0,lte=999999"`
	Seed       int64      `json:"seed" validate:"ne=0"`
	StartDate  civil.Date `json:"start_date"`
	EndDate    civil.Date `json:"end_date"`
	OutputPath string     `json:"output_path" validate:"required"`

	// Q4KeepProbability is the chance a November/December draw is kept
	// instead of being redrawn. 1 disables the seasonal bias.
	Q4KeepProbability float64 `json:"q4_keep_probability" validate:"gt=0,lte=1"`
	MaxDateRetries    int     `json:"max_date_retries" validate:"gt=0"`

	SampleRows int    `json:"sample_rows" validate:"gte=0"`
	LogLevel   string `json:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	GCS      GCSConfig      `json:"gcs"`
	BigQuery BigQueryConfig `json:"bigquery"`

	Reference catalog.Reference `json:"reference" validate:"-"`
}

// Default returns the configuration that reproduces the reference dataset.
func Default() Config {
	return Config{
		Count:             DefaultCount,
		Seed:              DefaultSeed,
		StartDate:         civil.Date{Year: 2023, Month: 1, Day: 1},
		EndDate:           civil.Date{Year: 2024, Month: 12, Day: 31},
		OutputPath:        DefaultOutputPath,
		Q4KeepProbability: DefaultQ4KeepProbability,
		MaxDateRetries:    DefaultMaxDateRetries,
		SampleRows:        DefaultSampleRows,
		LogLevel:          DefaultLogLevel,
		BigQuery: BigQueryConfig{
			Dataset:    DefaultDataset,
			SalesTable: DefaultSalesTable,
			RunsTable:  DefaultRunsTable,
		},
		Reference: catalog.Default(),
	}
}

// Validate reports the first configuration problem, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !c.StartDate.IsValid() {
		return fmt.Errorf("%w: invalid start date %v", ErrInvalidConfig, c.StartDate)
	}
	if !c.EndDate.IsValid() {
		return fmt.Errorf("%w: invalid end date %v", ErrInvalidConfig, c.EndDate)
	}
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidConfig, c.StartDate, c.EndDate)
	}

	if err := c.Reference.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// UploadEnabled reports whether the CSV should be copied to Cloud Storage.
func (c Config) UploadEnabled() bool {
	return c.GCS.Bucket != ""
}

// WarehouseEnabled reports whether rows should be loaded into BigQuery.
func (c Config) WarehouseEnabled() bool {
	return c.BigQuery.ProjectID != ""
}
