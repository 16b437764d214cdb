package config

import (
	"flag"
	"fmt"

	"cloud.google.com/go/civil"
)

// Flags holds the command-line overrides for a Config. Only flags that were
// explicitly set on the command line are applied.
type Flags struct {
	fs *flag.FlagSet

	ConfigFile string
	EnvFile    string

	count      int
	seed       int64
	start      string
	end        string
	output     string
	keepQ4     float64
	sampleRows int
	logLevel   string
	bucket     string
	prefix     string
	bqProject  string
	bqDataset  string
}

// BindFlags registers the generation flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigFile, "config", "", "Path to a JSON config file (or set "+EnvConfigFile+")")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Path to a .env file loaded before reading SALESGEN_* variables")
	fs.IntVar(&f.count, "count", DefaultCount, "Number of transactions to generate")
	fs.Int64Var(&f.seed, "seed", DefaultSeed, "Random seed; the same seed and config reproduce the same file")
	fs.StringVar(&f.start, "start", "2023-01-01", "First date of the range (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "2024-12-31", "Last date of the range, inclusive (YYYY-MM-DD)")
	fs.StringVar(&f.output, "output", DefaultOutputPath, "Output CSV path")
	fs.Float64Var(&f.keepQ4, "q4-keep", DefaultQ4KeepProbability, "Probability of keeping a November/December date draw")
	fs.IntVar(&f.sampleRows, "sample-rows", DefaultSampleRows, "Rows shown in the console preview")
	fs.StringVar(&f.logLevel, "log-level", DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.bucket, "bucket", "", "GCS bucket to upload the CSV to (optional)")
	fs.StringVar(&f.prefix, "prefix", "", "Object prefix inside the bucket")
	fs.StringVar(&f.bqProject, "bq-project", "", "GCP project for the BigQuery load (optional)")
	fs.StringVar(&f.bqDataset, "bq-dataset", DefaultDataset, "BigQuery dataset for the load")
	return f
}

// Apply copies every explicitly set flag onto cfg.
func (f *Flags) Apply(cfg *Config) error {
	var applyErr error
	f.fs.Visit(func(fl *flag.Flag) {
		if applyErr != nil {
			return
		}
		switch fl.Name {
		case "count":
			cfg.Count = f.count
		case "seed":
			cfg.Seed = f.seed
		case "start":
			d, err := civil.ParseDate(f.start)
			if err != nil {
				applyErr = fmt.Errorf("%w: -start %q: %w", ErrInvalidConfig, f.start, err)
				return
			}
			cfg.StartDate = d
		case "end":
			d, err := civil.ParseDate(f.end)
			if err != nil {
				applyErr = fmt.Errorf("%w: -end %q: %w", ErrInvalidConfig, f.end, err)
				return
			}
			cfg.EndDate = d
		case "output":
			cfg.OutputPath = f.output
		case "q4-keep":
			cfg.Q4KeepProbability = f.keepQ4
		case "sample-rows":
			cfg.SampleRows = f.sampleRows
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "bucket":
			cfg.GCS.Bucket = f.bucket
		case "prefix":
			cfg.GCS.Prefix = f.prefix
		case "bq-project":
			cfg.BigQuery.ProjectID = f.bqProject
		case "bq-dataset":
			cfg.BigQuery.Dataset = f.bqDataset
		}
	})
	return applyErr
}

// Resolve loads the configuration for an already parsed flag set: defaults,
// .env, config file, environment, then the flags themselves. The result is
// validated.
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.EnvFile, f.ConfigFile)
	if err != nil {
		return Config{}, err
	}
	if err := f.Apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
