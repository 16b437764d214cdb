package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
	"github.com/dvloznov/sales-generator/internal/export"
	"github.com/dvloznov/sales-generator/internal/gcsuploader"
	infraBQ "github.com/dvloznov/sales-generator/internal/infra/bigquery"
	"github.com/dvloznov/sales-generator/internal/logger"
	"github.com/dvloznov/sales-generator/internal/pipeline"
	"github.com/dvloznov/sales-generator/internal/verify"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(args)
	case "verify":
		err = runVerify(args)
	case "upload":
		err = runUpload(args)
	case "summary":
		err = runSummary(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
	}
}

func printUsage() {
	fmt.Println("Sales Generator CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate  Generate the synthetic sales CSV")
	fmt.Println("  verify    Check a generated CSV (local path or gs:// URI)")
	fmt.Println("  upload    Upload a generated CSV to GCS")
	fmt.Println("  summary   Show per-category revenue of a run loaded into BigQuery")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// parseConfig binds the shared generation flags plus any extra ones, parses
// the subcommand arguments and resolves the configuration.
func parseConfig(name string, args []string, extra func(fs *flag.FlagSet)) (config.Config, zerolog.Logger, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.BindFlags(fs)
	if extra != nil {
		extra(fs)
	}
	fs.Parse(args)

	cfg, err := flags.Resolve()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logger.NewWithLevel(cfg.LogLevel), nil
}

func runGenerate(args []string) error {
	cfg, log, err := parseConfig("generate", args, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps, closeDeps, err := pipeline.NewDefaultDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDeps(); err != nil {
			log.Warn().Err(err).Msg("Failed to close warehouse client")
		}
	}()

	state, err := pipeline.GenerateSalesData(ctx, cfg, deps)
	if err != nil {
		return err
	}

	return state.Summary.Print(os.Stdout)
}

func runVerify(args []string) error {
	var file string
	var limit int
	cfg, log, err := parseConfig("verify", args, func(fs *flag.FlagSet) {
		fs.StringVar(&file, "file", "", "CSV to check: local path or gs://bucket/object (defaults to -output)")
		fs.IntVar(&limit, "limit", 20, "Maximum number of violations to print")
	})
	if err != nil {
		return err
	}
	if file == "" {
		file = cfg.OutputPath
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().Str("file", file).Msg("Verifying dataset")

	txs, err := readDataset(ctx, file)
	if err != nil {
		return err
	}

	report := verify.Check(txs, cfg)
	report.Print(os.Stdout, limit)
	if !report.OK() {
		return fmt.Errorf("%s: %d violations", file, len(report.Violations))
	}
	return nil
}

func readDataset(ctx context.Context, file string) ([]domain.SalesTransaction, error) {
	if !gcsuploader.IsGCSURI(file) {
		return export.ReadFile(file)
	}
	data, err := gcsuploader.FetchFromGCS(ctx, file)
	if err != nil {
		return nil, err
	}
	return export.Decode(bytes.NewReader(data))
}

func runUpload(args []string) error {
	var file, object string
	cfg, log, err := parseConfig("upload", args, func(fs *flag.FlagSet) {
		fs.StringVar(&file, "file", "", "Path to the local CSV (defaults to -output)")
		fs.StringVar(&object, "object", "", "GCS object name (defaults to prefix/filename)")
	})
	if err != nil {
		return err
	}
	if file == "" {
		file = cfg.OutputPath
	}
	if cfg.GCS.Bucket == "" {
		return errors.New("usage: cli upload -bucket NAME [-file PATH] [-prefix PREFIX]")
	}
	if object == "" {
		object = filepath.ToSlash(filepath.Join(cfg.GCS.Prefix, filepath.Base(file)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", cfg.GCS.Bucket).
		Str("object", object).
		Str("file", file).
		Msg("Uploading file to GCS")

	if err := gcsuploader.UploadFile(ctx, cfg.GCS.Bucket, object, file, nil); err != nil {
		return err
	}

	fmt.Printf("Uploaded %s to %s\n", file, gcsuploader.GCSURI(cfg.GCS.Bucket, object))
	return nil
}

func runSummary(args []string) error {
	var runID string
	cfg, log, err := parseConfig("summary", args, func(fs *flag.FlagSet) {
		fs.StringVar(&runID, "run-id", "", "Run to summarize (defaults to the latest successful run)")
	})
	if err != nil {
		return err
	}
	if !cfg.WarehouseEnabled() {
		return errors.New("usage: cli summary -bq-project PROJECT [-bq-dataset DATASET] [-run-id ID]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewSalesRepository(ctx, cfg.BigQuery)
	if err != nil {
		return err
	}
	defer repo.Close()

	rows, err := repo.QueryCategorySummary(ctx, runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No sales found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "category\ttransactions\trevenue\t")
	total := decimal.Zero
	for _, row := range rows {
		revenue := decimal.Zero
		if row.Revenue != nil {
			revenue = decimal.RequireFromString(row.Revenue.FloatString(2))
		}
		total = total.Add(revenue)
		fmt.Fprintf(w, "%s\t%d\t%s\t\n", row.Category, row.Transactions, pipeline.FormatCurrency(revenue))
	}
	fmt.Fprintf(w, "total\t\t%s\t\n", pipeline.FormatCurrency(total))
	return w.Flush()
}
