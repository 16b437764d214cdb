package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigFile        = "SALESGEN_CONFIG"
	EnvCount             = "SALESGEN_COUNT"
	EnvSeed              = "SALESGEN_SEED"
	EnvStartDate         = "SALESGEN_START_DATE"
	EnvEndDate           = "SALESGEN_END_DATE"
	EnvOutputPath        = "SALESGEN_OUTPUT"
	EnvQ4KeepProbability = "SALESGEN_Q4_KEEP_PROBABILITY"
	EnvLogLevel          = "SALESGEN_LOG_LEVEL"
	EnvGCSBucket         = "SALESGEN_GCS_BUCKET"
	EnvGCSPrefix         = "SALESGEN_GCS_PREFIX"
	EnvBigQueryProject   = "SALESGEN_BQ_PROJECT"
	EnvBigQueryDataset   = "SALESGEN_BQ_DATASET"
)

// Load builds a configuration from defaults, the .env file at envFile (if it
// exists), the JSON config file (configFile, or SALESGEN_CONFIG when empty) and
// the remaining SALESGEN_* variables. It does not validate; callers apply
// flags first.
func Load(envFile, configFile string) (Config, error) {
	if err := LoadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if configFile == "" {
		configFile, _ = lookup(EnvConfigFile)
	}
	if configFile != "" {
		if err := LoadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set in the process environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("LoadDotEnv: %s: %w", path, err)
	}
	return nil
}

// LoadFile decodes a JSON config file over cfg. Fields absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("LoadFile: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: LoadFile: decoding %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any SALESGEN_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v, ok := lookup(EnvCount); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvCount, v, err)
		}
		cfg.Count = n
	}
	if v, ok := lookup(EnvSeed); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return envError(EnvSeed, v, err)
		}
		cfg.Seed = n
	}
	if v, ok := lookup(EnvStartDate); ok {
		d, err := civil.ParseDate(v)
		if err != nil {
			return envError(EnvStartDate, v, err)
		}
		cfg.StartDate = d
	}
	if v, ok := lookup(EnvEndDate); ok {
		d, err := civil.ParseDate(v)
		if err != nil {
			return envError(EnvEndDate, v, err)
		}
		cfg.EndDate = d
	}
	if v, ok := lookup(EnvQ4KeepProbability); ok {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError(EnvQ4KeepProbability, v, err)
		}
		cfg.Q4KeepProbability = p
	}
	if v, ok := lookup(EnvOutputPath); ok {
		cfg.OutputPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvGCSBucket); ok {
		cfg.GCS.Bucket = v
	}
	if v, ok := lookup(EnvGCSPrefix); ok {
		cfg.GCS.Prefix = v
	}
	if v, ok := lookup(EnvBigQueryProject); ok {
		cfg.BigQuery.ProjectID = v
	}
	if v, ok := lookup(EnvBigQueryDataset); ok {
		cfg.BigQuery.Dataset = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envError(key, value string, err error) error {
	return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, value, err)
}
