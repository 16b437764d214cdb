package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-generator/internal/config"
)

func TestRun_WritesDataset(t *testing.T) {
	cfg := config.Default()
	cfg.Count = 25
	cfg.OutputPath = filepath.Join(t.TempDir(), "sales_data.csv")

	require.NoError(t, run(cfg, zerolog.Nop()))

	_, err := os.Stat(cfg.OutputPath)
	assert.NoError(t, err)
}

func TestRun_ReturnsErrorInsteadOfExiting(t *testing.T) {
	cfg := config.Default()
	cfg.Count = 25
	cfg.OutputPath = filepath.Join(t.TempDir(), "missing", "sales_data.csv")

	err := run(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
