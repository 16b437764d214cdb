package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateArgs(path string) []string {
	return []string{"-count", "40", "-output", path, "-env-file", ""}
}

func TestRunGenerateThenVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")

	require.NoError(t, runGenerate(generateArgs(path)))
	assert.NoError(t, runVerify([]string{"-file", path, "-env-file", ""}))
}

func TestRunVerify_ReportsViolations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	require.NoError(t, runGenerate(generateArgs(path)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "TXN000001,", "TXN1,", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))

	err = runVerify([]string{"-file", path, "-env-file", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "violations")
}

func TestRunGenerate_MissingDirectoryReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "sales_data.csv")

	err := runGenerate(generateArgs(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunUploadAndSummary_RequireTargets(t *testing.T) {
	err := runUpload([]string{"-env-file", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-bucket")

	err = runSummary([]string{"-env-file", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-bq-project")
}
