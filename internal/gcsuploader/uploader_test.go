package gcsuploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://demo-bucket/exports/run/sales_data.csv", "demo-bucket", "exports/run/sales_data.csv", false},
		{"gs://demo-bucket/sales.csv", "demo-bucket", "sales.csv", false},
		{"gs://demo-bucket", "", "", true},
		{"gs://demo-bucket/", "", "", true},
		{"s3://demo-bucket/sales.csv", "", "", true},
		{"sales.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "exports/run-1/sales_data.csv", ObjectName("/exports/", "run-1", "/tmp/out/sales_data.csv"))
	assert.Equal(t, "run-1/sales_data.csv", ObjectName("", "run-1", "sales_data.csv"))
	assert.Equal(t, "run-1/sales.csv", ObjectName("", "run-1", `C:\data\sales.csv`))
}

func TestGCSURI(t *testing.T) {
	uri := GCSURI("demo-bucket", "exports/run-1/sales_data.csv")
	assert.Equal(t, "gs://demo-bucket/exports/run-1/sales_data.csv", uri)
	assert.True(t, IsGCSURI(uri))
}
