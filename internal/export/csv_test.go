package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-generator/internal/domain"
)

func sampleTransactions() []domain.SalesTransaction {
	return []domain.SalesTransaction{
		{
			TransactionID:   "TXN000002",
			Date:            civil.Date{Year: 2023, Month: 3, Day: 4},
			Category:        "Home & Garden",
			ProductName:     "Coffee Maker",
			UnitPrice:       decimal.RequireFromString("64.5"),
			Quantity:        2,
			TotalAmount:     decimal.RequireFromString("129"),
			DiscountPercent: 10,
			DiscountAmount:  decimal.RequireFromString("12.9"),
			FinalAmount:     decimal.RequireFromString("116.1"),
			Region:          "South",
			CustomerType:    "Returning",
			PaymentMethod:   "Credit Card",
		},
		{
			TransactionID:   "TXN000001",
			Date:            civil.Date{Year: 2024, Month: 12, Day: 31},
			Category:        "Books",
			ProductName:     "Self-Help",
			UnitPrice:       decimal.RequireFromString("15"),
			Quantity:        1,
			TotalAmount:     decimal.RequireFromString("15"),
			DiscountPercent: 0,
			DiscountAmount:  decimal.Zero,
			FinalAmount:     decimal.RequireFromString("15"),
			Region:          "North",
			CustomerType:    "VIP",
			PaymentMethod:   "Bank Transfer",
		},
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTransactions()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.Equal(t,
		"TXN000002,2023-03-04,2023,3,4,Saturday,Home & Garden,Coffee Maker,64.50,2,129.00,10,12.90,116.10,South,Returning,Credit Card",
		lines[1])
	assert.Equal(t,
		"TXN000001,2024-12-31,2024,12,31,Tuesday,Books,Self-Help,15.00,1,15.00,0,0.00,15.00,North,VIP,Bank Transfer",
		lines[2])
}

func TestDecode_RoundTripsEncode(t *testing.T) {
	var buf bytes.Buffer
	want := sampleTransactions()
	require.NoError(t, Encode(&buf, want))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].TransactionID, got[i].TransactionID)
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.True(t, want[i].FinalAmount.Equal(got[i].FinalAmount))
		assert.True(t, want[i].UnitPrice.Equal(got[i].UnitPrice))
		assert.Equal(t, want[i].PaymentMethod, got[i].PaymentMethod)
	}
}

func TestDecode_Rejects(t *testing.T) {
	header := strings.Join(Header, ",")
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", strings.Replace(header, "final_amount", "net_amount", 1) + "\n"},
		{"bad date", header + "\nTXN000001,2023-13-01,2023,13,1,Monday,Books,Cookbook,20.00,1,20.00,0,0.00,20.00,North,New,Cash\n"},
		{"weekday mismatch", header + "\nTXN000001,2023-01-02,2023,1,2,Friday,Books,Cookbook,20.00,1,20.00,0,0.00,20.00,North,New,Cash\n"},
		{"bad amount", header + "\nTXN000001,2023-01-02,2023,1,2,Monday,Books,Cookbook,twenty,1,20.00,0,0.00,20.00,North,New,Cash\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedCSV)
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales_data.csv")

	require.NoError(t, WriteFile(path, sampleTransactions()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
	assert.Equal(t, "sales_data.csv", entries[0].Name())
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteFile(path, sampleTransactions()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "transaction_id,"))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does", "not", "exist", "sales.csv")

	err := WriteFile(path, sampleTransactions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
