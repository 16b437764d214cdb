package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-generator/internal/domain"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5.5", "$5.50"},
		{"999.999", "$1,000.00"},
		{"1234.56", "$1,234.56"},
		{"12345678.9", "$12,345,678.90"},
		{"-42.1", "-$42.10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func tx(id string, day int, category, final string) domain.SalesTransaction {
	amount := decimal.RequireFromString(final)
	return domain.SalesTransaction{
		TransactionID:  id,
		Date:           civil.Date{Year: 2023, Month: 6, Day: day},
		Category:       category,
		ProductName:    "Item",
		UnitPrice:      amount,
		Quantity:       1,
		TotalAmount:    amount,
		DiscountAmount: decimal.Zero,
		FinalAmount:    amount,
		Region:         "North",
		CustomerType:   "New",
		PaymentMethod:  "Cash",
	}
}

func TestSummarize(t *testing.T) {
	txs := []domain.SalesTransaction{
		tx("TXN000003", 2, "Sports", "10.00"),
		tx("TXN000001", 5, "Books", "20.50"),
		tx("TXN000002", 9, "Sports", "1000.25"),
	}

	s := Summarize(txs, 2, "/tmp/sales_data.csv")

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, civil.Date{Year: 2023, Month: 6, Day: 2}, s.FirstDate)
	assert.Equal(t, civil.Date{Year: 2023, Month: 6, Day: 9}, s.LastDate)
	assert.True(t, decimal.RequireFromString("1030.75").Equal(s.TotalRevenue))
	assert.Len(t, s.Sample, 2)

	require.Len(t, s.Categories, 2)
	assert.Equal(t, "Books", s.Categories[0].Category)
	assert.Equal(t, 1, s.Categories[0].Transactions)
	assert.Equal(t, "Sports", s.Categories[1].Category)
	assert.Equal(t, 2, s.Categories[1].Transactions)
	assert.True(t, decimal.RequireFromString("1010.25").Equal(s.Categories[1].Revenue))

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "Generated 3 transactions")
	assert.Contains(t, out, "Date range: 2023-06-02 to 2023-06-09")
	assert.Contains(t, out, "Total revenue: $1,030.75")
	assert.Contains(t, out, "Saved to: /tmp/sales_data.csv")
	assert.Contains(t, out, "First 2 rows:")
	assert.Contains(t, out, "TXN000001")
	assert.NotContains(t, out, "TXN000002")
	assert.Contains(t, out, "$1,010.25")

	categories := out[strings.Index(out, "Sales by category:"):]
	assert.Less(t, strings.Index(categories, "Books"), strings.Index(categories, "Sports"))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 10, "")

	var buf bytes.Buffer
	require.NoError(t, s.Print(&buf))
	assert.Equal(t, "Generated 0 transactions\nTotal revenue: $0.00\n", buf.String())
}
