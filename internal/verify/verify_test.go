package verify

import (
	"bytes"
	"slices"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
	"github.com/dvloznov/sales-generator/internal/generator"
)

func generated(t *testing.T, cfg config.Config, n int) []domain.SalesTransaction {
	t.Helper()
	g, err := generator.New(cfg)
	require.NoError(t, err)
	txs, err := g.Batch(n)
	require.NoError(t, err)
	slices.SortStableFunc(txs, func(a, b domain.SalesTransaction) int {
		return a.Date.DaysSince(b.Date)
	})
	return txs
}

func TestCheck_GeneratedBatchPasses(t *testing.T) {
	cfg := config.Default()
	report := Check(generated(t, cfg, 1000), cfg)

	assert.Equal(t, 1000, report.Rows)
	assert.True(t, report.OK(), "violations: %v", report.Violations)
}

func TestCheck_DetectsViolations(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name   string
		mutate func(txs []domain.SalesTransaction)
	}{
		{"bad id", func(txs []domain.SalesTransaction) { txs[0].TransactionID = "TX1" }},
		{"duplicate id", func(txs []domain.SalesTransaction) { txs[1].TransactionID = txs[0].TransactionID }},
		{"date outside range", func(txs []domain.SalesTransaction) {
			txs[len(txs)-1].Date = civil.Date{Year: 2025, Month: 1, Day: 1}
		}},
		{"out of order", func(txs []domain.SalesTransaction) { txs[0], txs[len(txs)-1] = txs[len(txs)-1], txs[0] }},
		{"quantity", func(txs []domain.SalesTransaction) { txs[0].Quantity = 9 }},
		{"discount percent", func(txs []domain.SalesTransaction) { txs[0].DiscountPercent = 7 }},
		{"final amount", func(txs []domain.SalesTransaction) {
			txs[0].FinalAmount = txs[0].FinalAmount.Add(decimal.RequireFromString("0.01"))
		}},
		{"unknown product", func(txs []domain.SalesTransaction) { txs[0].ProductName = "Hoverboard" }},
		{"price out of band", func(txs []domain.SalesTransaction) {
			txs[0].UnitPrice = decimal.NewFromInt(100000)
		}},
		{"unknown region", func(txs []domain.SalesTransaction) { txs[0].Region = "Central" }},
		{"unknown payment", func(txs []domain.SalesTransaction) { txs[0].PaymentMethod = "Barter" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := generated(t, cfg, 50)
			tt.mutate(txs)
			report := Check(txs, cfg)
			assert.False(t, report.OK())
		})
	}
}

func TestReport_Print(t *testing.T) {
	var buf bytes.Buffer
	Report{Rows: 3}.Print(&buf, 5)
	assert.Equal(t, "OK: 3 rows checked, no violations\n", buf.String())

	buf.Reset()
	r := Report{Rows: 3, Violations: []Violation{
		{Row: 1, TransactionID: "TXN000001", Problem: "a"},
		{Row: 2, TransactionID: "TXN000002", Problem: "b"},
		{Row: 3, TransactionID: "TXN000003", Problem: "c"},
	}}
	r.Print(&buf, 2)
	assert.Contains(t, buf.String(), "FAILED: 3 rows checked, 3 violations")
	assert.Contains(t, buf.String(), "row 2 (TXN000002): b")
	assert.NotContains(t, buf.String(), "TXN000003")
	assert.Contains(t, buf.String(), "... 1 more")
}
