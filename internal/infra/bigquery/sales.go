package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/sales-generator/internal/domain"
)

type SalesRow struct {
	RunID         string     `bigquery:"run_id"`         // REQUIRED
	TransactionID string     `bigquery:"transaction_id"` // REQUIRED
	Date          civil.Date `bigquery:"transaction_date"`

	Year      int64  `bigquery:"year"`
	Month     int64  `bigquery:"month"`
	Day       int64  `bigquery:"day"`
	DayOfWeek string `bigquery:"day_of_week"`

	Category    string   `bigquery:"category"`
	ProductName string   `bigquery:"product_name"`
	UnitPrice   *big.Rat `bigquery:"unit_price"` // NUMERIC
	Quantity    int64    `bigquery:"quantity"`

	TotalAmount     *big.Rat `bigquery:"total_amount"`
	DiscountPercent int64    `bigquery:"discount_percent"`
	DiscountAmount  *big.Rat `bigquery:"discount_amount"`
	FinalAmount     *big.Rat `bigquery:"final_amount"`

	Region        string `bigquery:"region"`
	CustomerType  string `bigquery:"customer_type"`
	PaymentMethod string `bigquery:"payment_method"`

	CreatedTS time.Time `bigquery:"created_ts"`
}

// NewSalesRow converts a transaction into its warehouse row.
func NewSalesRow(runID string, tx domain.SalesTransaction, created time.Time) *SalesRow {
	return &SalesRow{
		RunID:           runID,
		TransactionID:   tx.TransactionID,
		Date:            tx.Date,
		Year:            int64(tx.Year()),
		Month:           int64(tx.Month()),
		Day:             int64(tx.Day()),
		DayOfWeek:       tx.DayOfWeek(),
		Category:        tx.Category,
		ProductName:     tx.ProductName,
		UnitPrice:       tx.UnitPrice.Rat(),
		Quantity:        int64(tx.Quantity),
		TotalAmount:     tx.TotalAmount.Rat(),
		DiscountPercent: int64(tx.DiscountPercent),
		DiscountAmount:  tx.DiscountAmount.Rat(),
		FinalAmount:     tx.FinalAmount.Rat(),
		Region:          tx.Region,
		CustomerType:    tx.CustomerType,
		PaymentMethod:   tx.PaymentMethod,
		CreatedTS:       created,
	}
}

// CategorySummaryRow is one line of the per-category revenue query.
type CategorySummaryRow struct {
	Category     string   `bigquery:"category"`
	Transactions int64    `bigquery:"transactions"`
	Revenue      *big.Rat `bigquery:"revenue"`
}
