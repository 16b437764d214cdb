package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionIDPrefix precedes the zero-padded sequence number of every id.
const TransactionIDPrefix = "TXN"

// SalesTransaction is one synthetic sales record. Money fields carry two
// decimal places. A record is fully populated when created and never mutated
// afterwards, except for TransactionID which the batch assigns.
type SalesTransaction struct {
	TransactionID string
	Date          civil.Date

	Category    string
	ProductName string

	UnitPrice   decimal.Decimal
	Quantity    int
	TotalAmount decimal.Decimal

	DiscountPercent int
	DiscountAmount  decimal.Decimal
	FinalAmount     decimal.Decimal

	Region        string
	CustomerType  string
	PaymentMethod string
}

// FormatTransactionID renders the id for the seq-th generated record (1-based).
func FormatTransactionID(seq int) string {
	return fmt.Sprintf("%s%06d", TransactionIDPrefix, seq)
}

// Year of the transaction date.
func (t SalesTransaction) Year() int { return t.Date.Year }

// Month of the transaction date, 1-12.
func (t SalesTransaction) Month() int { return int(t.Date.Month) }

// Day of month of the transaction date.
func (t SalesTransaction) Day() int { return t.Date.Day }

// DayOfWeek is the full English weekday name, e.g. "Monday".
func (t SalesTransaction) DayOfWeek() string {
	return t.Date.In(time.UTC).Weekday().String()
}
