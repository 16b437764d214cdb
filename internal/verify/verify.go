// Package verify checks a generated dataset against the properties every
// output file must hold: well-formed unique ids, dates inside the configured
// range and in order, consistent money arithmetic and catalog membership.
package verify

import (
	"fmt"
	"io"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-generator/internal/catalog"
	"github.com/dvloznov/sales-generator/internal/config"
	"github.com/dvloznov/sales-generator/internal/domain"
)

var (
	idPattern = regexp.MustCompile(`^TXN\d{6}$`)
	hundred   = decimal.NewFromInt(100)
)

// Violation is one broken property on one row. Row is 1-based in file order.
type Violation struct {
	Row           int
	TransactionID string
	Problem       string
}

func (v Violation) String() string {
	return fmt.Sprintf("row %d (%s): %s", v.Row, v.TransactionID, v.Problem)
}

// Report is the outcome of checking one dataset.
type Report struct {
	Rows       int
	Violations []Violation
}

// OK reports whether no property was broken.
func (r Report) OK() bool {
	return len(r.Violations) == 0
}

// Print writes a short report, listing at most limit violations.
func (r Report) Print(w io.Writer, limit int) {
	if r.OK() {
		fmt.Fprintf(w, "OK: %d rows checked, no violations\n", r.Rows)
		return
	}
	fmt.Fprintf(w, "FAILED: %d rows checked, %d violations\n", r.Rows, len(r.Violations))
	for i, v := range r.Violations {
		if i == limit {
			fmt.Fprintf(w, "  ... %d more\n", len(r.Violations)-limit)
			break
		}
		fmt.Fprintf(w, "  %s\n", v)
	}
}

type checker struct {
	cfg      config.Config
	products *catalog.ProductValidator

	quantities     map[int]bool
	percents       map[int]bool
	regions        map[string]bool
	customerTypes  map[string]bool
	paymentMethods map[string]bool

	report *Report
	row    int
	tx     domain.SalesTransaction
}

// Check validates txs, in file order, against cfg.
func Check(txs []domain.SalesTransaction, cfg config.Config) Report {
	ref := cfg.Reference
	c := &checker{
		cfg:            cfg,
		products:       catalog.NewProductValidator(ref.Catalog),
		quantities:     make(map[int]bool),
		percents:       map[int]bool{0: true},
		regions:        make(map[string]bool),
		customerTypes:  make(map[string]bool),
		paymentMethods: make(map[string]bool),
		report:         &Report{Rows: len(txs)},
	}
	for _, q := range ref.Quantities {
		c.quantities[q.Value] = true
	}
	for _, p := range ref.DiscountPercents {
		c.percents[p] = true
	}
	for _, r := range ref.Regions {
		c.regions[r.Value] = true
	}
	for _, ct := range ref.CustomerTypes {
		c.customerTypes[ct.Value] = true
	}
	for _, pm := range ref.PaymentMethods {
		c.paymentMethods[pm] = true
	}

	seen := make(map[string]int, len(txs))
	for i, tx := range txs {
		c.row, c.tx = i+1, tx

		if !idPattern.MatchString(tx.TransactionID) {
			c.fail("transaction_id %q does not match TXN + 6 digits", tx.TransactionID)
		}
		if first, dup := seen[tx.TransactionID]; dup {
			c.fail("transaction_id duplicates row %d", first)
		} else {
			seen[tx.TransactionID] = c.row
		}

		if tx.Date.Before(cfg.StartDate) || tx.Date.After(cfg.EndDate) {
			c.fail("date %s outside %s..%s", tx.Date, cfg.StartDate, cfg.EndDate)
		}
		if i > 0 && tx.Date.Before(txs[i-1].Date) {
			c.fail("date %s precedes previous row's %s", tx.Date, txs[i-1].Date)
		}

		c.checkAmounts()
		c.checkMembership()
	}
	return *c.report
}

func (c *checker) fail(format string, args ...any) {
	c.report.Violations = append(c.report.Violations, Violation{
		Row:           c.row,
		TransactionID: c.tx.TransactionID,
		Problem:       fmt.Sprintf(format, args...),
	})
}

func (c *checker) checkAmounts() {
	tx := c.tx
	if !c.quantities[tx.Quantity] {
		c.fail("quantity %d not in the quantity table", tx.Quantity)
	}
	if !c.percents[tx.DiscountPercent] {
		c.fail("discount_percent %d not allowed", tx.DiscountPercent)
	}

	if want := tx.UnitPrice.Mul(decimal.NewFromInt(int64(tx.Quantity))).Round(2); !want.Equal(tx.TotalAmount) {
		c.fail("total_amount %s, want %s", tx.TotalAmount.StringFixed(2), want.StringFixed(2))
	}
	if want := tx.TotalAmount.Mul(decimal.NewFromInt(int64(tx.DiscountPercent))).Div(hundred).Round(2); !want.Equal(tx.DiscountAmount) {
		c.fail("discount_amount %s, want %s", tx.DiscountAmount.StringFixed(2), want.StringFixed(2))
	}
	if want := tx.TotalAmount.Sub(tx.DiscountAmount).Round(2); !want.Equal(tx.FinalAmount) {
		c.fail("final_amount %s, want %s", tx.FinalAmount.StringFixed(2), want.StringFixed(2))
	}
	if tx.FinalAmount.IsNegative() {
		c.fail("final_amount %s is negative", tx.FinalAmount.StringFixed(2))
	}
}

func (c *checker) checkMembership() {
	tx := c.tx
	if err := c.products.ValidateProduct(tx.Category, tx.ProductName, tx.UnitPrice); err != nil {
		c.fail("%v", err)
	}
	if !c.regions[tx.Region] {
		c.fail("unknown region %q", tx.Region)
	}
	if !c.customerTypes[tx.CustomerType] {
		c.fail("unknown customer_type %q", tx.CustomerType)
	}
	if !c.paymentMethods[tx.PaymentMethod] {
		c.fail("unknown payment_method %q", tx.PaymentMethod)
	}
}
