package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dvloznov/sales-generator/internal/domain"
	"github.com/dvloznov/sales-generator/internal/export"
)

var currencyPrinter = message.NewPrinter(language.English)

// FormatCurrency renders an amount as dollars with thousands separators,
// e.g. $1,234.56.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	cents := d.Round(2).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, currencyPrinter.Sprintf("%d", cents/100), cents%100)
}

// CategoryTotal aggregates the transactions of one category.
type CategoryTotal struct {
	Category     string
	Transactions int
	Revenue      decimal.Decimal
}

// Summary holds the statistics printed after a run.
type Summary struct {
	Count        int
	FirstDate    civil.Date
	LastDate     civil.Date
	TotalRevenue decimal.Decimal
	OutputPath   string
	Sample       []domain.SalesTransaction
	Categories   []CategoryTotal
}

// Summarize computes the summary of txs. Revenue is the sum of final_amount.
// Sample holds the first sampleSize rows in the given order and Categories is
// sorted by name.
func Summarize(txs []domain.SalesTransaction, sampleSize int, outputPath string) *Summary {
	s := &Summary{
		Count:        len(txs),
		TotalRevenue: decimal.Zero,
		OutputPath:   outputPath,
		Sample:       txs[:max(0, min(sampleSize, len(txs)))],
	}

	byCategory := make(map[string]*CategoryTotal)
	for i, tx := range txs {
		if i == 0 || tx.Date.Before(s.FirstDate) {
			s.FirstDate = tx.Date
		}
		if i == 0 || tx.Date.After(s.LastDate) {
			s.LastDate = tx.Date
		}
		s.TotalRevenue = s.TotalRevenue.Add(tx.FinalAmount)

		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category, Revenue: decimal.Zero}
			byCategory[tx.Category] = ct
		}
		ct.Transactions++
		ct.Revenue = ct.Revenue.Add(tx.FinalAmount)
	}

	for _, ct := range byCategory {
		s.Categories = append(s.Categories, *ct)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		return s.Categories[i].Category < s.Categories[j].Category
	})
	return s
}

// Print writes the human-readable summary to w.
func (s *Summary) Print(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Generated %d transactions\n", s.Count)
	if s.Count > 0 {
		fmt.Fprintf(&b, "Date range: %s to %s\n", s.FirstDate, s.LastDate)
	}
	fmt.Fprintf(&b, "Total revenue: %s\n", FormatCurrency(s.TotalRevenue))
	if s.OutputPath != "" {
		fmt.Fprintf(&b, "Saved to: %s\n", s.OutputPath)
	}

	if len(s.Sample) > 0 {
		fmt.Fprintf(&b, "\nFirst %d rows:\n", len(s.Sample))
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(export.Header, "\t"))
		for _, tx := range s.Sample {
			fmt.Fprintln(tw, strings.Join(export.Record(tx), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("Summary.Print: %w", err)
		}
	}

	if len(s.Categories) > 0 {
		b.WriteString("\nSales by category:\n")
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "category\ttransactions\trevenue\t")
		for _, ct := range s.Categories {
			fmt.Fprintf(tw, "%s\t%d\t%s\t\n", ct.Category, ct.Transactions, FormatCurrency(ct.Revenue))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("Summary.Print: %w", err)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("Summary.Print: %w", err)
	}
	return nil
}
