// Package export serialises sales transactions as comma-separated text and
// reads them back.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-generator/internal/domain"
)

// ErrMalformedCSV is returned when a file does not match the sales layout.
var ErrMalformedCSV = errors.New("malformed sales CSV")

// Header is the exact column order of the output file.
var Header = []string{
	"transaction_id",
	"date",
	"year",
	"month",
	"day",
	"day_of_week",
	"category",
	"product_name",
	"unit_price",
	"quantity",
	"total_amount",
	"discount_percent",
	"discount_amount",
	"final_amount",
	"region",
	"customer_type",
	"payment_method",
}

// Record renders one transaction as a CSV row in Header order.
func Record(tx domain.SalesTransaction) []string {
	return []string{
		tx.TransactionID,
		tx.Date.String(),
		strconv.Itoa(tx.Year()),
		strconv.Itoa(tx.Month()),
		strconv.Itoa(tx.Day()),
		tx.DayOfWeek(),
		tx.Category,
		tx.ProductName,
		tx.UnitPrice.StringFixed(2),
		strconv.Itoa(tx.Quantity),
		tx.TotalAmount.StringFixed(2),
		strconv.Itoa(tx.DiscountPercent),
		tx.DiscountAmount.StringFixed(2),
		tx.FinalAmount.StringFixed(2),
		tx.Region,
		tx.CustomerType,
		tx.PaymentMethod,
	}
}

// Encode writes the header and one row per transaction to w.
func Encode(w io.Writer, txs []domain.SalesTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("Encode: writing header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(Record(tx)); err != nil {
			return fmt.Errorf("Encode: writing %s: %w", tx.TransactionID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("Encode: flushing: %w", err)
	}
	return nil
}

// WriteFile writes the CSV to path all-or-nothing: rows go to a temporary file
// in the same directory which is renamed over path only once fully written.
// A missing or unwritable directory fails before anything is created.
func WriteFile(path string, txs []domain.SalesTransaction) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("WriteFile: creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = Encode(buf, txs); err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("WriteFile: flushing %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("WriteFile: syncing %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("WriteFile: closing %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("WriteFile: chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("WriteFile: renaming into %s: %w", path, err)
	}
	return nil
}

// Decode reads a sales CSV produced by Encode. Derived date columns are
// checked against the date column rather than stored.
func Decode(r io.Reader) ([]domain.SalesTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("Decode: %w: empty file", ErrMalformedCSV)
		}
		return nil, fmt.Errorf("Decode: reading header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("Decode: %w: column %d is %q, want %q", ErrMalformedCSV, i+1, header[i], col)
		}
	}

	var txs []domain.SalesTransaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Decode: line %d: %w", line, err)
		}
		tx, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("Decode: line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ReadFile decodes the sales CSV at path.
func ReadFile(path string) ([]domain.SalesTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: opening %s: %w", path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

func parseRecord(rec []string) (domain.SalesTransaction, error) {
	var (
		tx  domain.SalesTransaction
		err error
	)
	tx.TransactionID = rec[0]
	if tx.Date, err = civil.ParseDate(rec[1]); err != nil {
		return tx, fmt.Errorf("%w: date: %w", ErrMalformedCSV, err)
	}

	derived := []struct {
		col  int
		want string
	}{
		{2, strconv.Itoa(tx.Year())},
		{3, strconv.Itoa(tx.Month())},
		{4, strconv.Itoa(tx.Day())},
		{5, tx.DayOfWeek()},
	}
	for _, d := range derived {
		if rec[d.col] != d.want {
			return tx, fmt.Errorf("%w: %s is %q, date %s implies %q",
				ErrMalformedCSV, Header[d.col], rec[d.col], tx.Date, d.want)
		}
	}

	tx.Category = rec[6]
	tx.ProductName = rec[7]
	if tx.UnitPrice, err = parseMoney(8, rec); err != nil {
		return tx, err
	}
	if tx.Quantity, err = parseInt(9, rec); err != nil {
		return tx, err
	}
	if tx.TotalAmount, err = parseMoney(10, rec); err != nil {
		return tx, err
	}
	if tx.DiscountPercent, err = parseInt(11, rec); err != nil {
		return tx, err
	}
	if tx.DiscountAmount, err = parseMoney(12, rec); err != nil {
		return tx, err
	}
	if tx.FinalAmount, err = parseMoney(13, rec); err != nil {
		return tx, err
	}
	tx.Region = rec[14]
	tx.CustomerType = rec[15]
	tx.PaymentMethod = rec[16]
	return tx, nil
}

func parseMoney(col int, rec []string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(rec[col])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s: %w", ErrMalformedCSV, Header[col], err)
	}
	return d, nil
}

func parseInt(col int, rec []string) (int, error) {
	n, err := strconv.Atoi(rec[col])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMalformedCSV, Header[col], err)
	}
	return n, nil
}
