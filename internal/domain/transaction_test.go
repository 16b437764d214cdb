package domain

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestFormatTransactionID(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "TXN000001"},
		{42, "TXN000042"},
		{10000, "TXN010000"},
		{999999, "TXN999999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTransactionID(tt.seq))
	}
}

func TestSalesTransaction_DerivedDateFields(t *testing.T) {
	tx := SalesTransaction{Date: civil.Date{Year: 2024, Month: 2, Day: 29}}

	assert.Equal(t, 2024, tx.Year())
	assert.Equal(t, 2, tx.Month())
	assert.Equal(t, 29, tx.Day())
	assert.Equal(t, "Thursday", tx.DayOfWeek())

	tx.Date = civil.Date{Year: 2023, Month: 1, Day: 1}
	assert.Equal(t, "Sunday", tx.DayOfWeek())
}
