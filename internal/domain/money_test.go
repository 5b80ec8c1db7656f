package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":       "$0.00",
		"9.99":    "$9.99",
		"19.98":   "$19.98",
		"1234.5":  "$1,234.50",
		"1000000": "$1,000,000.00",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, FormatMoney(decimal.RequireFromString(in)))
		})
	}
}
