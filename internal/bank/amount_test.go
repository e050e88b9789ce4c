package bank_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebartels/banksync/internal/bank"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{name: "Float", raw: 999.0, want: 999.0},
		{name: "NegativeFloat", raw: -45.5, want: -45.5},
		{name: "Int", raw: 12, want: 12},
		{name: "JSONNumber", raw: json.Number("-89.00"), want: -89.0},
		{name: "PlainString", raw: "999.00", want: 999.0},
		{name: "NegativeString", raw: "-89.00", want: -89.0},
		{name: "CommaDecimal", raw: "12,50", want: 12.5},
		{name: "FrenchGrouping", raw: "1 234,56", want: 1234.56},
		{name: "NBSPGrouping", raw: "1 234,56", want: 1234.56},
		{name: "DotGroupingCommaDecimal", raw: "1.234,56", want: 1234.56},
		{name: "AngloGrouping", raw: "1,234.56", want: 1234.56},
		{name: "SurroundingWhitespace", raw: "  42.00  ", want: 42.0},
		{name: "TrailingCurrencyCode", raw: "999.00 EUR", want: 999.0},
		{name: "TrailingEuroSign", raw: "12,50€", want: 12.5},
		{name: "Garbage", raw: "n/a", want: 0},
		{name: "Empty", raw: "", want: 0},
		{name: "Nil", raw: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, bank.ParseAmount(tt.raw), 1e-9)
		})
	}
}
