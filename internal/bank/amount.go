package bank

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw upstream amount into a signed value.
//
// Upstream sends amounts as JSON numbers or as strings with locale baggage:
// surrounding whitespace, space or NBSP grouping ("1 234,56"), comma decimals,
// or anglo grouping ("1,234.56"), sometimes with a trailing currency glyph.
//
// Unparsable input yields 0. This is a deliberate tolerate-bad-data policy:
// one mangled record must not cost the whole account's batch. It is applied
// uniformly here and in date parsing.
func ParseAmount(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return 0
		}

		return d.InexactFloat64()
	case string:
		return parseAmountString(v)
	default:
		return 0
	}
}

func parseAmountString(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', '\t':
			return -1
		}

		return r
	}, strings.TrimSpace(s))

	// Strip a trailing currency marker ("999.00 EUR", "12,50€").
	clean = strings.TrimRight(clean, "€$£")
	clean = strings.TrimSuffix(strings.TrimSuffix(clean, "EUR"), "USD")

	// "1.234,56" and "12,50" use a comma decimal; "1,234.56" does not.
	if lastComma := strings.LastIndexByte(clean, ','); lastComma >= 0 {
		if lastComma > strings.LastIndexByte(clean, '.') {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		}
	}
	clean = strings.ReplaceAll(clean, ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0
	}

	return d.InexactFloat64()
}
