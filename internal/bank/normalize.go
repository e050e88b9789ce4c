package bank

import (
	"fmt"
	"time"
)

// NormalizeAccount converts one raw upstream account record into its
// canonical form. Pure: no I/O, no side effects, never fails — a missing or
// mangled balance follows the ParseAmount zero policy.
//
// The upstream account number doubles as the vendor identity: it is the only
// durable key the source exposes, so Number, VendorID and RawNumber all carry
// the same value for now.
func NormalizeAccount(raw RawAccount) Account {
	return Account{
		InstitutionLabel: InstitutionLabel,
		Label:            raw.Label,
		Type:             ClassifyAccount(raw.Label),
		Balance:          ParseAmount(raw.Balance),
		Number:           raw.Number,
		VendorID:         raw.Number,
		RawNumber:        raw.Number,
		Currency:         raw.Currency,
	}
}

// dateLayouts are tried in order when parsing upstream date fields.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
}

// sentinelDay is the bucket for transactions whose recorded date cannot be
// parsed. They still get a deterministic ordinal so a re-import converges.
const sentinelDay = "0001-01-01"

// NormalizeTransactions converts the raw transactions of one account into
// canonical form and synthesizes their vendor identities.
//
// Identity synthesis: transactions are grouped by the calendar day of their
// recorded date, keeping the upstream order within each day, and numbered
// from 0. The identity is then "<accountVendorID>_<YYYY-MM-DD>_<ordinal>".
// This is deterministic as long as upstream returns a given account/day's
// records in a stable order across calls — a precondition of the vendor
// contract, not something this function can enforce.
//
// now supplies the DateImport capture time; pass time.Now in production.
func NormalizeTransactions(acct Account, raws []RawTransaction, now func() time.Time) []Transaction {
	if len(raws) == 0 {
		return nil
	}

	imported := now().UTC()
	ordinals := make(map[string]int, len(raws))
	txs := make([]Transaction, 0, len(raws))

	for _, raw := range raws {
		date := parseDate(raw.Date)

		day := sentinelDay
		if !date.IsZero() {
			day = date.Format(time.DateOnly)
		}

		ordinal := ordinals[day]
		ordinals[day] = ordinal + 1

		txs = append(txs, Transaction{
			Label:           raw.Label,
			Type:            ClassifyTransaction(raw.Label),
			Date:            date,
			DateOperation:   parseDate(raw.DateValue),
			DateImport:      imported,
			Currency:        acct.Currency,
			VendorAccountID: acct.VendorID,
			Amount:          ParseAmount(raw.Amount),
			VendorID:        fmt.Sprintf("%s_%s_%d", acct.VendorID, day, ordinal),
		})
	}

	return txs
}

// parseDate parses an upstream date field, returning the zero time when no
// known layout matches (same tolerate-bad-data policy as ParseAmount).
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
