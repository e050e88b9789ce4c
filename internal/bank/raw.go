package bank

// RawAccount is an account record as returned by the upstream source, before
// normalization. Balance arrives either as a JSON number or as a formatted
// string depending on the upstream endpoint, hence the loose type.
type RawAccount struct {
	Label    string `json:"label"`
	Balance  any    `json:"balance"`
	Currency string `json:"currency"`
	Number   string `json:"number"`
}

// RawTransaction is a transaction record as returned by the upstream source.
// Date is the recorded date, DateValue the value date; both are strings in
// whatever layout the upstream emits (see parseDate).
type RawTransaction struct {
	Label     string `json:"label"`
	Amount    any    `json:"amount"`
	Date      string `json:"date"`
	DateValue string `json:"dateValue"`
}
