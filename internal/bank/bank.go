package bank

import (
	"time"

	"github.com/google/uuid"
)

// InstitutionLabel identifies the upstream integration. It is constant for
// every entity produced by this connector.
const InstitutionLabel = "CreditMutuel"

// AccountType classifies an account from its display label.
type AccountType string

const (
	AccountSavings  AccountType = "Savings"
	AccountChecking AccountType = "Checking"
	AccountLoan     AccountType = "Loan"
	AccountCard     AccountType = "Card"
	AccountUnknown  AccountType = "unknown"
)

// TransactionType classifies a transaction from its description.
type TransactionType string

const (
	TransactionTransfer    TransactionType = "transfer"
	TransactionDirectDebit TransactionType = "direct debit"
	TransactionCheck       TransactionType = "check"
	TransactionBankFee     TransactionType = "bank fee"
	TransactionCard        TransactionType = "credit card"
	TransactionDeposit     TransactionType = "deposit"
	TransactionWithdrawal  TransactionType = "withdrawal"
	TransactionNone        TransactionType = "none"
)

// Account is a canonical bank account as produced by one pipeline run.
//
// VendorID is the natural key the store uses to decide create-vs-update; it is
// stable across runs for the same upstream account. ID is assigned by the
// store on upsert and is zero until then.
type Account struct {
	ID               uuid.UUID
	InstitutionLabel string
	Label            string
	Type             AccountType
	Balance          float64
	Number           string
	VendorID         string
	RawNumber        string
	Currency         string
}

// Transaction is a canonical account transaction.
//
// Date is the recorded date, DateOperation the value date. DateImport is the
// capture time of the run that produced this value, not a business time.
// VendorID is synthesized (see NormalizeTransactions) and unique within the
// owning account.
type Transaction struct {
	Label           string
	Type            TransactionType
	Date            time.Time
	DateOperation   time.Time
	DateImport      time.Time
	Currency        string
	VendorAccountID string
	Amount          float64
	VendorID        string
}

// BalanceHistory records, per account and calendar year, the balance observed
// on each date. Balances maps "YYYY-MM-DD" to the signed balance seen that day.
type BalanceHistory struct {
	ID        uuid.UUID
	Year      int
	AccountID uuid.UUID
	Balances  map[string]float64
}
