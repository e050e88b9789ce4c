package bank

import "strings"

// labelRule maps a substring of an upper-cased label to a classification tag.
// Rules are tried in order and the first match wins, so more specific
// patterns must come before the generic ones they overlap with.
type labelRule[T ~string] struct {
	pattern string
	tag     T
}

var accountRules = []labelRule[AccountType]{
	{"LIVRET", AccountSavings},
	{"LDD", AccountSavings},
	{"EPARGNE", AccountSavings},
	{"COMPTE COURANT", AccountChecking},
	{"EUROCOMPTE", AccountChecking},
	{"C/C", AccountChecking},
	{"PRET", AccountLoan},
	{"CREDIT", AccountLoan},
	{"MASTERCARD", AccountCard},
	{"VISA", AccountCard},
	{"CARTE", AccountCard},
}

var transactionRules = []labelRule[TransactionType]{
	{"REM CHQ", TransactionDeposit},
	{"REMISE CHEQUE", TransactionDeposit},
	{"VRST", TransactionDeposit},
	{"CHQ", TransactionCheck},
	{"CHEQUE", TransactionCheck},
	{"VIR", TransactionTransfer},
	{"PRLV", TransactionDirectDebit},
	{"COTIS", TransactionBankFee},
	{"F COMMI", TransactionBankFee},
	{"FRAIS", TransactionBankFee},
	{"PAIEMENT CB", TransactionCard},
	{"CARTE", TransactionCard},
	{"RETRAIT", TransactionWithdrawal},
}

// ClassifyAccount tags an account from its display label. Labels that match
// no rule get AccountUnknown; there is no failure mode.
func ClassifyAccount(label string) AccountType {
	return classify(label, accountRules, AccountUnknown)
}

// ClassifyTransaction tags a transaction from its description. Labels that
// match no rule get TransactionNone; an unmatched label is a normal outcome,
// not an error.
func ClassifyTransaction(label string) TransactionType {
	return classify(label, transactionRules, TransactionNone)
}

func classify[T ~string](label string, rules []labelRule[T], fallback T) T {
	upper := strings.ToUpper(label)

	for _, r := range rules {
		if strings.Contains(upper, r.pattern) {
			return r.tag
		}
	}

	return fallback
}
