package bank_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebartels/banksync/internal/bank"
)

func TestClassifyAccount(t *testing.T) {
	tests := []struct {
		label string
		want  bank.AccountType
	}{
		{"LIVRET A", bank.AccountSavings},
		{"Livret Bleu", bank.AccountSavings},
		{"LDD SOLIDAIRE", bank.AccountSavings},
		{"C/C EUROCOMPTE", bank.AccountChecking},
		{"COMPTE COURANT M DUPONT", bank.AccountChecking},
		{"PRET IMMOBILIER", bank.AccountLoan},
		{"CARTE MASTERCARD", bank.AccountCard},
		{"PEA", bank.AccountUnknown},
		{"", bank.AccountUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, bank.ClassifyAccount(tt.label))
		})
	}
}

func TestClassifyTransaction(t *testing.T) {
	tests := []struct {
		label string
		want  bank.TransactionType
	}{
		{"VIR SEPA LOCATION BOX", bank.TransactionTransfer},
		{"VIREMENT SALAIRE", bank.TransactionTransfer},
		{"PRLV EDF", bank.TransactionDirectDebit},
		{"CHQ N 1234567", bank.TransactionCheck},
		{"REM CHQ 0042", bank.TransactionDeposit},
		{"VRST ESPECES", bank.TransactionDeposit},
		{"COTIS EUROCOMPTE", bank.TransactionBankFee},
		{"PAIEMENT CB 0104 SUPERMARCHE", bank.TransactionCard},
		{"RETRAIT DAB", bank.TransactionWithdrawal},
		{"INTERETS 2023", bank.TransactionNone},
		{"", bank.TransactionNone},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, bank.ClassifyTransaction(tt.label))
		})
	}
}
