package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebartels/banksync/internal/bank"
)

// Store persists the connector's entities in Postgres. Every write is an
// idempotent upsert keyed on the entity's natural key, so re-running the
// pipeline against the same upstream state converges instead of duplicating.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertAccounts writes the accounts and returns them with their
// store-assigned ids, in input order. The natural key is vendor_id.
func (s *Store) UpsertAccounts(ctx context.Context, accounts []bank.Account) ([]bank.Account, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	query := `
		INSERT INTO accounts (id, institution_label, label, type, balance, number, vendor_id, raw_number, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (vendor_id) DO UPDATE SET
			label = EXCLUDED.label,
			type = EXCLUDED.type,
			balance = EXCLUDED.balance,
			number = EXCLUDED.number,
			raw_number = EXCLUDED.raw_number,
			currency = EXCLUDED.currency,
			updated_at = NOW()
		RETURNING id
	`

	persisted := make([]bank.Account, len(accounts))

	for i, acct := range accounts {
		err := s.db.QueryRowContext(ctx, query,
			uuid.New(),
			acct.InstitutionLabel,
			acct.Label,
			acct.Type,
			acct.Balance,
			acct.Number,
			acct.VendorID,
			acct.RawNumber,
			acct.Currency,
		).Scan(&acct.ID)
		if err != nil {
			return nil, fmt.Errorf("upserting account %s: %w", acct.VendorID, err)
		}

		persisted[i] = acct
	}

	return persisted, nil
}

// UpsertTransactions writes the transactions inside one database
// transaction. The natural key is (vendor_account_id, vendor_id).
func (s *Store) UpsertTransactions(ctx context.Context, txs []bank.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbtx.Rollback()

	query := `
		INSERT INTO transactions (id, label, type, date, date_operation, date_import, currency, vendor_account_id, amount, vendor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (vendor_account_id, vendor_id) DO UPDATE SET
			label = EXCLUDED.label,
			type = EXCLUDED.type,
			date = EXCLUDED.date,
			date_operation = EXCLUDED.date_operation,
			date_import = EXCLUDED.date_import,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			updated_at = NOW()
	`

	stmt, err := dbtx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.ExecContext(ctx,
			uuid.New(),
			tx.Label,
			tx.Type,
			tx.Date,
			tx.DateOperation,
			tx.DateImport,
			tx.Currency,
			tx.VendorAccountID,
			tx.Amount,
			tx.VendorID,
		)
		if err != nil {
			return fmt.Errorf("upserting transaction %s: %w", tx.VendorID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// GetBalanceHistory returns the history document for (year, accountID), or
// nil when none has been written yet.
func (s *Store) GetBalanceHistory(ctx context.Context, year int, accountID uuid.UUID) (*bank.BalanceHistory, error) {
	query := `
		SELECT id, year, account_id, balances
		FROM balance_histories
		WHERE year = $1 AND account_id = $2
	`

	var (
		doc bank.BalanceHistory
		raw []byte
	)

	err := s.db.QueryRowContext(ctx, query, year, accountID).
		Scan(&doc.ID, &doc.Year, &doc.AccountID, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying balance history: %w", err)
	}

	if err := json.Unmarshal(raw, &doc.Balances); err != nil {
		return nil, fmt.Errorf("decoding balances: %w", err)
	}

	return &doc, nil
}

// UpsertBalanceHistories writes the history documents. The natural key is
// (year, account_id); the balances document is replaced wholesale, the merge
// itself already happened in memory.
func (s *Store) UpsertBalanceHistories(ctx context.Context, docs []bank.BalanceHistory) error {
	query := `
		INSERT INTO balance_histories (id, year, account_id, balances, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (year, account_id) DO UPDATE SET
			balances = EXCLUDED.balances,
			updated_at = NOW()
	`

	for _, doc := range docs {
		raw, err := json.Marshal(doc.Balances)
		if err != nil {
			return fmt.Errorf("encoding balances: %w", err)
		}

		if _, err := s.db.ExecContext(ctx, query, doc.ID, doc.Year, doc.AccountID, raw); err != nil {
			return fmt.Errorf("upserting balance history %d/%s: %w", doc.Year, doc.AccountID, err)
		}
	}

	return nil
}

// ListAccounts returns all persisted accounts, ordered by label so API
// output is stable.
func (s *Store) ListAccounts(ctx context.Context) ([]bank.Account, error) {
	query := `
		SELECT id, institution_label, label, type, balance, number, vendor_id, raw_number, currency
		FROM accounts
		ORDER BY label
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []bank.Account

	for rows.Next() {
		var acct bank.Account

		var typeStr string

		if err := rows.Scan(
			&acct.ID, &acct.InstitutionLabel, &acct.Label, &typeStr,
			&acct.Balance, &acct.Number, &acct.VendorID, &acct.RawNumber, &acct.Currency,
		); err != nil {
			return nil, err
		}

		acct.Type = bank.AccountType(typeStr)
		accounts = append(accounts, acct)
	}

	return accounts, rows.Err()
}
