package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ebartels/banksync/internal/bank"
)

//go:generate mockgen -source=pipeline.go -destination=collaborators_mock.go -package=pipeline

// Vendor is the upstream data source: session first, then record listings.
type Vendor interface {
	Login(ctx context.Context) error
	ListAccounts(ctx context.Context) ([]bank.RawAccount, error)
	ListTransactions(ctx context.Context, number string) ([]bank.RawTransaction, error)
}

// Store is the persistent side. All writes are idempotent upserts on natural
// keys; UpsertAccounts returns the accounts with store-assigned ids attached.
type Store interface {
	UpsertAccounts(ctx context.Context, accounts []bank.Account) ([]bank.Account, error)
	UpsertTransactions(ctx context.Context, txs []bank.Transaction) error
	UpsertBalanceHistories(ctx context.Context, docs []bank.BalanceHistory) error
}

// Merger folds the current balance of a persisted account into its yearly
// history document.
type Merger interface {
	MergeToday(ctx context.Context, year int, acct bank.Account) (bank.BalanceHistory, error)
}

const defaultConcurrency = 4

// Pipeline runs one full sync: fetch, normalize, persist accounts and
// transactions, then merge and persist balance histories. A run is linear and
// fail-fast — any error aborts the whole run, and the next run re-derives
// everything from upstream, relying on the store's idempotent upserts to
// converge.
type Pipeline struct {
	vendor      Vendor
	store       Store
	merger      Merger
	now         func() time.Time
	concurrency int
}

type Option func(*Pipeline)

// WithConcurrency caps the per-account fan-out so the upstream is not
// hammered with one request per account at once.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(vendor Vendor, store Store, merger Merger, opts ...Option) *Pipeline {
	p := &Pipeline{
		vendor:      vendor,
		store:       store,
		merger:      merger,
		now:         time.Now,
		concurrency: defaultConcurrency,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Result summarizes one completed run.
type Result struct {
	Accounts     int
	Transactions int
	Histories    int
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.vendor.Login(ctx); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	raws, err := p.vendor.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}

	accounts := make([]bank.Account, len(raws))
	for i, raw := range raws {
		accounts[i] = bank.NormalizeAccount(raw)
	}

	txs, err := p.fetchTransactions(ctx, accounts)
	if err != nil {
		return nil, err
	}

	persisted, err := p.store.UpsertAccounts(ctx, accounts)
	if err != nil {
		return nil, fmt.Errorf("persist accounts: %w", err)
	}

	if err := p.store.UpsertTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("persist transactions: %w", err)
	}

	docs, err := p.mergeHistories(ctx, persisted)
	if err != nil {
		return nil, err
	}

	if err := p.store.UpsertBalanceHistories(ctx, docs); err != nil {
		return nil, fmt.Errorf("persist balance histories: %w", err)
	}

	return &Result{
		Accounts:     len(persisted),
		Transactions: len(txs),
		Histories:    len(docs),
	}, nil
}

// fetchTransactions downloads and normalizes each account's transactions
// concurrently. Accounts are independent; order within one account's list is
// preserved exactly as received, which the identity synthesis depends on.
func (p *Pipeline) fetchTransactions(ctx context.Context, accounts []bank.Account) ([]bank.Transaction, error) {
	perAccount := make([][]bank.Transaction, len(accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, acct := range accounts {
		g.Go(func() error {
			raws, err := p.vendor.ListTransactions(ctx, acct.Number)
			if err != nil {
				return fmt.Errorf("fetch transactions for %s: %w", acct.Number, err)
			}

			perAccount[i] = bank.NormalizeTransactions(acct, raws, p.now)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var txs []bank.Transaction
	for _, batch := range perAccount {
		txs = append(txs, batch...)
	}

	return txs, nil
}

// mergeHistories folds today's balance into each persisted account's yearly
// document, concurrently. No two tasks touch the same document.
func (p *Pipeline) mergeHistories(ctx context.Context, persisted []bank.Account) ([]bank.BalanceHistory, error) {
	year := p.now().UTC().Year()
	docs := make([]bank.BalanceHistory, len(persisted))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, acct := range persisted {
		g.Go(func() error {
			doc, err := p.merger.MergeToday(ctx, year, acct)
			if err != nil {
				return fmt.Errorf("merge history for %s: %w", acct.VendorID, err)
			}

			docs[i] = doc

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
