package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebartels/banksync/internal/bank"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=history
type Repository interface {
	// GetBalanceHistory returns the document for (year, accountID), or nil
	// when none exists yet.
	GetBalanceHistory(ctx context.Context, year int, accountID uuid.UUID) (*bank.BalanceHistory, error)
}

// Service merges per-run balance observations into yearly history documents.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceWithClock is NewService with an injectable clock, for tests.
func NewServiceWithClock(repo Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// MergeToday loads the account's history document for the given year,
// creating an empty one if it does not exist, and records the account's
// current balance under today's date. Entries for other dates are never
// touched; re-running on the same day just overwrites today's entry with the
// latest observation, so repeated runs converge.
func (s *Service) MergeToday(ctx context.Context, year int, acct bank.Account) (bank.BalanceHistory, error) {
	doc, err := s.repo.GetBalanceHistory(ctx, year, acct.ID)
	if err != nil {
		return bank.BalanceHistory{}, fmt.Errorf("get balance history %d/%s: %w", year, acct.ID, err)
	}

	if doc == nil {
		doc = &bank.BalanceHistory{
			ID:        uuid.New(),
			Year:      year,
			AccountID: acct.ID,
			Balances:  make(map[string]float64),
		}
	}

	if doc.Balances == nil {
		doc.Balances = make(map[string]float64)
	}

	today := s.now().UTC().Format(time.DateOnly)
	doc.Balances[today] = acct.Balance

	return *doc, nil
}
