package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ebartels/banksync/internal/bank"
	"github.com/ebartels/banksync/internal/history"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

func TestService_MergeToday(t *testing.T) {
	accountID := uuid.New()
	docID := uuid.New()

	type testCase struct {
		name         string
		acct         bank.Account
		setupMock    func(m *history.MockRepository)
		wantBalances map[string]float64
		wantErr      bool
	}

	tests := []testCase{
		{
			name: "ExistingDocumentKeepsOtherDates",
			acct: bank.Account{ID: accountID, Balance: 250},
			setupMock: func(m *history.MockRepository) {
				m.EXPECT().
					GetBalanceHistory(gomock.Any(), 2024, accountID).
					Return(&bank.BalanceHistory{
						ID:        docID,
						Year:      2024,
						AccountID: accountID,
						Balances:  map[string]float64{"2024-01-01": 100},
					}, nil)
			},
			wantBalances: map[string]float64{
				"2024-01-01": 100,
				"2024-06-15": 250,
			},
		},
		{
			name: "MissingDocumentInitialized",
			acct: bank.Account{ID: accountID, Balance: 999},
			setupMock: func(m *history.MockRepository) {
				m.EXPECT().
					GetBalanceHistory(gomock.Any(), 2024, accountID).
					Return(nil, nil)
			},
			wantBalances: map[string]float64{"2024-06-15": 999},
		},
		{
			name: "NilBalancesMap",
			acct: bank.Account{ID: accountID, Balance: 10},
			setupMock: func(m *history.MockRepository) {
				m.EXPECT().
					GetBalanceHistory(gomock.Any(), 2024, accountID).
					Return(&bank.BalanceHistory{ID: docID, Year: 2024, AccountID: accountID}, nil)
			},
			wantBalances: map[string]float64{"2024-06-15": 10},
		},
		{
			name: "RepoError",
			acct: bank.Account{ID: accountID},
			setupMock: func(m *history.MockRepository) {
				m.EXPECT().
					GetBalanceHistory(gomock.Any(), 2024, accountID).
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := history.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := history.NewServiceWithClock(repo, fixedNow)
			got, err := svc.MergeToday(context.Background(), 2024, tt.acct)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2024, got.Year)
			assert.Equal(t, accountID, got.AccountID)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.wantBalances, got.Balances)
		})
	}
}

func TestService_MergeToday_SameDayIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountID := uuid.New()
	acct := bank.Account{ID: accountID, Balance: 250}

	doc := &bank.BalanceHistory{
		ID:        uuid.New(),
		Year:      2024,
		AccountID: accountID,
		Balances:  map[string]float64{"2024-01-01": 100},
	}

	repo := history.NewMockRepository(ctrl)
	repo.EXPECT().
		GetBalanceHistory(gomock.Any(), 2024, accountID).
		Return(doc, nil).
		Times(2)

	svc := history.NewServiceWithClock(repo, fixedNow)

	first, err := svc.MergeToday(context.Background(), 2024, acct)
	require.NoError(t, err)

	second, err := svc.MergeToday(context.Background(), 2024, acct)
	require.NoError(t, err)

	assert.Equal(t, first.Balances, second.Balances)
	assert.Equal(t, map[string]float64{"2024-01-01": 100, "2024-06-15": 250}, second.Balances)
}
