package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
	"github.com/iho/goremit/internal/usecase/mocks"
)

func TestReconciliationUseCase_Balanced(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publish(t, "USD", friday, "5.00")

	sender := f.open(t, domain.CategoryIndividual, "1000.00")
	recipient := f.open(t, domain.CategoryIndividual, "0")

	for _, amount := range []string{"100.00", "250.25"} {
		_, err := f.remitUC.Transfer(ctx, usecase.TransferInput{SenderID: sender, RecipientID: recipient, Amount: dec(amount), Currency: "USD"})
		require.NoError(t, err)
	}

	result, err := f.reconUC.ReconcileDailyAggregate(ctx, sender, friday)
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
	assert.True(t, result.AggregateTotal.Equal(dec("350.25")))
	assert.True(t, result.LedgerTotal.Equal(dec("350.25")))

	received, err := f.reconUC.ReconcileDailyAggregate(ctx, recipient, friday)
	require.NoError(t, err)
	assert.True(t, received.IsReconciled, "received amounts do not count")
	assert.True(t, received.LedgerTotal.IsZero())
}

func TestReconciliationUseCase_Mismatch(t *testing.T) {
	f := newFixture(t)
	id := f.open(t, domain.CategoryIndividual, "0")
	f.seedAggregate(t, id, "75.00")

	result, err := f.reconUC.ReconcileDailyAggregate(context.Background(), id, friday)
	require.NoError(t, err)
	assert.False(t, result.IsReconciled)
	assert.True(t, result.Difference.Equal(dec("75.00")))
}

func TestReconciliationUseCase_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	aggregates := mocks.NewMockDailyAggregateRepository(ctrl)
	ledger := mocks.NewMockRemittanceRepository(ctrl)

	uc := usecase.NewReconciliationUseCase(accounts, aggregates, ledger, usecase.DefaultSettings(), zerologNop())

	accounts.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, domain.ErrAccountNotFound)
	_, err := uc.ReconcileDailyAggregate(context.Background(), 1, friday)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	accounts.EXPECT().GetByID(gomock.Any(), int64(2)).Return(&domain.Account{ID: 2}, nil)
	aggregates.EXPECT().Get(gomock.Any(), int64(2), gomock.Any()).Return(domain.NewDailyAggregate(2, friday), nil)
	ledger.EXPECT().SumSent(gomock.Any(), int64(2), gomock.Any(), gomock.Any()).Return(dec("0"), errors.New("timeout"))

	_, err = uc.ReconcileDailyAggregate(context.Background(), 2, friday)
	require.ErrorIs(t, err, domain.ErrProcessingFailed)
}
