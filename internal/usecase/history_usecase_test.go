package usecase_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/goremit/internal/adapter/repository/memory"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
	"github.com/iho/goremit/internal/usecase/mocks"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHistoryUseCase_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no expectations: invalid requests never reach the store or the cache
	uc := usecase.NewHistoryUseCase(
		mocks.NewMockAccountRepository(ctrl),
		mocks.NewMockRemittanceRepository(ctrl),
		mocks.NewMockCache(ctrl),
		usecase.DefaultSettings(),
		zerologNop(),
		nil,
	)

	tests := []struct {
		name    string
		input   usecase.HistoryInput
		wantErr error
	}{
		{"start after end", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 2), End: date(2024, 3, 1)}, domain.ErrInvalidPeriod},
		{"span over 90 days", usecase.HistoryInput{AccountID: 1, Start: date(2024, 1, 1), End: date(2024, 4, 1)}, domain.ErrPeriodTooLong},
		{"page size over maximum", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 1), Size: 51}, domain.ErrPageSizeTooLarge},
		{"negative page", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 1), Page: -1}, domain.ErrInvalidPage},
		{"negative size", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 1), Size: -5}, domain.ErrInvalidPage},
		{"offset overflows", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 1), Page: math.MaxInt64 / 10, Size: 20}, domain.ErrInvalidPage},
		{"offset past maximum", usecase.HistoryInput{AccountID: 1, Start: date(2024, 3, 1), End: date(2024, 3, 1), Page: usecase.MaxHistoryOffset/20 + 1, Size: 20}, domain.ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.History(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, domain.IsValidationError(err))
		})
	}
}

func TestHistoryUseCase_ReadThroughCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockAccountRepository(ctrl)
	ledger := mocks.NewMockRemittanceRepository(ctrl)

	start, end := date(2024, 1, 1), date(2024, 3, 31) // exactly 90 days

	accounts.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&domain.Account{ID: 7}, nil).Times(1)
	ledger.EXPECT().
		ListByAccount(gomock.Any(), int64(7), start, date(2024, 4, 1), 20, 40).
		Return([]*domain.Remittance{{ID: "r1", SenderID: 7, RecipientID: 8, Amount: dec("10")}}, int64(41), nil).
		Times(1)

	uc := usecase.NewHistoryUseCase(accounts, ledger, memory.NewCache(), usecase.DefaultSettings(), zerologNop(), nil)

	for i := 0; i < 2; i++ {
		page, err := uc.History(context.Background(), usecase.HistoryInput{AccountID: 7, Start: start, End: end, Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 20, page.Size, "size defaults to 20")
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, int64(41), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "r1", page.Items[0].ID)
		assert.True(t, page.Items[0].Amount.Equal(dec("10")))
	}
}

func TestHistoryUseCase_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.histUC.History(context.Background(), usecase.HistoryInput{AccountID: 42, Start: date(2024, 3, 1), End: date(2024, 3, 1)})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestHistoryUseCase_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publish(t, "USD", friday, "1.00")

	a := f.open(t, domain.CategoryIndividual, "1000.00")
	b := f.open(t, domain.CategoryIndividual, "1000.00")
	c := f.open(t, domain.CategoryIndividual, "1000.00")

	transfers := []usecase.TransferInput{
		{SenderID: a, RecipientID: b, Amount: dec("1.00"), Currency: "USD"},
		{SenderID: b, RecipientID: a, Amount: dec("2.00"), Currency: "USD"},
		{SenderID: b, RecipientID: c, Amount: dec("3.00"), Currency: "USD"},
		{SenderID: c, RecipientID: a, Amount: dec("4.00"), Currency: "USD"},
	}
	var ids []string
	for _, in := range transfers {
		r, err := f.remitUC.Transfer(ctx, in)
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	day := domain.Day(friday)
	first, err := f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day, End: day, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.Total)
	assert.Equal(t, 2, first.TotalPages())
	require.Len(t, first.Items, 2)
	assert.Equal(t, ids[3], first.Items[0].ID)
	assert.Equal(t, ids[1], first.Items[1].ID)

	second, err := f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day, End: day, Page: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, ids[0], second.Items[0].ID)

	beyond, err := f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day, End: day, Page: 5, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)

	previous, err := f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day.AddDate(0, 0, -3), End: day.AddDate(0, 0, -1)})
	require.NoError(t, err)
	assert.Zero(t, previous.Total)
}

func TestHistoryUseCase_FarPages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publish(t, "USD", friday, "1.00")

	a := f.open(t, domain.CategoryIndividual, "1000.00")
	b := f.open(t, domain.CategoryIndividual, "1000.00")
	_, err := f.remitUC.Transfer(ctx, usecase.TransferInput{SenderID: a, RecipientID: b, Amount: dec("1.00"), Currency: "USD"})
	require.NoError(t, err)

	day := domain.Day(friday)

	_, err = f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day, End: day, Page: math.MaxInt64 / 10, Size: 20})
	require.ErrorIs(t, err, domain.ErrInvalidPage)

	last, err := f.histUC.History(ctx, usecase.HistoryInput{AccountID: a, Start: day, End: day, Page: usecase.MaxHistoryOffset / 20, Size: 20})
	require.NoError(t, err)
	assert.Empty(t, last.Items)
	assert.Equal(t, int64(1), last.Total)
}
