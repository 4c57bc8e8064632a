package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goremit/internal/domain"
)

func seedWallet(t *testing.T, s *Store, balance string) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	account := &domain.Account{Name: "Ana", Document: "12345678901", Category: domain.CategoryIndividual}
	require.NoError(t, NewAccountRepository(s).Create(ctx, tx, account))
	require.NoError(t, NewWalletRepository(s).Create(ctx, tx, &domain.Wallet{
		AccountID: account.ID,
		Balance:   decimal.RequireFromString(balance),
	}))
	require.NoError(t, tx.Commit(ctx))

	return account.ID
}

func TestTxCommitAppliesWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepository(s)
	id := seedWallet(t, s, "100.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	w, err := wallets.GetForUpdate(ctx, tx, id)
	require.NoError(t, err)
	require.NoError(t, w.Debit(decimal.NewFromInt(40), time.Now()))
	require.NoError(t, wallets.UpdateBalance(ctx, tx, w))

	before, err := wallets.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, before.Balance.Equal(decimal.NewFromInt(100)), "uncommitted write must not be visible")

	require.NoError(t, tx.Commit(ctx))

	after, err := wallets.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, after.Balance.Equal(decimal.NewFromInt(60)))
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepository(s)
	id := seedWallet(t, s, "100.00")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	w, err := wallets.GetForUpdate(ctx, tx, id)
	require.NoError(t, err)
	w.Credit(decimal.NewFromInt(5), time.Now())
	require.NoError(t, wallets.UpdateBalance(ctx, tx, w))
	require.NoError(t, tx.Rollback(ctx))

	got, err := wallets.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)
	assert.NoError(t, tx.Rollback(ctx))
}

func TestGetForUpdateBlocksUntilRelease(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepository(s)
	id := seedWallet(t, s, "10.00")

	tx1, _ := s.Begin(ctx)
	_, err := wallets.GetForUpdate(ctx, tx1, id)
	require.NoError(t, err)

	tx2, _ := s.Begin(ctx)
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = wallets.GetForUpdate(short, tx2, id)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan error, 1)
	go func() {
		_, err := wallets.GetForUpdate(ctx, tx2, id)
		acquired <- err
	}()

	select {
	case <-acquired:
		t.Fatal("second transaction acquired a held row lock")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, tx1.Rollback(ctx))
	require.NoError(t, <-acquired)
	require.NoError(t, tx2.Rollback(ctx))
}

func TestGetForUpdateIsReentrant(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	wallets := NewWalletRepository(s)
	id := seedWallet(t, s, "10.00")

	tx, _ := s.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err := wallets.GetForUpdate(ctx, tx, id)
	require.NoError(t, err)
	_, err = wallets.GetForUpdate(ctx, tx, id)
	require.NoError(t, err)
}

func TestWalletNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, _ := s.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err := NewWalletRepository(s).GetForUpdate(ctx, tx, 99)
	assert.True(t, errors.Is(err, domain.ErrWalletNotFound))

	_, err = NewAccountRepository(s).GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestDailyAggregateLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewDailyAggregateRepository(s)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	got, err := repo.Get(ctx, 1, day)
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero())

	tx, _ := s.Begin(ctx)
	agg, err := repo.GetForUpdate(ctx, tx, 1, day)
	require.NoError(t, err)
	agg.Add(decimal.NewFromInt(250), day)
	require.NoError(t, repo.Save(ctx, tx, agg))
	require.NoError(t, tx.Commit(ctx))

	got, err = repo.Get(ctx, 1, day.Add(13*time.Hour))
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(250)))

	other, err := repo.Get(ctx, 1, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, other.Total.IsZero())
}

func TestRemittanceListAndSum(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewRemittanceRepository(s)
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tx, _ := s.Begin(ctx)
	for i, r := range []*domain.Remittance{
		{ID: "a", SenderID: 1, RecipientID: 2, Amount: decimal.NewFromInt(10), CreatedAt: base},
		{ID: "b", SenderID: 2, RecipientID: 1, Amount: decimal.NewFromInt(20), CreatedAt: base.Add(time.Hour)},
		{ID: "c", SenderID: 1, RecipientID: 3, Amount: decimal.NewFromInt(30), CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", SenderID: 3, RecipientID: 2, Amount: decimal.NewFromInt(40), CreatedAt: base.Add(3 * time.Hour)},
		{ID: "e", SenderID: 1, RecipientID: 2, Amount: decimal.NewFromInt(50), CreatedAt: base.AddDate(0, 0, 1)},
	} {
		require.NoError(t, repo.Create(ctx, tx, r), "row %d", i)
	}
	require.NoError(t, tx.Commit(ctx))

	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	items, total, err := repo.ListByAccount(ctx, 1, from, to, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	items, _, err = repo.ListByAccount(ctx, 1, from, to, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)

	items, total, err = repo.ListByAccount(ctx, 1, from, to, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(3), total)

	_, _, err = repo.ListByAccount(ctx, 1, from, to, 2, -16)
	require.Error(t, err)

	sum, err := repo.SumSent(ctx, 1, from, to)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(40)), "got %s", sum)

	got, err := repo.GetByID(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.SenderID)

	_, err = repo.GetByID(ctx, "zz")
	assert.ErrorIs(t, err, domain.ErrRemittanceNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewOutboxRepository(s)

	tx, _ := s.Begin(ctx)
	require.NoError(t, repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e1", EventType: domain.EventTypeRemittanceCreated}))
	require.NoError(t, repo.Create(ctx, tx, &domain.OutboxEvent{ID: "e2", EventType: domain.EventTypeRemittanceCreated}))
	require.NoError(t, tx.Commit(ctx))

	events, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	publishedAt := time.Now().Add(-time.Hour)
	require.NoError(t, repo.MarkPublished(ctx, "e1", publishedAt))

	events, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e2", events[0].ID)

	require.NoError(t, repo.DeletePublished(ctx, time.Now()))
	assert.Len(t, s.outbox, 1)
}

func TestQuoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuoteRepository(NewStore())
	friday := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	_, err := repo.Fetch(ctx, "USD", friday)
	require.ErrorIs(t, err, domain.ErrQuoteNotFound)

	require.NoError(t, repo.Save(ctx, &domain.Quote{Currency: "USD", Day: friday, Rate: decimal.RequireFromString("5.10")}))

	rate, err := repo.Fetch(ctx, "USD", friday)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("5.10")))
}
