package usecase_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/goremit/internal/adapter/repository/memory"
	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/usecase"
)

// friday is a business day; the fixture clock defaults to it.
var friday = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture wires every use case to one in-memory store.
type fixture struct {
	store      *memory.Store
	cache      *memory.Cache
	quotes     *memory.QuoteRepository
	wallets    *memory.WalletRepository
	aggregates *memory.DailyAggregateRepository
	ledger     *memory.RemittanceRepository
	outbox     *memory.OutboxRepository

	settings usecase.Settings
	quoteUC  *usecase.QuoteUseCase
	remitUC  *usecase.RemittanceUseCase
	acctUC   *usecase.AccountUseCase
	histUC   *usecase.HistoryUseCase
	reconUC  *usecase.ReconciliationUseCase
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	settings usecase.Settings
	source   usecase.QuoteSource
	locker   usecase.Locker
	cache    usecase.Cache
}

func withClock(t time.Time) fixtureOption {
	return func(c *fixtureConfig) { c.settings.Clock = fixedClock{t: t} }
}

func withSource(src usecase.QuoteSource) fixtureOption {
	return func(c *fixtureConfig) { c.source = src }
}

func withDefaultQuote(rate string) fixtureOption {
	return func(c *fixtureConfig) { c.settings.DefaultQuote = dec(rate) }
}

func withLocker(l usecase.Locker) fixtureOption {
	return func(c *fixtureConfig) { c.locker = l }
}

func withCache(cache usecase.Cache) fixtureOption {
	return func(c *fixtureConfig) { c.cache = cache }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:      store,
		cache:      memory.NewCache(),
		quotes:     memory.NewQuoteRepository(store),
		wallets:    memory.NewWalletRepository(store),
		aggregates: memory.NewDailyAggregateRepository(store),
		ledger:     memory.NewRemittanceRepository(store),
		outbox:     memory.NewOutboxRepository(store),
	}

	settings := usecase.DefaultSettings()
	settings.Clock = fixedClock{t: friday}

	cfg := &fixtureConfig{
		settings: settings,
		source:   f.quotes,
		locker:   memory.NewLocker(5 * time.Second),
		cache:    f.cache,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	f.settings = cfg.settings

	log := zerolog.Nop()
	accounts := memory.NewAccountRepository(store)
	ids := &seqIDs{}

	f.quoteUC = usecase.NewQuoteUseCase(cfg.source, f.quotes, cfg.cache, cfg.settings, log, nil)
	f.remitUC = usecase.NewRemittanceUseCase(usecase.RemittanceDeps{
		TxManager:      store,
		AccountRepo:    accounts,
		WalletRepo:     f.wallets,
		AggregateRepo:  f.aggregates,
		RemittanceRepo: f.ledger,
		OutboxRepo:     f.outbox,
		Locker:         cfg.locker,
		Quotes:         f.quoteUC,
		Cache:          cfg.cache,
		IDGen:          ids,
	}, cfg.settings, log, nil)
	f.acctUC = usecase.NewAccountUseCase(store, accounts, f.wallets, f.aggregates, f.outbox, cfg.cache, ids, cfg.settings, log, nil)
	f.histUC = usecase.NewHistoryUseCase(accounts, f.ledger, cfg.cache, cfg.settings, log, nil)
	f.reconUC = usecase.NewReconciliationUseCase(accounts, f.aggregates, f.ledger, cfg.settings, log)

	return f
}

func (f *fixture) open(t *testing.T, category domain.Category, balance string) int64 {
	t.Helper()

	doc := "12345678901"
	if category == domain.CategoryBusiness {
		doc = "12345678000199"
	}

	view, err := f.acctUC.OpenAccount(context.Background(), usecase.OpenAccountInput{
		Name:           "Holder",
		Document:       doc,
		Category:       string(category),
		InitialBalance: dec(balance),
	})
	require.NoError(t, err)
	return view.Account.ID
}

func (f *fixture) publish(t *testing.T, currency string, day time.Time, rate string) {
	t.Helper()
	require.NoError(t, f.quotes.Save(context.Background(), &domain.Quote{Currency: currency, Day: domain.Day(day), Rate: dec(rate)}))
}

func (f *fixture) balance(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	w, err := f.wallets.GetByID(context.Background(), id)
	require.NoError(t, err)
	return w.Balance
}

func (f *fixture) sentToday(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	agg, err := f.aggregates.Get(context.Background(), id, domain.Day(f.settings.Clock.Now()))
	require.NoError(t, err)
	return agg.Total
}

func (f *fixture) seedAggregate(t *testing.T, id int64, total string) {
	t.Helper()
	ctx := context.Background()

	tx, err := f.store.Begin(ctx)
	require.NoError(t, err)
	agg, err := f.aggregates.GetForUpdate(ctx, tx, id, domain.Day(f.settings.Clock.Now()))
	require.NoError(t, err)
	agg.Add(dec(total), f.settings.Clock.Now())
	require.NoError(t, f.aggregates.Save(ctx, tx, agg))
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) ledgerCount(t *testing.T, id int64) int64 {
	t.Helper()
	day := domain.Day(f.settings.Clock.Now())
	_, total, err := f.ledger.ListByAccount(context.Background(), id, day, day.AddDate(0, 0, 1), 1, 0)
	require.NoError(t, err)
	return total
}

func zerologNop() zerolog.Logger {
	return zerolog.Nop()
}
