package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// AccountUseCase handles account holder operations.
type AccountUseCase struct {
	txManager     TransactionManager
	accountRepo   AccountRepository
	walletRepo    WalletRepository
	aggregateRepo DailyAggregateRepository
	outboxRepo    OutboxRepository
	cache         Cache
	idGen         IDGenerator
	settings      Settings
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase. outboxRepo may be nil.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	walletRepo WalletRepository,
	aggregateRepo DailyAggregateRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	idGen IDGenerator,
	settings Settings,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:     txManager,
		accountRepo:   accountRepo,
		walletRepo:    walletRepo,
		aggregateRepo: aggregateRepo,
		outboxRepo:    outboxRepo,
		cache:         cache,
		idGen:         idGen,
		settings:      settings.withDefaults(),
		logger:        logger.With().Str("component", "accounts").Logger(),
		metrics:       metrics,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	Name           string
	Document       string
	Category       string
	InitialBalance decimal.Decimal
}

// AccountView is an account together with its wallet.
type AccountView struct {
	Account *domain.Account
	Wallet  *domain.Wallet
}

// DailyUsage reports how much of today's ceiling an account has used.
type DailyUsage struct {
	AccountID int64
	Category  domain.Category
	Day       time.Time
	Sent      decimal.Decimal
	Ceiling   decimal.Decimal
	Remaining decimal.Decimal
}

// OpenAccount creates an account and its wallet atomically.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*AccountView, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if input.InitialBalance.IsNegative() || !input.InitialBalance.Equal(input.InitialBalance.Truncate(2)) {
		return nil, fmt.Errorf("%w: initial balance %s", domain.ErrInvalidAmount, input.InitialBalance)
	}

	now := uc.settings.now()
	account := &domain.Account{
		Name:      strings.TrimSpace(input.Name),
		Document:  strings.TrimSpace(input.Document),
		Category:  category,
		CreatedAt: now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, domain.NewProcessingError("begin", err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, domain.NewProcessingError("create account", err)
	}

	wallet := &domain.Wallet{
		AccountID: account.ID,
		Balance:   input.InitialBalance,
		UpdatedAt: now,
	}
	if err := uc.walletRepo.Create(txCtx, tx, wallet); err != nil {
		return nil, domain.NewProcessingError("create wallet", err)
	}

	if uc.outboxRepo != nil {
		if err := uc.outboxRepo.Create(txCtx, tx, domain.NewAccountOpenedEvent(uc.idGen.Generate(), account)); err != nil {
			return nil, domain.NewProcessingError("create event", err)
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, domain.NewProcessingError("commit", err)
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
	}

	uc.logger.Info().
		Int64("account_id", account.ID).
		Str("category", string(account.Category)).
		Msg("account opened")

	return &AccountView{Account: account, Wallet: wallet}, nil
}

// GetAccount returns the account and its current balance.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id int64) (*AccountView, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountView{Account: account, Wallet: wallet}, nil
}

// DailyUsage returns today's sent total against the account's ceiling.
func (uc *AccountUseCase) DailyUsage(ctx context.Context, id int64) (*DailyUsage, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	policy, err := uc.settings.Policies.For(account.Category)
	if err != nil {
		return nil, err
	}

	day := domain.Day(uc.settings.now())

	aggregate, err := uc.aggregate(ctx, id, day)
	if err != nil {
		return nil, err
	}

	return &DailyUsage{
		AccountID: id,
		Category:  account.Category,
		Day:       day,
		Sent:      aggregate.Total,
		Ceiling:   policy.DailyCeiling,
		Remaining: policy.Remaining(aggregate.Total),
	}, nil
}

// aggregate reads the day's aggregate through the cache.
func (uc *AccountUseCase) aggregate(ctx context.Context, id int64, day time.Time) (*domain.DailyAggregate, error) {
	key := AggregateCacheKey(id, day)

	var cached domain.DailyAggregate
	hit, err := getCachedJSON(ctx, uc.cache, key, &cached)
	if err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("aggregate cache read failed")
	}
	if hit {
		uc.count(true)
		return &cached, nil
	}
	uc.count(false)

	aggregate, err := uc.aggregateRepo.Get(ctx, id, day)
	if err != nil {
		return nil, domain.NewProcessingError("load aggregate", err)
	}

	if err := setCachedJSON(ctx, uc.cache, key, aggregate, uc.settings.AggregateCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("aggregate cache write failed")
	}

	return aggregate, nil
}

func (uc *AccountUseCase) count(hit bool) {
	if uc.metrics == nil {
		return
	}
	if hit {
		uc.metrics.CacheHits.WithLabelValues(metrics.CacheAggregate).Inc()
		return
	}
	uc.metrics.CacheMisses.WithLabelValues(metrics.CacheAggregate).Inc()
}
