package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/goremit/internal/domain"
	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// RemittanceDeps groups the collaborators of RemittanceUseCase.
// OutboxRepo and Retrier are optional.
type RemittanceDeps struct {
	TxManager      TransactionManager
	AccountRepo    AccountRepository
	WalletRepo     WalletRepository
	AggregateRepo  DailyAggregateRepository
	RemittanceRepo RemittanceRepository
	OutboxRepo     OutboxRepository
	Locker         Locker
	Quotes         *QuoteUseCase
	Cache          Cache
	Retrier        Retrier
	IDGen          IDGenerator
}

// RemittanceUseCase moves money between two accounts.
type RemittanceUseCase struct {
	txManager      TransactionManager
	accountRepo    AccountRepository
	walletRepo     WalletRepository
	aggregateRepo  DailyAggregateRepository
	remittanceRepo RemittanceRepository
	outboxRepo     OutboxRepository
	locker         Locker
	quotes         *QuoteUseCase
	cache          Cache
	retrier        Retrier
	idGen          IDGenerator
	settings       Settings
	logger         zerolog.Logger
	metrics        *metrics.Metrics
}

// NewRemittanceUseCase creates a new RemittanceUseCase.
func NewRemittanceUseCase(deps RemittanceDeps, settings Settings, logger zerolog.Logger, metrics *metrics.Metrics) *RemittanceUseCase {
	return &RemittanceUseCase{
		txManager:      deps.TxManager,
		accountRepo:    deps.AccountRepo,
		walletRepo:     deps.WalletRepo,
		aggregateRepo:  deps.AggregateRepo,
		remittanceRepo: deps.RemittanceRepo,
		outboxRepo:     deps.OutboxRepo,
		locker:         deps.Locker,
		quotes:         deps.Quotes,
		cache:          deps.Cache,
		retrier:        deps.Retrier,
		idGen:          deps.IDGen,
		settings:       settings.withDefaults(),
		logger:         logger.With().Str("component", "remittance").Logger(),
		metrics:        metrics,
	}
}

// TransferInput represents a remittance request.
type TransferInput struct {
	SenderID    int64
	RecipientID int64
	Amount      decimal.Decimal
	Currency    string
}

// Transfer debits amount plus fee from the sender, credits the converted amount
// to the recipient and records the remittance, all or nothing.
func (uc *RemittanceUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Remittance, error) {
	start := time.Now()

	remittance, err := uc.transfer(ctx, input)

	if uc.metrics != nil {
		uc.metrics.RemittanceDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			uc.metrics.RemittanceErrors.WithLabelValues(errorType(err)).Inc()
		} else {
			uc.metrics.RemittancesCreated.Inc()
			uc.metrics.RemittanceAmount.Observe(remittance.Amount.InexactFloat64())
		}
	}

	return remittance, err
}

func (uc *RemittanceUseCase) transfer(ctx context.Context, input TransferInput) (*domain.Remittance, error) {
	input.Currency = domain.NormalizeCurrency(input.Currency)
	if err := uc.validate(input); err != nil {
		return nil, err
	}

	log := uc.logger.With().
		Int64("sender_id", input.SenderID).
		Int64("recipient_id", input.RecipientID).
		Str("amount", input.Amount.StringFixed(2)).
		Str("currency", input.Currency).
		Logger()

	handle, err := uc.acquire(ctx, input.SenderID, input.RecipientID)
	if err != nil {
		log.Info().Err(err).Msg("remittance guard unavailable")
		return nil, err
	}
	defer uc.release(ctx, handle, log)

	var remittance *domain.Remittance
	operation := func() error {
		r, err := uc.execute(ctx, input)
		if err != nil {
			return err
		}
		remittance = r
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		return nil, uc.classify(log, err)
	}

	uc.invalidate(ctx, remittance, log)

	log.Info().
		Str("remittance_id", remittance.ID).
		Str("fee", remittance.Fee.StringFixed(2)).
		Str("quote", remittance.Quote.String()).
		Str("converted_amount", remittance.ConvertedAmount.StringFixed(2)).
		Msg("remittance completed")

	return remittance, nil
}

func (uc *RemittanceUseCase) validate(input TransferInput) error {
	if input.SenderID == input.RecipientID {
		return domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}

	return uc.settings.Currencies.Validate(input.Currency)
}

// acquire takes the guard of both accounts in ascending id order.
func (uc *RemittanceUseCase) acquire(ctx context.Context, ids ...int64) (LockHandle, error) {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)

	keys := make([]string, 0, len(ordered))
	for _, id := range slices.Compact(ordered) {
		keys = append(keys, AccountLockKey(id))
	}

	waitStart := time.Now()
	handle, err := uc.locker.Lock(ctx, keys...)

	if uc.metrics != nil {
		uc.metrics.LockWaitDuration.Observe(time.Since(waitStart).Seconds())
		if errors.Is(err, domain.ErrOperationInProgress) {
			uc.metrics.LockTimeouts.Inc()
		}
	}

	if err != nil {
		if errors.Is(err, domain.ErrOperationInProgress) {
			return nil, err
		}
		return nil, domain.NewProcessingError("acquire guard", err)
	}

	return handle, nil
}

func (uc *RemittanceUseCase) release(ctx context.Context, handle LockHandle, log zerolog.Logger) {
	if err := handle.Unlock(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("failed to release remittance guard")
	}
}

// execute runs one attempt of the transfer inside a single transaction.
func (uc *RemittanceUseCase) execute(ctx context.Context, input TransferInput) (*domain.Remittance, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	sender, recipient, err := uc.lockWallets(txCtx, tx, input.SenderID, input.RecipientID)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(txCtx, input.SenderID)
	if err != nil {
		return nil, err
	}

	policy, err := uc.settings.Policies.For(account.Category)
	if err != nil {
		return nil, err
	}

	now := uc.settings.now()

	aggregate, err := uc.aggregateRepo.GetForUpdate(txCtx, tx, input.SenderID, domain.Day(now))
	if err != nil {
		return nil, err
	}

	if err := policy.CheckLimit(aggregate.Total, input.Amount); err != nil {
		return nil, err
	}

	fee := policy.Fee(input.Amount)
	totalDebit := input.Amount.Add(fee)

	if err := sender.CanDebit(totalDebit); err != nil {
		return nil, err
	}

	quote, err := uc.quotes.quoteAt(txCtx, input.Currency, now)
	if err != nil {
		return nil, err
	}
	// The ledger keeps the rate at QuoteScale; convert with the same value.
	quote = domain.RoundQuote(quote)
	if !quote.IsPositive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuote, quote)
	}

	converted := domain.ConvertAmount(input.Amount, quote)

	if err := sender.Debit(totalDebit, now); err != nil {
		return nil, err
	}
	recipient.Credit(converted, now)
	aggregate.Add(input.Amount, now)

	if err := uc.walletRepo.UpdateBalance(txCtx, tx, sender); err != nil {
		return nil, err
	}
	if err := uc.walletRepo.UpdateBalance(txCtx, tx, recipient); err != nil {
		return nil, err
	}
	if err := uc.aggregateRepo.Save(txCtx, tx, aggregate); err != nil {
		return nil, err
	}

	remittance := &domain.Remittance{
		ID:              uc.idGen.Generate(),
		SenderID:        input.SenderID,
		RecipientID:     input.RecipientID,
		Amount:          input.Amount,
		Fee:             fee,
		Currency:        input.Currency,
		Quote:           quote,
		ConvertedAmount: converted,
		CreatedAt:       now,
	}

	if err := uc.remittanceRepo.Create(txCtx, tx, remittance); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := domain.NewRemittanceCreatedEvent(uc.idGen.Generate(), remittance)
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.FeesCollected.WithLabelValues(string(account.Category)).Add(fee.InexactFloat64())
	}

	return remittance, nil
}

// lockWallets locks both wallets in ascending account id order.
func (uc *RemittanceUseCase) lockWallets(ctx context.Context, tx Transaction, senderID, recipientID int64) (sender, recipient *domain.Wallet, err error) {
	first, second := senderID, recipientID
	if first > second {
		first, second = second, first
	}

	wallets := make(map[int64]*domain.Wallet, 2)
	for _, id := range []int64{first, second} {
		w, err := uc.walletRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, nil, err
		}
		wallets[id] = w
	}

	return wallets[senderID], wallets[recipientID], nil
}

// classify keeps expected failures verbatim and wraps everything else.
func (uc *RemittanceUseCase) classify(log zerolog.Logger, err error) error {
	switch {
	case domain.IsBusinessError(err), domain.IsValidationError(err):
		log.Info().Err(err).Msg("remittance rejected")
		return err
	case errors.Is(err, domain.ErrAccountNotFound):
		log.Info().Err(err).Msg("remittance rejected")
		return err
	case errors.Is(err, domain.ErrProcessingFailed):
		log.Error().Err(err).Msg("remittance failed")
		return err
	default:
		log.Error().Err(err).Msg("remittance failed")
		return domain.NewProcessingError("transfer", err)
	}
}

// invalidate clears the caches a committed transfer makes stale.
// Failures are logged and never reach the caller.
func (uc *RemittanceUseCase) invalidate(ctx context.Context, r *domain.Remittance, log zerolog.Logger) {
	ctx = context.WithoutCancel(ctx)

	for _, id := range []int64{r.SenderID, r.RecipientID} {
		if err := uc.cache.DeletePrefix(ctx, HistoryCachePrefix(id)); err != nil {
			log.Warn().Err(err).Int64("account_id", id).Msg("history cache invalidation failed")
			uc.countCacheError("delete_prefix")
			continue
		}
		uc.countInvalidation(metrics.CacheHistory)
	}

	if err := uc.cache.Delete(ctx, AggregateCacheKey(r.SenderID, r.CreatedAt)); err != nil {
		log.Warn().Err(err).Msg("aggregate cache invalidation failed")
		uc.countCacheError("delete")
	} else {
		uc.countInvalidation(metrics.CacheAggregate)
	}

	if err := uc.quotes.Invalidate(ctx, r.Currency); err != nil {
		log.Warn().Err(err).Msg("quote cache invalidation failed")
	}
}

// GetRemittance returns one ledger entry.
func (uc *RemittanceUseCase) GetRemittance(ctx context.Context, id string) (*domain.Remittance, error) {
	return uc.remittanceRepo.GetByID(ctx, id)
}

func (uc *RemittanceUseCase) countInvalidation(cache string) {
	if uc.metrics != nil {
		uc.metrics.CacheInvalidations.WithLabelValues(cache).Inc()
	}
}

func (uc *RemittanceUseCase) countCacheError(op string) {
	if uc.metrics != nil {
		uc.metrics.CacheErrors.WithLabelValues(op).Inc()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrDailyLimitExceeded):
		return "daily_limit_exceeded"
	case errors.Is(err, domain.ErrWalletNotFound):
		return "wallet_not_found"
	case errors.Is(err, domain.ErrInvalidQuote):
		return "invalid_quote"
	case errors.Is(err, domain.ErrOperationInProgress):
		return "operation_in_progress"
	case domain.IsValidationError(err):
		return "validation"
	default:
		return "processing"
	}
}
