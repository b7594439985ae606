package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/harborbank/banking/internal/transaction/client"
	"github.com/harborbank/banking/shared/models"
	sharedredis "github.com/harborbank/banking/shared/redis"
	"github.com/harborbank/banking/shared/resilience"
	"github.com/harborbank/banking/shared/utils"
)

// TransactionStore persists transaction records. Save upserts by transaction id.
type TransactionStore interface {
	Save(record *models.TransactionRecord) error
	GetByTransactionID(transactionID string) (*models.TransactionRecord, error)
	FindBySourceAccount(accountNumber string) ([]models.TransactionRecord, error)
	FindByDestinationAccount(accountNumber string) ([]models.TransactionRecord, error)
}

// AccountGateway applies balance deltas against the account service.
type AccountGateway interface {
	UpdateBalance(ctx context.Context, accountNumber string, delta float64) (*models.Account, error)
}

// NotificationGateway delivers best-effort notifications.
type NotificationGateway interface {
	Send(ctx context.Context, event client.NotificationEvent) error
}

// CompensationHook is invoked when a transfer's compensating credit fails,
// leaving the source debited with no matching destination credit. The default
// behaviour is log-only; installing a hook is the place to wire an outbox or
// alerting without changing the orchestration itself.
type CompensationHook func(ctx context.Context, record *models.TransactionRecord, compensationErr error)

// TransactionService orchestrates deposit, withdraw and transfer. Operations
// return the final record with failures encoded in Status; the error return
// is non-nil only when the record store itself cannot persist a state
// transition, since a transaction whose state cannot be recorded must not be
// reported as processed.
//
// Amounts are treated as magnitudes: the delta sent to the account service is
// always signed off math.Abs of the caller-supplied value, so a negative
// "deposit" still credits. The raw value is what gets recorded.
type TransactionService struct {
	store    TransactionStore
	accounts AccountGateway
	notifier NotificationGateway
	policy   *resilience.Policy
	cache    *sharedredis.ViewCache[models.TransactionRecord]
	onComp   CompensationHook
	logger   *zap.Logger
}

func NewTransactionService(
	store TransactionStore,
	accounts AccountGateway,
	notifier NotificationGateway,
	policy *resilience.Policy,
	cache *sharedredis.ViewCache[models.TransactionRecord],
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		store:    store,
		accounts: accounts,
		notifier: notifier,
		policy:   policy,
		cache:    cache,
		logger:   logger,
	}
}

// SetCompensationHook installs the compensation-failure callback.
func (s *TransactionService) SetCompensationHook(hook CompensationHook) {
	s.onComp = hook
}

func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount float64) (*models.TransactionRecord, error) {
	tx := &models.TransactionRecord{
		TransactionID:      utils.NewTransactionID(),
		Type:               models.TypeDeposit,
		Amount:             amount,
		DestinationAccount: accountNumber,
		Status:             models.StatusPending,
	}
	if err := s.record(tx); err != nil {
		return nil, err
	}

	if err := s.applyDelta(ctx, accountNumber, math.Abs(amount)); err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return s.depositFallback(ctx, tx, err)
		}
		s.logger.Warn("deposit rejected by account service",
			zap.String("transactionId", tx.TransactionID),
			zap.String("account", accountNumber),
			zap.Error(err))
		if err := s.fail(ctx, tx); err != nil {
			return nil, err
		}
		return tx, nil
	}

	if err := s.succeed(ctx, tx); err != nil {
		return nil, err
	}
	s.notify(ctx, client.NotificationEvent{
		TransactionID: tx.TransactionID,
		Type:          models.TypeDeposit,
		Amount:        amount,
		AccountNumber: accountNumber,
	})
	return tx, nil
}

func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount float64) (*models.TransactionRecord, error) {
	tx := &models.TransactionRecord{
		TransactionID: utils.NewTransactionID(),
		Type:          models.TypeWithdraw,
		Amount:        amount,
		SourceAccount: accountNumber,
		Status:        models.StatusPending,
	}
	if err := s.record(tx); err != nil {
		return nil, err
	}

	if err := s.applyDelta(ctx, accountNumber, -math.Abs(amount)); err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return s.withdrawFallback(ctx, tx, err)
		}
		s.logger.Warn("withdrawal rejected by account service",
			zap.String("transactionId", tx.TransactionID),
			zap.String("account", accountNumber),
			zap.Error(err))
		if err := s.fail(ctx, tx); err != nil {
			return nil, err
		}
		return tx, nil
	}

	if err := s.succeed(ctx, tx); err != nil {
		return nil, err
	}
	s.notify(ctx, client.NotificationEvent{
		TransactionID: tx.TransactionID,
		Type:          models.TypeWithdraw,
		Amount:        amount,
		AccountNumber: accountNumber,
	})
	return tx, nil
}

// Transfer debits the source, then credits the destination. The debit always
// precedes the credit; if only the debit lands, one compensating credit is
// attempted before the record is marked FAILED. Once the debit is applied the
// operation runs to completion, compensation included.
func (s *TransactionService) Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount float64) (*models.TransactionRecord, error) {
	tx := &models.TransactionRecord{
		TransactionID:      utils.NewTransactionID(),
		Type:               models.TypeTransfer,
		Amount:             amount,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
		Status:             models.StatusPending,
	}
	if err := s.record(tx); err != nil {
		return nil, err
	}

	// 1) debit source. Nothing to undo if this fails.
	if err := s.applyDelta(ctx, sourceAccount, -math.Abs(amount)); err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return s.transferFallback(ctx, tx, err)
		}
		s.logger.Warn("transfer debit rejected by account service",
			zap.String("transactionId", tx.TransactionID),
			zap.String("sourceAccount", sourceAccount),
			zap.Error(err))
		if err := s.fail(ctx, tx); err != nil {
			return nil, err
		}
		return tx, nil
	}

	// 2) credit destination. The source is already debited, so a failure
	// here triggers the compensating refund.
	if err := s.applyDelta(ctx, destinationAccount, math.Abs(amount)); err != nil {
		s.logger.Warn("transfer credit rejected by account service",
			zap.String("transactionId", tx.TransactionID),
			zap.String("destinationAccount", destinationAccount),
			zap.Error(err))
		s.compensate(ctx, tx, math.Abs(amount))
		if err := s.fail(ctx, tx); err != nil {
			return nil, err
		}
		return tx, nil
	}

	if err := s.succeed(ctx, tx); err != nil {
		return nil, err
	}
	s.notify(ctx, client.NotificationEvent{
		TransactionID:      tx.TransactionID,
		Type:               models.TypeTransfer,
		Amount:             amount,
		SourceAccount:      sourceAccount,
		DestinationAccount: destinationAccount,
	})
	return tx, nil
}

// GetTransaction serves terminal records cache-first; they never change once
// written, so a cached copy is as good as the store's.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (*models.TransactionRecord, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, transactionKey(transactionID)); ok {
			return cached, nil
		}
	}
	return s.store.GetByTransactionID(transactionID)
}

// ListByAccount returns every record naming the account as source or
// destination. A self-transfer matches both queries, so results are
// deduplicated by transaction id.
func (s *TransactionService) ListByAccount(ctx context.Context, accountNumber string) ([]models.TransactionRecord, error) {
	outgoing, err := s.store.FindBySourceAccount(accountNumber)
	if err != nil {
		return nil, err
	}
	incoming, err := s.store.FindByDestinationAccount(accountNumber)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(outgoing))
	records := make([]models.TransactionRecord, 0, len(outgoing)+len(incoming))
	for _, r := range outgoing {
		seen[r.TransactionID] = true
		records = append(records, r)
	}
	for _, r := range incoming {
		if !seen[r.TransactionID] {
			records = append(records, r)
		}
	}
	return records, nil
}

// applyDelta runs the balance update through the circuit breaker. An open
// breaker surfaces as resilience.ErrUnavailable without the account service
// being touched.
func (s *TransactionService) applyDelta(ctx context.Context, accountNumber string, delta float64) error {
	_, err := resilience.Execute(s.policy, func() (*models.Account, error) {
		return s.accounts.UpdateBalance(ctx, accountNumber, delta)
	})
	return err
}

// compensate refunds the already-debited source. Failure is logged and handed
// to the compensation hook; the transfer stays FAILED either way and nothing
// here retries.
func (s *TransactionService) compensate(ctx context.Context, tx *models.TransactionRecord, amount float64) {
	_, err := resilience.Execute(s.policy, func() (*models.Account, error) {
		return s.accounts.UpdateBalance(ctx, tx.SourceAccount, amount)
	})
	if err == nil {
		return
	}
	s.logger.Error("transfer compensation failed, source remains debited",
		zap.String("transactionId", tx.TransactionID),
		zap.String("sourceAccount", tx.SourceAccount),
		zap.Float64("amount", amount),
		zap.Error(err))
	if s.onComp != nil {
		s.onComp(ctx, tx, err)
	}
}

// The fallbacks terminate an operation when the account service is
// unavailable per policy: persist FAILED and return without another account
// call, bounding latency instead of piling onto a struggling dependency.

func (s *TransactionService) depositFallback(ctx context.Context, tx *models.TransactionRecord, cause error) (*models.TransactionRecord, error) {
	s.logger.Warn("account service unavailable, deposit failing fast",
		zap.String("transactionId", tx.TransactionID), zap.Error(cause))
	if err := s.fail(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) withdrawFallback(ctx context.Context, tx *models.TransactionRecord, cause error) (*models.TransactionRecord, error) {
	s.logger.Warn("account service unavailable, withdrawal failing fast",
		zap.String("transactionId", tx.TransactionID), zap.Error(cause))
	if err := s.fail(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) transferFallback(ctx context.Context, tx *models.TransactionRecord, cause error) (*models.TransactionRecord, error) {
	s.logger.Warn("account service unavailable, transfer failing fast",
		zap.String("transactionId", tx.TransactionID), zap.Error(cause))
	if err := s.fail(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// record stamps and persists the current state of tx.
func (s *TransactionService) record(tx *models.TransactionRecord) error {
	tx.Timestamp = time.Now().UTC()
	return s.store.Save(tx)
}

func (s *TransactionService) succeed(ctx context.Context, tx *models.TransactionRecord) error {
	return s.finish(ctx, tx, models.StatusSuccess)
}

func (s *TransactionService) fail(ctx context.Context, tx *models.TransactionRecord) error {
	return s.finish(ctx, tx, models.StatusFailed)
}

func (s *TransactionService) finish(ctx context.Context, tx *models.TransactionRecord, status string) error {
	tx.Status = status
	if err := s.record(tx); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(ctx, transactionKey(tx.TransactionID), tx)
	}
	return nil
}

func (s *TransactionService) notify(ctx context.Context, event client.NotificationEvent) {
	if err := s.notifier.Send(ctx, event); err != nil {
		s.logger.Warn("notification send failed",
			zap.String("transactionId", event.TransactionID), zap.Error(err))
	}
}

func transactionKey(transactionID string) string {
	return "transaction:" + transactionID
}
