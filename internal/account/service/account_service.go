package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/harborbank/banking/internal/account/repository"
	"github.com/harborbank/banking/shared/events"
	"github.com/harborbank/banking/shared/models"
	sharedredis "github.com/harborbank/banking/shared/redis"
)

// AccountStore is the persistence surface used by AccountService.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	Exists(ctx context.Context, accountNumber string) (bool, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	ApplyDelta(ctx context.Context, accountNumber string, delta float64) (*models.Account, error)
	UpdateStatus(ctx context.Context, accountNumber string, active bool) (*models.Account, error)
}

// EventPublisher publishes domain events. Publish failures never fail the
// triggering operation.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type AccountService struct {
	repo      AccountStore
	publisher EventPublisher
	cache     *sharedredis.ViewCache[models.Account]
	logger    *zap.Logger
}

func NewAccountService(
	repo AccountStore,
	publisher EventPublisher,
	cache *sharedredis.ViewCache[models.Account],
	logger *zap.Logger,
) *AccountService {
	return &AccountService{repo: repo, publisher: publisher, cache: cache, logger: logger}
}

func (s *AccountService) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	exists, err := s.repo.Exists(ctx, account.AccountNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicate
	}

	now := time.Now().UTC()
	account.Active = true
	account.CreatedAt = now
	account.UpdatedAt = now
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, account)
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		AccountNumber: account.AccountNumber,
		HolderName:    account.HolderName,
		Balance:       account.Balance,
	})
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, accountKey(accountNumber)); ok {
			return cached, nil
		}
	}
	account, err := s.repo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	s.cacheAccount(ctx, account)
	return account, nil
}

// ApplyDelta credits (positive) or debits (negative) the account.
func (s *AccountService) ApplyDelta(ctx context.Context, accountNumber string, delta float64) (*models.Account, error) {
	account, err := s.repo.ApplyDelta(ctx, accountNumber, delta)
	if err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, account)
	s.publish(ctx, events.BalanceUpdated, events.BalanceUpdatedEvent{
		AccountNumber: account.AccountNumber,
		Delta:         delta,
		Balance:       account.Balance,
	})
	return account, nil
}

func (s *AccountService) SetStatus(ctx context.Context, accountNumber string, active bool) (*models.Account, error) {
	account, err := s.repo.UpdateStatus(ctx, accountNumber, active)
	if err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, account)
	s.publish(ctx, events.AccountStatusChanged, events.AccountStatusChangedEvent{
		AccountNumber: account.AccountNumber,
		Active:        account.Active,
	})
	return account, nil
}

func (s *AccountService) cacheAccount(ctx context.Context, account *models.Account) {
	if s.cache != nil {
		s.cache.Set(ctx, accountKey(account.AccountNumber), account)
	}
}

func (s *AccountService) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		s.logger.Warn("failed to publish account event",
			zap.String("type", eventType), zap.Error(err))
	}
}

func accountKey(accountNumber string) string {
	return "account:" + accountNumber
}
