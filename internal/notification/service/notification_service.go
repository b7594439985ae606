package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborbank/banking/shared/events"
	"github.com/harborbank/banking/shared/models"
)

// NotificationStore persists processed notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByAccountNumber(ctx context.Context, accountNumber string) ([]models.Notification, error)
}

// NotificationService turns free-form payloads from other services into
// persisted, human-readable notifications. Delivery here means "recorded and
// logged"; persistence failures are logged and swallowed since notifications
// are best-effort by contract.
type NotificationService struct {
	repo   NotificationStore
	logger *zap.Logger
}

func NewNotificationService(repo NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Process accepts a payload with at least transactionId, type and
// accountNumber (or sourceAccount, for transfers), plus an optional amount.
func (s *NotificationService) Process(ctx context.Context, payload map[string]any) *models.Notification {
	transactionID := stringField(payload, "transactionId")
	notifType := stringField(payload, "type")
	if notifType == "" {
		notifType = models.TypeInfo
	}
	accountNumber := stringField(payload, "accountNumber")
	if accountNumber == "" {
		accountNumber = stringField(payload, "sourceAccount")
	}

	var message string
	if amount, ok := payload["amount"]; ok && amount != nil {
		message = fmt.Sprintf("%s of amount %v processed for account %s (txn=%s)",
			notifType, amount, accountNumber, transactionID)
	} else {
		message = fmt.Sprintf("%s notification for account %s (txn=%s)",
			notifType, accountNumber, transactionID)
	}

	n := &models.Notification{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Type:          notifType,
		Message:       message,
		AccountNumber: accountNumber,
		Timestamp:     time.Now().UTC(),
	}

	s.logger.Info("notification",
		zap.String("id", n.ID),
		zap.String("message", message))

	if s.repo != nil {
		if err := s.repo.Create(ctx, n); err != nil {
			s.logger.Error("failed to persist notification", zap.String("id", n.ID), zap.Error(err))
		}
	}
	return n
}

// ListByAccount returns notifications recorded against an account.
func (s *NotificationService) ListByAccount(ctx context.Context, accountNumber string) ([]models.Notification, error) {
	return s.repo.FindByAccountNumber(ctx, accountNumber)
}

// HandleAccountEvent is the stream consumer entrypoint: account lifecycle
// events become INFO notifications alongside the synchronous transaction
// notifications arriving over HTTP.
func (s *NotificationService) HandleAccountEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Data.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected event data shape for %s", event.Type)
	}

	payload := map[string]any{
		"type":          models.TypeInfo,
		"accountNumber": data["accountNumber"],
	}
	switch event.Type {
	case events.BalanceUpdated:
		payload["amount"] = data["delta"]
	case events.AccountCreated, events.AccountStatusChanged:
		// account metadata only, no amount
	default:
		s.logger.Debug("ignoring account event", zap.String("type", event.Type))
		return nil
	}
	if payload["accountNumber"] == nil {
		return fmt.Errorf("account event %s missing accountNumber", event.Type)
	}

	s.Process(ctx, payload)
	return nil
}

func stringField(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return str
}
