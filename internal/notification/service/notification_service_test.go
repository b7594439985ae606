package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborbank/banking/shared/events"
	"github.com/harborbank/banking/shared/models"
)

type mockNotificationStore struct {
	created   []models.Notification
	createErr error
}

func (m *mockNotificationStore) Create(_ context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *n)
	return nil
}

func (m *mockNotificationStore) FindByAccountNumber(_ context.Context, accountNumber string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.created {
		if n.AccountNumber == accountNumber {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestProcessWithAmount(t *testing.T) {
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, zap.NewNop())

	n := svc.Process(context.Background(), map[string]any{
		"transactionId": "TXN-0A1B2C3D",
		"type":          "DEPOSIT",
		"amount":        200.0,
		"accountNumber": "ACC100",
	})

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "TXN-0A1B2C3D", n.TransactionID)
	assert.Equal(t, "DEPOSIT", n.Type)
	assert.Equal(t, "ACC100", n.AccountNumber)
	assert.Equal(t, "DEPOSIT of amount 200 processed for account ACC100 (txn=TXN-0A1B2C3D)", n.Message)

	require.Len(t, store.created, 1)
	assert.Equal(t, n.ID, store.created[0].ID)
}

func TestProcessWithoutAmount(t *testing.T) {
	svc := NewNotificationService(&mockNotificationStore{}, zap.NewNop())

	n := svc.Process(context.Background(), map[string]any{
		"transactionId": "TXN-0A1B2C3D",
		"type":          "TRANSFER",
		"sourceAccount": "SRC1",
	})

	assert.Equal(t, "SRC1", n.AccountNumber, "sourceAccount is the fallback account field")
	assert.Equal(t, "TRANSFER notification for account SRC1 (txn=TXN-0A1B2C3D)", n.Message)
}

func TestProcessDefaultsToInfo(t *testing.T) {
	svc := NewNotificationService(&mockNotificationStore{}, zap.NewNop())

	n := svc.Process(context.Background(), map[string]any{"accountNumber": "ACC100"})
	assert.Equal(t, models.TypeInfo, n.Type)
}

func TestProcessPersistenceFailureIsSwallowed(t *testing.T) {
	store := &mockNotificationStore{createErr: errors.New("db down")}
	svc := NewNotificationService(store, zap.NewNop())

	n := svc.Process(context.Background(), map[string]any{
		"transactionId": "TXN-0A1B2C3D",
		"type":          "DEPOSIT",
		"accountNumber": "ACC100",
	})

	assert.NotNil(t, n, "notification delivery is best-effort, persistence failure must not surface")
}

func TestHandleAccountEventBalanceUpdated(t *testing.T) {
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, zap.NewNop())

	// event data arrives as a generic map after the JSON round-trip
	err := svc.HandleAccountEvent(context.Background(), events.Event{
		Type: events.BalanceUpdated,
		Data: map[string]any{"accountNumber": "ACC100", "delta": 50.0, "balance": 150.0},
	})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.TypeInfo, store.created[0].Type)
	assert.Equal(t, "ACC100", store.created[0].AccountNumber)
	assert.Contains(t, store.created[0].Message, "50")
}

func TestHandleAccountEventIgnoresUnknownTypes(t *testing.T) {
	store := &mockNotificationStore{}
	svc := NewNotificationService(store, zap.NewNop())

	err := svc.HandleAccountEvent(context.Background(), events.Event{
		Type: "account.archived",
		Data: map[string]any{"accountNumber": "ACC100"},
	})

	require.NoError(t, err)
	assert.Empty(t, store.created)
}

func TestHandleAccountEventBadShape(t *testing.T) {
	svc := NewNotificationService(&mockNotificationStore{}, zap.NewNop())

	err := svc.HandleAccountEvent(context.Background(), events.Event{
		Type: events.BalanceUpdated,
		Data: "not a map",
	})
	assert.Error(t, err)
}
