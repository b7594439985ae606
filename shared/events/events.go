package events

import "time"

// Event types.
const (
	AccountCreated       = "account.created"
	AccountStatusChanged = "account.status.changed"
	BalanceUpdated       = "balance.updated"
)

// Stream names.
const (
	AccountEventsStream = "account.events"
)

// Event is the envelope written to the stream.
type Event struct {
	Type          string    `json:"type"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Data          any       `json:"data"`
}

type AccountCreatedEvent struct {
	AccountNumber string  `json:"accountNumber"`
	HolderName    string  `json:"holderName"`
	Balance       float64 `json:"balance"`
}

type AccountStatusChangedEvent struct {
	AccountNumber string `json:"accountNumber"`
	Active        bool   `json:"active"`
}

type BalanceUpdatedEvent struct {
	AccountNumber string  `json:"accountNumber"`
	Delta         float64 `json:"delta"`
	Balance       float64 `json:"balance"`
}
