package models

import "time"

// Transaction types.
const (
	TypeDeposit  = "DEPOSIT"
	TypeWithdraw = "WITHDRAW"
	TypeTransfer = "TRANSFER"
	TypeInfo     = "INFO"
)

// Transaction statuses. A record starts PENDING and transitions exactly once
// to SUCCESS or FAILED; terminal records are never mutated again.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

type Account struct {
	AccountNumber string    `json:"accountNumber"`
	HolderName    string    `json:"holderName"`
	Balance       float64   `json:"balance"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// TransactionRecord is the write model for a single orchestrated transaction.
// Amount is stored as supplied by the caller; the delta sent to the account
// service is always signed off the absolute value, so direction comes from
// Type and which account field is populated, never from the sign of Amount.
type TransactionRecord struct {
	TransactionID      string    `json:"transactionId"`
	Type               string    `json:"type"`
	Amount             float64   `json:"amount"`
	SourceAccount      string    `json:"sourceAccount,omitempty"`
	DestinationAccount string    `json:"destinationAccount,omitempty"`
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
}

// Terminal reports whether the record has reached SUCCESS or FAILED.
func (t *TransactionRecord) Terminal() bool {
	return t.Status == StatusSuccess || t.Status == StatusFailed
}

type Notification struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId,omitempty"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
