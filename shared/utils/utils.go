package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewTransactionID generates a transaction id of the form TXN-3F2A9B1C:
// the first eight hex characters of a UUID, uppercased.
func NewTransactionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(raw[:8])
}

// NewCorrelationID generates a correlation id for request tracing.
func NewCorrelationID() string {
	return uuid.NewString()
}

// ValidateTransactionID checks the transaction id format produced by
// NewTransactionID.
func ValidateTransactionID(id string) bool {
	if !strings.HasPrefix(id, "TXN-") || len(id) != 12 {
		return false
	}
	for _, c := range id[4:] {
		if !strings.ContainsRune("0123456789ABCDEF", c) {
			return false
		}
	}
	return true
}
