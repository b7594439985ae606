package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTransactionID()
		assert.True(t, ValidateTransactionID(id), "generated id %q must validate", id)
		assert.False(t, seen[id], "generated id %q repeated", id)
		seen[id] = true
	}
}

func TestValidateTransactionID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "TXN-3F2A9B1C", true},
		{"all digits", "TXN-01234567", true},
		{"missing prefix", "3F2A9B1C", false},
		{"lowercase hex", "TXN-3f2a9b1c", false},
		{"too short", "TXN-3F2A", false},
		{"too long", "TXN-3F2A9B1C00", false},
		{"non-hex", "TXN-3F2A9B1G", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateTransactionID(tt.id))
		})
	}
}

func TestNewCorrelationID(t *testing.T) {
	a := NewCorrelationID()
	b := NewCorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
