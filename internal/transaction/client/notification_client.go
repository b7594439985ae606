package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harborbank/banking/shared/correlation"
)

// NotificationEvent is the fire-and-forget payload sent after a successful
// transaction. Deposit and withdraw populate AccountNumber; transfer
// populates both SourceAccount and DestinationAccount.
type NotificationEvent struct {
	TransactionID      string  `json:"transactionId"`
	Type               string  `json:"type"`
	Amount             float64 `json:"amount,omitempty"`
	AccountNumber      string  `json:"accountNumber,omitempty"`
	SourceAccount      string  `json:"sourceAccount,omitempty"`
	DestinationAccount string  `json:"destinationAccount,omitempty"`
}

// NotificationClient calls the notification service over HTTP. Failures are
// never fatal to the caller.
type NotificationClient struct {
	baseURL string
	http    *http.Client
}

func NewNotificationClient(baseURL string) *NotificationClient {
	return &NotificationClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *NotificationClient) Send(ctx context.Context, event NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := c.baseURL + "/api/notifications/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := correlation.FromContext(ctx); id != "" {
		req.Header.Set(correlation.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned %d", resp.StatusCode)
	}
	return nil
}
