package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/harborbank/banking/shared/correlation"
	"github.com/harborbank/banking/shared/models"
)

// Failures reported by the account service. The orchestrator treats them all
// uniformly as "this leg of the transaction did not happen"; the distinction
// only matters for logging.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInactiveAccount   = errors.New("account is inactive")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountClient calls the account service over HTTP.
type AccountClient struct {
	baseURL string
	http    *http.Client
}

func NewAccountClient(baseURL string) *AccountClient {
	return &AccountClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetAccount fetches an account snapshot.
func (c *AccountClient) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	url := fmt.Sprintf("%s/api/accounts/%s", c.baseURL, accountNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// UpdateBalance applies a signed delta to the account balance. A negative
// delta debits, a positive delta credits.
func (c *AccountClient) UpdateBalance(ctx context.Context, accountNumber string, delta float64) (*models.Account, error) {
	body, err := json.Marshal(map[string]float64{"amount": delta})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance update: %w", err)
	}

	url := fmt.Sprintf("%s/api/accounts/%s/balance", c.baseURL, accountNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *AccountClient) do(req *http.Request) (*models.Account, error) {
	if id := correlation.FromContext(req.Context()); id != "" {
		req.Header.Set(correlation.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("account service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}

	var account models.Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode account response: %w", err)
	}
	return &account, nil
}

func classifyStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrAccountNotFound
	case http.StatusConflict:
		return ErrInactiveAccount
	case http.StatusUnprocessableEntity:
		return ErrInsufficientFunds
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("account service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
