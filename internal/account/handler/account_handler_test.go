package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/banking/internal/account/repository"
	"github.com/harborbank/banking/shared/models"
)

// ---- mock implementation ----

type mockAccountManager struct {
	createFn func(ctx context.Context, account *models.Account) (*models.Account, error)
	getFn    func(ctx context.Context, accountNumber string) (*models.Account, error)
	deltaFn  func(ctx context.Context, accountNumber string, delta float64) (*models.Account, error)
	statusFn func(ctx context.Context, accountNumber string, active bool) (*models.Account, error)
}

func (m *mockAccountManager) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountManager) GetAccount(ctx context.Context, accountNumber string) (*models.Account, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountNumber)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountManager) ApplyDelta(ctx context.Context, accountNumber string, delta float64) (*models.Account, error) {
	if m.deltaFn != nil {
		return m.deltaFn(ctx, accountNumber, delta)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccountManager) SetStatus(ctx context.Context, accountNumber string, active bool) (*models.Account, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, accountNumber, active)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newAccountTestRouter(mgr AccountManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAccountHandler(mgr)
	api := r.Group("/api/accounts")
	api.POST("", h.CreateAccount)
	api.GET("/:accountNumber", h.GetAccount)
	api.PUT("/:accountNumber/balance", h.UpdateBalance)
	api.PUT("/:accountNumber/status", h.UpdateStatus)
	return r
}

func accDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var testAccount = &models.Account{
	AccountNumber: "ACC1001",
	HolderName:    "Ada Lovelace",
	Balance:       500.0,
	Active:        true,
}

// ---- tests ----

func TestCreateAccountEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		createFn       func(ctx context.Context, account *models.Account) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]interface{}{"accountNumber": "ACC1001", "holderName": "Ada Lovelace", "balance": 500.0},
			createFn: func(_ context.Context, a *models.Account) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate",
			body: map[string]interface{}{"accountNumber": "ACC1001", "holderName": "Ada Lovelace"},
			createFn: func(context.Context, *models.Account) (*models.Account, error) {
				return nil, repository.ErrDuplicate
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing holder name",
			body:           map[string]interface{}{"accountNumber": "ACC1001"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative opening balance",
			body:           map[string]interface{}{"accountNumber": "ACC1001", "holderName": "Ada Lovelace", "balance": -1.0},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountManager{createFn: tt.createFn})
			w := accDoRequest(router, http.MethodPost, "/api/accounts", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetAccountEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		getFn          func(ctx context.Context, accountNumber string) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "found",
			getFn: func(context.Context, string) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			getFn: func(context.Context, string) (*models.Account, error) {
				return nil, repository.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountManager{getFn: tt.getFn})
			w := accDoRequest(router, http.MethodGet, "/api/accounts/ACC1001", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestUpdateBalanceEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		deltaFn        func(ctx context.Context, accountNumber string, delta float64) (*models.Account, error)
		expectedStatus int
	}{
		{
			name: "credit",
			body: map[string]interface{}{"amount": 100.0},
			deltaFn: func(_ context.Context, acc string, delta float64) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "debit",
			body: map[string]interface{}{"amount": -100.0},
			deltaFn: func(_ context.Context, acc string, delta float64) (*models.Account, error) {
				return testAccount, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			body: map[string]interface{}{"amount": 100.0},
			deltaFn: func(context.Context, string, float64) (*models.Account, error) {
				return nil, repository.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "inactive",
			body: map[string]interface{}{"amount": 100.0},
			deltaFn: func(context.Context, string, float64) (*models.Account, error) {
				return nil, repository.ErrInactive
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "insufficient funds",
			body: map[string]interface{}{"amount": -1000.0},
			deltaFn: func(context.Context, string, float64) (*models.Account, error) {
				return nil, repository.ErrInsufficientFunds
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing amount",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountManager{deltaFn: tt.deltaFn})
			w := accDoRequest(router, http.MethodPut, "/api/accounts/ACC1001/balance", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		statusFn       func(ctx context.Context, accountNumber string, active bool) (*models.Account, error)
		expectedStatus int
	}{
		{
			name:  "deactivate",
			query: "?active=false",
			statusFn: func(_ context.Context, acc string, active bool) (*models.Account, error) {
				a := *testAccount
				a.Active = active
				return &a, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "not found",
			query: "?active=true",
			statusFn: func(context.Context, string, bool) (*models.Account, error) {
				return nil, repository.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAccountTestRouter(&mockAccountManager{statusFn: tt.statusFn})
			w := accDoRequest(router, http.MethodPut, "/api/accounts/ACC1001/status"+tt.query, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
