package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/banking/internal/account/repository"
	"github.com/harborbank/banking/shared/middleware"
	"github.com/harborbank/banking/shared/models"
)

// AccountManager defines the operations exposed over HTTP.
type AccountManager interface {
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, accountNumber string) (*models.Account, error)
	ApplyDelta(ctx context.Context, accountNumber string, delta float64) (*models.Account, error)
	SetStatus(ctx context.Context, accountNumber string, active bool) (*models.Account, error)
}

type AccountHandler struct {
	accounts AccountManager
}

func NewAccountHandler(accounts AccountManager) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type CreateAccountRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	HolderName    string  `json:"holderName" validate:"required"`
	Balance       float64 `json:"balance" validate:"gte=0"`
}

// BalanceUpdateRequest carries a signed delta: positive credits, negative
// debits.
type BalanceUpdateRequest struct {
	Amount float64 `json:"amount" validate:"required"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.accounts.CreateAccount(c.Request.Context(), &models.Account{
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		Balance:       req.Balance,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			middleware.RespondWithError(c, http.StatusConflict, "Account already exists")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	account, err := h.accounts.GetAccount(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	var req BalanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.accounts.ApplyDelta(c.Request.Context(), accountNumber, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case errors.Is(err, repository.ErrInactive):
			middleware.RespondWithError(c, http.StatusConflict, "Account is inactive")
		case errors.Is(err, repository.ErrInsufficientFunds):
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update balance")
		}
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Query parameter 'active' must be true or false")
		return
	}

	account, err := h.accounts.SetStatus(c.Request.Context(), accountNumber, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account status")
		return
	}
	c.JSON(http.StatusOK, account)
}
