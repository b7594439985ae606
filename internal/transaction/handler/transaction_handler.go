package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborbank/banking/internal/transaction/repository"
	"github.com/harborbank/banking/shared/middleware"
	"github.com/harborbank/banking/shared/models"
	"github.com/harborbank/banking/shared/utils"
)

// TransactionOrchestrator defines the operations exposed over HTTP. Business
// failures come back inside the record's Status; a non-nil error means the
// operation could not be recorded at all.
type TransactionOrchestrator interface {
	Deposit(ctx context.Context, accountNumber string, amount float64) (*models.TransactionRecord, error)
	Withdraw(ctx context.Context, accountNumber string, amount float64) (*models.TransactionRecord, error)
	Transfer(ctx context.Context, sourceAccount, destinationAccount string, amount float64) (*models.TransactionRecord, error)
	GetTransaction(ctx context.Context, transactionID string) (*models.TransactionRecord, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]models.TransactionRecord, error)
}

type TransactionHandler struct {
	orchestrator TransactionOrchestrator
}

func NewTransactionHandler(orchestrator TransactionOrchestrator) *TransactionHandler {
	return &TransactionHandler{orchestrator: orchestrator}
}

type DepositRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
}

type WithdrawRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
}

type TransferRequest struct {
	SourceAccount      string  `json:"sourceAccount" validate:"required"`
	DestinationAccount string  `json:"destinationAccount" validate:"required"`
	Amount             float64 `json:"amount" validate:"required"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionRecord `json:"transactions"`
}

func (h *TransactionHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	tx, err := h.orchestrator.Deposit(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	tx, err := h.orchestrator.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	tx, err := h.orchestrator.Transfer(c.Request.Context(), req.SourceAccount, req.DestinationAccount, req.Amount)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to record transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID := c.Param("transactionId")
	if !utils.ValidateTransactionID(transactionID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	tx, err := h.orchestrator.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	accountNumber := c.Param("accountNumber")

	records, err := h.orchestrator.ListByAccount(c.Request.Context(), accountNumber)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list transactions")
		return
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: records})
}
