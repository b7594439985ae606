package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harborbank/banking/shared/models"
)

// Business failures surfaced by delta application. The account service is the
// single place these rules live; callers upstream only see the mapped HTTP
// status.
var (
	ErrNotFound          = errors.New("account not found")
	ErrInactive          = errors.New("account is inactive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicate         = errors.New("account already exists")
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (account_number, holder_name, balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.AccountNumber, account.HolderName, account.Balance,
		account.Active, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Exists(ctx context.Context, accountNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `
		SELECT account_number, holder_name, balance, active, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.AccountNumber, &account.HolderName, &account.Balance,
		&account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// ApplyDelta adds a signed delta to the balance inside a transaction, locking
// the row so concurrent updates to the same account serialize here. The
// resulting balance may never go negative and the account must be active.
func (r *AccountRepository) ApplyDelta(ctx context.Context, accountNumber string, delta float64) (*models.Account, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT account_number, holder_name, balance, active, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE
	`
	var account models.Account
	err = tx.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.AccountNumber, &account.HolderName, &account.Balance,
		&account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	if !account.Active {
		return nil, ErrInactive
	}
	newBalance := account.Balance + delta
	if newBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	update := `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE account_number = $1`
	if _, err := tx.ExecContext(ctx, update, accountNumber, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit balance update: %w", err)
	}

	account.Balance = newBalance
	return &account, nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, accountNumber string, active bool) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET active = $2, updated_at = NOW()
		WHERE account_number = $1
		RETURNING account_number, holder_name, balance, active, created_at, updated_at
	`
	var account models.Account
	err := r.db.QueryRowContext(ctx, query, accountNumber, active).Scan(
		&account.AccountNumber, &account.HolderName, &account.Balance,
		&account.Active, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}
	return &account, nil
}
