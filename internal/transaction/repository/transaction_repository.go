package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harborbank/banking/shared/models"
)

var ErrNotFound = errors.New("transaction not found")

// TransactionRepository persists transaction records in PostgreSQL. Save is
// an upsert keyed by transaction id: the orchestrator writes each record at
// least twice, once as PENDING and once in its terminal state.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(record *models.TransactionRecord) error {
	query := `
		INSERT INTO transactions (transaction_id, type, amount, source_account, destination_account, status, timestamp)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		ON CONFLICT (transaction_id)
		DO UPDATE SET status = EXCLUDED.status, timestamp = EXCLUDED.timestamp
	`
	_, err := r.db.Exec(query,
		record.TransactionID, record.Type, record.Amount,
		record.SourceAccount, record.DestinationAccount,
		record.Status, record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByTransactionID(transactionID string) (*models.TransactionRecord, error) {
	query := `
		SELECT transaction_id, type, amount, COALESCE(source_account, ''), COALESCE(destination_account, ''), status, timestamp
		FROM transactions
		WHERE transaction_id = $1
	`
	var record models.TransactionRecord
	err := r.db.QueryRow(query, transactionID).Scan(
		&record.TransactionID, &record.Type, &record.Amount,
		&record.SourceAccount, &record.DestinationAccount,
		&record.Status, &record.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &record, nil
}

func (r *TransactionRepository) FindBySourceAccount(accountNumber string) ([]models.TransactionRecord, error) {
	return r.findByAccountColumn("source_account", accountNumber)
}

func (r *TransactionRepository) FindByDestinationAccount(accountNumber string) ([]models.TransactionRecord, error) {
	return r.findByAccountColumn("destination_account", accountNumber)
}

func (r *TransactionRepository) findByAccountColumn(column, accountNumber string) ([]models.TransactionRecord, error) {
	query := fmt.Sprintf(`
		SELECT transaction_id, type, amount, COALESCE(source_account, ''), COALESCE(destination_account, ''), status, timestamp
		FROM transactions
		WHERE %s = $1
		ORDER BY timestamp DESC
	`, column)

	rows, err := r.db.Query(query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []models.TransactionRecord
	for rows.Next() {
		var record models.TransactionRecord
		if err := rows.Scan(
			&record.TransactionID, &record.Type, &record.Amount,
			&record.SourceAccount, &record.DestinationAccount,
			&record.Status, &record.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return records, nil
}
