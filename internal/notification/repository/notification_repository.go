package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harborbank/banking/shared/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, transaction_id, type, message, account_number, timestamp)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.TransactionID, n.Type, n.Message, n.AccountNumber, n.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByAccountNumber(ctx context.Context, accountNumber string) ([]models.Notification, error) {
	query := `
		SELECT id, COALESCE(transaction_id, ''), type, message, COALESCE(account_number, ''), timestamp
		FROM notifications
		WHERE account_number = $1
		ORDER BY timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.TransactionID, &n.Type, &n.Message, &n.AccountNumber, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}
