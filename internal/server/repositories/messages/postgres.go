package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chatrelay/internal/dbx"
	"github.com/dmitrijs2005/chatrelay/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements offline-message storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a queued message. Append-only: rows are never updated.
func (r *PostgresRepository) Append(ctx context.Context, msg *models.QueuedMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	query := `
		INSERT INTO offline_messages (id, recipient_id, sender_id, sent_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`
	res, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.RecipientID, msg.SenderID, msg.SentAt, msg.Text)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// ListOrdered returns all queued messages for recipientID, oldest first.
func (r *PostgresRepository) ListOrdered(ctx context.Context, recipientID string) ([]*models.QueuedMessage, error) {
	query := `
		SELECT id, recipient_id, sender_id, sent_at, payload FROM offline_messages
		WHERE recipient_id = $1
		ORDER BY sent_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued messages: %w", err)
	}
	defer rows.Close()

	var result []*models.QueuedMessage
	for rows.Next() {
		var item models.QueuedMessage
		if err := rows.Scan(
			&item.ID, &item.RecipientID, &item.SenderID, &item.SentAt, &item.Text,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteDrained removes exactly the rows identified by ids. The id set was
// captured at read time, so messages queued concurrently with a drain
// survive. A no-op for an empty set.
func (r *PostgresRepository) DeleteDrained(ctx context.Context, recipientID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		DELETE FROM offline_messages
		WHERE recipient_id = $1 AND id = ANY($2::uuid[])
	`
	// Array literal keeps the statement driver-agnostic; ids are uuids, so
	// no quoting is needed.
	set := "{" + strings.Join(ids, ",") + "}"
	if _, err := r.db.ExecContext(ctx, query, recipientID, set); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
