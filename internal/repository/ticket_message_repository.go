package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sparksupport/helpdesk/internal/domain"
)

// TicketMessageRepository manages ticket thread messages. Threads are
// append-only; there are no update or delete operations.
type TicketMessageRepository interface {
	Create(ctx context.Context, msg *domain.TicketMessage) error
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository builds repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

func (r *ticketMessageRepository) Create(ctx context.Context, msg *domain.TicketMessage) error {
	const query = `
        INSERT INTO ticket_messages (ticket_id, sender_id, body, attachment_urls, is_internal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.SenderID,
		msg.Body,
		msg.AttachmentURLs,
		msg.IsInternal,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// ListByTicket returns the thread in append order. The internal-note filter
// lives here so no read path can hand internal notes to a customer by
// accident.
func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error) {
	query := `
        SELECT id, ticket_id, sender_id, body, attachment_urls, is_internal, created_at
        FROM ticket_messages WHERE ticket_id=$1`
	if !includeInternal {
		query += ` AND is_internal = FALSE`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.Body,
			&msg.AttachmentURLs,
			&msg.IsInternal,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
