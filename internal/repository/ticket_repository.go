package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sparksupport/helpdesk/internal/domain"
)

// UnassignedSentinel is the AssigneeID filter value meaning "explicitly
// unassigned". It is distinct from a nil filter, which means "no restriction".
const UnassignedSentinel = ""

// TicketFilter captures list query parameters. Nil fields apply no
// restriction.
type TicketFilter struct {
	CustomerID *string
	CategoryID *string
	AssigneeID *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Search     *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	CreateWithMessage(ctx context.Context, ticket *domain.Ticket, first *domain.TicketMessage) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Touch(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetWithRelations(ctx context.Context, id string) (*domain.TicketWithRelations, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRelations, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// CreateWithMessage inserts the ticket and its synthesized first thread
// message in one transaction, so a ticket never exists without its thread.
func (r *ticketRepository) CreateWithMessage(ctx context.Context, ticket *domain.Ticket, first *domain.TicketMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const ticketQuery = `
        INSERT INTO tickets (customer_id, assigned_staff_id, category_id, priority, subject, description, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, ticketQuery,
		ticket.CustomerID,
		ticket.AssigneeID,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	first.TicketID = ticket.ID
	const messageQuery = `
        INSERT INTO ticket_messages (ticket_id, sender_id, body, attachment_urls, is_internal)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, messageQuery,
		first.TicketID,
		first.SenderID,
		first.Body,
		first.AttachmentURLs,
		first.IsInternal,
	).Scan(&first.ID, &first.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET assigned_staff_id=$1, category_id=$2, priority=$3, status=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	if err := r.pool.QueryRow(ctx, query,
		ticket.AssigneeID,
		ticket.CategoryID,
		ticket.Priority,
		ticket.Status,
		ticket.ID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return err
	}
	return nil
}

// Touch refreshes updated_at, used when the thread changes.
func (r *ticketRepository) Touch(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, customer_id, assigned_staff_id, category_id, priority, subject, description, status, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.AssigneeID,
		&ticket.CategoryID,
		&ticket.Priority,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

const relationColumns = `
        t.id, t.customer_id, t.assigned_staff_id, t.category_id, t.priority, t.subject, t.description, t.status, t.created_at, t.updated_at,
        cu.name, cu.email, cu.phone, cu.role, cu.department,
        a.name, a.email, a.phone, a.role, a.department,
        c.name, c.description`

const relationJoins = `
        FROM tickets t
        JOIN users cu ON cu.id = t.customer_id
        LEFT JOIN users a ON a.id = t.assigned_staff_id
        JOIN categories c ON c.id = t.category_id`

func (r *ticketRepository) GetWithRelations(ctx context.Context, id string) (*domain.TicketWithRelations, error) {
	query := `SELECT` + relationColumns + relationJoins + ` WHERE t.id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicketWithRelations(row)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.TicketWithRelations, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("t.customer_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("t.category_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		if *filter.AssigneeID == UnassignedSentinel {
			clauses = append(clauses, "t.assigned_staff_id IS NULL")
		} else {
			args = append(args, *filter.AssigneeID)
			clauses = append(clauses, fmt.Sprintf("t.assigned_staff_id=$%d", len(args)))
		}
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(t.subject) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.id::text) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT%s%s WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		relationColumns, relationJoins, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketWithRelations
	for rows.Next() {
		item, err := scanTicketWithRelations(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func scanTicketWithRelations(row pgx.Row) (*domain.TicketWithRelations, error) {
	var item domain.TicketWithRelations
	customer := domain.User{}
	category := domain.Category{}
	var assigneeName, assigneeEmail, assigneePhone, assigneeDepartment *string
	var assigneeRole *domain.Role

	if err := row.Scan(
		&item.ID,
		&item.CustomerID,
		&item.AssigneeID,
		&item.CategoryID,
		&item.Priority,
		&item.Subject,
		&item.Description,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Role,
		&customer.Department,
		&assigneeName,
		&assigneeEmail,
		&assigneePhone,
		&assigneeRole,
		&assigneeDepartment,
		&category.Name,
		&category.Description,
	); err != nil {
		return nil, err
	}

	customer.ID = item.CustomerID
	category.ID = item.CategoryID
	item.Customer = &customer
	item.Category = &category
	if item.AssigneeID != nil && assigneeName != nil && assigneeEmail != nil && assigneeRole != nil {
		item.Assignee = &domain.User{
			ID:         *item.AssigneeID,
			Name:       *assigneeName,
			Email:      *assigneeEmail,
			Phone:      assigneePhone,
			Role:       *assigneeRole,
			Department: assigneeDepartment,
		}
	}
	return &item, nil
}
