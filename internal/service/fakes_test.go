package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/repository"
)

// fixture is a shared in-memory store backing the fake repositories. It
// mirrors the filter and ordering semantics of the Postgres implementations.
type fixture struct {
	users      map[string]*domain.User
	categories map[string]*domain.Category
	tickets    map[string]*domain.Ticket
	messages   []*domain.TicketMessage
	seq        int
	clock      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		users:      map[string]*domain.User{},
		categories: map[string]*domain.Category{},
		tickets:    map[string]*domain.Ticket{},
		clock:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.addUser("c1", "Alice Carter", "alice@example.com", domain.RoleCustomer)
	f.addUser("c2", "Bob Chen", "bob@example.com", domain.RoleCustomer)
	f.addUser("s1", "Sam Staff", "sam@example.com", domain.RoleStaff)
	f.addUser("a1", "Ada Admin", "ada@example.com", domain.RoleAdmin)
	f.addCategory("cat1", "Billing")
	f.addCategory("cat2", "Technical")
	return f
}

func (f *fixture) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fixture) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fixture) addUser(id, name, email string, role domain.Role) *domain.User {
	user := &domain.User{ID: id, Name: name, Email: email, Role: role, CreatedAt: f.tick()}
	user.UpdatedAt = user.CreatedAt
	f.users[id] = user
	return user
}

func (f *fixture) addCategory(id, name string) *domain.Category {
	category := &domain.Category{ID: id, Name: name, CreatedAt: f.tick()}
	category.UpdatedAt = category.CreatedAt
	f.categories[id] = category
	return category
}

func (f *fixture) addTicket(customerID, categoryID, subject string) *domain.Ticket {
	ticket := &domain.Ticket{
		ID:          f.nextID("t"),
		CustomerID:  customerID,
		CategoryID:  categoryID,
		Priority:    domain.TicketPriorityMedium,
		Subject:     subject,
		Description: subject + " description with enough detail",
		Status:      domain.TicketStatusOpen,
		CreatedAt:   f.tick(),
	}
	ticket.UpdatedAt = ticket.CreatedAt
	f.tickets[ticket.ID] = ticket
	return ticket
}

func (f *fixture) addMessage(ticketID, senderID, body string, internal bool) *domain.TicketMessage {
	msg := &domain.TicketMessage{
		ID:         f.nextID("m"),
		TicketID:   ticketID,
		SenderID:   senderID,
		Body:       body,
		IsInternal: internal,
		CreatedAt:  f.tick(),
	}
	f.messages = append(f.messages, msg)
	return msg
}

func (f *fixture) relations(ticket *domain.Ticket) *domain.TicketWithRelations {
	item := &domain.TicketWithRelations{Ticket: *ticket}
	item.Customer = f.users[ticket.CustomerID]
	item.Category = f.categories[ticket.CategoryID]
	if ticket.AssigneeID != nil {
		item.Assignee = f.users[*ticket.AssigneeID]
	}
	return item
}

type fakeUserRepo struct{ f *fixture }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.f.nextID("u")
	user.CreatedAt = r.f.tick()
	user.UpdatedAt = user.CreatedAt
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = r.f.tick()
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.f.users {
		for _, role := range roles {
			if user.Role == role {
				result = append(result, *user)
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeCategoryRepo struct{ f *fixture }

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = r.f.nextID("cat")
	category.CreatedAt = r.f.tick()
	category.UpdatedAt = category.CreatedAt
	r.f.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.f.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	category.UpdatedAt = r.f.tick()
	r.f.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.f.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.f.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	var result []domain.Category
	for _, category := range r.f.categories {
		result = append(result, *category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeCategoryRepo) CountTicketsReferencing(_ context.Context, id string) (int64, error) {
	var count int64
	for _, ticket := range r.f.tickets {
		if ticket.CategoryID == id {
			count++
		}
	}
	return count, nil
}

type fakeTicketRepo struct{ f *fixture }

func (r *fakeTicketRepo) CreateWithMessage(_ context.Context, ticket *domain.Ticket, first *domain.TicketMessage) error {
	ticket.ID = r.f.nextID("t")
	ticket.CreatedAt = r.f.tick()
	ticket.UpdatedAt = ticket.CreatedAt
	r.f.tickets[ticket.ID] = ticket

	first.ID = r.f.nextID("m")
	first.TicketID = ticket.ID
	first.CreatedAt = ticket.CreatedAt
	r.f.messages = append(r.f.messages, first)
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.f.tick()
	stored := *ticket
	r.f.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Touch(_ context.Context, id string) error {
	ticket, ok := r.f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = r.f.tick()
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetWithRelations(_ context.Context, id string) (*domain.TicketWithRelations, error) {
	ticket, ok := r.f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.f.relations(ticket), nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.TicketWithRelations, error) {
	var result []domain.TicketWithRelations
	for _, ticket := range r.f.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.CategoryID != nil && ticket.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AssigneeID != nil {
			if *filter.AssigneeID == repository.UnassignedSentinel {
				if ticket.AssigneeID != nil {
					continue
				}
			} else if ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID {
				continue
			}
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			if needle != "" &&
				!strings.Contains(strings.ToLower(ticket.Subject), needle) &&
				!strings.Contains(strings.ToLower(ticket.Description), needle) &&
				!strings.Contains(strings.ToLower(ticket.ID), needle) {
				continue
			}
		}
		result = append(result, *r.f.relations(ticket))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type fakeMessageRepo struct{ f *fixture }

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	msg.ID = r.f.nextID("m")
	msg.CreatedAt = r.f.tick()
	r.f.messages = append(r.f.messages, msg)
	return nil
}

func (r *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketMessage, error) {
	var result []domain.TicketMessage
	for _, msg := range r.f.messages {
		if msg.TicketID != ticketID {
			continue
		}
		if msg.IsInternal && !includeInternal {
			continue
		}
		result = append(result, *msg)
	}
	return result, nil
}

func newTicketService(f *fixture) *TicketService {
	return NewTicketService(TicketDependencies{
		TicketRepo:   &fakeTicketRepo{f},
		MessageRepo:  &fakeMessageRepo{f},
		CategoryRepo: &fakeCategoryRepo{f},
		UserRepo:     &fakeUserRepo{f},
	})
}
