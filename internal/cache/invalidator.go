// Package cache signals read-view staleness after mutations. The core does
// not cache anything itself; it deletes the affected keys and publishes an
// invalidation notice so data-fetching clients can refetch.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sparksupport/helpdesk/internal/events"
)

// Read-view keys the service maintains.
const (
	ViewTicketList   = "tickets:list"
	ViewCategoryList = "categories:list"
	ViewStaffList    = "staff:list"
)

// ViewTicket is the read-view key for a single ticket.
func ViewTicket(ticketID string) string {
	return "ticket:" + ticketID
}

// Invalidator listens for domain events and marks the dependent read views
// stale in Redis.
type Invalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewInvalidator creates the invalidator.
func NewInvalidator(client *redis.Client, channel string, logger *zap.Logger) *Invalidator {
	return &Invalidator{client: client, channel: channel, logger: logger}
}

// RegisterHandlers subscribes to every mutating event.
func (i *Invalidator) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, i.handleTicketEvent)
	dispatcher.Subscribe(events.EventTicketStatusChanged, i.handleTicketEvent)
	dispatcher.Subscribe(events.EventTicketAssigned, i.handleTicketEvent)
	dispatcher.Subscribe(events.EventTicketMessageAdded, i.handleTicketEvent)
	dispatcher.Subscribe(events.EventCategoryChanged, i.handleCategoryEvent)
	dispatcher.Subscribe(events.EventStaffChanged, i.handleStaffEvent)
}

func (i *Invalidator) handleTicketEvent(ctx context.Context, event events.Event) error {
	views := []string{ViewTicketList}
	if id := ticketIDFromPayload(event.Payload); id != "" {
		views = append(views, ViewTicket(id))
	}
	return i.Invalidate(ctx, views...)
}

func (i *Invalidator) handleCategoryEvent(ctx context.Context, _ events.Event) error {
	return i.Invalidate(ctx, ViewCategoryList)
}

func (i *Invalidator) handleStaffEvent(ctx context.Context, _ events.Event) error {
	return i.Invalidate(ctx, ViewStaffList)
}

// Invalidate deletes the view keys and publishes each on the invalidation
// channel. Failures are logged, never propagated; a cold cache is not an
// error.
func (i *Invalidator) Invalidate(ctx context.Context, views ...string) error {
	if i == nil || i.client == nil || len(views) == 0 {
		return nil
	}
	if err := i.client.Del(ctx, views...).Err(); err != nil {
		i.logger.Warn("cache invalidation delete failed", zap.Strings("views", views), zap.Error(err))
	}
	for _, view := range views {
		if err := i.client.Publish(ctx, i.channel, view).Err(); err != nil {
			i.logger.Warn("cache invalidation publish failed", zap.String("view", view), zap.Error(err))
		}
	}
	return nil
}

func ticketIDFromPayload(payload interface{}) string {
	switch p := payload.(type) {
	case events.TicketCreatedPayload:
		return p.TicketID
	case events.TicketStatusChangedPayload:
		return p.TicketID
	case events.TicketAssignedPayload:
		return p.TicketID
	case events.TicketMessageAddedPayload:
		return p.TicketID
	}
	return ""
}
