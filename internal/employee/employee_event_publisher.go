package employee

import (
	"context"

	"go-garage/internal/events"
	"go-garage/internal/messaging/kafka"
)

const (
	aggregateUser = "user"
)

// EventPublisher records domain events. Events are written to the outbox
// table and relayed to Kafka by the worker process.
type EventPublisher interface {
	EmployeeProvisioned(ctx context.Context, event events.EmployeeProvisionedEvent) error
	UserOrphaned(ctx context.Context, event events.UserOrphanedEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) EmployeeProvisioned(context.Context, events.EmployeeProvisionedEvent) error {
	return nil
}

func (noopEventPublisher) UserOrphaned(context.Context, events.UserOrphanedEvent) error {
	return nil
}

type outboxEventPublisher struct {
	outbox kafka.OutboxRepository
}

func NewOutboxEventPublisher(outbox kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{outbox: outbox}
}

func (p *outboxEventPublisher) EmployeeProvisioned(ctx context.Context, event events.EmployeeProvisionedEvent) error {
	return p.store(ctx, event.RequestID, event.UserUID, event.EventType, events.EmployeeLifecycleTopic, event)
}

func (p *outboxEventPublisher) UserOrphaned(ctx context.Context, event events.UserOrphanedEvent) error {
	return p.store(ctx, event.RequestID, event.UserUID, event.EventType, events.UserOrphanedTopic, event)
}

func (p *outboxEventPublisher) store(ctx context.Context, requestID, userUID, eventType, topic string, payload any) error {
	ev, err := kafka.NewOutboxEvent(requestID, aggregateUser, userUID, eventType, topic, payload)
	if err != nil {
		return err
	}
	return p.outbox.Create(ctx, ev)
}
