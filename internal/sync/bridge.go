package sync

import (
	"context"

	"wolfpack-be/internal/pkg/logger"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/pkg/events"
	pktNats "wolfpack-be/pkg/nats"

	"github.com/google/uuid"
)

// Bridge replays domain events from NATS onto the local change feed so
// synchronizers on every instance converge. Events originating on this
// instance come back around too; the replica dedupes by row id, so the
// second application is a no-op.
type Bridge struct {
	subscriber *pktNats.Subscriber
	feed       *Feed
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewBridge(sub *pktNats.Subscriber, feed *Feed, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Bridge {
	return &Bridge{
		subscriber: sub,
		feed:       feed,
		uowFactory: uowFactory,
		logger:     log,
	}
}

// Start subscribes with a per-instance durable consumer.
func (b *Bridge) Start(instanceId string) error {
	return b.subscriber.Subscribe("events.>", "sync-bridge-"+instanceId, b.handle)
}

func (b *Bridge) handle(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeMemberJoined, events.TypeProfileUpdated:
		memberId, ok := parseId(payload, "member_id")
		if !ok {
			return nil
		}
		uow := b.uowFactory.NewUnitOfWork(ctx)
		member, err := uow.PackMemberRepository().FindOne(ctx, specification.ByID{ID: memberId})
		if err != nil {
			return err
		}
		if member == nil {
			return nil
		}
		return b.feed.Publish(ctx, MemberUpdated(member))

	case events.TypeMemberLeft:
		memberId, ok := parseId(payload, "member_id")
		if !ok {
			return nil
		}
		locationId, _ := parseId(payload, "location_id")
		return b.feed.Publish(ctx, MemberDeleted(locationId, memberId))

	case events.TypeMessageSent, events.TypeMessageDeleted, events.TypeMessageFlagged:
		messageId, ok := parseId(payload, "message_id")
		if !ok {
			return nil
		}
		uow := b.uowFactory.NewUnitOfWork(ctx)
		msg, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
		if err != nil {
			return err
		}
		if msg == nil {
			return nil
		}
		locationId := b.locationForSession(ctx, msg.SessionId)
		if event.EventType() == events.TypeMessageSent {
			correlationId, _ := payload["correlation_id"].(string)
			return b.feed.Publish(ctx, MessageInserted(locationId, msg, correlationId))
		}
		if msg.IsDeleted {
			return b.feed.Publish(ctx, Change{
				Kind:       ChangeDelete,
				Entity:     EntityMessage,
				LocationId: locationId,
				SessionId:  msg.SessionId,
				TargetId:   msg.Id,
				OccurredAt: event.Timestamp(),
			})
		}
		return b.feed.Publish(ctx, MessageUpdated(locationId, msg))
	}

	// Reactions, winks, blocks and broadcasts are fed locally by the
	// services; the notification worker handles their user-facing side.
	return nil
}

func (b *Bridge) locationForSession(ctx context.Context, sessionId uuid.UUID) uuid.UUID {
	uow := b.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil || session == nil {
		return uuid.Nil
	}
	return session.LocationId
}

func parseId(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
