package sync

import (
	"time"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
)

// ChangeKind mirrors the row-level operations arriving from the change feed.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// ChangeEntity names the replica collection a change applies to.
type ChangeEntity string

const (
	EntityMember   ChangeEntity = "member"
	EntityMessage  ChangeEntity = "message"
	EntityReaction ChangeEntity = "reaction"
	EntityEvent    ChangeEntity = "event"
)

// Change is one row-level mutation flowing through the feed. Exactly one of
// the payload pointers is set, matching Entity. CorrelationId ties an
// inserted message back to the sender's optimistic placeholder.
type Change struct {
	Kind          ChangeKind   `json:"kind"`
	Entity        ChangeEntity `json:"entity"`
	LocationId    uuid.UUID    `json:"location_id"`
	SessionId     uuid.UUID    `json:"session_id,omitempty"`
	TargetId      uuid.UUID    `json:"target_id"`
	CorrelationId string       `json:"correlation_id,omitempty"`
	OccurredAt    time.Time    `json:"occurred_at"`

	Member   *entity.PackMember      `json:"member,omitempty"`
	Message  *entity.ChatMessage     `json:"message,omitempty"`
	Reaction *entity.MessageReaction `json:"reaction,omitempty"`
	Event    *entity.PackEvent       `json:"event,omitempty"`
}

func MemberInserted(m *entity.PackMember) Change {
	return Change{
		Kind:       ChangeInsert,
		Entity:     EntityMember,
		LocationId: m.LocationId,
		TargetId:   m.Id,
		OccurredAt: time.Now(),
		Member:     m,
	}
}

func MemberUpdated(m *entity.PackMember) Change {
	return Change{
		Kind:       ChangeUpdate,
		Entity:     EntityMember,
		LocationId: m.LocationId,
		TargetId:   m.Id,
		OccurredAt: time.Now(),
		Member:     m,
	}
}

func MemberDeleted(locationId, memberId uuid.UUID) Change {
	return Change{
		Kind:       ChangeDelete,
		Entity:     EntityMember,
		LocationId: locationId,
		TargetId:   memberId,
		OccurredAt: time.Now(),
	}
}

func MessageInserted(locationId uuid.UUID, msg *entity.ChatMessage, correlationId string) Change {
	return Change{
		Kind:          ChangeInsert,
		Entity:        EntityMessage,
		LocationId:    locationId,
		SessionId:     msg.SessionId,
		TargetId:      msg.Id,
		CorrelationId: correlationId,
		OccurredAt:    time.Now(),
		Message:       msg,
	}
}

func MessageUpdated(locationId uuid.UUID, msg *entity.ChatMessage) Change {
	return Change{
		Kind:       ChangeUpdate,
		Entity:     EntityMessage,
		LocationId: locationId,
		SessionId:  msg.SessionId,
		TargetId:   msg.Id,
		OccurredAt: time.Now(),
		Message:    msg,
	}
}

func ReactionInserted(locationId uuid.UUID, r *entity.MessageReaction) Change {
	return Change{
		Kind:       ChangeInsert,
		Entity:     EntityReaction,
		LocationId: locationId,
		TargetId:   r.Id,
		OccurredAt: time.Now(),
		Reaction:   r,
	}
}

func ReactionDeleted(locationId, reactionId uuid.UUID) Change {
	return Change{
		Kind:       ChangeDelete,
		Entity:     EntityReaction,
		LocationId: locationId,
		TargetId:   reactionId,
		OccurredAt: time.Now(),
	}
}

func EventInserted(e *entity.PackEvent) Change {
	return Change{
		Kind:       ChangeInsert,
		Entity:     EntityEvent,
		LocationId: e.LocationId,
		TargetId:   e.Id,
		OccurredAt: time.Now(),
		Event:      e,
	}
}
