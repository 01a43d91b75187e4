package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes published on the bus. The notification service keys its
// type registry off these, and the synchronizer maps them onto replica
// change events.
const (
	TypeMemberJoined    = "MEMBER_JOINED"
	TypeMemberLeft      = "MEMBER_LEFT"
	TypeProfileUpdated  = "PROFILE_UPDATED"
	TypeMessageSent     = "MESSAGE_SENT"
	TypeMessageDeleted  = "MESSAGE_DELETED"
	TypeMessageFlagged  = "MESSAGE_FLAGGED"
	TypeReactionAdded   = "REACTION_ADDED"
	TypeReactionRemoved = "REACTION_REMOVED"
	TypeWinkSent        = "WINK_SENT"
	TypeUserBlocked     = "USER_BLOCKED"
	TypePackBroadcast   = "PACK_BROADCAST"
)

func newEvent(eventType string, data map[string]interface{}) Event {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func MemberJoined(memberId, userId, locationId uuid.UUID, displayName string) Event {
	return newEvent(TypeMemberJoined, map[string]interface{}{
		"member_id":    memberId.String(),
		"user_id":      userId.String(),
		"location_id":  locationId.String(),
		"display_name": displayName,
	})
}

func MemberLeft(memberId, userId, locationId uuid.UUID) Event {
	return newEvent(TypeMemberLeft, map[string]interface{}{
		"member_id":   memberId.String(),
		"user_id":     userId.String(),
		"location_id": locationId.String(),
	})
}

func ProfileUpdated(memberId, userId, locationId uuid.UUID) Event {
	return newEvent(TypeProfileUpdated, map[string]interface{}{
		"member_id":   memberId.String(),
		"user_id":     userId.String(),
		"location_id": locationId.String(),
	})
}

func MessageSent(messageId, sessionId, senderId uuid.UUID, correlationId string) Event {
	return newEvent(TypeMessageSent, map[string]interface{}{
		"message_id":     messageId.String(),
		"session_id":     sessionId.String(),
		"sender_id":      senderId.String(),
		"correlation_id": correlationId,
	})
}

func MessageDeleted(messageId, sessionId uuid.UUID) Event {
	return newEvent(TypeMessageDeleted, map[string]interface{}{
		"message_id": messageId.String(),
		"session_id": sessionId.String(),
	})
}

func MessageFlagged(messageId, sessionId uuid.UUID) Event {
	return newEvent(TypeMessageFlagged, map[string]interface{}{
		"message_id": messageId.String(),
		"session_id": sessionId.String(),
	})
}

func ReactionAdded(messageId, sessionId, userId uuid.UUID, emoji string) Event {
	return newEvent(TypeReactionAdded, map[string]interface{}{
		"message_id": messageId.String(),
		"session_id": sessionId.String(),
		"user_id":    userId.String(),
		"emoji":      emoji,
	})
}

func ReactionRemoved(messageId, sessionId, userId uuid.UUID, emoji string) Event {
	return newEvent(TypeReactionRemoved, map[string]interface{}{
		"message_id": messageId.String(),
		"session_id": sessionId.String(),
		"user_id":    userId.String(),
		"emoji":      emoji,
	})
}

func WinkSent(senderId, receiverId, locationId uuid.UUID, senderName string) Event {
	return newEvent(TypeWinkSent, map[string]interface{}{
		"user_id":     receiverId.String(),
		"actor_id":    senderId.String(),
		"location_id": locationId.String(),
		"sender_name": senderName,
	})
}

func UserBlocked(senderId, receiverId, locationId uuid.UUID) Event {
	return newEvent(TypeUserBlocked, map[string]interface{}{
		"actor_id":    senderId.String(),
		"user_id":     receiverId.String(),
		"location_id": locationId.String(),
	})
}

func PackBroadcast(locationId, createdBy uuid.UUID, title, body string) Event {
	return newEvent(TypePackBroadcast, map[string]interface{}{
		"location_id": locationId.String(),
		"actor_id":    createdBy.String(),
		"title":       title,
		"body":        body,
	})
}
