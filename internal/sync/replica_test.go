package sync

import (
	"testing"
	"time"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func msgAt(sessionId, senderId uuid.UUID, content string, at time.Time) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:          uuid.New(),
		SessionId:   sessionId,
		SenderId:    senderId,
		Content:     content,
		MessageType: entity.MessageTypeText,
		CreatedAt:   at,
	}
}

func TestReplicaMessagesOrderedByCreatedAt(t *testing.T) {
	r := NewReplica()
	sessionId := uuid.New()
	sender := uuid.New()
	base := time.Now()

	// Insert out of order.
	second := msgAt(sessionId, sender, "second", base.Add(2*time.Second))
	first := msgAt(sessionId, sender, "first", base.Add(1*time.Second))
	third := msgAt(sessionId, sender, "third", base.Add(3*time.Second))

	r.Apply(MessageInserted(uuid.New(), second, ""))
	r.Apply(MessageInserted(uuid.New(), third, ""))
	r.Apply(MessageInserted(uuid.New(), first, ""))

	snap := r.Snapshot(nil)
	assert.Len(t, snap.Messages, 3)
	assert.Equal(t, "first", snap.Messages[0].Content)
	assert.Equal(t, "second", snap.Messages[1].Content)
	assert.Equal(t, "third", snap.Messages[2].Content)
}

func TestReplicaDuplicateInsertIsNoOp(t *testing.T) {
	r := NewReplica()
	locationId := uuid.New()
	m := msgAt(uuid.New(), uuid.New(), "hello", time.Now())

	r.Apply(MessageInserted(locationId, m, ""))
	// Same row arriving again, e.g. echoed back via the event bridge.
	r.Apply(MessageInserted(locationId, m, ""))

	assert.Equal(t, 1, r.MessageCount())
}

func TestReplicaOptimisticConfirmReplacesPlaceholder(t *testing.T) {
	r := NewReplica()
	sessionId := uuid.New()
	sender := uuid.New()
	correlationId := uuid.NewString()

	draft := msgAt(sessionId, sender, "optimistic", time.Now())
	r.AddOptimistic(draft, correlationId)
	assert.True(t, r.HasPending(correlationId))
	assert.Equal(t, 1, r.MessageCount())

	// The stored row has a different id than the placeholder.
	stored := msgAt(sessionId, sender, "optimistic", draft.CreatedAt)
	r.Apply(MessageInserted(uuid.New(), stored, correlationId))

	assert.False(t, r.HasPending(correlationId))
	assert.Equal(t, 1, r.MessageCount())

	snap := r.Snapshot(nil)
	assert.Equal(t, stored.Id, snap.Messages[0].Id)
}

func TestReplicaRollbackRemovesOnlyPlaceholder(t *testing.T) {
	r := NewReplica()
	sessionId := uuid.New()
	sender := uuid.New()

	confirmed := msgAt(sessionId, sender, "kept", time.Now())
	r.Apply(MessageInserted(uuid.New(), confirmed, ""))

	correlationId := uuid.NewString()
	draft := msgAt(sessionId, sender, "doomed", time.Now())
	r.AddOptimistic(draft, correlationId)
	assert.Equal(t, 2, r.MessageCount())

	r.Rollback(correlationId)

	assert.Equal(t, 1, r.MessageCount())
	assert.False(t, r.HasPending(correlationId))
	snap := r.Snapshot(nil)
	assert.Equal(t, "kept", snap.Messages[0].Content)

	// Rolling back twice is harmless.
	r.Rollback(correlationId)
	assert.Equal(t, 1, r.MessageCount())
}

func TestReplicaDeleteUnknownTargetIsNoOp(t *testing.T) {
	r := NewReplica()
	locationId := uuid.New()

	m := msgAt(uuid.New(), uuid.New(), "survivor", time.Now())
	r.Apply(MessageInserted(locationId, m, ""))

	r.Apply(Change{
		Kind:       ChangeDelete,
		Entity:     EntityMessage,
		LocationId: locationId,
		TargetId:   uuid.New(),
		OccurredAt: time.Now(),
	})
	r.Apply(MemberDeleted(locationId, uuid.New()))
	r.Apply(ReactionDeleted(locationId, uuid.New()))

	assert.Equal(t, 1, r.MessageCount())
}

func TestReplicaUpdateLastWriteWins(t *testing.T) {
	r := NewReplica()
	locationId := uuid.New()

	m := msgAt(uuid.New(), uuid.New(), "original", time.Now())
	r.Apply(MessageInserted(locationId, m, ""))

	flagged := *m
	flagged.IsFlagged = true
	r.Apply(MessageUpdated(locationId, &flagged))

	snap := r.Snapshot(nil)
	assert.Len(t, snap.Messages, 1)
	assert.True(t, snap.Messages[0].IsFlagged)

	// Update for an unknown id changes nothing.
	ghost := msgAt(uuid.New(), uuid.New(), "ghost", time.Now())
	r.Apply(MessageUpdated(locationId, ghost))
	assert.Equal(t, 1, r.MessageCount())
}

func TestReplicaSnapshotSuppressesBlockedSenders(t *testing.T) {
	r := NewReplica()
	locationId := uuid.New()
	sessionId := uuid.New()
	friendly := uuid.New()
	blocked := uuid.New()

	visible := msgAt(sessionId, friendly, "hi", time.Now())
	hidden := msgAt(sessionId, blocked, "hidden", time.Now())
	r.Apply(MessageInserted(locationId, visible, ""))
	r.Apply(MessageInserted(locationId, hidden, ""))

	// A reaction hanging off the hidden message disappears with it.
	r.Apply(ReactionInserted(locationId, &entity.MessageReaction{
		Id:        uuid.New(),
		MessageId: hidden.Id,
		UserId:    friendly,
		Emoji:     "🔥",
		CreatedAt: time.Now(),
	}))

	snap := r.Snapshot(map[uuid.UUID]bool{blocked: true})
	assert.Len(t, snap.Messages, 1)
	assert.Equal(t, "hi", snap.Messages[0].Content)
	assert.Empty(t, snap.Reactions)

	// Without a block set both come back.
	full := r.Snapshot(nil)
	assert.Len(t, full.Messages, 2)
	assert.Len(t, full.Reactions, 1)
}

func TestReplicaResetDropsPendingEntries(t *testing.T) {
	r := NewReplica()
	sessionId := uuid.New()
	correlationId := uuid.NewString()

	r.AddOptimistic(msgAt(sessionId, uuid.New(), "pending", time.Now()), correlationId)

	authoritative := msgAt(sessionId, uuid.New(), "stored", time.Now())
	r.Reset(nil, []*entity.ChatMessage{authoritative}, nil, nil)

	assert.False(t, r.HasPending(correlationId))
	assert.Equal(t, 1, r.MessageCount())
	snap := r.Snapshot(nil)
	assert.Equal(t, "stored", snap.Messages[0].Content)
}
