package sync

import (
	"sort"

	"wolfpack-be/internal/entity"

	"github.com/google/uuid"
)

// Replica is the reconciled in-memory view of one scope: pack members,
// session messages, reactions and venue events. It is owned by a single
// synchronizer goroutine; all methods assume single-writer access and
// Snapshot hands out copies.
type Replica struct {
	members   map[uuid.UUID]*entity.PackMember
	messages  []*replicaMessage
	reactions map[uuid.UUID]*entity.MessageReaction
	events    map[uuid.UUID]*entity.PackEvent

	// byCorrelation tracks optimistic placeholders awaiting confirmation,
	// keyed by correlation id.
	byCorrelation map[string]uuid.UUID
}

type replicaMessage struct {
	msg           *entity.ChatMessage
	correlationId string
	pending       bool
}

func NewReplica() *Replica {
	return &Replica{
		members:       make(map[uuid.UUID]*entity.PackMember),
		reactions:     make(map[uuid.UUID]*entity.MessageReaction),
		events:        make(map[uuid.UUID]*entity.PackEvent),
		byCorrelation: make(map[string]uuid.UUID),
	}
}

// Reset replaces the replica contents with a freshly fetched snapshot.
// Pending optimistic entries are dropped: after a reconnect the authoritative
// rows either include them (the write landed) or the caller already saw the
// send fail.
func (r *Replica) Reset(members []*entity.PackMember, messages []*entity.ChatMessage, reactions []*entity.MessageReaction, events []*entity.PackEvent) {
	r.members = make(map[uuid.UUID]*entity.PackMember, len(members))
	for _, m := range members {
		cp := *m
		r.members[m.Id] = &cp
	}

	r.messages = r.messages[:0]
	for _, msg := range messages {
		cp := *msg
		r.messages = append(r.messages, &replicaMessage{msg: &cp})
	}
	sortMessages(r.messages)

	r.reactions = make(map[uuid.UUID]*entity.MessageReaction, len(reactions))
	for _, re := range reactions {
		cp := *re
		r.reactions[re.Id] = &cp
	}

	r.events = make(map[uuid.UUID]*entity.PackEvent, len(events))
	for _, e := range events {
		cp := *e
		r.events[e.Id] = &cp
	}

	r.byCorrelation = make(map[string]uuid.UUID)
}

func sortMessages(msgs []*replicaMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].msg.CreatedAt.Before(msgs[j].msg.CreatedAt)
	})
}

func (r *Replica) findMessage(id uuid.UUID) int {
	for i, m := range r.messages {
		if m.msg.Id == id {
			return i
		}
	}
	return -1
}

func (r *Replica) removeMessageAt(i int) {
	r.messages = append(r.messages[:i], r.messages[i+1:]...)
}

// Apply folds one change event into the replica. Unknown targets on UPDATE
// and DELETE are no-ops; duplicate INSERTs (same id, or same correlation id
// as an already confirmed row) are dropped.
func (r *Replica) Apply(change Change) {
	switch change.Entity {
	case EntityMember:
		r.applyMember(change)
	case EntityMessage:
		r.applyMessage(change)
	case EntityReaction:
		r.applyReaction(change)
	case EntityEvent:
		r.applyEvent(change)
	}
}

func (r *Replica) applyMember(change Change) {
	switch change.Kind {
	case ChangeInsert, ChangeUpdate:
		if change.Member == nil {
			return
		}
		cp := *change.Member
		r.members[cp.Id] = &cp
	case ChangeDelete:
		delete(r.members, change.TargetId)
	}
}

func (r *Replica) applyMessage(change Change) {
	switch change.Kind {
	case ChangeInsert:
		if change.Message == nil {
			return
		}
		if r.findMessage(change.Message.Id) >= 0 {
			return
		}
		// A confirmed row for an optimistic send replaces exactly the
		// placeholder carrying its correlation id.
		if change.CorrelationId != "" {
			if tempId, ok := r.byCorrelation[change.CorrelationId]; ok {
				if i := r.findMessage(tempId); i >= 0 {
					r.removeMessageAt(i)
				}
				delete(r.byCorrelation, change.CorrelationId)
			}
		}
		cp := *change.Message
		r.messages = append(r.messages, &replicaMessage{msg: &cp, correlationId: change.CorrelationId})
		sortMessages(r.messages)

	case ChangeUpdate:
		if change.Message == nil {
			return
		}
		// Last write wins by arrival order.
		if i := r.findMessage(change.Message.Id); i >= 0 {
			cp := *change.Message
			r.messages[i].msg = &cp
		}

	case ChangeDelete:
		if i := r.findMessage(change.TargetId); i >= 0 {
			r.removeMessageAt(i)
		}
	}
}

func (r *Replica) applyReaction(change Change) {
	switch change.Kind {
	case ChangeInsert:
		if change.Reaction == nil {
			return
		}
		cp := *change.Reaction
		r.reactions[cp.Id] = &cp
	case ChangeDelete:
		delete(r.reactions, change.TargetId)
	}
}

func (r *Replica) applyEvent(change Change) {
	switch change.Kind {
	case ChangeInsert, ChangeUpdate:
		if change.Event == nil {
			return
		}
		cp := *change.Event
		r.events[cp.Id] = &cp
	case ChangeDelete:
		delete(r.events, change.TargetId)
	}
}

// AddOptimistic inserts a pending placeholder for a local send. The message
// keeps its temp id until Confirm swaps in the stored row.
func (r *Replica) AddOptimistic(msg *entity.ChatMessage, correlationId string) {
	cp := *msg
	r.messages = append(r.messages, &replicaMessage{
		msg:           &cp,
		correlationId: correlationId,
		pending:       true,
	})
	sortMessages(r.messages)
	r.byCorrelation[correlationId] = cp.Id
}

// Rollback removes exactly the placeholder for correlationId. Confirmed
// entries are never touched.
func (r *Replica) Rollback(correlationId string) {
	tempId, ok := r.byCorrelation[correlationId]
	if !ok {
		return
	}
	if i := r.findMessage(tempId); i >= 0 && r.messages[i].pending {
		r.removeMessageAt(i)
	}
	delete(r.byCorrelation, correlationId)
}

// HasPending reports whether an optimistic entry is still awaiting its
// confirmed row.
func (r *Replica) HasPending(correlationId string) bool {
	_, ok := r.byCorrelation[correlationId]
	return ok
}

// Snapshot is a copied view of the replica, optionally filtered for a
// viewer: messages to or from users the viewer has an active block with are
// suppressed.
type Snapshot struct {
	Members   []entity.PackMember
	Messages  []entity.ChatMessage
	Reactions []entity.MessageReaction
	Events    []entity.PackEvent
}

func (r *Replica) Snapshot(blocked map[uuid.UUID]bool) Snapshot {
	snap := Snapshot{
		Members:   make([]entity.PackMember, 0, len(r.members)),
		Messages:  make([]entity.ChatMessage, 0, len(r.messages)),
		Reactions: make([]entity.MessageReaction, 0, len(r.reactions)),
		Events:    make([]entity.PackEvent, 0, len(r.events)),
	}

	for _, m := range r.members {
		snap.Members = append(snap.Members, *m)
	}
	sort.Slice(snap.Members, func(i, j int) bool {
		return snap.Members[i].JoinedAt.Before(snap.Members[j].JoinedAt)
	})

	visible := make(map[uuid.UUID]bool, len(r.messages))
	for _, m := range r.messages {
		if blocked != nil && blocked[m.msg.SenderId] {
			continue
		}
		snap.Messages = append(snap.Messages, *m.msg)
		visible[m.msg.Id] = true
	}

	for _, re := range r.reactions {
		if !visible[re.MessageId] {
			continue
		}
		snap.Reactions = append(snap.Reactions, *re)
	}
	sort.Slice(snap.Reactions, func(i, j int) bool {
		return snap.Reactions[i].CreatedAt.Before(snap.Reactions[j].CreatedAt)
	})

	for _, e := range r.events {
		snap.Events = append(snap.Events, *e)
	}
	sort.Slice(snap.Events, func(i, j int) bool {
		return snap.Events[i].CreatedAt.Before(snap.Events[j].CreatedAt)
	})

	return snap
}

// MessageCount reports confirmed plus pending messages currently held.
func (r *Replica) MessageCount() int {
	return len(r.messages)
}
