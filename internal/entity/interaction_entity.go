package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	InteractionTypeWink  = "wink"
	InteractionTypeBlock = "block"

	InteractionStatusActive  = "active"
	InteractionStatusRevoked = "revoked"
)

type Interaction struct {
	Id         uuid.UUID
	SenderId   uuid.UUID
	ReceiverId uuid.UUID
	LocationId uuid.UUID
	Type       string
	Status     string
	CreatedAt  time.Time
}

func (i *Interaction) IsActiveBlock() bool {
	return i.Type == InteractionTypeBlock && i.Status == InteractionStatusActive
}

type PackEvent struct {
	Id         uuid.UUID
	LocationId uuid.UUID
	CreatedBy  uuid.UUID
	Title      string
	Body       string
	EventType  string
	StartsAt   *time.Time
	EndsAt     *time.Time
	CreatedAt  time.Time
}
