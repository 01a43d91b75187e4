package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageTypeText      = "text"
	MessageTypeImage     = "image"
	MessageTypeBroadcast = "broadcast"
)

type ChatSession struct {
	Id         uuid.UUID
	LocationId uuid.UUID
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

type ChatMessage struct {
	Id           uuid.UUID
	SessionId    uuid.UUID
	SenderId     uuid.UUID
	SenderName   string
	SenderAvatar *string
	Content      string
	MessageType  string
	ImageURL     *string
	IsFlagged    bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type MessageReaction struct {
	Id        uuid.UUID
	MessageId uuid.UUID
	UserId    uuid.UUID
	Emoji     string
	CreatedAt time.Time
}
