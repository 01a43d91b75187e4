package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name       string         `gorm:"type:varchar(255);not null"`
	IsActive   bool           `gorm:"default:true"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage rows are soft-deleted only; flagged messages keep their content
// immutable from that point on.
type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_session_created,priority:1"`
	SenderId  uuid.UUID `gorm:"type:uuid;not null;index"`

	// Sender snapshot at send time, so history survives profile edits.
	SenderName   string  `gorm:"type:varchar(100);not null"`
	SenderAvatar *string `gorm:"type:text"`

	Content     string  `gorm:"type:text;not null"`
	MessageType string  `gorm:"type:varchar(20);not null;default:'text'"`
	ImageURL    *string `gorm:"type:text"`

	IsFlagged bool `gorm:"default:false"`
	IsDeleted bool `gorm:"default:false;index"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_messages_session_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type MessageReaction struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MessageId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_message_reactions,priority:1"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_message_reactions,priority:2"`
	Emoji     string    `gorm:"type:varchar(16);not null;uniqueIndex:uniq_message_reactions,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
