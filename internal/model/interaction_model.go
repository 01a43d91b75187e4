package model

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is a directed social action (wink, block) scoped to a location.
// An active block suppresses chat visibility between the pair.
type Interaction struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SenderId   uuid.UUID `gorm:"type:uuid;not null;index:idx_interactions_pair,priority:1"`
	ReceiverId uuid.UUID `gorm:"type:uuid;not null;index:idx_interactions_pair,priority:2"`
	LocationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(20);not null"` // wink | block
	Status     string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Interaction) TableName() string {
	return "interactions"
}

// PackEvent is an announcement or DJ broadcast tied to a location.
type PackEvent struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LocationId uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Body       string    `gorm:"type:text"`
	EventType  string    `gorm:"type:varchar(50);not null;default:'announcement'"`
	StartsAt   *time.Time
	EndsAt     *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (PackEvent) TableName() string {
	return "pack_events"
}
