package model

import (
	"time"

	"github.com/google/uuid"
)

// PackMember is append-only history: leaving flips status to inactive and
// stamps LeftAt, rows are never hard-deleted. At most one active row per
// (user, location) pair, enforced by a partial unique index.
type PackMember struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index:idx_pack_members_user_location,priority:1;uniqueIndex:uniq_pack_members_active,priority:1,where:status = 'active'"`
	LocationId uuid.UUID `gorm:"type:uuid;not null;index:idx_pack_members_user_location,priority:2;uniqueIndex:uniq_pack_members_active,priority:2,where:status = 'active'"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active';index"`

	TableLabel *string `gorm:"type:varchar(50)"`

	// Display profile snapshot
	DisplayName   string  `gorm:"type:varchar(100)"`
	Emoji         string  `gorm:"type:varchar(16)"`
	AvatarURL     *string `gorm:"type:text"`
	Bio           string  `gorm:"type:text"`
	Vibe          string  `gorm:"type:varchar(200)"`
	FavoriteDrink string  `gorm:"type:varchar(100)"`
	SocialHandle  string  `gorm:"type:varchar(100)"`

	JoinedAt       time.Time  `gorm:"not null;autoCreateTime"`
	LeftAt         *time.Time
	LastActivityAt time.Time `gorm:"not null;autoCreateTime"`
}

func (PackMember) TableName() string {
	return "pack_members"
}
