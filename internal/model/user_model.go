package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email       string         `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string         `gorm:"type:varchar(255);not null"`
	Role        string         `gorm:"type:varchar(50);not null;default:'user'"`
	Status      string         `gorm:"type:varchar(50);not null;default:'active'"`
	IsVip       bool           `gorm:"default:false"`
	AvatarURL   *string        `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type DeviceToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:text;not null;uniqueIndex"`
	Platform  string    `gorm:"type:varchar(20);not null;default:'web'"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DeviceToken) TableName() string {
	return "device_tokens"
}
