package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id          uuid.UUID
	Email       string
	DisplayName string
	Role        string
	Status      string
	IsVip       bool
	AvatarURL   *string
	CreatedAt   time.Time
	IsDeleted   bool
}

func (u *User) IsBanned() bool {
	return u.Status == "banned"
}

type DeviceToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	Platform  string
	IsActive  bool
	CreatedAt time.Time
}
