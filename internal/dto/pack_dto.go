package dto

import (
	"time"

	"github.com/google/uuid"
)

type MemberProfileInput struct {
	DisplayName   string  `json:"display_name" validate:"omitempty,max=64"`
	Emoji         string  `json:"emoji" validate:"omitempty,max=16"`
	AvatarURL     *string `json:"avatar_url" validate:"omitempty,url"`
	Bio           string  `json:"bio" validate:"omitempty,max=280"`
	Vibe          string  `json:"vibe" validate:"omitempty,max=64"`
	FavoriteDrink string  `json:"favorite_drink" validate:"omitempty,max=64"`
	SocialHandle  string  `json:"social_handle" validate:"omitempty,max=64"`
}

type JoinPackRequest struct {
	LocationId uuid.UUID          `json:"location_id" validate:"required"`
	Latitude   *float64           `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64           `json:"longitude" validate:"omitempty,longitude"`
	TableLabel *string            `json:"table_label" validate:"omitempty,max=32"`
	Profile    MemberProfileInput `json:"profile"`
}

type JoinPackResponse struct {
	MemberId   uuid.UUID `json:"member_id"`
	LocationId uuid.UUID `json:"location_id"`
	Status     string    `json:"status"`
	JoinedAt   time.Time `json:"joined_at"`
}

type LeavePackRequest struct {
	MemberId uuid.UUID `json:"member_id" validate:"required"`
}

type UpdatePackProfileRequest struct {
	LocationId uuid.UUID          `json:"location_id" validate:"required"`
	Profile    MemberProfileInput `json:"profile"`
}

type CanJoinResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type PackMemberResponse struct {
	MemberId       uuid.UUID `json:"member_id"`
	UserId         uuid.UUID `json:"user_id"`
	LocationId     uuid.UUID `json:"location_id"`
	Status         string    `json:"status"`
	TableLabel     *string   `json:"table_label,omitempty"`
	DisplayName    string    `json:"display_name"`
	Emoji          string    `json:"emoji,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Vibe           string    `json:"vibe,omitempty"`
	FavoriteDrink  string    `json:"favorite_drink,omitempty"`
	SocialHandle   string    `json:"social_handle,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}
