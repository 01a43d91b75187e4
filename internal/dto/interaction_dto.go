package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInteractionRequest struct {
	ReceiverId uuid.UUID `json:"receiver_id" validate:"required"`
	LocationId uuid.UUID `json:"location_id" validate:"required"`
	Type       string    `json:"type" validate:"required,oneof=wink block"`
}

type InteractionResponse struct {
	Id         uuid.UUID `json:"id"`
	SenderId   uuid.UUID `json:"sender_id"`
	ReceiverId uuid.UUID `json:"receiver_id"`
	LocationId uuid.UUID `json:"location_id"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateBroadcastRequest struct {
	LocationId uuid.UUID `json:"location_id" validate:"required"`
	Title      string    `json:"title" validate:"required,max=128"`
	Body       string    `json:"body" validate:"required,max=1000"`
}

type BroadcastResponse struct {
	Id        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
