package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Content   string    `json:"content" validate:"required_without=ImageURL,max=2000"`
	Type      string    `json:"type" validate:"omitempty,oneof=text image broadcast"`
	ImageURL  *string   `json:"image_url" validate:"omitempty,url"`
	// CorrelationId ties the stored row back to the sender's optimistic
	// placeholder; opaque to the server beyond echoing it on the change feed.
	CorrelationId string `json:"correlation_id" validate:"omitempty,max=64"`
}

type ChatMessageResponse struct {
	Id            uuid.UUID                 `json:"id"`
	SessionId     uuid.UUID                 `json:"session_id"`
	SenderId      uuid.UUID                 `json:"sender_id"`
	SenderName    string                    `json:"sender_name"`
	SenderAvatar  *string                   `json:"sender_avatar,omitempty"`
	Content       string                    `json:"content"`
	Type          string                    `json:"type"`
	ImageURL      *string                   `json:"image_url,omitempty"`
	IsFlagged     bool                      `json:"is_flagged"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     *time.Time                `json:"updated_at,omitempty"`
	CorrelationId string                    `json:"correlation_id,omitempty"`
	Reactions     []MessageReactionResponse `json:"reactions,omitempty"`
}

type ListMessagesRequest struct {
	SessionId uuid.UUID `query:"session_id" validate:"required"`
	Limit     int       `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset    int       `query:"offset" validate:"omitempty,min=0"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

type MessageReactionResponse struct {
	Id        uuid.UUID `json:"id"`
	MessageId uuid.UUID `json:"message_id"`
	UserId    uuid.UUID `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}
