package mapper

import (
	"time"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) SessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:         s.Id,
		LocationId: s.LocationId,
		Name:       s.Name,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *ChatMapper) SessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ChatSession{
		Id:         s.Id,
		LocationId: s.LocationId,
		Name:       s.Name,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatMessage{
		Id:           msg.Id,
		SessionId:    msg.SessionId,
		SenderId:     msg.SenderId,
		SenderName:   msg.SenderName,
		SenderAvatar: msg.SenderAvatar,
		Content:      msg.Content,
		MessageType:  msg.MessageType,
		ImageURL:     msg.ImageURL,
		IsFlagged:    msg.IsFlagged,
		IsDeleted:    msg.IsDeleted,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	return &model.ChatMessage{
		Id:           msg.Id,
		SessionId:    msg.SessionId,
		SenderId:     msg.SenderId,
		SenderName:   msg.SenderName,
		SenderAvatar: msg.SenderAvatar,
		Content:      msg.Content,
		MessageType:  msg.MessageType,
		ImageURL:     msg.ImageURL,
		IsFlagged:    msg.IsFlagged,
		IsDeleted:    msg.IsDeleted,
		CreatedAt:    msg.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(rows []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(rows))
	for i, r := range rows {
		entities[i] = m.MessageToEntity(r)
	}
	return entities
}

// Reaction Mappers

func (m *ChatMapper) ReactionToEntity(r *model.MessageReaction) *entity.MessageReaction {
	if r == nil {
		return nil
	}
	return &entity.MessageReaction{
		Id:        r.Id,
		MessageId: r.MessageId,
		UserId:    r.UserId,
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) ReactionToModel(r *entity.MessageReaction) *model.MessageReaction {
	if r == nil {
		return nil
	}
	return &model.MessageReaction{
		Id:        r.Id,
		MessageId: r.MessageId,
		UserId:    r.UserId,
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
	}
}
