package mapper

import (
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}
	return &entity.Interaction{
		Id:         i.Id,
		SenderId:   i.SenderId,
		ReceiverId: i.ReceiverId,
		LocationId: i.LocationId,
		Type:       i.Type,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
	}
}

func (m *InteractionMapper) ToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}
	return &model.Interaction{
		Id:         i.Id,
		SenderId:   i.SenderId,
		ReceiverId: i.ReceiverId,
		LocationId: i.LocationId,
		Type:       i.Type,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
	}
}

func (m *InteractionMapper) ToEntities(rows []*model.Interaction) []*entity.Interaction {
	entities := make([]*entity.Interaction, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *InteractionMapper) EventToEntity(e *model.PackEvent) *entity.PackEvent {
	if e == nil {
		return nil
	}
	return &entity.PackEvent{
		Id:         e.Id,
		LocationId: e.LocationId,
		CreatedBy:  e.CreatedBy,
		Title:      e.Title,
		Body:       e.Body,
		EventType:  e.EventType,
		StartsAt:   e.StartsAt,
		EndsAt:     e.EndsAt,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *InteractionMapper) EventToModel(e *entity.PackEvent) *model.PackEvent {
	if e == nil {
		return nil
	}
	return &model.PackEvent{
		Id:         e.Id,
		LocationId: e.LocationId,
		CreatedBy:  e.CreatedBy,
		Title:      e.Title,
		Body:       e.Body,
		EventType:  e.EventType,
		StartsAt:   e.StartsAt,
		EndsAt:     e.EndsAt,
		CreatedAt:  e.CreatedAt,
	}
}
