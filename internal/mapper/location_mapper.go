package mapper

import (
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"
)

type LocationMapper struct{}

func NewLocationMapper() *LocationMapper {
	return &LocationMapper{}
}

func (m *LocationMapper) ToEntity(l *model.Location) *entity.Location {
	if l == nil {
		return nil
	}
	return &entity.Location{
		Id:           l.Id,
		Name:         l.Name,
		Address:      l.Address,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
	}
}

func (m *LocationMapper) ToModel(l *entity.Location) *model.Location {
	if l == nil {
		return nil
	}
	return &model.Location{
		Id:           l.Id,
		Name:         l.Name,
		Address:      l.Address,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
	}
}

func (m *LocationMapper) ToEntities(rows []*model.Location) []*entity.Location {
	entities := make([]*entity.Location, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
