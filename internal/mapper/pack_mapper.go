package mapper

import (
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"
)

type PackMapper struct{}

func NewPackMapper() *PackMapper {
	return &PackMapper{}
}

func (m *PackMapper) MemberToEntity(r *model.PackMember) *entity.PackMember {
	if r == nil {
		return nil
	}

	return &entity.PackMember{
		Id:         r.Id,
		UserId:     r.UserId,
		LocationId: r.LocationId,
		Status:     r.Status,
		TableLabel: r.TableLabel,
		Profile: entity.MemberProfile{
			DisplayName:   r.DisplayName,
			Emoji:         r.Emoji,
			AvatarURL:     r.AvatarURL,
			Bio:           r.Bio,
			Vibe:          r.Vibe,
			FavoriteDrink: r.FavoriteDrink,
			SocialHandle:  r.SocialHandle,
		},
		JoinedAt:       r.JoinedAt,
		LeftAt:         r.LeftAt,
		LastActivityAt: r.LastActivityAt,
	}
}

func (m *PackMapper) MemberToModel(e *entity.PackMember) *model.PackMember {
	if e == nil {
		return nil
	}

	return &model.PackMember{
		Id:             e.Id,
		UserId:         e.UserId,
		LocationId:     e.LocationId,
		Status:         e.Status,
		TableLabel:     e.TableLabel,
		DisplayName:    e.Profile.DisplayName,
		Emoji:          e.Profile.Emoji,
		AvatarURL:      e.Profile.AvatarURL,
		Bio:            e.Profile.Bio,
		Vibe:           e.Profile.Vibe,
		FavoriteDrink:  e.Profile.FavoriteDrink,
		SocialHandle:   e.Profile.SocialHandle,
		JoinedAt:       e.JoinedAt,
		LeftAt:         e.LeftAt,
		LastActivityAt: e.LastActivityAt,
	}
}

func (m *PackMapper) MembersToEntities(rows []*model.PackMember) []*entity.PackMember {
	entities := make([]*entity.PackMember, len(rows))
	for i, r := range rows {
		entities[i] = m.MemberToEntity(r)
	}
	return entities
}
