package mapper

import (
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:          u.Id,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		IsVip:       u.IsVip,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		IsDeleted:   u.DeletedAt.Valid,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:          u.Id,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		IsVip:       u.IsVip,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func (m *UserMapper) TokenToEntity(t *model.DeviceToken) *entity.DeviceToken {
	if t == nil {
		return nil
	}
	return &entity.DeviceToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		Platform:  t.Platform,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}

func (m *UserMapper) TokenToModel(t *entity.DeviceToken) *model.DeviceToken {
	if t == nil {
		return nil
	}
	return &model.DeviceToken{
		Id:        t.Id,
		UserId:    t.UserId,
		Token:     t.Token,
		Platform:  t.Platform,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}
