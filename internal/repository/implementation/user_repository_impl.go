package implementation

import (
	"context"
	"errors"
	"time"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/mapper"
	"wolfpack-be/internal/model"
	"wolfpack-be/internal/repository/contract"
	"wolfpack-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var models []*model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.User, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	return r.db.WithContext(ctx).Save(m).Error
}

type DeviceTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewDeviceTokenRepository(db *gorm.DB) contract.DeviceTokenRepository {
	return &DeviceTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *DeviceTokenRepositoryImpl) Upsert(ctx context.Context, token *entity.DeviceToken) error {
	m := r.mapper.TokenToModel(token)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "is_active", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*token = *r.mapper.TokenToEntity(m)
	return nil
}

func (r *DeviceTokenRepositoryImpl) FindActiveByUserIDs(ctx context.Context, userIds []uuid.UUID) ([]*entity.DeviceToken, error) {
	var models []*model.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ?", userIds, true).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.DeviceToken, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TokenToEntity(m)
	}
	return entities, nil
}

func (r *DeviceTokenRepositoryImpl) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("token IN ?", tokens).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}
