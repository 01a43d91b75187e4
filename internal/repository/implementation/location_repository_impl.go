package implementation

import (
	"context"
	"errors"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/mapper"
	"wolfpack-be/internal/model"
	"wolfpack-be/internal/repository/contract"
	"wolfpack-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LocationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LocationMapper
}

func NewLocationRepository(db *gorm.DB) contract.LocationRepository {
	return &LocationRepositoryImpl{
		db:     db,
		mapper: mapper.NewLocationMapper(),
	}
}

func (r *LocationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LocationRepositoryImpl) Create(ctx context.Context, location *entity.Location) error {
	m := r.mapper.ToModel(location)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*location = *r.mapper.ToEntity(m)
	return nil
}

func (r *LocationRepositoryImpl) Update(ctx context.Context, location *entity.Location) error {
	m := r.mapper.ToModel(location)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*location = *r.mapper.ToEntity(m)
	return nil
}

func (r *LocationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Location, error) {
	var m model.Location
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LocationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Location, error) {
	var models []*model.Location
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LocationRepositoryImpl) FindActive(ctx context.Context) ([]*entity.Location, error) {
	var models []*model.Location
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
