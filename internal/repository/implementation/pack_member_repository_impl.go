package implementation

import (
	"context"
	"errors"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/mapper"
	"wolfpack-be/internal/model"
	"wolfpack-be/internal/repository/contract"
	"wolfpack-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PackMemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PackMapper
}

func NewPackMemberRepository(db *gorm.DB) contract.PackMemberRepository {
	return &PackMemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewPackMapper(),
	}
}

func (r *PackMemberRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PackMemberRepositoryImpl) Create(ctx context.Context, member *entity.PackMember) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)
	return nil
}

func (r *PackMemberRepositoryImpl) Update(ctx context.Context, member *entity.PackMember) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)
	return nil
}

func (r *PackMemberRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PackMember, error) {
	var m model.PackMember
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MemberToEntity(&m), nil
}

func (r *PackMemberRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PackMember, error) {
	var models []*model.PackMember
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MembersToEntities(models), nil
}

func (r *PackMemberRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PackMember{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PackMemberRepositoryImpl) FindActive(ctx context.Context, userId, locationId uuid.UUID) (*entity.PackMember, error) {
	return r.FindOne(ctx, specification.ActiveMembership{UserID: userId, LocationID: locationId})
}
