package contract

import (
	"context"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PackMemberRepository interface {
	Create(ctx context.Context, member *entity.PackMember) error
	Update(ctx context.Context, member *entity.PackMember) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PackMember, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PackMember, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindActive returns the single active membership for (user, location),
	// nil when none exists.
	FindActive(ctx context.Context, userId, locationId uuid.UUID) (*entity.PackMember, error)
}
