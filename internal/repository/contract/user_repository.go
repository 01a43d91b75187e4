package contract

import (
	"context"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, user *entity.User) error
}

type DeviceTokenRepository interface {
	Upsert(ctx context.Context, token *entity.DeviceToken) error
	FindActiveByUserIDs(ctx context.Context, userIds []uuid.UUID) ([]*entity.DeviceToken, error)
	DeactivateTokens(ctx context.Context, tokens []string) error
}
