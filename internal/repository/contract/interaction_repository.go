package contract

import (
	"context"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	Update(ctx context.Context, interaction *entity.Interaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error)

	// ActiveBlocksInvolving returns active block interactions where the user
	// is sender or receiver; consulted for join gating and chat suppression.
	ActiveBlocksInvolving(ctx context.Context, userId uuid.UUID) ([]*entity.Interaction, error)
}

type PackEventRepository interface {
	Create(ctx context.Context, event *entity.PackEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PackEvent, error)
}
