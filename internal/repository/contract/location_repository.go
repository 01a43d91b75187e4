package contract

import (
	"context"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/specification"
)

type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	Update(ctx context.Context, location *entity.Location) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Location, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Location, error)

	// FindActive returns all active venues, the candidate set for
	// verification and nearest-location lookups.
	FindActive(ctx context.Context) ([]*entity.Location, error)
}
