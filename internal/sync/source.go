package sync

import (
	"context"

	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// RepositorySource fetches scope snapshots from the backing repositories.
type RepositorySource struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewRepositorySource(uowFactory unitofwork.RepositoryFactory) *RepositorySource {
	return &RepositorySource{uowFactory: uowFactory}
}

func (s *RepositorySource) Fetch(ctx context.Context, scope Scope) ([]*entity.PackMember, []*entity.ChatMessage, []*entity.MessageReaction, []*entity.PackEvent, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	members, err := uow.PackMemberRepository().FindAll(ctx,
		specification.ByLocationID{LocationID: scope.LocationId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var messages []*entity.ChatMessage
	if scope.SessionId != uuid.Nil {
		messages, err = uow.ChatMessageRepository().FindAll(ctx,
			specification.BySessionID{SessionID: scope.SessionId},
			specification.VisibleMessages{},
			specification.OrderBy{Field: "created_at"},
		)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	var reactions []*entity.MessageReaction
	if len(messages) > 0 {
		ids := make([]uuid.UUID, 0, len(messages))
		for _, m := range messages {
			ids = append(ids, m.Id)
		}
		reactions, err = uow.MessageReactionRepository().FindAll(ctx,
			specification.ByMessageIDs{MessageIDs: ids},
		)
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	events, err := uow.PackEventRepository().FindAll(ctx,
		specification.ByLocationID{LocationID: scope.LocationId},
	)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return members, messages, reactions, events, nil
}
