package service

import (
	"context"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"
	syncpkg "wolfpack-be/internal/sync"
	"wolfpack-be/pkg/events"
	pktNats "wolfpack-be/pkg/nats"

	"github.com/google/uuid"
)

type IInteractionService interface {
	Create(ctx context.Context, senderId uuid.UUID, req *dto.CreateInteractionRequest) (*dto.InteractionResponse, error)
	Revoke(ctx context.Context, userId, interactionId uuid.UUID) error
	Broadcast(ctx context.Context, userId uuid.UUID, role string, req *dto.CreateBroadcastRequest) (*dto.BroadcastResponse, error)
}

type interactionService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	feed           *syncpkg.Feed
	manager        *syncpkg.Manager
}

func NewInteractionService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	feed *syncpkg.Feed,
	manager *syncpkg.Manager,
) IInteractionService {
	return &interactionService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		feed:           feed,
		manager:        manager,
	}
}

func (s *interactionService) publish(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, evt)
}

func interactionResponse(i *entity.Interaction) *dto.InteractionResponse {
	return &dto.InteractionResponse{
		Id:         i.Id,
		SenderId:   i.SenderId,
		ReceiverId: i.ReceiverId,
		LocationId: i.LocationId,
		Type:       i.Type,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
	}
}

func (s *interactionService) Create(ctx context.Context, senderId uuid.UUID, req *dto.CreateInteractionRequest) (*dto.InteractionResponse, error) {
	if senderId == req.ReceiverId {
		return nil, apperr.ValidationFailed("cannot target yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	receiver, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.ReceiverId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load receiver", err)
	}
	if receiver == nil {
		return nil, apperr.NotFound("receiver not found")
	}

	// An identical active interaction is returned rather than duplicated.
	existing, err := uow.InteractionRepository().FindOne(ctx,
		specification.BySenderID{SenderID: senderId},
		specification.ByReceiverID{ReceiverID: req.ReceiverId},
		specification.ByInteractionType{Type: req.Type},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperr.Unavailable("failed to load interactions", err)
	}
	if existing != nil {
		return interactionResponse(existing), nil
	}

	interaction := &entity.Interaction{
		Id:         uuid.New(),
		SenderId:   senderId,
		ReceiverId: req.ReceiverId,
		LocationId: req.LocationId,
		Type:       req.Type,
		Status:     entity.InteractionStatusActive,
		CreatedAt:  time.Now(),
	}
	if err := uow.InteractionRepository().Create(ctx, interaction); err != nil {
		return nil, apperr.Unavailable("failed to store interaction", err)
	}

	switch req.Type {
	case entity.InteractionTypeWink:
		sender, _ := uow.PackMemberRepository().FindActive(ctx, senderId, req.LocationId)
		senderName := ""
		if sender != nil {
			senderName = sender.Profile.DisplayName
		}
		s.publish(ctx, events.WinkSent(senderId, req.ReceiverId, req.LocationId, senderName))
	case entity.InteractionTypeBlock:
		s.publish(ctx, events.UserBlocked(senderId, req.ReceiverId, req.LocationId))
		// New blocks must bite on the next snapshot, not after cache expiry.
		if s.manager != nil {
			s.manager.InvalidateBlocks(senderId, req.ReceiverId)
		}
	}

	return interactionResponse(interaction), nil
}

func (s *interactionService) Revoke(ctx context.Context, userId, interactionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	interaction, err := uow.InteractionRepository().FindOne(ctx, specification.ByID{ID: interactionId})
	if err != nil {
		return apperr.Unavailable("failed to load interaction", err)
	}
	if interaction == nil || interaction.Status == entity.InteractionStatusRevoked {
		return nil
	}
	if interaction.SenderId != userId {
		return apperr.PermissionDenied("only the sender can revoke an interaction")
	}

	interaction.Status = entity.InteractionStatusRevoked
	if err := uow.InteractionRepository().Update(ctx, interaction); err != nil {
		return apperr.Unavailable("failed to revoke interaction", err)
	}

	if interaction.Type == entity.InteractionTypeBlock && s.manager != nil {
		s.manager.InvalidateBlocks(interaction.SenderId, interaction.ReceiverId)
	}
	return nil
}

func (s *interactionService) Broadcast(ctx context.Context, userId uuid.UUID, role string, req *dto.CreateBroadcastRequest) (*dto.BroadcastResponse, error) {
	if role != "dj" && role != "admin" {
		return nil, apperr.PermissionDenied("broadcasts are limited to staff")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	event := &entity.PackEvent{
		Id:         uuid.New(),
		LocationId: req.LocationId,
		CreatedBy:  userId,
		Title:      req.Title,
		Body:       req.Body,
		EventType:  "broadcast",
		CreatedAt:  time.Now(),
	}
	if err := uow.PackEventRepository().Create(ctx, event); err != nil {
		return nil, apperr.Unavailable("failed to store broadcast", err)
	}

	s.publish(ctx, events.PackBroadcast(req.LocationId, userId, req.Title, req.Body))
	if s.feed != nil {
		_ = s.feed.Publish(ctx, syncpkg.EventInserted(event))
	}

	return &dto.BroadcastResponse{
		Id:        event.Id,
		CreatedAt: event.CreatedAt,
	}, nil
}
