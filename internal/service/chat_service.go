package service

import (
	"context"
	stdsync "sync"
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
	"golang.org/x/time/rate"
)

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, req *dto.ListMessagesRequest) ([]*dto.ChatMessageResponse, error)
	DeleteMessage(ctx context.Context, userId, messageId uuid.UUID) error
	FlagMessage(ctx context.Context, userId, messageId uuid.UUID) error
	AddReaction(ctx context.Context, userId, messageId uuid.UUID, emoji string) (*dto.MessageReactionResponse, error)
	RemoveReaction(ctx context.Context, userId, messageId uuid.UUID, emoji string) error
	DefaultSession(ctx context.Context, locationId uuid.UUID) (*entity.ChatSession, error)
}

// senderLimiters hands out one token bucket per user. Buckets are pruned
// lazily; an idle bucket is just a few words of memory.
type senderLimiters struct {
	mu       stdsync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newSenderLimiters(perMinute, burst int) *senderLimiters {
	return &senderLimiters{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *senderLimiters) allow(userId uuid.UUID) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userId]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userId] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	manager        *syncpkg.Manager
	feed           *syncpkg.Feed
	eventPublisher *pktNats.Publisher
	limiters       *senderLimiters
	retryAttempts  int
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	manager *syncpkg.Manager,
	feed *syncpkg.Feed,
	eventPublisher *pktNats.Publisher,
	ratePerMinute, burst, retryAttempts int,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		manager:        manager,
		feed:           feed,
		eventPublisher: eventPublisher,
		limiters:       newSenderLimiters(ratePerMinute, burst),
		retryAttempts:  retryAttempts,
	}
}

func (s *chatService) publish(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, evt)
}

func (s *chatService) feedChange(ctx context.Context, change syncpkg.Change) {
	if s.feed == nil {
		return
	}
	_ = s.feed.Publish(ctx, change)
}

func messageResponse(m *entity.ChatMessage, correlationId string) *dto.ChatMessageResponse {
	return &dto.ChatMessageResponse{
		Id:            m.Id,
		SessionId:     m.SessionId,
		SenderId:      m.SenderId,
		SenderName:    m.SenderName,
		SenderAvatar:  m.SenderAvatar,
		Content:       m.Content,
		Type:          m.MessageType,
		ImageURL:      m.ImageURL,
		IsFlagged:     m.IsFlagged,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CorrelationId: correlationId,
	}
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load session", err)
	}
	if session == nil || !session.IsActive {
		return nil, apperr.NotFound("chat session not found")
	}

	member, err := uow.PackMemberRepository().FindActive(ctx, userId, session.LocationId)
	if err != nil {
		return nil, apperr.Unavailable("failed to load membership", err)
	}
	if member == nil {
		return nil, apperr.PermissionDenied("join the pack before chatting")
	}

	if !s.limiters.allow(userId) {
		return nil, apperr.RateLimited("slow down, you are sending messages too fast")
	}

	messageType := req.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	correlationId := req.CorrelationId
	if correlationId == "" {
		correlationId = uuid.NewString()
	}

	now := time.Now()
	// The draft carries a temp id; the stored row gets its own id and
	// replaces the placeholder via the correlation id.
	draft := &entity.ChatMessage{
		Id:           uuid.New(),
		SessionId:    session.Id,
		SenderId:     userId,
		SenderName:   member.Profile.DisplayName,
		SenderAvatar: member.Profile.AvatarURL,
		Content:      req.Content,
		MessageType:  messageType,
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
	}

	var stored *entity.ChatMessage
	persist := func(ctx context.Context) error {
		return withRetry(ctx, s.retryAttempts, func() error {
			uow := s.uowFactory.NewUnitOfWork(ctx)
			row := *draft
			row.Id = uuid.New()
			if err := uow.ChatMessageRepository().Create(ctx, &row); err != nil {
				return apperr.Unavailable("failed to store message", err)
			}
			stored = &row
			return nil
		})
	}

	synchronizer := s.manager.Scope(session.LocationId, session.Id)
	if err := synchronizer.Send(ctx, draft, correlationId, persist); err != nil {
		return nil, err
	}

	// Confirm the placeholder on this instance directly; the feed echo is
	// for everyone else and dedupes by row id when it arrives here.
	confirmed := syncpkg.MessageInserted(session.LocationId, stored, correlationId)
	synchronizer.Apply(confirmed)

	s.publish(ctx, events.MessageSent(stored.Id, session.Id, userId, correlationId))
	s.feedChange(ctx, confirmed)

	return messageResponse(stored, correlationId), nil
}

func (s *chatService) ListMessages(ctx context.Context, userId uuid.UUID, req *dto.ListMessagesRequest) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	specs := []specification.Specification{
		specification.BySessionID{SessionID: req.SessionId},
		specification.VisibleMessages{},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	}
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperr.Unavailable("failed to load messages", err)
	}

	// Suppress both directions of an active block for the viewer.
	blocks, err := uow.InteractionRepository().ActiveBlocksInvolving(ctx, userId)
	if err != nil {
		return nil, apperr.Unavailable("failed to load blocks", err)
	}
	blocked := make(map[uuid.UUID]bool, len(blocks))
	for _, b := range blocks {
		if b.SenderId == userId {
			blocked[b.ReceiverId] = true
		} else {
			blocked[b.SenderId] = true
		}
	}

	visible := make([]*entity.ChatMessage, 0, len(messages))
	ids := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		if blocked[m.SenderId] {
			continue
		}
		visible = append(visible, m)
		ids = append(ids, m.Id)
	}

	reactionsByMessage := make(map[uuid.UUID][]dto.MessageReactionResponse)
	if len(ids) > 0 {
		reactions, err := uow.MessageReactionRepository().FindAll(ctx, specification.ByMessageIDs{MessageIDs: ids})
		if err != nil {
			return nil, apperr.Unavailable("failed to load reactions", err)
		}
		for _, r := range reactions {
			reactionsByMessage[r.MessageId] = append(reactionsByMessage[r.MessageId], dto.MessageReactionResponse{
				Id:        r.Id,
				MessageId: r.MessageId,
				UserId:    r.UserId,
				Emoji:     r.Emoji,
				CreatedAt: r.CreatedAt,
			})
		}
	}

	out := make([]*dto.ChatMessageResponse, 0, len(visible))
	for _, m := range visible {
		resp := messageResponse(m, "")
		resp.Reactions = reactionsByMessage[m.Id]
		out = append(out, resp)
	}
	return out, nil
}

func (s *chatService) locationForSession(ctx context.Context, sessionId uuid.UUID) uuid.UUID {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil || session == nil {
		return uuid.Nil
	}
	return session.LocationId
}

func (s *chatService) DeleteMessage(ctx context.Context, userId, messageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
	if err != nil {
		return apperr.Unavailable("failed to load message", err)
	}
	if message == nil || message.IsDeleted {
		// Soft-deleting twice is fine.
		return nil
	}
	if message.SenderId != userId {
		return apperr.PermissionDenied("only the sender can delete a message")
	}

	now := time.Now()
	message.IsDeleted = true
	message.UpdatedAt = &now
	if err := uow.ChatMessageRepository().Update(ctx, message); err != nil {
		return apperr.Unavailable("failed to delete message", err)
	}

	locationId := s.locationForSession(ctx, message.SessionId)
	s.publish(ctx, events.MessageDeleted(message.Id, message.SessionId))
	s.feedChange(ctx, syncpkg.Change{
		Kind:       syncpkg.ChangeDelete,
		Entity:     syncpkg.EntityMessage,
		LocationId: locationId,
		SessionId:  message.SessionId,
		TargetId:   message.Id,
		OccurredAt: now,
	})
	return nil
}

func (s *chatService) FlagMessage(ctx context.Context, userId, messageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
	if err != nil {
		return apperr.Unavailable("failed to load message", err)
	}
	if message == nil || message.IsDeleted {
		return apperr.NotFound("message not found")
	}
	if message.IsFlagged {
		return nil
	}

	now := time.Now()
	message.IsFlagged = true
	message.UpdatedAt = &now
	if err := uow.ChatMessageRepository().Update(ctx, message); err != nil {
		return apperr.Unavailable("failed to flag message", err)
	}

	locationId := s.locationForSession(ctx, message.SessionId)
	s.publish(ctx, events.MessageFlagged(message.Id, message.SessionId))
	s.feedChange(ctx, syncpkg.MessageUpdated(locationId, message))
	return nil
}

func (s *chatService) AddReaction(ctx context.Context, userId, messageId uuid.UUID, emoji string) (*dto.MessageReactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	message, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load message", err)
	}
	if message == nil || message.IsDeleted {
		return nil, apperr.NotFound("message not found")
	}

	// One (message, user, emoji) triple; repeating the gesture is a no-op
	// that hands back the existing row.
	existing, err := uow.MessageReactionRepository().FindAll(ctx, specification.ByMessageID{MessageID: messageId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load reactions", err)
	}
	for _, r := range existing {
		if r.UserId == userId && r.Emoji == emoji {
			return &dto.MessageReactionResponse{
				Id:        r.Id,
				MessageId: r.MessageId,
				UserId:    r.UserId,
				Emoji:     r.Emoji,
				CreatedAt: r.CreatedAt,
			}, nil
		}
	}

	reaction := &entity.MessageReaction{
		Id:        uuid.New(),
		MessageId: messageId,
		UserId:    userId,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageReactionRepository().Create(ctx, reaction); err != nil {
		return nil, apperr.Unavailable("failed to store reaction", err)
	}

	locationId := s.locationForSession(ctx, message.SessionId)
	s.publish(ctx, events.ReactionAdded(messageId, message.SessionId, userId, emoji))
	s.feedChange(ctx, syncpkg.ReactionInserted(locationId, reaction))

	return &dto.MessageReactionResponse{
		Id:        reaction.Id,
		MessageId: reaction.MessageId,
		UserId:    reaction.UserId,
		Emoji:     reaction.Emoji,
		CreatedAt: reaction.CreatedAt,
	}, nil
}

func (s *chatService) RemoveReaction(ctx context.Context, userId, messageId uuid.UUID, emoji string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var reactionId uuid.UUID
	existing, err := uow.MessageReactionRepository().FindAll(ctx, specification.ByMessageID{MessageID: messageId})
	if err != nil {
		return apperr.Unavailable("failed to load reactions", err)
	}
	for _, r := range existing {
		if r.UserId == userId && r.Emoji == emoji {
			reactionId = r.Id
			break
		}
	}
	if reactionId == uuid.Nil {
		return nil
	}

	if err := uow.MessageReactionRepository().Delete(ctx, messageId, userId, emoji); err != nil {
		return apperr.Unavailable("failed to remove reaction", err)
	}

	message, _ := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: messageId})
	if message != nil {
		locationId := s.locationForSession(ctx, message.SessionId)
		s.publish(ctx, events.ReactionRemoved(messageId, message.SessionId, userId, emoji))
		s.feedChange(ctx, syncpkg.ReactionDeleted(locationId, reactionId))
	}
	return nil
}

// DefaultSession returns the location's pack chat session, creating it on
// first use.
func (s *chatService) DefaultSession(ctx context.Context, locationId uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByLocationID{LocationID: locationId})
	if err != nil {
		return nil, apperr.Unavailable("failed to load session", err)
	}
	if session != nil {
		return session, nil
	}

	session = &entity.ChatSession{
		Id:         uuid.New(),
		LocationId: locationId,
		Name:       "Pack Chat",
		IsActive:   true,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperr.Unavailable("failed to create session", err)
	}
	return session, nil
}
