package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wolfpack-be/internal/dto"
	"wolfpack-be/internal/entity"
	"wolfpack-be/internal/model"
	"wolfpack-be/internal/pkg/apperr"
	"wolfpack-be/internal/pkg/logger"
	"wolfpack-be/internal/pkg/mailer"
	"wolfpack-be/internal/repository/contract"
	"wolfpack-be/internal/repository/specification"
	"wolfpack-be/internal/repository/unitofwork"
	"wolfpack-be/pkg/events"
	pktNats "wolfpack-be/pkg/nats"
	"wolfpack-be/pkg/push"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates. Implemented by
// the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       contract.NotificationRepository
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	pushSender push.Sender
	email      mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(
	repo contract.NotificationRepository,
	uowFactory unitofwork.RepositoryFactory,
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	pushSender push.Sender,
	email mailer.IEmailService,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		repo:       repo,
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		pushSender: pushSender,
		email:      email,
		logger:     log,
	}
}

// Start begins consuming the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	if config.TargetType == "BROADCAST" {
		// Broadcasts are push-only; no per-user inbox rows.
		notif := s.buildNotification(uuid.Nil, config, event)
		if s.delivery != nil {
			s.delivery.Broadcast(notif)
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", event.EventType()), map[string]interface{}{"error": err})
		return err // NATS will redeliver
	}

	for _, userID := range recipients {
		pref, err := s.repo.GetPreference(ctx, userID)
		if err != nil {
			s.logger.Warn("NotificationService", "Preference lookup failed, using defaults", map[string]interface{}{"user_id": userID, "error": err.Error()})
			pref = &model.UserNotificationPreference{UserID: userID, EmailEnabled: true, PushEnabled: true}
		}
		if muted(pref, typeCode) {
			continue
		}

		notif := s.buildNotification(userID, config, event)
		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
			continue
		}

		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}
		if pref.PushEnabled {
			s.sendPush(ctx, userID, notif)
		}
		if pref.EmailEnabled {
			s.sendEmail(ctx, userID, notif)
		}
	}
	return nil
}

func muted(pref *model.UserNotificationPreference, typeCode string) bool {
	for _, t := range pref.MutedTypes {
		if t == typeCode {
			return true
		}
	}
	return false
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	payload := event.Payload()
	var userIDs []uuid.UUID

	switch config.TargetType {
	case "SELF":
		if uidStr, ok := payload["user_id"].(string); ok {
			if uid, err := uuid.Parse(uidStr); err == nil {
				userIDs = append(userIDs, uid)
			}
		}

	case "PACK":
		// Everyone currently in the pack at the event's venue, minus the
		// actor who triggered it.
		locStr, _ := payload["location_id"].(string)
		locationId, err := uuid.Parse(locStr)
		if err != nil {
			return nil, nil
		}
		// The triggering user is excluded; membership events carry the
		// actor under "user_id", interactions under "actor_id".
		var actorId uuid.UUID
		if actorStr, ok := payload["actor_id"].(string); ok {
			actorId, _ = uuid.Parse(actorStr)
		} else if userStr, ok := payload["user_id"].(string); ok {
			actorId, _ = uuid.Parse(userStr)
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		members, err := uow.PackMemberRepository().FindAll(ctx,
			specification.ByLocationID{LocationID: locationId},
			specification.ActiveOnly{},
		)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.UserId == actorId {
				continue
			}
			userIDs = append(userIDs, m.UserId)
		}
	}

	return userIDs, nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		msg = strings.ReplaceAll(msg, placeholder, fmt.Sprintf("%v", v))
	}

	var actorID *uuid.UUID
	if actorStr, ok := payload["actor_id"].(string); ok {
		if aid, err := uuid.Parse(actorStr); err == nil {
			actorID = &aid
		}
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		ActorID:   actorID,
		TypeCode:  config.Code,
		Title:     config.DisplayName,
		Message:   msg,
		Metadata:  datatypes.JSON(metaJSON),
		CreatedAt: time.Now(),
		IsRead:    false,
	}
}

func (s *NotificationService) sendPush(ctx context.Context, userID uuid.UUID, notif model.Notification) {
	if s.pushSender == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tokens, err := uow.DeviceTokenRepository().FindActiveByUserIDs(ctx, []uuid.UUID{userID})
	if err != nil || len(tokens) == 0 {
		return
	}

	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}

	report, err := s.pushSender.SendToTokens(ctx, push.Message{
		Title: notif.Title,
		Body:  notif.Message,
		Data:  map[string]string{"type_code": notif.TypeCode},
	}, raw)
	if err != nil {
		s.logger.Warn("NotificationService", "Push send failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return
	}

	// Tokens FCM no longer recognizes are dead; stop sending to them.
	if len(report.InvalidTokens) > 0 {
		if err := uow.DeviceTokenRepository().DeactivateTokens(ctx, report.InvalidTokens); err != nil {
			s.logger.Warn("NotificationService", "Failed to deactivate stale tokens", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, userID uuid.UUID, notif model.Notification) {
	if s.email == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil || user == nil || user.Email == "" {
		return
	}

	if err := s.email.SendNotification(user.Email, notif.Title, notif.Message); err != nil {
		s.logger.Warn("NotificationService", "Email send failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// RegisterDeviceToken stores or refreshes a push registration token.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, req *dto.RegisterDeviceTokenRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	token := &entity.DeviceToken{
		Id:        uuid.New(),
		UserId:    userID,
		Token:     req.Token,
		Platform:  req.Platform,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.DeviceTokenRepository().Upsert(ctx, token); err != nil {
		return apperr.Unavailable("failed to register device token", err)
	}
	return nil
}

// UnregisterDeviceToken deactivates a push registration token.
func (s *NotificationService) UnregisterDeviceToken(ctx context.Context, token string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DeviceTokenRepository().DeactivateTokens(ctx, []string{token}); err != nil {
		return apperr.Unavailable("failed to unregister device token", err)
	}
	return nil
}
