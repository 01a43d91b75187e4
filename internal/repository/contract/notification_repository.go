package contract

import (
	"context"

	"wolfpack-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository works on models directly; notification rows are a
// write-mostly history with no domain behavior worth an entity round-trip.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error)
}
