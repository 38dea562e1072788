package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/realtime"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// NotificationService is the per-user feed. Most rows are written inside
// other flows' transactions; Notify exists for standalone writes and also
// pushes the event to the user's realtime topic.
type NotificationService interface {
	Notify(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notifications repository.NotificationsRepository
	bus           realtime.Bus
	logger        *zap.Logger
}

func NewNotificationService(notifications repository.NotificationsRepository, bus realtime.Bus, logger *zap.Logger) NotificationService {
	return &notificationService{notifications: notifications, bus: bus, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if n.Priority == "" {
		n.Priority = domain.NotificationPriorityNormal
	}
	id, err := s.notifications.CreateNotification(ctx, n)
	if err != nil {
		s.logger.Error("notification write failed",
			zap.String("user_id", n.UserID), zap.Error(err))
		return err
	}
	n.NotificationID = id

	ev, err := realtime.NewEvent(realtime.EventNotificationCreated, n)
	if err == nil {
		err = s.bus.Publish(ctx, realtime.UserNotificationsTopic(n.UserID), ev)
	}
	if err != nil {
		s.logger.Warn("notification event publish failed",
			zap.String("user_id", n.UserID), zap.Error(err))
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, unreadOnly, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notifications.MarkRead(ctx, userID, notificationID)
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return s.notifications.Delete(ctx, userID, notificationID)
}
