package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	notificationDomain "github.com/portlink/terminal-booking/internal/domain/notification"
)

// NotificationDTO is the response representation of a notification.
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationService handles notification retrieval and read state.
type NotificationService struct {
	notifications notificationDomain.Repository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications notificationDomain.Repository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListNotifications returns the user's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int) ([]NotificationDTO, int64, error) {
	notifications, total, err := s.notifications.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = NotificationDTO{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			BookingID: n.BookingID,
			IsRead:    n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return dtos, total, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notifications.MarkRead(ctx, id, userID)
}
