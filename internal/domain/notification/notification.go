// Package notification contains the notification record delivered to actors
// when their bookings change state. Delivery is best-effort and never rolls
// back the transition that produced it.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type categorizes a notification.
type Type string

const (
	TypeBookingConfirmed Type = "BOOKING_CONFIRMED"
	TypeQRReady          Type = "QR_READY"
	TypeGeneric          Type = "GENERIC"
)

// Notification is a message for one actor, optionally about a booking.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Message   string
	BookingID *uuid.UUID
	Read      bool
	CreatedAt time.Time
}

// New creates an unread notification.
func New(userID uuid.UUID, t Type, message string, bookingID *uuid.UUID) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      t,
		Message:   message,
		BookingID: bookingID,
		CreatedAt: time.Now().UTC(),
	}
}

// Repository defines the persistence contract for notifications.
type Repository interface {
	// Save persists a notification.
	Save(ctx context.Context, n *Notification) error

	// ListByUser retrieves a user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Notification, int64, error)

	// MarkRead flags a notification as read; the user must own it.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}
