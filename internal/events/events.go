// Package events defines the domain events published to Kafka and the
// consumer that materializes notifications from them.
package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries all booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Event type identifiers.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
	BookingCancelled = "booking.cancelled"
	DriverAssigned   = "booking.driver_assigned"
	BookingConsumed  = "booking.consumed"
)

// BookingCreatedEvent is published when a carrier creates a booking.
type BookingCreatedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarrierID  uuid.UUID `json:"carrier_id"`
	TerminalID uuid.UUID `json:"terminal_id"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when an operator confirms or rejects a
// booking. Status is the resulting booking status.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarrierID  uuid.UUID `json:"carrier_id"`
	TerminalID uuid.UUID `json:"terminal_id"`
	OperatorID uuid.UUID `json:"operator_id"`
	Status     string    `json:"status"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a carrier cancels a booking.
type BookingCancelledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarrierID  uuid.UUID `json:"carrier_id"`
	TerminalID uuid.UUID `json:"terminal_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DriverAssignedEvent is published when a driver takes a confirmed booking.
type DriverAssignedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarrierID  uuid.UUID `json:"carrier_id"`
	DriverID   uuid.UUID `json:"driver_id"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingConsumedEvent is published when the assigned driver consumes a
// booking at the terminal.
type BookingConsumedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CarrierID  uuid.UUID `json:"carrier_id"`
	DriverID   uuid.UUID `json:"driver_id"`
	TerminalID uuid.UUID `json:"terminal_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
