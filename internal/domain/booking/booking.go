// Package booking contains the booking aggregate: the lifecycle state
// machine, the slot overlap rule and the role/ownership authorization gate.
package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// Booking is the aggregate root for the booking domain. A booking reserves a
// half-open time interval at a terminal on a given date for one carrier.
// Carrier, terminal and date are fixed at creation.
type Booking struct {
	id         uuid.UUID
	carrierID  uuid.UUID
	driverID   *uuid.UUID
	terminalID uuid.UUID
	date       time.Time
	slot       TimeSlot
	status     Status
	decidedBy  *uuid.UUID
	qrPayload  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking for the carrier at the terminal.
func NewBooking(carrierID, terminalID uuid.UUID, date time.Time, slot TimeSlot) (*Booking, error) {
	if carrierID == uuid.Nil {
		return nil, apperrors.NewValidationError("carrier ID is required")
	}
	if terminalID == uuid.Nil {
		return nil, apperrors.NewValidationError("terminal ID is required")
	}
	if date.IsZero() {
		return nil, apperrors.NewValidationError("booking date is required")
	}
	if !slot.Start.Before(slot.End) {
		return nil, apperrors.NewValidationError("start_time must be before end_time")
	}

	now := time.Now().UTC()
	return &Booking{
		id:         uuid.New(),
		carrierID:  carrierID,
		terminalID: terminalID,
		date:       truncateToDate(date),
		slot:       slot,
		status:     StatusPending,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	carrierID uuid.UUID,
	driverID *uuid.UUID,
	terminalID uuid.UUID,
	date time.Time,
	slot TimeSlot,
	status Status,
	decidedBy *uuid.UUID,
	qrPayload string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		carrierID:  carrierID,
		driverID:   driverID,
		terminalID: terminalID,
		date:       date,
		slot:       slot,
		status:     status,
		decidedBy:  decidedBy,
		qrPayload:  qrPayload,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CarrierID returns the owning carrier's user ID.
func (b *Booking) CarrierID() uuid.UUID { return b.carrierID }

// DriverID returns the assigned driver's user ID, or nil if unassigned.
func (b *Booking) DriverID() *uuid.UUID { return b.driverID }

// TerminalID returns the booked terminal's ID.
func (b *Booking) TerminalID() uuid.UUID { return b.terminalID }

// Date returns the booking date (midnight UTC).
func (b *Booking) Date() time.Time { return b.date }

// Slot returns the reserved half-open time interval.
func (b *Booking) Slot() TimeSlot { return b.slot }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// DecidedBy returns the deciding operator's user ID, or nil if undecided.
func (b *Booking) DecidedBy() *uuid.UUID { return b.decidedBy }

// QRPayload returns the opaque QR payload, empty until confirmation.
func (b *Booking) QRPayload() string { return b.qrPayload }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed, records the
// deciding operator and attaches the QR payload.
func (b *Booking) Confirm(operatorID uuid.UUID) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return apperrors.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.decidedBy = &operatorID
	b.qrPayload = buildQRPayload(b.id, b.terminalID, now)
	b.updatedAt = now
	return nil
}

// Reject transitions the booking from pending to rejected.
func (b *Booking) Reject(operatorID uuid.UUID) error {
	if !b.status.CanTransitionTo(StatusRejected) {
		return apperrors.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.decidedBy = &operatorID
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions a pending or confirmed booking to cancelled.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return apperrors.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// AssignDriver sets the fulfilling driver on a confirmed booking. A driver
// can be assigned exactly once; there is no unassign transition.
func (b *Booking) AssignDriver(driverID uuid.UUID) error {
	if b.status != StatusConfirmed {
		return apperrors.NewInvalidStateError(string(b.status), "driver assignment")
	}
	if b.driverID != nil {
		return apperrors.NewInvalidStateError(string(b.status), "driver assignment: driver already assigned")
	}
	if driverID == uuid.Nil {
		return apperrors.NewValidationError("driver ID is required")
	}
	b.driverID = &driverID
	b.updatedAt = time.Now().UTC()
	return nil
}

// Consume transitions a confirmed booking to consumed by its assigned driver.
func (b *Booking) Consume(driverID uuid.UUID) error {
	if !b.status.CanTransitionTo(StatusConsumed) {
		return apperrors.NewInvalidStateError(string(b.status), string(StatusConsumed))
	}
	if b.driverID == nil {
		return apperrors.NewInvalidStateError(string(b.status), "consumption: no driver assigned")
	}
	if *b.driverID != driverID {
		return apperrors.NewForbiddenError("booking is assigned to a different driver")
	}
	b.status = StatusConsumed
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// buildQRPayload produces the opaque payload attached to confirmed bookings.
func buildQRPayload(bookingID, terminalID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("booking:%s|terminal:%s|timestamp:%s", bookingID, terminalID, at.Format(time.RFC3339))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
