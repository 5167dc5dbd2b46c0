// Package terminal contains the bookable terminal aggregate. Capacity fields
// are administrative metadata; slot occupancy is governed by the booking
// overlap rule, not by counters.
package terminal

import (
	"time"

	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// Status is the activity state of a terminal.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusSuspended
}

// Terminal is a bookable port terminal.
type Terminal struct {
	id             uuid.UUID
	name           string
	status         Status
	maxSlots       int
	availableSlots int
	coordX         float64
	coordY         float64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewTerminal creates an active terminal.
func NewTerminal(name string, maxSlots, availableSlots int, coordX, coordY float64) (*Terminal, error) {
	if name == "" {
		return nil, apperrors.NewValidationError("terminal name is required")
	}
	if maxSlots <= 0 {
		return nil, apperrors.NewValidationError("max_slots must be positive")
	}
	if availableSlots < 0 || availableSlots > maxSlots {
		return nil, apperrors.NewValidationError("available_slots must be between 0 and max_slots")
	}
	now := time.Now().UTC()
	return &Terminal{
		id:             uuid.New(),
		name:           name,
		status:         StatusActive,
		maxSlots:       maxSlots,
		availableSlots: availableSlots,
		coordX:         coordX,
		coordY:         coordY,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Terminal from persistence data (no validation).
func Reconstruct(id uuid.UUID, name string, status Status, maxSlots, availableSlots int, coordX, coordY float64, createdAt, updatedAt time.Time) *Terminal {
	return &Terminal{
		id:             id,
		name:           name,
		status:         status,
		maxSlots:       maxSlots,
		availableSlots: availableSlots,
		coordX:         coordX,
		coordY:         coordY,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the terminal's unique identifier.
func (t *Terminal) ID() uuid.UUID { return t.id }

// Name returns the terminal name.
func (t *Terminal) Name() string { return t.name }

// Status returns the activity status.
func (t *Terminal) Status() Status { return t.status }

// MaxSlots returns the administrative slot capacity.
func (t *Terminal) MaxSlots() int { return t.maxSlots }

// AvailableSlots returns the administratively set available slot count.
func (t *Terminal) AvailableSlots() int { return t.availableSlots }

// CoordX returns the terminal's X coordinate.
func (t *Terminal) CoordX() float64 { return t.coordX }

// CoordY returns the terminal's Y coordinate.
func (t *Terminal) CoordY() float64 { return t.coordY }

// CreatedAt returns the creation timestamp.
func (t *Terminal) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (t *Terminal) UpdatedAt() time.Time { return t.updatedAt }

// IsActive reports whether the terminal accepts bookings.
func (t *Terminal) IsActive() bool { return t.status == StatusActive }

// Rename updates the terminal name.
func (t *Terminal) Rename(name string) error {
	if name == "" {
		return apperrors.NewValidationError("terminal name is required")
	}
	t.name = name
	t.updatedAt = time.Now().UTC()
	return nil
}

// SetCapacity updates the administrative capacity fields.
func (t *Terminal) SetCapacity(maxSlots, availableSlots int) error {
	if maxSlots <= 0 {
		return apperrors.NewValidationError("max_slots must be positive")
	}
	if availableSlots < 0 || availableSlots > maxSlots {
		return apperrors.NewValidationError("available_slots must be between 0 and max_slots")
	}
	t.maxSlots = maxSlots
	t.availableSlots = availableSlots
	t.updatedAt = time.Now().UTC()
	return nil
}

// SetStatus updates the activity status.
func (t *Terminal) SetStatus(status Status) error {
	if !status.IsValid() {
		return apperrors.NewValidationError("invalid terminal status")
	}
	t.status = status
	t.updatedAt = time.Now().UTC()
	return nil
}
