package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows booking listings. Nil fields are ignored.
type Filter struct {
	Status *Status
	Date   *time.Time
}

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Create persists a new booking after re-checking the overlap rule
	// against PENDING/CONFIRMED bookings at the same terminal and date. The
	// check and the insert run in one transaction holding a row lock on the
	// terminal, so concurrent creates for the same terminal serialize.
	// Returns a slot conflict error if the interval overlaps.
	Create(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// ListByCarrier retrieves a carrier's bookings, newest first.
	ListByCarrier(ctx context.Context, carrierID uuid.UUID, f Filter) ([]*Booking, error)

	// ListByTerminal retrieves a terminal's bookings, newest first.
	ListByTerminal(ctx context.Context, terminalID uuid.UUID, f Filter) ([]*Booking, error)

	// ListByDriver retrieves bookings assigned to a driver.
	ListByDriver(ctx context.Context, driverID uuid.UUID, f Filter) ([]*Booking, error)

	// ListAssignableForCarrier retrieves confirmed, unassigned bookings of a
	// carrier, which that carrier's drivers may take.
	ListAssignableForCarrier(ctx context.Context, carrierID uuid.UUID, date *time.Time) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)
}
