package actor

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for actor aggregates.
type Repository interface {
	// FindByID retrieves an actor by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Actor, error)

	// FindByEmail retrieves an actor by login email.
	FindByEmail(ctx context.Context, email string) (*Actor, error)

	// ListAll retrieves actors with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Actor, int64, error)

	// ListByRole retrieves actors of a given role with pagination.
	ListByRole(ctx context.Context, role Role, page, limit int) ([]*Actor, int64, error)

	// ListDriversByCarrier retrieves all drivers owned by a carrier.
	ListDriversByCarrier(ctx context.Context, carrierID uuid.UUID) ([]*Actor, error)

	// Save persists a new actor and its role profile in one transaction.
	Save(ctx context.Context, a *Actor) error

	// Update persists changes to an existing actor and its profile.
	Update(ctx context.Context, a *Actor) error

	// Purge deletes the actor and all records referencing it (bookings,
	// notifications, profile) in a single transaction.
	Purge(ctx context.Context, id uuid.UUID) error
}
