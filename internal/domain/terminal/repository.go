package terminal

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for terminal aggregates.
type Repository interface {
	// FindByID retrieves a terminal by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Terminal, error)

	// ListAll retrieves terminals with pagination.
	ListAll(ctx context.Context, page, limit int) ([]*Terminal, int64, error)

	// Save persists a new terminal.
	Save(ctx context.Context, t *Terminal) error

	// Update persists changes to an existing terminal.
	Update(ctx context.Context, t *Terminal) error
}
