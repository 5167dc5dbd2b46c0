package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	terminalDomain "github.com/portlink/terminal-booking/internal/domain/terminal"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// CreateTerminalRequest holds the data to create a terminal.
type CreateTerminalRequest struct {
	Name           string  `json:"name" binding:"required"`
	MaxSlots       int     `json:"max_slots" binding:"required"`
	AvailableSlots int     `json:"available_slots"`
	CoordX         float64 `json:"coord_x"`
	CoordY         float64 `json:"coord_y"`
}

// UpdateTerminalRequest carries the mutable terminal fields.
type UpdateTerminalRequest struct {
	Name           *string `json:"name"`
	MaxSlots       *int    `json:"max_slots"`
	AvailableSlots *int    `json:"available_slots"`
	Status         *string `json:"status"`
}

// TerminalDTO is the response representation of a terminal.
type TerminalDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	MaxSlots       int       `json:"max_slots"`
	AvailableSlots int       `json:"available_slots"`
	CoordX         float64   `json:"coord_x"`
	CoordY         float64   `json:"coord_y"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TerminalService handles terminal management and lookup.
type TerminalService struct {
	terminals terminalDomain.Repository
	actors    actor.Repository
	logger    *zap.Logger
}

// NewTerminalService creates a new TerminalService.
func NewTerminalService(terminals terminalDomain.Repository, actors actor.Repository, logger *zap.Logger) *TerminalService {
	return &TerminalService{terminals: terminals, actors: actors, logger: logger}
}

// ListTerminals returns a page of terminals, ordered by name.
func (s *TerminalService) ListTerminals(ctx context.Context, page, limit int) ([]TerminalDTO, int64, error) {
	terminals, total, err := s.terminals.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]TerminalDTO, len(terminals))
	for i, t := range terminals {
		dtos[i] = toTerminalDTO(t)
	}
	return dtos, total, nil
}

// GetTerminal retrieves a terminal by ID.
func (s *TerminalService) GetTerminal(ctx context.Context, id uuid.UUID) (*TerminalDTO, error) {
	t, err := s.terminals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toTerminalDTO(t)
	return &dto, nil
}

// GetOperatorTerminal retrieves the terminal assigned to the operator.
func (s *TerminalService) GetOperatorTerminal(ctx context.Context, operatorID uuid.UUID) (*TerminalDTO, error) {
	operator, err := s.actors.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	profile := operator.Operator()
	if profile == nil || profile.TerminalID == nil {
		return nil, apperrors.NewForbiddenError("operator not assigned to a terminal")
	}
	return s.GetTerminal(ctx, *profile.TerminalID)
}

// CreateTerminal creates an active terminal (admin).
func (s *TerminalService) CreateTerminal(ctx context.Context, req CreateTerminalRequest) (*TerminalDTO, error) {
	available := req.AvailableSlots
	if available == 0 {
		available = req.MaxSlots
	}
	t, err := terminalDomain.NewTerminal(req.Name, req.MaxSlots, available, req.CoordX, req.CoordY)
	if err != nil {
		return nil, err
	}
	if err := s.terminals.Save(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("terminal created",
		zap.String("terminal_id", t.ID().String()),
		zap.String("name", t.Name()),
	)
	dto := toTerminalDTO(t)
	return &dto, nil
}

// UpdateTerminal applies the mutable fields to a terminal (admin). Suspending
// a terminal stops new bookings; existing bookings are untouched.
func (s *TerminalService) UpdateTerminal(ctx context.Context, id uuid.UUID, req UpdateTerminalRequest) (*TerminalDTO, error) {
	t, err := s.terminals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := t.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.MaxSlots != nil || req.AvailableSlots != nil {
		maxSlots := t.MaxSlots()
		available := t.AvailableSlots()
		if req.MaxSlots != nil {
			maxSlots = *req.MaxSlots
		}
		if req.AvailableSlots != nil {
			available = *req.AvailableSlots
		}
		if err := t.SetCapacity(maxSlots, available); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := t.SetStatus(terminalDomain.Status(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.terminals.Update(ctx, t); err != nil {
		return nil, err
	}
	dto := toTerminalDTO(t)
	return &dto, nil
}

func toTerminalDTO(t *terminalDomain.Terminal) TerminalDTO {
	return TerminalDTO{
		ID:             t.ID(),
		Name:           t.Name(),
		Status:         string(t.Status()),
		MaxSlots:       t.MaxSlots(),
		AvailableSlots: t.AvailableSlots(),
		CoordX:         t.CoordX(),
		CoordY:         t.CoordY(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
}
