package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// UpdateUserRequest carries the mutable account fields. Role is immutable
// and deliberately absent.
type UpdateUserRequest struct {
	Email      *string    `json:"email"`
	IsActive   *bool      `json:"is_active"`
	TerminalID *uuid.UUID `json:"terminal_id"`
}

// ApproveCarrierRequest sets a carrier's approval status.
type ApproveCarrierRequest struct {
	CarrierUserID uuid.UUID `json:"carrier_user_id" binding:"required"`
	Status        string    `json:"status" binding:"required"`
}

// AccountService handles administrative account management.
type AccountService struct {
	actors actor.Repository
	logger *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(actors actor.Repository, logger *zap.Logger) *AccountService {
	return &AccountService{actors: actors, logger: logger}
}

// ListUsers returns a paginated list of accounts, optionally by role.
func (s *AccountService) ListUsers(ctx context.Context, roleFilter string, page, limit int) ([]UserDTO, int64, error) {
	var (
		actors []*actor.Actor
		total  int64
		err    error
	)
	if roleFilter != "" {
		role, parseErr := actor.ParseRole(roleFilter)
		if parseErr != nil {
			return nil, 0, apperrors.NewValidationError(parseErr.Error())
		}
		actors, total, err = s.actors.ListByRole(ctx, role, page, limit)
	} else {
		actors, total, err = s.actors.ListAll(ctx, page, limit)
	}
	if err != nil {
		return nil, 0, err
	}
	return toUserDTOs(actors), total, nil
}

// UpdateUser applies the mutable fields to an account. Assigning a terminal
// is only valid for operator accounts.
func (s *AccountService) UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	a, err := s.actors.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := a.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		a.SetActive(*req.IsActive)
	}
	if req.TerminalID != nil {
		if err := a.AssignTerminal(*req.TerminalID); err != nil {
			return nil, err
		}
	}

	if err := s.actors.Update(ctx, a); err != nil {
		return nil, err
	}
	dto := toUserDTO(a)
	return &dto, nil
}

// DeleteUser removes the account and everything referencing it in one
// transaction: notifications, bookings the user owns or fulfills, the role
// profile and the user row. There is no soft delete.
func (s *AccountService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.actors.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.actors.Purge(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user purged", zap.String("user_id", userID.String()))
	return nil
}

// ListCarriers returns paginated carrier accounts for review.
func (s *AccountService) ListCarriers(ctx context.Context, page, limit int) ([]UserDTO, int64, error) {
	actors, total, err := s.actors.ListByRole(ctx, actor.RoleCarrier, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toUserDTOs(actors), total, nil
}

// SetCarrierStatus moves a carrier through its approval lifecycle. Only
// APPROVED carriers may create bookings.
func (s *AccountService) SetCarrierStatus(ctx context.Context, req ApproveCarrierRequest) (*UserDTO, error) {
	status, err := actor.ParseCarrierStatus(req.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	a, err := s.actors.FindByID(ctx, req.CarrierUserID)
	if err != nil {
		return nil, err
	}
	if err := a.SetCarrierStatus(status); err != nil {
		return nil, err
	}
	if err := s.actors.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("carrier status changed",
		zap.String("carrier_id", a.ID().String()),
		zap.String("status", string(status)),
	)
	dto := toUserDTO(a)
	return &dto, nil
}

// ListCarrierDrivers returns the driver accounts owned by a carrier.
func (s *AccountService) ListCarrierDrivers(ctx context.Context, carrierID uuid.UUID) ([]UserDTO, error) {
	drivers, err := s.actors.ListDriversByCarrier(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(drivers), nil
}

func toUserDTOs(actors []*actor.Actor) []UserDTO {
	dtos := make([]UserDTO, len(actors))
	for i, a := range actors {
		dtos[i] = toUserDTO(a)
	}
	return dtos
}
