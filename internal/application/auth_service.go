package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	"github.com/portlink/terminal-booking/pkg/apperrors"
	"github.com/portlink/terminal-booking/pkg/auth"
)

// RegisterRequest holds the data for role-specific registration. Profile
// fields are validated per role; drivers must name an existing carrier.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`

	// Carrier fields.
	CompanyName      string `json:"company_name"`
	ProofDocumentURL string `json:"proof_document_url"`

	// Driver fields.
	CarrierUserID *uuid.UUID `json:"carrier_user_id"`
	TruckNumber   string     `json:"truck_number"`
	TruckPlate    string     `json:"truck_plate"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPairDTO carries the issued JWT pair.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResultDTO is the response to register and login.
type AuthResultDTO struct {
	User   UserDTO      `json:"user"`
	Tokens TokenPairDTO `json:"tokens"`
}

// UserDTO is the response representation of an actor with its role profile.
type UserDTO struct {
	ID        uuid.UUID           `json:"id"`
	Email     string              `json:"email"`
	Role      string              `json:"role"`
	IsActive  bool                `json:"is_active"`
	Operator  *OperatorProfileDTO `json:"operator_profile,omitempty"`
	Carrier   *CarrierProfileDTO  `json:"carrier_profile,omitempty"`
	Driver    *DriverProfileDTO   `json:"driver_profile,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// OperatorProfileDTO is the operator role profile.
type OperatorProfileDTO struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Phone      string     `json:"phone"`
	TerminalID *uuid.UUID `json:"terminal_id,omitempty"`
}

// CarrierProfileDTO is the carrier role profile.
type CarrierProfileDTO struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone"`
	CompanyName      string `json:"company_name"`
	Status           string `json:"status"`
	ProofDocumentURL string `json:"proof_document_url,omitempty"`
}

// DriverProfileDTO is the driver role profile.
type DriverProfileDTO struct {
	CarrierUserID uuid.UUID `json:"carrier_user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	TruckNumber   string    `json:"truck_number"`
	TruckPlate    string    `json:"truck_plate"`
	Status        string    `json:"status"`
}

// AuthService handles registration, login and profile retrieval.
type AuthService struct {
	actors actor.Repository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(actors actor.Repository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{actors: actors, jwt: jwt, logger: logger}
}

// Register creates a new account for the requested role. Carriers start in
// PENDING approval status; drivers must reference an existing, matching
// carrier account. The role is fixed for the lifetime of the account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResultDTO, error) {
	role, err := actor.ParseRole(req.Role)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	var a *actor.Actor
	switch role {
	case actor.RoleAdmin:
		a, err = actor.NewAdmin(req.Email, hash)
	case actor.RoleOperator:
		a, err = actor.NewOperator(req.Email, hash, actor.OperatorProfile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
	case actor.RoleCarrier:
		a, err = actor.NewCarrier(req.Email, hash, actor.CarrierProfile{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Phone:            req.Phone,
			CompanyName:      req.CompanyName,
			ProofDocumentURL: req.ProofDocumentURL,
		})
	case actor.RoleDriver:
		if req.CarrierUserID == nil {
			return nil, apperrors.NewValidationError("carrier_user_id is required for driver registration")
		}
		carrier, findErr := s.actors.FindByID(ctx, *req.CarrierUserID)
		if findErr != nil {
			return nil, apperrors.NewValidationError("carrier_user_id does not reference a carrier account")
		}
		if carrier.Role() != actor.RoleCarrier {
			return nil, apperrors.NewValidationError("carrier_user_id does not reference a carrier account")
		}
		a, err = actor.NewDriver(req.Email, hash, actor.DriverProfile{
			CarrierID:   carrier.ID(),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Phone:       req.Phone,
			TruckNumber: req.TruckNumber,
			TruckPlate:  req.TruckPlate,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := s.actors.Save(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", a.ID().String()),
		zap.String("role", string(a.Role())),
	)
	return s.buildAuthResult(a)
}

// Login verifies credentials and issues a JWT pair. Inactive accounts are
// rejected. The error is uniform so callers cannot probe for accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResultDTO, error) {
	a, err := s.actors.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if !auth.VerifyPassword(a.PasswordHash(), req.Password) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	if !a.IsActive() {
		return nil, apperrors.NewUnauthorizedError("account is deactivated")
	}
	return s.buildAuthResult(a)
}

// GetProfile returns the current actor with its role profile.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	a, err := s.actors.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(a)
	return &dto, nil
}

func (s *AuthService) buildAuthResult(a *actor.Actor) (*AuthResultDTO, error) {
	access, refresh, err := s.jwt.GenerateTokenPair(a.ID(), string(a.Role()))
	if err != nil {
		return nil, err
	}
	return &AuthResultDTO{
		User:   toUserDTO(a),
		Tokens: TokenPairDTO{AccessToken: access, RefreshToken: refresh},
	}, nil
}

func toUserDTO(a *actor.Actor) UserDTO {
	dto := UserDTO{
		ID:        a.ID(),
		Email:     a.Email(),
		Role:      string(a.Role()),
		IsActive:  a.IsActive(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
	if p := a.Operator(); p != nil {
		dto.Operator = &OperatorProfileDTO{
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			Phone:      p.Phone,
			TerminalID: p.TerminalID,
		}
	}
	if p := a.Carrier(); p != nil {
		dto.Carrier = &CarrierProfileDTO{
			FirstName:        p.FirstName,
			LastName:         p.LastName,
			Phone:            p.Phone,
			CompanyName:      p.CompanyName,
			Status:           string(p.Status),
			ProofDocumentURL: p.ProofDocumentURL,
		}
	}
	if p := a.Driver(); p != nil {
		dto.Driver = &DriverProfileDTO{
			CarrierUserID: p.CarrierID,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Phone:         p.Phone,
			TruckNumber:   p.TruckNumber,
			TruckPlate:    p.TruckPlate,
			Status:        string(p.Status),
		}
	}
	return dto
}
