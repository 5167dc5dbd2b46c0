// Package actor contains the identity aggregate: one account per actor with
// a closed role tag and role-specific profile data as a tagged variant.
package actor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// OperatorProfile is the role data of a terminal operator. TerminalID is nil
// until an administrator assigns a terminal.
type OperatorProfile struct {
	FirstName  string
	LastName   string
	Phone      string
	TerminalID *uuid.UUID
}

// CarrierProfile is the role data of a carrier company account.
type CarrierProfile struct {
	FirstName        string
	LastName         string
	Phone            string
	CompanyName      string
	Status           CarrierStatus
	ProofDocumentURL string
}

// DriverProfile is the role data of a truck driver. CarrierID references the
// owning carrier and is fixed at registration.
type DriverProfile struct {
	CarrierID   uuid.UUID
	FirstName   string
	LastName    string
	Phone       string
	TruckNumber string
	TruckPlate  string
	Status      DriverStatus
}

// Actor is the identity aggregate. Exactly one of the profile fields is
// non-nil, matching the role tag; admins carry no profile.
type Actor struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
	active       bool

	operator *OperatorProfile
	carrier  *CarrierProfile
	driver   *DriverProfile

	createdAt time.Time
	updatedAt time.Time
}

// NewAdmin creates an administrator account.
func NewAdmin(email, passwordHash string) (*Actor, error) {
	return newActor(email, passwordHash, RoleAdmin)
}

// NewOperator creates an operator account with no terminal assignment yet.
func NewOperator(email, passwordHash string, profile OperatorProfile) (*Actor, error) {
	a, err := newActor(email, passwordHash, RoleOperator)
	if err != nil {
		return nil, err
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return nil, apperrors.NewValidationError("first and last name are required")
	}
	a.operator = &profile
	return a, nil
}

// NewCarrier creates a carrier account in PENDING approval status.
func NewCarrier(email, passwordHash string, profile CarrierProfile) (*Actor, error) {
	a, err := newActor(email, passwordHash, RoleCarrier)
	if err != nil {
		return nil, err
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return nil, apperrors.NewValidationError("first and last name are required")
	}
	profile.Status = CarrierPending
	a.carrier = &profile
	return a, nil
}

// NewDriver creates a driver account owned by the given carrier.
func NewDriver(email, passwordHash string, profile DriverProfile) (*Actor, error) {
	a, err := newActor(email, passwordHash, RoleDriver)
	if err != nil {
		return nil, err
	}
	if profile.CarrierID == uuid.Nil {
		return nil, apperrors.NewValidationError("carrier_user_id is required for driver registration")
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return nil, apperrors.NewValidationError("first and last name are required")
	}
	profile.Status = DriverActive
	a.driver = &profile
	return a, nil
}

func newActor(email, passwordHash string, role Role) (*Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if passwordHash == "" {
		return nil, apperrors.NewValidationError("password is required")
	}
	now := time.Now().UTC()
	return &Actor{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds an Actor from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	email, passwordHash string,
	role Role,
	active bool,
	operator *OperatorProfile,
	carrier *CarrierProfile,
	driver *DriverProfile,
	createdAt, updatedAt time.Time,
) *Actor {
	return &Actor{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		active:       active,
		operator:     operator,
		carrier:      carrier,
		driver:       driver,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the actor's unique identifier.
func (a *Actor) ID() uuid.UUID { return a.id }

// Email returns the actor's login email.
func (a *Actor) Email() string { return a.email }

// PasswordHash returns the stored bcrypt hash.
func (a *Actor) PasswordHash() string { return a.passwordHash }

// Role returns the immutable role tag.
func (a *Actor) Role() Role { return a.role }

// IsActive reports whether the account may authenticate.
func (a *Actor) IsActive() bool { return a.active }

// Operator returns the operator profile, or nil for other roles.
func (a *Actor) Operator() *OperatorProfile { return a.operator }

// Carrier returns the carrier profile, or nil for other roles.
func (a *Actor) Carrier() *CarrierProfile { return a.carrier }

// Driver returns the driver profile, or nil for other roles.
func (a *Actor) Driver() *DriverProfile { return a.driver }

// CreatedAt returns the creation timestamp.
func (a *Actor) CreatedAt() time.Time { return a.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (a *Actor) UpdatedAt() time.Time { return a.updatedAt }

// --- Behavior ---

// SetEmail updates the login email (admin operation).
func (a *Actor) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("a valid email is required")
	}
	a.email = email
	a.updatedAt = time.Now().UTC()
	return nil
}

// SetActive toggles the activation flag (admin operation).
func (a *Actor) SetActive(active bool) {
	a.active = active
	a.updatedAt = time.Now().UTC()
}

// SetCarrierStatus updates a carrier's approval status.
func (a *Actor) SetCarrierStatus(status CarrierStatus) error {
	if a.carrier == nil {
		return apperrors.NewValidationError("actor is not a carrier")
	}
	if !status.IsValid() {
		return apperrors.NewValidationError("invalid carrier status")
	}
	a.carrier.Status = status
	a.updatedAt = time.Now().UTC()
	return nil
}

// AssignTerminal binds an operator to the terminal it administers.
func (a *Actor) AssignTerminal(terminalID uuid.UUID) error {
	if a.operator == nil {
		return apperrors.NewValidationError("actor is not an operator")
	}
	if terminalID == uuid.Nil {
		return apperrors.NewValidationError("terminal ID is required")
	}
	a.operator.TerminalID = &terminalID
	a.updatedAt = time.Now().UTC()
	return nil
}

// IsApprovedCarrier reports whether the actor is a carrier cleared to book.
func (a *Actor) IsApprovedCarrier() bool {
	return a.carrier != nil && a.carrier.Status == CarrierApproved
}
