package booking

import (
	"github.com/portlink/terminal-booking/pkg/apperrors"

	"github.com/portlink/terminal-booking/internal/domain/actor"
)

// Operation identifies a booking operation subject to authorization.
type Operation string

const (
	OpCreate  Operation = "create"
	OpDecide  Operation = "decide"
	OpCancel  Operation = "cancel"
	OpAssign  Operation = "assign"
	OpConsume Operation = "consume"
)

// Authorize is the authorization gate: a pure function of (actor role,
// actor identity, target booking, operation). The endpoint-level role check
// is only a prerequisite filter; ownership is decided here. Returns nil on
// permit, a Forbidden error on deny.
func Authorize(a *actor.Actor, op Operation, b *Booking) error {
	switch a.Role() {
	case actor.RoleCarrier:
		return authorizeCarrier(a, op, b)
	case actor.RoleOperator:
		return authorizeOperator(a, op, b)
	case actor.RoleDriver:
		return authorizeDriver(a, op, b)
	case actor.RoleAdmin:
		// Admins manage accounts and terminals, not booking lifecycles.
		return apperrors.NewForbiddenError("admins cannot perform booking operations")
	}
	return apperrors.NewForbiddenError("operation not permitted")
}

func authorizeCarrier(a *actor.Actor, op Operation, b *Booking) error {
	switch op {
	case OpCreate:
		if b.CarrierID() != a.ID() {
			return apperrors.NewForbiddenError("cannot create booking for another carrier")
		}
		if !a.IsApprovedCarrier() {
			return apperrors.NewForbiddenError("carrier not approved to create bookings")
		}
		return nil
	case OpCancel:
		if b.CarrierID() != a.ID() {
			return apperrors.NewForbiddenError("booking does not belong to this carrier")
		}
		return nil
	}
	return apperrors.NewForbiddenError("operation not permitted for carriers")
}

func authorizeOperator(a *actor.Actor, op Operation, b *Booking) error {
	if op != OpDecide {
		return apperrors.NewForbiddenError("operation not permitted for operators")
	}
	profile := a.Operator()
	if profile == nil || profile.TerminalID == nil {
		return apperrors.NewForbiddenError("operator not assigned to a terminal")
	}
	if *profile.TerminalID != b.TerminalID() {
		return apperrors.NewForbiddenError("booking belongs to a different terminal")
	}
	return nil
}

func authorizeDriver(a *actor.Actor, op Operation, b *Booking) error {
	profile := a.Driver()
	if profile == nil {
		return apperrors.NewForbiddenError("driver profile not found")
	}
	switch op {
	case OpAssign:
		if b.CarrierID() != profile.CarrierID {
			return apperrors.NewForbiddenError("booking belongs to a different carrier")
		}
		return nil
	case OpConsume:
		if b.DriverID() == nil || *b.DriverID() != a.ID() {
			return apperrors.NewForbiddenError("booking is not assigned to this driver")
		}
		return nil
	}
	return apperrors.NewForbiddenError("operation not permitted for drivers")
}
