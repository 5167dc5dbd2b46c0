package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

func approvedCarrier(t *testing.T) *actor.Actor {
	t.Helper()
	a, err := actor.NewCarrier("carrier@example.com", "hash", actor.CarrierProfile{
		FirstName: "Maya", LastName: "Lindqvist", CompanyName: "Nordhaul AB",
	})
	require.NoError(t, err)
	require.NoError(t, a.SetCarrierStatus(actor.CarrierApproved))
	return a
}

func operatorAt(t *testing.T, terminalID uuid.UUID) *actor.Actor {
	t.Helper()
	a, err := actor.NewOperator("operator@example.com", "hash", actor.OperatorProfile{
		FirstName: "Jonas", LastName: "Berg",
	})
	require.NoError(t, err)
	require.NoError(t, a.AssignTerminal(terminalID))
	return a
}

func driverOf(t *testing.T, carrierID uuid.UUID) *actor.Actor {
	t.Helper()
	a, err := actor.NewDriver("driver@example.com", "hash", actor.DriverProfile{
		CarrierID: carrierID, FirstName: "Toni", LastName: "Kask",
	})
	require.NoError(t, err)
	return a
}

func bookingOf(t *testing.T, carrierID uuid.UUID) *Booking {
	t.Helper()
	bk, err := NewBooking(carrierID, uuid.New(), time.Now(), mustSlot(t, "08:00", "10:00"))
	require.NoError(t, err)
	return bk
}

func TestAuthorize_Carrier(t *testing.T) {
	carrier := approvedCarrier(t)
	own := bookingOf(t, carrier.ID())
	foreign := bookingOf(t, uuid.New())

	require.NoError(t, Authorize(carrier, OpCreate, own))
	require.NoError(t, Authorize(carrier, OpCancel, own))

	// Ownership is checked independently of the role.
	require.Error(t, Authorize(carrier, OpCreate, foreign))
	require.Error(t, Authorize(carrier, OpCancel, foreign))

	// Carriers never decide, assign or consume, even their own bookings.
	for _, op := range []Operation{OpDecide, OpAssign, OpConsume} {
		err := Authorize(carrier, op, own)
		require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	}
}

func TestAuthorize_UnapprovedCarrierCannotCreate(t *testing.T) {
	pending, err := actor.NewCarrier("pending@example.com", "hash", actor.CarrierProfile{
		FirstName: "Iris", LastName: "Vale",
	})
	require.NoError(t, err)

	bk := bookingOf(t, pending.ID())
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(pending, OpCreate, bk)))
	// Cancel does not require approval, only ownership.
	require.NoError(t, Authorize(pending, OpCancel, bk))
}

func TestAuthorize_Operator(t *testing.T) {
	carrier := approvedCarrier(t)
	bk := bookingOf(t, carrier.ID())

	assigned := operatorAt(t, bk.TerminalID())
	require.NoError(t, Authorize(assigned, OpDecide, bk))

	elsewhere := operatorAt(t, uuid.New())
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(elsewhere, OpDecide, bk)))

	unassigned, err := actor.NewOperator("new@example.com", "hash", actor.OperatorProfile{
		FirstName: "Sam", LastName: "Odd",
	})
	require.NoError(t, err)
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(unassigned, OpDecide, bk)))

	for _, op := range []Operation{OpCreate, OpCancel, OpAssign, OpConsume} {
		err := Authorize(assigned, op, bk)
		require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	}
}

func TestAuthorize_Driver(t *testing.T) {
	carrier := approvedCarrier(t)
	bk := bookingOf(t, carrier.ID())
	require.NoError(t, bk.Confirm(uuid.New()))

	ownDriver := driverOf(t, carrier.ID())
	foreignDriver := driverOf(t, uuid.New())

	require.NoError(t, Authorize(ownDriver, OpAssign, bk))
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(foreignDriver, OpAssign, bk)))

	// Consume requires being the assigned driver, not just carrier affinity.
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(ownDriver, OpConsume, bk)))
	require.NoError(t, bk.AssignDriver(ownDriver.ID()))
	require.NoError(t, Authorize(ownDriver, OpConsume, bk))

	other := driverOf(t, carrier.ID())
	require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(Authorize(other, OpConsume, bk)))
}

func TestAuthorize_AdminDenied(t *testing.T) {
	admin, err := actor.NewAdmin("admin@example.com", "hash")
	require.NoError(t, err)

	bk := bookingOf(t, uuid.New())
	for _, op := range []Operation{OpCreate, OpDecide, OpCancel, OpAssign, OpConsume} {
		err := Authorize(admin, op, bk)
		require.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	}
}
