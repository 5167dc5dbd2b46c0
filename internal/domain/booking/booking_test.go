package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portlink/terminal-booking/pkg/apperrors"
)

func mustSlot(t *testing.T, start, end string) TimeSlot {
	t.Helper()
	st, err := ParseTimeOfDay(start)
	require.NoError(t, err)
	et, err := ParseTimeOfDay(end)
	require.NoError(t, err)
	slot, err := NewTimeSlot(st, et)
	require.NoError(t, err)
	return slot
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBooking(uuid.New(), uuid.New(), time.Now(), mustSlot(t, "08:00", "10:00"))
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	carrierID := uuid.New()
	terminalID := uuid.New()
	date := time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC)

	bk, err := NewBooking(carrierID, terminalID, date, mustSlot(t, "08:00", "10:00"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, carrierID, bk.CarrierID())
	assert.Equal(t, terminalID, bk.TerminalID())
	assert.Nil(t, bk.DriverID())
	assert.Nil(t, bk.DecidedBy())
	assert.Empty(t, bk.QRPayload())
	assert.Equal(t, int64(1), bk.Version())

	// Date is normalized to midnight UTC.
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), bk.Date())
}

func TestNewBooking_Validation(t *testing.T) {
	slot := mustSlot(t, "08:00", "10:00")

	_, err := NewBooking(uuid.Nil, uuid.New(), time.Now(), slot)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = NewBooking(uuid.New(), uuid.Nil, time.Now(), slot)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = NewBooking(uuid.New(), uuid.New(), time.Time{}, slot)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	// Zero-length slot is rejected.
	eight, _ := ParseTimeOfDay("08:00")
	_, err = NewBooking(uuid.New(), uuid.New(), time.Now(), TimeSlot{Start: eight, End: eight})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestConfirm_SetsDecisionAndQR(t *testing.T) {
	bk := newTestBooking(t)
	operatorID := uuid.New()

	require.NoError(t, bk.Confirm(operatorID))

	assert.Equal(t, StatusConfirmed, bk.Status())
	require.NotNil(t, bk.DecidedBy())
	assert.Equal(t, operatorID, *bk.DecidedBy())

	payload := bk.QRPayload()
	assert.True(t, strings.HasPrefix(payload, "booking:"+bk.ID().String()))
	assert.Contains(t, payload, "|terminal:"+bk.TerminalID().String())
	assert.Contains(t, payload, "|timestamp:")
}

func TestReject(t *testing.T) {
	bk := newTestBooking(t)
	operatorID := uuid.New()

	require.NoError(t, bk.Reject(operatorID))

	assert.Equal(t, StatusRejected, bk.Status())
	require.NotNil(t, bk.DecidedBy())
	assert.Equal(t, operatorID, *bk.DecidedBy())
	assert.Empty(t, bk.QRPayload(), "rejection must not attach a QR payload")
}

func TestCancel_FromPendingAndConfirmed(t *testing.T) {
	pending := newTestBooking(t)
	require.NoError(t, pending.Cancel())
	assert.Equal(t, StatusCancelled, pending.Status())

	confirmed := newTestBooking(t)
	require.NoError(t, confirmed.Confirm(uuid.New()))
	require.NoError(t, confirmed.Cancel())
	assert.Equal(t, StatusCancelled, confirmed.Status())
}

func TestTerminalStates_RejectAllTransitions(t *testing.T) {
	for _, setup := range []func(*Booking){
		func(b *Booking) { _ = b.Reject(uuid.New()) },
		func(b *Booking) { _ = b.Cancel() },
		func(b *Booking) {
			_ = b.Confirm(uuid.New())
			_ = b.AssignDriver(uuid.New())
			_ = b.Consume(*b.DriverID())
		},
	} {
		bk := newTestBooking(t)
		setup(bk)
		require.True(t, bk.Status().IsTerminal(), "setup should leave booking terminal, got %s", bk.Status())

		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(bk.Confirm(uuid.New())))
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(bk.Reject(uuid.New())))
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(bk.Cancel()))
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(bk.Consume(uuid.New())))
	}
}

func TestAssignDriver(t *testing.T) {
	bk := newTestBooking(t)
	driverID := uuid.New()

	// Cannot assign while pending.
	err := bk.AssignDriver(driverID)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))

	require.NoError(t, bk.Confirm(uuid.New()))
	require.NoError(t, bk.AssignDriver(driverID))
	require.NotNil(t, bk.DriverID())
	assert.Equal(t, driverID, *bk.DriverID())

	// Assignment happens exactly once.
	err = bk.AssignDriver(uuid.New())
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
	assert.Equal(t, driverID, *bk.DriverID())
}

func TestConsume(t *testing.T) {
	bk := newTestBooking(t)
	driverID := uuid.New()

	require.NoError(t, bk.Confirm(uuid.New()))

	// Unassigned booking cannot be consumed.
	err := bk.Consume(driverID)
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))

	require.NoError(t, bk.AssignDriver(driverID))

	// A different driver is rejected with Forbidden, not InvalidState.
	err = bk.Consume(uuid.New())
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.Equal(t, StatusConfirmed, bk.Status())

	require.NoError(t, bk.Consume(driverID))
	assert.Equal(t, StatusConsumed, bk.Status())
}

func TestStatusMachine(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPending.CanTransitionTo(StatusConsumed))

	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusConsumed))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPending))

	for _, s := range []Status{StatusRejected, StatusCancelled, StatusConsumed} {
		assert.True(t, s.IsTerminal())
		assert.False(t, s.Blocks())
	}
	assert.True(t, StatusPending.Blocks())
	assert.True(t, StatusConfirmed.Blocks())

	_, err := ParseStatus("SHIPPED")
	assert.Error(t, err)
}

func TestIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	require.Equal(t, int64(1), bk.Version())
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
