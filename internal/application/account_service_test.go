package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

func newAccountFixture(t *testing.T) (*AccountService, *fakeActorRepo, *actor.Actor) {
	t.Helper()
	actors := newFakeActorRepo()
	svc := NewAccountService(actors, zap.NewNop())

	carrier, err := actor.NewCarrier("carrier@example.com", "hash", actor.CarrierProfile{
		FirstName: "Maya", LastName: "Lindqvist", CompanyName: "Nordhaul AB",
	})
	require.NoError(t, err)
	require.NoError(t, actors.Save(context.Background(), carrier))
	return svc, actors, carrier
}

func TestUpdateUser(t *testing.T) {
	svc, _, carrier := newAccountFixture(t)
	ctx := context.Background()

	email := "renamed@example.com"
	active := false
	dto, err := svc.UpdateUser(ctx, carrier.ID(), UpdateUserRequest{Email: &email, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", dto.Email)
	assert.False(t, dto.IsActive)

	// Terminal assignment only applies to operators.
	terminalID := uuid.New()
	_, err = svc.UpdateUser(ctx, carrier.ID(), UpdateUserRequest{TerminalID: &terminalID})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = svc.UpdateUser(ctx, uuid.New(), UpdateUserRequest{Email: &email})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestUpdateUser_AssignOperatorTerminal(t *testing.T) {
	svc, actors, _ := newAccountFixture(t)
	ctx := context.Background()

	op, err := actor.NewOperator("op@example.com", "hash", actor.OperatorProfile{
		FirstName: "Jonas", LastName: "Berg",
	})
	require.NoError(t, err)
	require.NoError(t, actors.Save(ctx, op))

	terminalID := uuid.New()
	dto, err := svc.UpdateUser(ctx, op.ID(), UpdateUserRequest{TerminalID: &terminalID})
	require.NoError(t, err)
	require.NotNil(t, dto.Operator)
	require.NotNil(t, dto.Operator.TerminalID)
	assert.Equal(t, terminalID, *dto.Operator.TerminalID)
}

func TestDeleteUser(t *testing.T) {
	svc, actors, carrier := newAccountFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, carrier.ID()))

	_, err := actors.FindByID(ctx, carrier.ID())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	err = svc.DeleteUser(ctx, carrier.ID())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestSetCarrierStatus(t *testing.T) {
	svc, _, carrier := newAccountFixture(t)
	ctx := context.Background()

	dto, err := svc.SetCarrierStatus(ctx, ApproveCarrierRequest{
		CarrierUserID: carrier.ID(),
		Status:        "APPROVED",
	})
	require.NoError(t, err)
	require.NotNil(t, dto.Carrier)
	assert.Equal(t, "APPROVED", dto.Carrier.Status)

	_, err = svc.SetCarrierStatus(ctx, ApproveCarrierRequest{
		CarrierUserID: carrier.ID(),
		Status:        "FROZEN",
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	// Non-carrier targets are rejected by the aggregate.
	admin, err := actor.NewAdmin("admin@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, svc.actors.Save(ctx, admin))
	_, err = svc.SetCarrierStatus(ctx, ApproveCarrierRequest{
		CarrierUserID: admin.ID(),
		Status:        "APPROVED",
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestListUsers(t *testing.T) {
	svc, actors, _ := newAccountFixture(t)
	ctx := context.Background()

	admin, err := actor.NewAdmin("admin@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, actors.Save(ctx, admin))

	all, total, err := svc.ListUsers(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	carriers, total, err := svc.ListUsers(ctx, "CARRIER", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, carriers, 1)
	assert.Equal(t, "CARRIER", carriers[0].Role)

	_, _, err = svc.ListUsers(ctx, "WIZARD", 1, 20)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestListCarrierDrivers(t *testing.T) {
	svc, actors, carrier := newAccountFixture(t)
	ctx := context.Background()

	for _, email := range []string{"d1@example.com", "d2@example.com"} {
		d, err := actor.NewDriver(email, "hash", actor.DriverProfile{
			CarrierID: carrier.ID(), FirstName: "T", LastName: "K",
		})
		require.NoError(t, err)
		require.NoError(t, actors.Save(ctx, d))
	}

	drivers, err := svc.ListCarrierDrivers(ctx, carrier.ID())
	require.NoError(t, err)
	assert.Len(t, drivers, 2)

	none, err := svc.ListCarrierDrivers(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
