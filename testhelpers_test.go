//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/portlink/terminal-booking/internal/application"
	"github.com/portlink/terminal-booking/internal/domain/actor"
	terminalDomain "github.com/portlink/terminal-booking/internal/domain/terminal"
	"github.com/portlink/terminal-booking/internal/repository"
	"github.com/portlink/terminal-booking/pkg/kafka"
)

// nopPublisher drops events; eventing is covered by its own unit tests.
type nopPublisher struct{}

func (nopPublisher) PublishEvent(context.Context, string, *kafka.CloudEvent) error { return nil }

// testStack holds the wired services and repositories over a real database.
type testStack struct {
	DB            *gorm.DB
	Actors        *repository.GormActorRepository
	Terminals     *repository.GormTerminalRepository
	Bookings      *repository.GormBookingRepository
	Notifications *repository.GormNotificationRepository

	BookingService *application.BookingService
	AccountService *application.AccountService
}

// setupPostgres starts a PostgreSQL container and returns a migrated GORM DB.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("test_booking"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.OperatorProfileModel{},
		&repository.CarrierProfileModel{},
		&repository.DriverProfileModel{},
		&repository.TerminalModel{},
		&repository.BookingModel{},
		&repository.NotificationModel{},
	))
	return db
}

// setupStack wires repositories and services over the given database.
func setupStack(t *testing.T, db *gorm.DB) *testStack {
	t.Helper()
	log := zap.NewNop()

	actors := repository.NewGormActorRepository(db)
	terminals := repository.NewGormTerminalRepository(db)
	bookings := repository.NewGormBookingRepository(db)
	notifications := repository.NewGormNotificationRepository(db)

	return &testStack{
		DB:            db,
		Actors:        actors,
		Terminals:     terminals,
		Bookings:      bookings,
		Notifications: notifications,
		BookingService: application.NewBookingService(
			bookings, actors, terminals, notifications, nopPublisher{}, log,
		),
		AccountService: application.NewAccountService(actors, log),
	}
}

// seedApprovedCarrier persists an approved carrier account.
func seedApprovedCarrier(t *testing.T, s *testStack, email string) *actor.Actor {
	t.Helper()
	ctx := context.Background()

	carrier, err := actor.NewCarrier(email, "hash", actor.CarrierProfile{
		FirstName: "Maya", LastName: "Lindqvist", CompanyName: "Nordhaul AB",
	})
	require.NoError(t, err)
	require.NoError(t, carrier.SetCarrierStatus(actor.CarrierApproved))
	require.NoError(t, s.Actors.Save(ctx, carrier))
	return carrier
}

// seedTerminalWithOperator persists an active terminal and its operator.
func seedTerminalWithOperator(t *testing.T, s *testStack, email string) (*terminalDomain.Terminal, *actor.Actor) {
	t.Helper()
	ctx := context.Background()

	term, err := terminalDomain.NewTerminal("North Gate", 12, 12, 57.70, 11.96)
	require.NoError(t, err)
	require.NoError(t, s.Terminals.Save(ctx, term))

	operator, err := actor.NewOperator(email, "hash", actor.OperatorProfile{
		FirstName: "Jonas", LastName: "Berg",
	})
	require.NoError(t, err)
	require.NoError(t, operator.AssignTerminal(term.ID()))
	require.NoError(t, s.Actors.Save(ctx, operator))
	return term, operator
}

// seedDriver persists a driver owned by the given carrier.
func seedDriver(t *testing.T, s *testStack, carrier *actor.Actor, email string) *actor.Actor {
	t.Helper()

	driver, err := actor.NewDriver(email, "hash", actor.DriverProfile{
		CarrierID: carrier.ID(), FirstName: "Toni", LastName: "Kask",
	})
	require.NoError(t, err)
	require.NoError(t, s.Actors.Save(context.Background(), driver))
	return driver
}
