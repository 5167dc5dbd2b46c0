package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/portlink/terminal-booking/internal/domain/booking"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primaryKey"`
	CarrierID  uuid.UUID                `gorm:"type:uuid;index;not null"`
	DriverID   *uuid.UUID               `gorm:"type:uuid;index"`
	TerminalID uuid.UUID                `gorm:"type:uuid;index:idx_bookings_terminal_date;not null"`
	Date       time.Time                `gorm:"type:date;index:idx_bookings_terminal_date;not null"`
	StartTime  bookingDomain.TimeOfDay  `gorm:"type:time;not null"`
	EndTime    bookingDomain.TimeOfDay  `gorm:"type:time;not null"`
	Status     string                   `gorm:"not null;size:20;index"`
	DecidedBy  *uuid.UUID               `gorm:"type:uuid"`
	QRPayload  string                   `gorm:"column:qr_payload;type:text"`
	Version    int64                    `gorm:"not null;default:1"`
	CreatedAt  time.Time                `gorm:"not null"`
	UpdatedAt  time.Time                `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository contract.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Create inserts a new booking, re-checking the overlap rule inside the same
// transaction. The terminal row is locked FOR UPDATE first, which serializes
// concurrent creates for the same terminal so two requests cannot both pass
// the conflict check against the same pre-state.
func (r *GormBookingRepository) Create(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var term TerminalModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", b.TerminalID()).
			First(&term).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("terminal", b.TerminalID().String())
			}
			return fmt.Errorf("failed to lock terminal row: %w", err)
		}

		slot := b.Slot()
		var conflicts int64
		if err := tx.Model(&BookingModel{}).
			Where("terminal_id = ? AND date = ?", b.TerminalID(), b.Date()).
			Where("status IN ?", blockingStatusStrings()).
			Where("start_time < ? AND end_time > ?", slot.End, slot.Start).
			Count(&conflicts).Error; err != nil {
			return fmt.Errorf("failed to check slot conflicts: %w", err)
		}
		if conflicts > 0 {
			return apperrors.NewSlotConflictError("time slot already booked at this terminal")
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
	return err
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"driver_id":  model.DriverID,
			"status":     model.Status,
			"decided_by": model.DecidedBy,
			"qr_payload": model.QRPayload,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// ListByCarrier retrieves a carrier's bookings, newest first.
func (r *GormBookingRepository) ListByCarrier(ctx context.Context, carrierID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("carrier_id = ?", carrierID)
	return r.list(applyFilter(q, f))
}

// ListByTerminal retrieves a terminal's bookings, newest first.
func (r *GormBookingRepository) ListByTerminal(ctx context.Context, terminalID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("terminal_id = ?", terminalID)
	return r.list(applyFilter(q, f))
}

// ListByDriver retrieves bookings assigned to a driver.
func (r *GormBookingRepository) ListByDriver(ctx context.Context, driverID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("driver_id = ?", driverID)
	return r.list(applyFilter(q, f))
}

// ListAssignableForCarrier retrieves confirmed, unassigned bookings of a carrier.
func (r *GormBookingRepository) ListAssignableForCarrier(ctx context.Context, carrierID uuid.UUID, date *time.Time) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Where("carrier_id = ?", carrierID).
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Where("driver_id IS NULL")
	if date != nil {
		q = q.Where("date = ?", *date)
	}
	return r.list(q)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *GormBookingRepository) list(q *gorm.DB) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

func applyFilter(q *gorm.DB, f bookingDomain.Filter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	return q
}

func blockingStatusStrings() []string {
	statuses := make([]string, len(bookingDomain.BlockingStatuses))
	for i, s := range bookingDomain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	slot := b.Slot()
	return &BookingModel{
		ID:         b.ID(),
		CarrierID:  b.CarrierID(),
		DriverID:   b.DriverID(),
		TerminalID: b.TerminalID(),
		Date:       b.Date(),
		StartTime:  slot.Start,
		EndTime:    slot.End,
		Status:     string(b.Status()),
		DecidedBy:  b.DecidedBy(),
		QRPayload:  b.QRPayload(),
		Version:    b.Version(),
		CreatedAt:  b.CreatedAt(),
		UpdatedAt:  b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	slot := bookingDomain.TimeSlot{Start: m.StartTime, End: m.EndTime}
	return bookingDomain.Reconstruct(
		m.ID,
		m.CarrierID,
		m.DriverID,
		m.TerminalID,
		m.Date,
		slot,
		status,
		m.DecidedBy,
		m.QRPayload,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
