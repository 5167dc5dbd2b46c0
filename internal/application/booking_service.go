package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	bookingDomain "github.com/portlink/terminal-booking/internal/domain/booking"
	notificationDomain "github.com/portlink/terminal-booking/internal/domain/notification"
	terminalDomain "github.com/portlink/terminal-booking/internal/domain/terminal"
	"github.com/portlink/terminal-booking/internal/events"
	"github.com/portlink/terminal-booking/pkg/apperrors"
	"github.com/portlink/terminal-booking/pkg/kafka"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	TerminalID uuid.UUID `json:"terminal_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	StartTime  string    `json:"start_time" binding:"required"`
	EndTime    string    `json:"end_time" binding:"required"`
}

// DecideBookingRequest carries the operator's decision on a pending booking.
type DecideBookingRequest struct {
	Approve bool `json:"approve"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID         uuid.UUID  `json:"id"`
	CarrierID  uuid.UUID  `json:"carrier_id"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty"`
	TerminalID uuid.UUID  `json:"terminal_id"`
	Date       string     `json:"date"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	Status     string     `json:"status"`
	DecidedBy  *uuid.UUID `json:"decided_by,omitempty"`
	QRPayload  string     `json:"qr_payload,omitempty"`
	Version    int64      `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BookingFilter narrows booking listings from query parameters.
type BookingFilter struct {
	Status string
	Date   string
}

// EventPublisher publishes enveloped domain events. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *kafka.CloudEvent) error
}

// BookingService orchestrates the booking lifecycle use cases.
type BookingService struct {
	bookings      bookingDomain.Repository
	actors        actor.Repository
	terminals     terminalDomain.Repository
	notifications notificationDomain.Repository
	producer      EventPublisher
	logger        *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	actors actor.Repository,
	terminals terminalDomain.Repository,
	notifications notificationDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		actors:        actors,
		terminals:     terminals,
		notifications: notifications,
		producer:      producer,
		logger:        logger,
	}
}

// CreateBooking creates a pending booking for the carrier. The repository
// re-checks the slot overlap rule inside its transaction, so a success here
// means the interval was free at commit time.
func (s *BookingService) CreateBooking(ctx context.Context, carrierID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	carrier, err := s.actors.FindByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	slot, err := parseTimeSlot(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	term, err := s.terminals.FindByID(ctx, req.TerminalID)
	if err != nil {
		return nil, err
	}
	if !term.IsActive() {
		return nil, apperrors.NewValidationError("terminal is not accepting bookings")
	}

	bk, err := bookingDomain.NewBooking(carrierID, term.ID(), date, slot)
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.Authorize(carrier, bookingDomain.OpCreate, bk); err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		CarrierID:  bk.CarrierID(),
		TerminalID: bk.TerminalID(),
		Date:       bk.Date().Format(dateLayout),
		StartTime:  bk.Slot().Start.String(),
		EndTime:    bk.Slot().End.String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// DecideBooking confirms or rejects a pending booking. Only the operator
// assigned to the booking's terminal may decide. The carrier is notified
// after the transition commits; notification failures never roll it back.
func (s *BookingService) DecideBooking(ctx context.Context, operatorID, bookingID uuid.UUID, approve bool) (*BookingDTO, error) {
	operator, err := s.actors.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.Authorize(operator, bookingDomain.OpDecide, bk); err != nil {
		return nil, err
	}

	if approve {
		err = bk.Confirm(operatorID)
	} else {
		err = bk.Reject(operatorID)
	}
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, bk)

	evt := events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		CarrierID:  bk.CarrierID(),
		TerminalID: bk.TerminalID(),
		OperatorID: operatorID,
		Status:     string(bk.Status()),
		Date:       bk.Date().Format(dateLayout),
		OccurredAt: time.Now().UTC(),
	}
	eventType := events.BookingConfirmed
	if !approve {
		eventType = events.BookingRejected
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking owned by the carrier.
func (s *BookingService) CancelBooking(ctx context.Context, carrierID, bookingID uuid.UUID) (*BookingDTO, error) {
	carrier, err := s.actors.FindByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.Authorize(carrier, bookingDomain.OpCancel, bk); err != nil {
		return nil, err
	}
	if err := bk.Cancel(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCancelledEvent{
		BookingID:  bk.ID(),
		CarrierID:  bk.CarrierID(),
		TerminalID: bk.TerminalID(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCancelled, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// AssignDriver lets a driver take a confirmed, unassigned booking of its own
// carrier. A driver can be assigned exactly once per booking.
func (s *BookingService) AssignDriver(ctx context.Context, driverID, bookingID uuid.UUID) (*BookingDTO, error) {
	driver, err := s.actors.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.Authorize(driver, bookingDomain.OpAssign, bk); err != nil {
		return nil, err
	}
	if err := bk.AssignDriver(driverID); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.DriverAssignedEvent{
		BookingID:  bk.ID(),
		CarrierID:  bk.CarrierID(),
		DriverID:   driverID,
		Date:       bk.Date().Format(dateLayout),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.DriverAssigned, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ConsumeBooking marks a confirmed booking as consumed by its assigned driver.
func (s *BookingService) ConsumeBooking(ctx context.Context, driverID, bookingID uuid.UUID) (*BookingDTO, error) {
	driver, err := s.actors.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.Authorize(driver, bookingDomain.OpConsume, bk); err != nil {
		return nil, err
	}
	if err := bk.Consume(driverID); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingConsumedEvent{
		BookingID:  bk.ID(),
		CarrierID:  bk.CarrierID(),
		DriverID:   driverID,
		TerminalID: bk.TerminalID(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingConsumed, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, visible only to actors related to it.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*BookingDTO, error) {
	a, err := s.actors.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisibility(a, bk); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// checkVisibility decides whether an actor may read a booking: the owning
// carrier, the deciding terminal's operator, a driver of the owning carrier,
// or an admin.
func (s *BookingService) checkVisibility(a *actor.Actor, bk *bookingDomain.Booking) error {
	switch a.Role() {
	case actor.RoleAdmin:
		return nil
	case actor.RoleCarrier:
		if bk.CarrierID() == a.ID() {
			return nil
		}
	case actor.RoleOperator:
		if p := a.Operator(); p != nil && p.TerminalID != nil && *p.TerminalID == bk.TerminalID() {
			return nil
		}
	case actor.RoleDriver:
		if p := a.Driver(); p != nil && p.CarrierID == bk.CarrierID() {
			return nil
		}
	}
	return apperrors.NewForbiddenError("booking is not visible to this user")
}

// ListCarrierBookings retrieves the carrier's own bookings.
func (s *BookingService) ListCarrierBookings(ctx context.Context, carrierID uuid.UUID, filter BookingFilter) ([]BookingDTO, error) {
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByCarrier(ctx, carrierID, f)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListTerminalBookings retrieves the bookings of the operator's terminal.
func (s *BookingService) ListTerminalBookings(ctx context.Context, operatorID uuid.UUID, filter BookingFilter) ([]BookingDTO, error) {
	operator, err := s.actors.FindByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	profile := operator.Operator()
	if profile == nil || profile.TerminalID == nil {
		return nil, apperrors.NewForbiddenError("operator not assigned to a terminal")
	}

	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByTerminal(ctx, *profile.TerminalID, f)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListDriverBookings retrieves the bookings assigned to the driver.
func (s *BookingService) ListDriverBookings(ctx context.Context, driverID uuid.UUID, filter BookingFilter) ([]BookingDTO, error) {
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByDriver(ctx, driverID, f)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListAssignableBookings retrieves confirmed, unassigned bookings of the
// driver's carrier, optionally narrowed to one date.
func (s *BookingService) ListAssignableBookings(ctx context.Context, driverID uuid.UUID, date string) ([]BookingDTO, error) {
	driver, err := s.actors.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	profile := driver.Driver()
	if profile == nil {
		return nil, apperrors.NewForbiddenError("driver profile not found")
	}

	var dateFilter *time.Time
	if date != "" {
		d, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		dateFilter = &d
	}

	bookings, err := s.bookings.ListAssignableForCarrier(ctx, profile.CarrierID, dateFilter)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// --- Helpers ---

// notifyDecision records a notification for the carrier after a decision has
// committed. Failures are logged and swallowed.
func (s *BookingService) notifyDecision(ctx context.Context, bk *bookingDomain.Booking) {
	bookingID := bk.ID()
	var n *notificationDomain.Notification
	switch bk.Status() {
	case bookingDomain.StatusConfirmed:
		msg := fmt.Sprintf("Your booking for %s %s-%s was confirmed. Your QR code is ready.",
			bk.Date().Format(dateLayout), bk.Slot().Start, bk.Slot().End)
		n = notificationDomain.New(bk.CarrierID(), notificationDomain.TypeBookingConfirmed, msg, &bookingID)
	case bookingDomain.StatusRejected:
		msg := fmt.Sprintf("Your booking for %s %s-%s was rejected.",
			bk.Date().Format(dateLayout), bk.Slot().Start, bk.Slot().End)
		n = notificationDomain.New(bk.CarrierID(), notificationDomain.TypeGeneric, msg, &bookingID)
	default:
		return
	}

	if err := s.notifications.Save(ctx, n); err != nil {
		s.logger.Error("failed to save decision notification",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("terminal-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func parseTimeSlot(start, end string) (bookingDomain.TimeSlot, error) {
	st, err := bookingDomain.ParseTimeOfDay(start)
	if err != nil {
		return bookingDomain.TimeSlot{}, apperrors.NewValidationError("start_time must be in HH:MM format")
	}
	et, err := bookingDomain.ParseTimeOfDay(end)
	if err != nil {
		return bookingDomain.TimeSlot{}, apperrors.NewValidationError("end_time must be in HH:MM format")
	}
	slot, err := bookingDomain.NewTimeSlot(st, et)
	if err != nil {
		return bookingDomain.TimeSlot{}, apperrors.NewValidationError(err.Error())
	}
	return slot, nil
}

func parseFilter(filter BookingFilter) (bookingDomain.Filter, error) {
	f := bookingDomain.Filter{}
	if filter.Status != "" {
		status, err := bookingDomain.ParseStatus(filter.Status)
		if err != nil {
			return f, apperrors.NewValidationError(err.Error())
		}
		f.Status = &status
	}
	if filter.Date != "" {
		d, err := time.Parse(dateLayout, filter.Date)
		if err != nil {
			return f, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		f.Date = &d
	}
	return f, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:         bk.ID(),
		CarrierID:  bk.CarrierID(),
		DriverID:   bk.DriverID(),
		TerminalID: bk.TerminalID(),
		Date:       bk.Date().Format(dateLayout),
		StartTime:  bk.Slot().Start.String(),
		EndTime:    bk.Slot().End.String(),
		Status:     string(bk.Status()),
		DecidedBy:  bk.DecidedBy(),
		QRPayload:  bk.QRPayload(),
		Version:    bk.Version(),
		CreatedAt:  bk.CreatedAt(),
		UpdatedAt:  bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
