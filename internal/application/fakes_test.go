package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/portlink/terminal-booking/internal/domain/actor"
	bookingDomain "github.com/portlink/terminal-booking/internal/domain/booking"
	notificationDomain "github.com/portlink/terminal-booking/internal/domain/notification"
	terminalDomain "github.com/portlink/terminal-booking/internal/domain/terminal"
	"github.com/portlink/terminal-booking/pkg/apperrors"
	"github.com/portlink/terminal-booking/pkg/kafka"
)

// --- actor repository fake ---

type fakeActorRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*actor.Actor
}

func newFakeActorRepo() *fakeActorRepo {
	return &fakeActorRepo{byID: make(map[uuid.UUID]*actor.Actor)}
}

func (r *fakeActorRepo) FindByID(_ context.Context, id uuid.UUID) (*actor.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id.String())
	}
	return a, nil
}

func (r *fakeActorRepo) FindByEmail(_ context.Context, email string) (*actor.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email() == strings.ToLower(email) {
			return a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user", email)
}

func (r *fakeActorRepo) ListAll(_ context.Context, _, _ int) ([]*actor.Actor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*actor.Actor, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeActorRepo) ListByRole(_ context.Context, role actor.Role, _, _ int) ([]*actor.Actor, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*actor.Actor
	for _, a := range r.byID {
		if a.Role() == role {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeActorRepo) ListDriversByCarrier(_ context.Context, carrierID uuid.UUID) ([]*actor.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*actor.Actor
	for _, a := range r.byID {
		if p := a.Driver(); p != nil && p.CarrierID == carrierID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActorRepo) Save(_ context.Context, a *actor.Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email() == a.Email() {
			return apperrors.NewConflictError("email already registered")
		}
	}
	r.byID[a.ID()] = a
	return nil
}

func (r *fakeActorRepo) Update(_ context.Context, a *actor.Actor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID()]; !ok {
		return apperrors.NewNotFoundError("user", a.ID().String())
	}
	r.byID[a.ID()] = a
	return nil
}

func (r *fakeActorRepo) Purge(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperrors.NewNotFoundError("user", id.String())
	}
	delete(r.byID, id)
	return nil
}

// --- terminal repository fake ---

type fakeTerminalRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*terminalDomain.Terminal
}

func newFakeTerminalRepo() *fakeTerminalRepo {
	return &fakeTerminalRepo{byID: make(map[uuid.UUID]*terminalDomain.Terminal)}
}

func (r *fakeTerminalRepo) FindByID(_ context.Context, id uuid.UUID) (*terminalDomain.Terminal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("terminal", id.String())
	}
	return t, nil
}

func (r *fakeTerminalRepo) ListAll(_ context.Context, page, limit int) ([]*terminalDomain.Terminal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*terminalDomain.Terminal, 0, len(r.byID))
	for _, t := range r.byID {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })

	total := int64(len(all))
	offset := (page - 1) * limit
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeTerminalRepo) Save(_ context.Context, t *terminalDomain.Terminal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID()] = t
	return nil
}

func (r *fakeTerminalRepo) Update(_ context.Context, t *terminalDomain.Terminal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID()]; !ok {
		return apperrors.NewNotFoundError("terminal", t.ID().String())
	}
	r.byID[t.ID()] = t
	return nil
}

// --- booking repository fake ---

// fakeBookingRepo mirrors the transactional semantics of the real repository:
// Create holds one lock across the conflict check and the insert, and Update
// enforces the optimistic version check.
type fakeBookingRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func clone(b *bookingDomain.Booking) *bookingDomain.Booking {
	c := *b
	return &c
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("booking", id.String())
	}
	return clone(b), nil
}

func (r *fakeBookingRepo) Create(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.TerminalID() == b.TerminalID() &&
			existing.Date().Equal(b.Date()) &&
			existing.Status().Blocks() &&
			existing.Slot().Overlaps(b.Slot()) {
			return apperrors.NewSlotConflictError("time slot overlaps an existing booking")
		}
	}
	r.byID[b.ID()] = clone(b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[b.ID()]
	if !ok {
		return apperrors.NewNotFoundError("booking", b.ID().String())
	}
	if stored.Version() != b.Version()-1 {
		return apperrors.NewConflictError("booking was modified concurrently")
	}
	r.byID[b.ID()] = clone(b)
	return nil
}

func (r *fakeBookingRepo) list(match func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, b := range r.byID {
		if match(b) {
			out = append(out, clone(b))
		}
	}
	return out
}

func matchFilter(b *bookingDomain.Booking, f bookingDomain.Filter) bool {
	if f.Status != nil && b.Status() != *f.Status {
		return false
	}
	if f.Date != nil && !b.Date().Equal(truncate(*f.Date)) {
		return false
	}
	return true
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *fakeBookingRepo) ListByCarrier(_ context.Context, carrierID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	return r.list(func(b *bookingDomain.Booking) bool {
		return b.CarrierID() == carrierID && matchFilter(b, f)
	}), nil
}

func (r *fakeBookingRepo) ListByTerminal(_ context.Context, terminalID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	return r.list(func(b *bookingDomain.Booking) bool {
		return b.TerminalID() == terminalID && matchFilter(b, f)
	}), nil
}

func (r *fakeBookingRepo) ListByDriver(_ context.Context, driverID uuid.UUID, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	return r.list(func(b *bookingDomain.Booking) bool {
		return b.DriverID() != nil && *b.DriverID() == driverID && matchFilter(b, f)
	}), nil
}

func (r *fakeBookingRepo) ListAssignableForCarrier(_ context.Context, carrierID uuid.UUID, date *time.Time) ([]*bookingDomain.Booking, error) {
	return r.list(func(b *bookingDomain.Booking) bool {
		if b.CarrierID() != carrierID || b.Status() != bookingDomain.StatusConfirmed || b.DriverID() != nil {
			return false
		}
		return date == nil || b.Date().Equal(truncate(*date))
	}), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	all := r.list(func(*bookingDomain.Booking) bool { return true })
	return all, int64(len(all)), nil
}

// --- notification repository fake ---

type fakeNotificationRepo struct {
	mu    sync.Mutex
	saved []*notificationDomain.Notification
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *notificationDomain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]*notificationDomain.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notificationDomain.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.saved {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return apperrors.NewNotFoundError("notification", id.String())
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []*notificationDomain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notificationDomain.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// --- event publisher fake ---

type fakePublisher struct {
	mu     sync.Mutex
	events []*kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event *kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
