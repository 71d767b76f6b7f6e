// Package service holds the business rules: the booking creation saga,
// the lifecycle transitions, availability computation and the blackout
// calendar.  Services talk to storage through the small interfaces in
// this file so tests can substitute in-memory fakes for MySQL.
package service

import (
	"context"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/queue"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
)

// HoldLedger is the calendar's source of truth for short-term occupancy.
// Claim is atomic across every (property, day) pair it is given.
type HoldLedger interface {
	Claim(ctx context.Context, propertyIDs []uint64, days []time.Time, bookingID uint64, expiresAt time.Time) error
	Release(ctx context.Context, bookingID uint64) (int64, error)
	OccupiedDays(ctx context.Context, propertyID uint64, from, to time.Time) (map[string]bool, error)
	Block(ctx context.Context, propertyID uint64, days []time.Time) (int, error)
	Unblock(ctx context.Context, holdID uint64) error
	ListBlocked(ctx context.Context, propertyID uint64) ([]model.DateHold, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByRef(ctx context.Context, ref string) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, int, error)
	OverlappingRanges(ctx context.Context, propertyID uint64, from, to time.Time, statuses []model.BookingStatus) ([]repository.DateRange, error)
	GetStats(ctx context.Context, now time.Time) (*repository.Stats, error)
}

// CustomerStore persists guest identity records.
type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
	UpdateContact(ctx context.Context, id uint64, name, email, phone, address string) error
	Anonymize(ctx context.Context, id uint64, now time.Time) error
}

// ConsentStore persists consent records.
type ConsentStore interface {
	Create(ctx context.Context, c *model.ConsentRecord) error
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*model.ConsentRecord, error)
}

// PropertyStore loads property data.
type PropertyStore interface {
	ActiveByIDs(ctx context.Context, ids []uint64) ([]model.Property, error)
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
}

// DamageReportStore persists damage reports.
type DamageReportStore interface {
	Create(ctx context.Context, d *model.DamageReport) error
	GetByBookingID(ctx context.Context, bookingID uint64) (*model.DamageReport, error)
}

// AuditSink records audit entries.  Implementations must never fail the
// surrounding operation.
type AuditSink interface {
	Record(ctx context.Context, entry model.AuditLog)
}

// Notifier publishes domain events to the message broker.  Errors are
// returned so callers can log them, but every call site treats publish
// failure as non-fatal.
type Notifier interface {
	BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	AdminAlert(ctx context.Context, ev queue.AdminAlertEvent) error
}

// CalendarSync pushes confirmed stays to an external calendar.  A
// not-configured implementation returns an empty event id and no error;
// sync failure never blocks a booking transition.  There is no delete
// counterpart because no lifecycle edge removes a confirmed stay.
type CalendarSync interface {
	CreateEvent(ctx context.Context, b *model.Booking) (string, error)
}
