package service

import (
	"context"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// NoCalendar is the CalendarSync used when no external calendar is
// configured.  It reports success with an empty event id so bookings
// confirm normally and no event id is ever persisted.
type NoCalendar struct{}

// CreateEvent does nothing and returns no event id.
func (NoCalendar) CreateEvent(context.Context, *model.Booking) (string, error) { return "", nil }
