package model

import "time"

// DateHold is the atomic unit of the reservation invariant: at most one
// live row exists per (property, day), enforced by a unique key in the
// database rather than an application-level check.  Ordinary holds carry
// an expiry so abandoned bookings cannot starve the calendar; blackout
// rows created by an administrator have a nil BookingID and no expiry
// and are only ever removed through the admin unblock path.
type DateHold struct {
	ID         uint64     // date_holds.id
	PropertyID uint64     // date_holds.property_id
	Day        time.Time  // date_holds.day (DATE, UTC midnight)
	BookingID  *uint64    // date_holds.booking_id (nil for admin blackouts)
	ExpiresAt  *time.Time // date_holds.expires_at (nil for admin blackouts)
	CreatedAt  time.Time  // date_holds.created_at
}

// IsBlackout reports whether the hold is an administrator-imposed block
// rather than a claim owned by a real booking.
func (h *DateHold) IsBlackout() bool { return h.BookingID == nil }
