// Package repository implements data access against MySQL.  This file
// defines sentinel errors shared across repositories so that the service
// and handler layers can distinguish failure scenarios with errors.Is
// without inspecting driver-specific error values.
package repository

import "errors"

// ErrDatesUnavailable is returned when a ledger claim collides with an
// existing live hold for the same (property, day).  It is an expected
// outcome under concurrent bookings, not a bug: callers surface it as a
// 409 so the guest can pick different dates.
var ErrDatesUnavailable = errors.New("one or more requested dates are already booked")

// ErrBookingNotFound is returned when no booking matches the given id or
// booking reference.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPropertyNotFound is returned when a referenced property does not
// exist or is inactive.
var ErrPropertyNotFound = errors.New("property not found")

// ErrCustomerNotFound is returned when no customer matches the given id.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrBlockedDateNotFound is returned when an unblock targets a row that
// is absent or is not an admin blackout.
var ErrBlockedDateNotFound = errors.New("blocked date not found")

// ErrAdminNotFound is returned when no admin user matches the given
// email or id.
var ErrAdminNotFound = errors.New("admin user not found")

// ErrDamageReportExists is returned when a second damage report is filed
// against the same booking.
var ErrDamageReportExists = errors.New("a damage report already exists for this booking")
