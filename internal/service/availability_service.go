package service

import (
	"context"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// activeStatuses are the booking states that keep dates off the public
// calendar regardless of ledger rows.  Pending bookings rely on their
// ledger holds alone: once a hold lapses, the dates reopen even though
// the booking row still exists.  Checked-out stays are entirely in the
// past and the past is never bookable anyway.
var activeStatuses = []model.BookingStatus{
	model.StatusConfirmed, model.StatusCheckedIn,
}

// AvailabilityService answers the public calendar queries by folding two
// sources: live ledger holds (short-term truth with TTLs and blackouts)
// and confirmed-or-beyond bookings (long-term truth whose holds may have
// been purged).  A day is unavailable if either source claims it.
type AvailabilityService struct {
	ledger   HoldLedger
	bookings BookingStore
	props    PropertyStore
	now      func() time.Time
}

// NewAvailabilityService wires an AvailabilityService.
func NewAvailabilityService(ledger HoldLedger, bookings BookingStore, props PropertyStore) *AvailabilityService {
	return &AvailabilityService{
		ledger:   ledger,
		bookings: bookings,
		props:    props,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DayAvailability is one calendar cell.
type DayAvailability struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Available bool   `json:"available"`
}

// Month returns per-day availability for a property over one calendar
// month.  Days before today are reported unavailable; the past is not
// bookable whatever the ledger says.
func (s *AvailabilityService) Month(ctx context.Context, propertyID uint64, year int, month time.Month) ([]DayAvailability, error) {
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	occupied, err := s.ledger.OccupiedDays(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}
	ranges, err := s.bookings.OverlappingRanges(ctx, propertyID, from, to, activeStatuses)
	if err != nil {
		return nil, err
	}
	for _, dr := range ranges {
		for d := midnightUTC(dr.CheckIn); d.Before(dr.CheckOut); d = d.AddDate(0, 0, 1) {
			if !d.Before(from) && d.Before(to) {
				occupied[d.Format("2006-01-02")] = true
			}
		}
	}

	today := midnightUTC(s.now())
	days := make([]DayAvailability, 0, 31)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		available := !occupied[key] && !d.Before(today)
		days = append(days, DayAvailability{Date: key, Available: available})
	}
	return days, nil
}

// RangeAvailable reports whether every night in [checkIn, checkOut) is
// open on all of the given properties.  The booking saga does not call
// this; it claims and lets the unique key arbitrate.  This is the cheap
// pre-check the public form uses before sending the guest through the
// full flow.
func (s *AvailabilityService) RangeAvailable(ctx context.Context, propertyIDs []uint64, checkIn, checkOut time.Time) (bool, error) {
	checkIn = midnightUTC(checkIn)
	checkOut = midnightUTC(checkOut)
	if !checkOut.After(checkIn) {
		return false, &ValidationError{Field: "check_out", Message: "check-out must be after check-in"}
	}
	for _, pid := range propertyIDs {
		occupied, err := s.ledger.OccupiedDays(ctx, pid, checkIn, checkOut)
		if err != nil {
			return false, err
		}
		ranges, err := s.bookings.OverlappingRanges(ctx, pid, checkIn, checkOut, activeStatuses)
		if err != nil {
			return false, err
		}
		if len(ranges) > 0 {
			return false, nil
		}
		for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
			if occupied[d.Format("2006-01-02")] {
				return false, nil
			}
		}
	}
	return true, nil
}
