package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
)

func availabilityByDate(days []DayAvailability) map[string]bool {
	m := make(map[string]bool, len(days))
	for _, d := range days {
		m[d.Date] = d.Available
	}
	return m
}

func TestMonthReflectsHoldsAndBlackouts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, f.createRequest([]uint64{1}, day(2026, 3, 10), day(2026, 3, 13), model.TypeStandard))
	require.NoError(t, err)
	_, err = f.svc.BlockDates(ctx, 1, 7, []time.Time{day(2026, 3, 20)})
	require.NoError(t, err)

	days, err := f.avail.Month(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, days, 31)

	byDate := availabilityByDate(days)
	assert.False(t, byDate["2026-03-10"])
	assert.False(t, byDate["2026-03-12"])
	assert.True(t, byDate["2026-03-13"], "check-out day is open")
	assert.False(t, byDate["2026-03-20"], "blackout")
	assert.True(t, byDate["2026-03-15"])
	assert.True(t, byDate["2026-03-01"], "today is still bookable")
}

func TestMonthPastDaysUnavailable(t *testing.T) {
	f := newFixture()
	f.clock = time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)

	days, err := f.avail.Month(context.Background(), 1, 2026, time.March)
	require.NoError(t, err)
	byDate := availabilityByDate(days)
	assert.False(t, byDate["2026-03-14"])
	assert.True(t, byDate["2026-03-15"])
	assert.True(t, byDate["2026-03-16"])
}

func TestMonthConfirmedBookingOutlivesItsHolds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	booking := confirmedBooking(t, f, []uint64{1}, day(2026, 3, 10), day(2026, 3, 13))

	// Wipe the ledger as if the holds were purged long after payment.
	_, err := f.ledger.Release(ctx, booking.ID)
	require.NoError(t, err)

	days, err := f.avail.Month(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	byDate := availabilityByDate(days)
	assert.False(t, byDate["2026-03-10"], "confirmed booking blocks the calendar without ledger rows")
	assert.False(t, byDate["2026-03-12"])
	assert.True(t, byDate["2026-03-13"])
}

func TestMonthExpiredHoldReopensDates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateBooking(ctx, f.createRequest([]uint64{1}, day(2026, 3, 10), day(2026, 3, 12), model.TypeStandard))
	require.NoError(t, err)

	f.clock = f.clock.Add(49 * time.Hour)
	days, err := f.avail.Month(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	byDate := availabilityByDate(days)
	assert.True(t, byDate["2026-03-10"], "unpaid hold lapsed, date is open again")
}

func TestMonthUnknownProperty(t *testing.T) {
	f := newFixture()
	_, err := f.avail.Month(context.Background(), 99, 2026, time.March)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
}

func TestRangeAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ok, err := f.avail.RangeAvailable(ctx, []uint64{1, 2}, day(2026, 3, 10), day(2026, 3, 13))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CreateBooking(ctx, f.createRequest([]uint64{2}, day(2026, 3, 12), day(2026, 3, 14), model.TypeStandard))
	require.NoError(t, err)

	ok, err = f.avail.RangeAvailable(ctx, []uint64{1, 2}, day(2026, 3, 10), day(2026, 3, 13))
	require.NoError(t, err)
	assert.False(t, ok, "property 2 is held on the 12th")

	ok, err = f.avail.RangeAvailable(ctx, []uint64{1}, day(2026, 3, 10), day(2026, 3, 13))
	require.NoError(t, err)
	assert.True(t, ok)

	// Back-to-back stays: a new range may start on another's check-out day.
	ok, err = f.avail.RangeAvailable(ctx, []uint64{2}, day(2026, 3, 14), day(2026, 3, 16))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.avail.RangeAvailable(ctx, []uint64{1}, day(2026, 3, 13), day(2026, 3, 13))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
