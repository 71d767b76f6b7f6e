package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// BookingRepo provides CRUD access to bookings and the booking_properties
// join table.  Status changes go through the state machine in the model
// package before they reach Update; the repository persists whatever the
// service hands it.  Deletion exists solely for saga compensation; once
// a booking survives creation it is never removed, only cancelled.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, booking_ref, customer_id, consent_record_id, check_in, check_out,
	nights, booking_type, status, total_charged, deposit_amount, deposit_refund_amount,
	refund_method, damage_report_id, calendar_event_id, payment_reference,
	payment_confirmed_by, payment_confirmed_at, guest_count, reason_for_renting,
	special_requests, terms_accepted_at, terms_version, created_at, updated_at`

// Create inserts the booking and its property links, populating the
// generated id on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(booking_ref, customer_id, consent_record_id, check_in, check_out, nights,
		 booking_type, status, total_charged, deposit_amount, guest_count,
		 reason_for_renting, special_requests, terms_accepted_at, terms_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.BookingRef, b.CustomerID, b.ConsentRecordID,
		b.CheckIn.UTC().Format(dayFormat), b.CheckOut.UTC().Format(dayFormat), b.Nights,
		string(b.BookingType), string(b.Status), b.TotalCharged, b.DepositAmount,
		b.GuestCount, b.ReasonForRenting, b.SpecialRequests,
		b.TermsAcceptedAt.UTC().Format("2006-01-02 15:04:05"), b.TermsVersion,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(b.PropertyIDs) > 0 {
		query := `INSERT INTO booking_properties (booking_id, property_id) VALUES `
		args := make([]interface{}, 0, len(b.PropertyIDs)*2)
		for i, pid := range b.PropertyIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, b.ID, pid)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a booking outright.  Only the creation saga calls this,
// to compensate a failed ledger claim; join rows go with it via the
// foreign key cascade.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// GetByID loads a booking and its property ids.  Returns
// ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return r.scanBooking(ctx, row)
}

// GetByRef loads a booking by its human-facing reference (BK-xxxxxxxx).
func (r *BookingRepo) GetByRef(ctx context.Context, ref string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_ref = ?`, ref)
	return r.scanBooking(ctx, row)
}

// Update persists the mutable fields of a booking: status, monetary
// adjustments, payment confirmation metadata and external references.
// Immutable creation-time fields (dates, customer, pricing inputs) are
// deliberately not included.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET
		status = ?, deposit_refund_amount = ?, refund_method = ?, damage_report_id = ?,
		calendar_event_id = ?, payment_reference = ?, payment_confirmed_by = ?,
		payment_confirmed_at = ?
		WHERE id = ?`
	var confirmedAt interface{}
	if b.PaymentConfirmedAt != nil {
		confirmedAt = b.PaymentConfirmedAt.UTC().Format("2006-01-02 15:04:05")
	}
	res, err := r.db.ExecContext(ctx, q,
		string(b.Status), b.DepositRefundAmount, b.RefundMethod, b.DamageReportID,
		b.CalendarEventID, b.PaymentReference, b.PaymentConfirmedBy, confirmedAt, b.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows for no-change updates too, so
		// verify existence before declaring the booking missing.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, b.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
	}
	return nil
}

// BookingFilter narrows List results.  Zero values mean "no filter".
type BookingFilter struct {
	Status     model.BookingStatus
	PropertyID uint64
	FromDate   *time.Time // check-in on or after
	ToDate     *time.Time // check-in on or before
	Page       int
	Limit      int
}

// List returns a page of bookings ordered newest first plus the total
// row count for pagination.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(f.Status))
	}
	if f.PropertyID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM booking_properties bp WHERE bp.booking_id = b.id AND bp.property_id = ?)")
		args = append(args, f.PropertyID)
	}
	if f.FromDate != nil {
		where = append(where, "b.check_in >= ?")
		args = append(args, f.FromDate.UTC().Format(dayFormat))
	}
	if f.ToDate != nil {
		where = append(where, "b.check_in <= ?")
		args = append(args, f.ToDate.UTC().Format(dayFormat))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	q := `SELECT ` + prefixColumns("b") + ` FROM bookings b WHERE ` + cond +
		` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range bookings {
		pids, err := r.propertyIDs(ctx, bookings[i].ID)
		if err != nil {
			return nil, 0, err
		}
		bookings[i].PropertyIDs = pids
	}
	return bookings, total, nil
}

// DateRange is a half-open [CheckIn, CheckOut) interval.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// OverlappingRanges returns the date ranges of bookings in any of the
// given statuses that touch [from, to) for the property.  The
// availability engine folds these over the ledger because a confirmed
// booking's holds may have been superseded; the ranges are the long-term
// source of truth.
func (r *BookingRepo) OverlappingRanges(ctx context.Context, propertyID uint64, from, to time.Time, statuses []model.BookingStatus) ([]DateRange, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, 0, len(statuses))
	args := []interface{}{propertyID}
	for _, s := range statuses {
		placeholders = append(placeholders, "?")
		args = append(args, string(s))
	}
	args = append(args, to.UTC().Format(dayFormat), from.UTC().Format(dayFormat))
	q := `SELECT b.check_in, b.check_out
	      FROM bookings b
	      JOIN booking_properties bp ON bp.booking_id = b.id
	      WHERE bp.property_id = ? AND b.status IN (` + strings.Join(placeholders, ",") + `)
	        AND b.check_in < ? AND b.check_out > ?`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ranges := make([]DateRange, 0)
	for rows.Next() {
		var dr DateRange
		if err := rows.Scan(&dr.CheckIn, &dr.CheckOut); err != nil {
			return nil, err
		}
		ranges = append(ranges, dr)
	}
	return ranges, rows.Err()
}

// Stats aggregates the dashboard numbers in a handful of queries.
type Stats struct {
	TotalBookings    int   // all bookings that are not cancelled or refunded
	RevenueThisMonth int64 // total charged on bookings confirmed or beyond, created this month (paise)
	UpcomingCheckIns int   // confirmed bookings with a future check-in
	BookedNights     int   // nights of confirmed+ bookings overlapping this month
}

// GetStats computes dashboard statistics relative to the given instant.
func (r *BookingRepo) GetStats(ctx context.Context, now time.Time) (*Stats, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	var s Stats
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE status NOT IN ('cancelled','refunded')`,
	).Scan(&s.TotalBookings); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_charged), 0) FROM bookings
		 WHERE status IN ('confirmed','checked_in','checked_out')
		   AND created_at >= ? AND created_at < ?`,
		startOfMonth.Format("2006-01-02 15:04:05"), endOfMonth.Format("2006-01-02 15:04:05"),
	).Scan(&s.RevenueThisMonth); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE status = 'confirmed' AND check_in >= ?`,
		now.UTC().Format(dayFormat),
	).Scan(&s.UpcomingCheckIns); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(nights), 0) FROM bookings
		 WHERE status IN ('confirmed','checked_in','checked_out')
		   AND check_in < ? AND check_out > ?`,
		endOfMonth.Format(dayFormat), startOfMonth.Format(dayFormat),
	).Scan(&s.BookedNights); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *BookingRepo) propertyIDs(ctx context.Context, bookingID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT property_id FROM booking_properties WHERE booking_id = ? ORDER BY property_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0, 2)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookingRepo) scanBooking(ctx context.Context, row *sql.Row) (*model.Booking, error) {
	b, err := scanBookingRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	pids, err := r.propertyIDs(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.PropertyIDs = pids
	return b, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBookingRow(s scanner) (*model.Booking, error) {
	var b model.Booking
	var bookingType, status string
	var refundAmount sql.NullInt64
	var refundMethod, calendarEventID, paymentRef, specialRequests sql.NullString
	var damageReportID, confirmedBy sql.NullInt64
	var confirmedAt sql.NullTime
	if err := s.Scan(
		&b.ID, &b.BookingRef, &b.CustomerID, &b.ConsentRecordID, &b.CheckIn, &b.CheckOut,
		&b.Nights, &bookingType, &status, &b.TotalCharged, &b.DepositAmount, &refundAmount,
		&refundMethod, &damageReportID, &calendarEventID, &paymentRef,
		&confirmedBy, &confirmedAt, &b.GuestCount, &b.ReasonForRenting,
		&specialRequests, &b.TermsAcceptedAt, &b.TermsVersion, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.BookingType = model.BookingType(bookingType)
	b.Status = model.BookingStatus(status)
	if refundAmount.Valid {
		v := refundAmount.Int64
		b.DepositRefundAmount = &v
	}
	if refundMethod.Valid {
		v := refundMethod.String
		b.RefundMethod = &v
	}
	if damageReportID.Valid {
		v := uint64(damageReportID.Int64)
		b.DamageReportID = &v
	}
	if calendarEventID.Valid {
		v := calendarEventID.String
		b.CalendarEventID = &v
	}
	if paymentRef.Valid {
		v := paymentRef.String
		b.PaymentReference = &v
	}
	if confirmedBy.Valid {
		v := uint64(confirmedBy.Int64)
		b.PaymentConfirmedBy = &v
	}
	if confirmedAt.Valid {
		v := confirmedAt.Time.UTC()
		b.PaymentConfirmedAt = &v
	}
	if specialRequests.Valid {
		v := specialRequests.String
		b.SpecialRequests = &v
	}
	return &b, nil
}

// prefixColumns qualifies the booking column list with a table alias for
// use in joined queries.
func prefixColumns(alias string) string {
	cols := strings.Split(bookingColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
