package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number raised when an insert
// violates a unique key.  The date_holds table carries UNIQUE
// (property_id, day); hitting this number during a claim means another
// booking owns one of the requested days.
const mysqlDuplicateEntry = 1062

// DateHoldRepo is the hold ledger.  Every row blocks one property-day.
// The one-live-row-per-(property, day) invariant is enforced by the
// database unique key, never by a check-then-insert in Go, because the
// check-then-insert race is exactly what the ledger exists to prevent.
//
// Ordinary holds expire: rows whose expires_at has passed are ignored by
// every read and purged inside every claim transaction, so an abandoned
// booking can delay a day's availability only until the next claim or
// query touches it.  Blackout rows (nil booking_id, nil expires_at)
// never expire and are only removed through Unblock.
type DateHoldRepo struct {
	db *sql.DB
}

// NewDateHoldRepo returns a DateHoldRepo bound to the provided database.
func NewDateHoldRepo(db *sql.DB) *DateHoldRepo { return &DateHoldRepo{db: db} }

const dayFormat = "2006-01-02"

// Claim inserts one row per (property, day) for the owning booking, all
// within a single transaction.  Expired holds on the touched properties
// are purged first so that stale rows cannot shadow-block the unique
// key.  If any row collides with a live hold the transaction is rolled
// back, leaving no partial claim, and ErrDatesUnavailable is returned.
func (r *DateHoldRepo) Claim(ctx context.Context, propertyIDs []uint64, days []time.Time, bookingID uint64, expiresAt time.Time) error {
	if len(propertyIDs) == 0 || len(days) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := purgeExpiredTx(ctx, tx, propertyIDs); err != nil {
		return err
	}

	query := `INSERT INTO date_holds (property_id, day, booking_id, expires_at) VALUES `
	args := make([]interface{}, 0, len(propertyIDs)*len(days)*4)
	first := true
	for _, pid := range propertyIDs {
		for _, d := range days {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, ?)"
			args = append(args, pid, d.UTC().Format(dayFormat), bookingID, expiresAt.UTC().Format("2006-01-02 15:04:05"))
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDatesUnavailable
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release deletes every hold owned by the booking and returns how many
// rows were removed.  It is idempotent: releasing a booking with no
// holds deletes nothing and is not an error.  Blackout rows have a NULL
// booking_id and can never match, so they survive any release.
func (r *DateHoldRepo) Release(ctx context.Context, bookingID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM date_holds WHERE booking_id = ?`, bookingID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// OccupiedDays returns the set of days in [from, to) that carry a live
// hold for the property.  A hold is live when it has no expiry (a
// blackout) or its expiry lies in the future.  Keys use the YYYY-MM-DD
// form of the day in UTC.
func (r *DateHoldRepo) OccupiedDays(ctx context.Context, propertyID uint64, from, to time.Time) (map[string]bool, error) {
	const q = `SELECT day FROM date_holds
	           WHERE property_id = ? AND day >= ? AND day < ?
	             AND (expires_at IS NULL OR expires_at > UTC_TIMESTAMP())`
	rows, err := r.db.QueryContext(ctx, q, propertyID, from.UTC().Format(dayFormat), to.UTC().Format(dayFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	occupied := make(map[string]bool)
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		occupied[day.UTC().Format(dayFormat)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return occupied, nil
}

// Block inserts blackout rows (nil booking, no expiry) for the given
// days.  Expired holds on the property are purged first, the same as in
// Claim, so a lapsed guest hold cannot shadow-block a day the calendar
// already shows as free.  Collisions with live holds or blackouts
// surface as ErrDatesUnavailable so an administrator cannot silently
// stack a block on top of a guest's claim.
func (r *DateHoldRepo) Block(ctx context.Context, propertyID uint64, days []time.Time) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := purgeExpiredTx(ctx, tx, []uint64{propertyID}); err != nil {
		return 0, err
	}

	query := `INSERT INTO date_holds (property_id, day, booking_id, expires_at) VALUES `
	args := make([]interface{}, 0, len(days)*2)
	for i, d := range days {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, NULL, NULL)"
		args = append(args, propertyID, d.UTC().Format(dayFormat))
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, ErrDatesUnavailable
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return len(days), nil
}

// Unblock removes a single blackout row by id.  The booking_id IS NULL
// predicate keeps the admin path from ever deleting a guest's hold.
func (r *DateHoldRepo) Unblock(ctx context.Context, holdID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM date_holds WHERE id = ? AND booking_id IS NULL`, holdID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBlockedDateNotFound
	}
	return nil
}

// ListBlocked returns all blackout rows, optionally filtered to one
// property, ordered by day.
func (r *DateHoldRepo) ListBlocked(ctx context.Context, propertyID uint64) ([]model.DateHold, error) {
	q := `SELECT id, property_id, day, created_at FROM date_holds WHERE booking_id IS NULL`
	args := []interface{}{}
	if propertyID != 0 {
		q += ` AND property_id = ?`
		args = append(args, propertyID)
	}
	q += ` ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	holds := make([]model.DateHold, 0)
	for rows.Next() {
		var h model.DateHold
		if err := rows.Scan(&h.ID, &h.PropertyID, &h.Day, &h.CreatedAt); err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holds, nil
}

// purgeExpiredTx deletes expired holds for the given properties inside
// an existing transaction.  Blackouts (NULL expiry) are untouched.
func purgeExpiredTx(ctx context.Context, tx *sql.Tx, propertyIDs []uint64) error {
	placeholders := make([]string, 0, len(propertyIDs))
	args := make([]interface{}, 0, len(propertyIDs))
	for _, pid := range propertyIDs {
		placeholders = append(placeholders, "?")
		args = append(args, pid)
	}
	q := `DELETE FROM date_holds
	      WHERE property_id IN (` + strings.Join(placeholders, ",") + `)
	        AND expires_at IS NOT NULL AND expires_at <= UTC_TIMESTAMP()`
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}
