package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// DamageReportRepo stores post-checkout damage reports.  The booking_id
// column carries a unique key so the database, not the application,
// enforces the one-report-per-booking rule.
type DamageReportRepo struct {
	db *sql.DB
}

// NewDamageReportRepo returns a DamageReportRepo bound to the given database.
func NewDamageReportRepo(db *sql.DB) *DamageReportRepo { return &DamageReportRepo{db: db} }

// Create inserts a damage report, surfacing ErrDamageReportExists on a
// duplicate booking id.
func (r *DamageReportRepo) Create(ctx context.Context, d *model.DamageReport) error {
	photos, err := json.Marshal(d.Photos)
	if err != nil {
		return err
	}
	const q = `INSERT INTO damage_reports
		(booking_id, description, estimated_damage, deduction_amount, photos, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		d.BookingID, d.Description, d.EstimatedDamage, d.DeductionAmount, string(photos), d.Status,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDamageReportExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByBookingID loads the report filed against a booking, if any.
func (r *DamageReportRepo) GetByBookingID(ctx context.Context, bookingID uint64) (*model.DamageReport, error) {
	const q = `SELECT id, booking_id, description, estimated_damage, deduction_amount,
		photos, status, created_at
		FROM damage_reports WHERE booking_id = ?`
	var d model.DamageReport
	var photos []byte
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&d.ID, &d.BookingID, &d.Description, &d.EstimatedDamage, &d.DeductionAmount,
		&photos, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(photos, &d.Photos); err != nil {
		return nil, err
	}
	return &d, nil
}
