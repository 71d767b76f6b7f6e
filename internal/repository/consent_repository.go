package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// ConsentRepo stores consent records.  Rows are append only; the single
// Delete method exists for saga compensation and is never reachable once
// a booking has been successfully created.
type ConsentRepo struct {
	db *sql.DB
}

// NewConsentRepo returns a ConsentRepo bound to the given database.
func NewConsentRepo(db *sql.DB) *ConsentRepo { return &ConsentRepo{db: db} }

// Create inserts a consent record and populates the generated id.
func (r *ConsentRepo) Create(ctx context.Context, c *model.ConsentRecord) error {
	purposes, err := json.Marshal(c.PurposesConsented)
	if err != nil {
		return err
	}
	const q = `INSERT INTO consent_records
		(customer_id, consent_version, purposes_consented, consent_text, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.CustomerID, c.ConsentVersion, string(purposes), c.ConsentText, c.IPAddress, c.UserAgent,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Delete removes a consent record during saga compensation.
func (r *ConsentRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM consent_records WHERE id = ?`, id)
	return err
}

// GetByID loads one consent record.
func (r *ConsentRepo) GetByID(ctx context.Context, id uint64) (*model.ConsentRecord, error) {
	const q = `SELECT id, customer_id, consent_version, purposes_consented,
		consent_text, ip_address, user_agent, created_at
		FROM consent_records WHERE id = ?`
	var c model.ConsentRecord
	var purposes []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.CustomerID, &c.ConsentVersion, &purposes,
		&c.ConsentText, &c.IPAddress, &c.UserAgent, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("consent record not found")
		}
		return nil, err
	}
	if err := json.Unmarshal(purposes, &c.PurposesConsented); err != nil {
		return nil, err
	}
	return &c, nil
}
