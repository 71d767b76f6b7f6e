package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// PropertyRepo stores the rentable properties.  There are only a couple
// of rows in practice, so the queries stay simple and unindexed beyond
// the primary and slug keys.
type PropertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo returns a PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyColumns = `id, name, slug, description, rate_per_night, security_deposit,
	max_guests, amenities, photos, is_active, created_at, updated_at`

// ActiveByIDs loads the given properties, requiring every id to exist
// and be active.  A missing or inactive id yields ErrPropertyNotFound,
// which keeps a booking from ever referencing a retired property.
func (r *PropertyRepo) ActiveByIDs(ctx context.Context, ids []uint64) ([]model.Property, error) {
	if len(ids) == 0 {
		return nil, ErrPropertyNotFound
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT ` + propertyColumns + ` FROM properties
	      WHERE id IN (` + strings.Join(placeholders, ",") + `) AND is_active = 1`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	props := make([]model.Property, 0, len(ids))
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(props) != len(ids) {
		return nil, ErrPropertyNotFound
	}
	return props, nil
}

// GetByID loads one property regardless of active state.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetBySlug loads one active property by its URL slug.
func (r *PropertyRepo) GetBySlug(ctx context.Context, slug string) (*model.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE slug = ? AND is_active = 1`, slug)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns properties ordered by id.  When activeOnly is set,
// deactivated rows are omitted, which is what the public listing uses.
func (r *PropertyRepo) List(ctx context.Context, activeOnly bool) ([]model.Property, error) {
	q := `SELECT ` + propertyColumns + ` FROM properties`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	props := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

// Create inserts a property and populates the generated id.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	amenities, err := json.Marshal(p.Amenities)
	if err != nil {
		return err
	}
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return err
	}
	const q = `INSERT INTO properties
		(name, slug, description, rate_per_night, security_deposit, max_guests,
		 amenities, photos, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Slug, p.Description, p.RatePerNight, p.SecurityDeposit,
		p.MaxGuests, string(amenities), string(photos), p.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update rewrites every editable field of a property.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	amenities, err := json.Marshal(p.Amenities)
	if err != nil {
		return err
	}
	photos, err := json.Marshal(p.Photos)
	if err != nil {
		return err
	}
	const q = `UPDATE properties SET
		name = ?, slug = ?, description = ?, rate_per_night = ?, security_deposit = ?,
		max_guests = ?, amenities = ?, photos = ?, is_active = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Slug, p.Description, p.RatePerNight, p.SecurityDeposit,
		p.MaxGuests, string(amenities), string(photos), p.IsActive, p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM properties WHERE id = ?`, p.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPropertyNotFound
			}
			return err
		}
	}
	return nil
}

func scanProperty(s scanner) (*model.Property, error) {
	var p model.Property
	var amenities, photos []byte
	if err := s.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.RatePerNight, &p.SecurityDeposit,
		&p.MaxGuests, &amenities, &photos, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(amenities, &p.Amenities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(photos, &p.Photos); err != nil {
		return nil, err
	}
	return &p, nil
}
