package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// CustomerRepo stores guest identity records.  A fresh customer row is
// minted for every booking; rows are deleted only when the creation saga
// compensates, and anonymized (not deleted) when a guest exercises the
// erasure right, so the booking's financial trail survives.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a customer and populates the generated id.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customers
		(name, email, phone, address, nationality, id_type, id_number,
		 id_document_url, data_retention_expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, strings.ToLower(c.Email), c.Phone, c.Address, c.Nationality,
		c.IDType, c.IDNumber, c.IDDocumentURL,
		c.DataRetentionExpiresAt.UTC().Format("2006-01-02 15:04:05"),
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

// Delete removes a customer row.  Only the creation saga uses this, to
// unwind a booking whose ledger claim failed.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	return err
}

// GetByID loads one customer or returns ErrCustomerNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, name, email, phone, address, nationality, id_type,
		id_number, id_document_url, data_retention_expires_at, created_at, updated_at
		FROM customers WHERE id = ?`
	var c model.Customer
	var idType, idNumber, idDocURL sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Nationality,
		&idType, &idNumber, &idDocURL, &c.DataRetentionExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if idType.Valid {
		v := idType.String
		c.IDType = &v
	}
	if idNumber.Valid {
		v := idNumber.String
		c.IDNumber = &v
	}
	if idDocURL.Valid {
		v := idDocURL.String
		c.IDDocumentURL = &v
	}
	return &c, nil
}

// UpdateContact rewrites the guest-correctable contact fields.  Identity
// document fields are immutable after creation; a correction to those
// requires a fresh booking.
func (r *CustomerRepo) UpdateContact(ctx context.Context, id uint64, name, email, phone, address string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, email = ?, phone = ?, address = ? WHERE id = ?`,
		name, strings.ToLower(email), phone, address, id,
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
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCustomerNotFound
			}
			return err
		}
	}
	return nil
}

// Anonymize blanks every PII field in place.  The row itself stays so
// the booking's foreign key and financial history remain coherent.  The
// retention clock is moved to now so a sweep would treat the record as
// already expired.
func (r *CustomerRepo) Anonymize(ctx context.Context, id uint64, now time.Time) error {
	const q = `UPDATE customers SET
		name = 'REDACTED', email = CONCAT('redacted-', id, '@removed.invalid'),
		phone = '', address = '', id_type = NULL, id_number = NULL,
		id_document_url = NULL, data_retention_expires_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
