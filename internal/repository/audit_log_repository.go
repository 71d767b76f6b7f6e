package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// AuditLogRepo writes the append-only audit trail.  Audit failures are
// logged and swallowed: a broken audit insert must never fail the
// booking operation it describes.
type AuditLogRepo struct {
	db *sql.DB
}

// NewAuditLogRepo returns an AuditLogRepo bound to the given database.
func NewAuditLogRepo(db *sql.DB) *AuditLogRepo { return &AuditLogRepo{db: db} }

// Record inserts an audit entry.  It never returns an error.
func (r *AuditLogRepo) Record(ctx context.Context, entry model.AuditLog) {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		log.Printf("audit: metadata marshal failed for %s: %v", entry.Action, err)
		metadata = []byte("{}")
	}
	const q = `INSERT INTO audit_logs
		(action, entity_type, entity_id, performed_by, metadata, ip_address)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		entry.Action, entry.EntityType, entry.EntityID, entry.PerformedBy,
		string(metadata), entry.IPAddress,
	); err != nil {
		log.Printf("audit: insert failed for %s on %s#%d: %v",
			entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

// Recent returns the latest audit entries, newest first.
func (r *AuditLogRepo) Recent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	const q = `SELECT id, action, entity_type, entity_id, performed_by, metadata,
		ip_address, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.AuditLog, 0, limit)
	for rows.Next() {
		var e model.AuditLog
		var metadata []byte
		var ip sql.NullString
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID,
			&e.PerformedBy, &metadata, &ip, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			e.Metadata = nil
		}
		if ip.Valid {
			v := ip.String
			e.IPAddress = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
