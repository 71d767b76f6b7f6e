package model

import "time"

// AuditLog is an append-only trail of administrative and guest actions.
// Writing an entry must never fail the operation being audited; the
// repository logs insert errors and swallows them.
type AuditLog struct {
	ID          uint64            // audit_logs.id
	Action      string            // e.g. "booking.created", "dates.blocked"
	EntityType  string            // e.g. "Booking", "DateHold"
	EntityID    uint64            // primary key of the affected entity
	PerformedBy string            // admin id, "customer" or "system"
	Metadata    map[string]any    // audit_logs.metadata (JSON column)
	IPAddress   *string           // audit_logs.ip_address (nullable)
	CreatedAt   time.Time         // audit_logs.created_at
}
