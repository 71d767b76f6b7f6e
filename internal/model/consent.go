package model

import "time"

// ConsentRecord is an immutable audit artifact binding a customer to a
// policy version and purpose set at a point in time.  Rows are append
// only; nothing in the codebase updates them after creation.
type ConsentRecord struct {
	ID                uint64    // consent_records.id
	CustomerID        uint64    // consent_records.customer_id
	ConsentVersion    string    // consent_records.consent_version
	PurposesConsented []string  // consent_records.purposes_consented (JSON column)
	ConsentText       string    // consent_records.consent_text
	IPAddress         string    // consent_records.ip_address
	UserAgent         string    // consent_records.user_agent
	CreatedAt         time.Time // consent_records.created_at
}
