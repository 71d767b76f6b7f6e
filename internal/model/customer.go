package model

import "time"

// Nationality values accepted on customer records.
const (
	NationalityIndian  = "indian"
	NationalityForeign = "foreign"
)

// IDType values accepted for government identity documents.
const (
	IDTypeAadhaar        = "aadhaar"
	IDTypePassport       = "passport"
	IDTypeDrivingLicense = "driving_license"
	IDTypeVoterID        = "voter_id"
)

// Customer holds the guest identity captured with a booking request.  Each
// booking mints a fresh customer record.  The record is subject to
// erasure (anonymization) independently of the booking: Anonymize-style
// updates blank the PII fields while the booking and its financial
// fields stay intact.
type Customer struct {
	ID                     uint64    // customers.id
	Name                   string    // customers.name
	Email                  string    // customers.email (lowercased)
	Phone                  string    // customers.phone
	Address                string    // customers.address
	Nationality            string    // customers.nationality
	IDType                 *string   // customers.id_type (nullable)
	IDNumber               *string   // customers.id_number (nullable)
	IDDocumentURL          *string   // customers.id_document_url (nullable)
	DataRetentionExpiresAt time.Time // customers.data_retention_expires_at
	CreatedAt              time.Time // customers.created_at
	UpdatedAt              time.Time // customers.updated_at
}
