package model

import "time"

// DamageReportStatus values for the report workflow.
const (
	DamageReported = "reported"
	DamageDeducted = "deducted"
	DamageDisputed = "disputed"
	DamageResolved = "resolved"
)

// DamageReport records damage found after a guest checks out.  At most
// one report exists per booking and its deduction feeds back into the
// booking's deposit refund amount, capped at the original deposit.
type DamageReport struct {
	ID              uint64    // damage_reports.id
	BookingID       uint64    // damage_reports.booking_id (unique)
	Description     string    // damage_reports.description
	EstimatedDamage int64     // damage_reports.estimated_damage (paise)
	DeductionAmount int64     // damage_reports.deduction_amount (paise)
	Photos          []string  // damage_reports.photos (JSON column)
	Status          string    // damage_reports.status
	CreatedAt       time.Time // damage_reports.created_at
}
