package service

import (
	"context"
	"strings"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// DataExport bundles everything held about a guest for a data access
// request.  Guests authenticate with their booking reference and email;
// there are no guest accounts.
type DataExport struct {
	Booking  *model.Booking       `json:"booking"`
	Customer *model.Customer      `json:"customer"`
	Consent  *model.ConsentRecord `json:"consent"`
}

// ExportData returns the personal data tied to a booking.
func (s *BookingService) ExportData(ctx context.Context, ref, email string) (*DataExport, error) {
	booking, customer, err := s.GetForGuest(ctx, ref, email)
	if err != nil {
		return nil, err
	}
	consent, err := s.consents.GetByID(ctx, booking.ConsentRecordID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "data.exported",
		EntityType:  "Customer",
		EntityID:    customer.ID,
		PerformedBy: "customer",
	})
	return &DataExport{Booking: booking, Customer: customer, Consent: consent}, nil
}

// CorrectContact updates the guest-correctable contact fields on the
// customer record.  Identity documents are immutable here.
func (s *BookingService) CorrectContact(ctx context.Context, ref, email, name, newEmail, phone, address string) (*model.Customer, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(newEmail) == "" {
		return nil, &ValidationError{Field: "name", Message: "name and email are required"}
	}
	_, customer, err := s.GetForGuest(ctx, ref, email)
	if err != nil {
		return nil, err
	}
	if err := s.customers.UpdateContact(ctx, customer.ID, name, newEmail, phone, address); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "data.corrected",
		EntityType:  "Customer",
		EntityID:    customer.ID,
		PerformedBy: "customer",
	})
	return s.customers.GetByID(ctx, customer.ID)
}

// Erase anonymizes the guest's personal data in place.  The booking and
// its financial history survive; erasure is refused while a stay is
// still in progress because the identity record is needed at the door.
func (s *BookingService) Erase(ctx context.Context, ref, email string) error {
	booking, customer, err := s.GetForGuest(ctx, ref, email)
	if err != nil {
		return err
	}
	switch booking.Status {
	case model.StatusConfirmed, model.StatusCheckedIn:
		return &ValidationError{Field: "booking", Message: "erasure is available after the stay completes"}
	}
	if err := s.customers.Anonymize(ctx, customer.ID, s.now()); err != nil {
		return err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "data.erased",
		EntityType:  "Customer",
		EntityID:    customer.ID,
		PerformedBy: "customer",
	})
	return nil
}
