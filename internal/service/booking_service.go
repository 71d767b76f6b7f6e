package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/queue"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/utils"
)

// ValidationError reports a request that failed an input rule before any
// write happened.  Handlers map it to a 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BookingService owns the booking lifecycle: the creation saga, every
// status transition, damage handling and the guest data rights flows.
type BookingService struct {
	ledger    HoldLedger
	bookings  BookingStore
	customers CustomerStore
	consents  ConsentStore
	props     PropertyStore
	damage    DamageReportStore
	audit     AuditSink
	notifier  Notifier
	calendar  CalendarSync

	holdTTL time.Duration
	now     func() time.Time
	newRef  func() string
}

// NewBookingService wires a BookingService.  holdTTL bounds how long an
// unpaid booking keeps its dates.
func NewBookingService(
	ledger HoldLedger, bookings BookingStore, customers CustomerStore,
	consents ConsentStore, props PropertyStore, damage DamageReportStore,
	audit AuditSink, notifier Notifier, calendar CalendarSync, holdTTL time.Duration,
) *BookingService {
	return &BookingService{
		ledger:    ledger,
		bookings:  bookings,
		customers: customers,
		consents:  consents,
		props:     props,
		damage:    damage,
		audit:     audit,
		notifier:  notifier,
		calendar:  calendar,
		holdTTL:   holdTTL,
		now:       func() time.Time { return time.Now().UTC() },
		newRef:    utils.BookingRef,
	}
}

// CreateBookingRequest carries everything a guest submits on the public
// booking form.
type CreateBookingRequest struct {
	PropertyIDs   []uint64
	CheckIn       time.Time
	CheckOut      time.Time
	BookingType   model.BookingType
	GuestCount    int
	ReasonForRent string

	// Guest identity.
	Name          string
	Email         string
	Phone         string
	Address       string
	Nationality   string
	IDType        *string
	IDNumber      *string
	IDDocumentURL *string

	// Consent capture.
	ConsentVersion    string
	PurposesConsented []string
	ConsentText       string
	IPAddress         string
	UserAgent         string

	TermsVersion    string
	SpecialRequests *string
}

// CreateBooking runs the creation saga: customer, consent and booking
// rows are written first, then the date holds are claimed atomically.
// If the claim collides with another booking, every row written so far
// is compensated away in reverse order and the conflict is returned
// unchanged.  Compensation failures are logged, never surfaced: the
// guest already has their answer, and leftover rows are harmless
// orphans, not calendar state.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	props, nights, err := s.validateCreate(ctx, &req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	customer := &model.Customer{
		Name:                   strings.TrimSpace(req.Name),
		Email:                  strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                  strings.TrimSpace(req.Phone),
		Address:                strings.TrimSpace(req.Address),
		Nationality:            req.Nationality,
		IDType:                 req.IDType,
		IDNumber:               req.IDNumber,
		IDDocumentURL:          req.IDDocumentURL,
		DataRetentionExpiresAt: req.CheckOut.AddDate(3, 0, 0), // statutory retention window
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	consent := &model.ConsentRecord{
		CustomerID:        customer.ID,
		ConsentVersion:    req.ConsentVersion,
		PurposesConsented: req.PurposesConsented,
		ConsentText:       req.ConsentText,
		IPAddress:         req.IPAddress,
		UserAgent:         req.UserAgent,
	}
	if err := s.consents.Create(ctx, consent); err != nil {
		s.compensate(ctx, 0, 0, customer.ID)
		return nil, err
	}

	var rent, deposit int64
	for _, p := range props {
		rent += p.RatePerNight * int64(nights)
		if p.SecurityDeposit > deposit {
			deposit = p.SecurityDeposit
		}
	}

	booking := &model.Booking{
		BookingRef:       s.newRef(),
		PropertyIDs:      req.PropertyIDs,
		CustomerID:       customer.ID,
		ConsentRecordID:  consent.ID,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Nights:           nights,
		BookingType:      req.BookingType,
		Status:           model.InitialStatus(req.BookingType),
		TotalCharged:     rent,
		DepositAmount:    deposit,
		GuestCount:       req.GuestCount,
		ReasonForRenting: req.ReasonForRent,
		SpecialRequests:  req.SpecialRequests,
		TermsAcceptedAt:  now,
		TermsVersion:     req.TermsVersion,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		s.compensate(ctx, 0, consent.ID, customer.ID)
		return nil, err
	}

	days := nightsOf(req.CheckIn, req.CheckOut)
	if err := s.ledger.Claim(ctx, req.PropertyIDs, days, booking.ID, now.Add(s.holdTTL)); err != nil {
		s.compensate(ctx, booking.ID, consent.ID, customer.ID)
		return nil, err
	}

	s.audit.Record(ctx, model.AuditLog{
		Action:      "booking.created",
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: "customer",
		Metadata: map[string]any{
			"booking_ref": booking.BookingRef,
			"check_in":    req.CheckIn.Format("2006-01-02"),
			"check_out":   req.CheckOut.Format("2006-01-02"),
			"type":        string(req.BookingType),
		},
		IPAddress: &req.IPAddress,
	})
	s.alert(queue.AdminAlertEvent{
		Kind:       "booking.requested",
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		Message:    fmt.Sprintf("new %s booking request for %d night(s)", req.BookingType, nights),
		OccurredAt: now,
	})
	return booking, nil
}

// compensate unwinds a partially created booking in reverse write order.
// Each step is independent; a failure in one does not stop the others.
func (s *BookingService) compensate(ctx context.Context, bookingID, consentID, customerID uint64) {
	if bookingID != 0 {
		// The claim rolled back atomically, but release anyway in case a
		// retry path ever leaves rows behind.  Releasing nothing is a no-op.
		if _, err := s.ledger.Release(ctx, bookingID); err != nil {
			log.Printf("saga: release holds for booking %d failed: %v", bookingID, err)
		}
		if err := s.bookings.Delete(ctx, bookingID); err != nil {
			log.Printf("saga: delete booking %d failed: %v", bookingID, err)
		}
	}
	if consentID != 0 {
		if err := s.consents.Delete(ctx, consentID); err != nil {
			log.Printf("saga: delete consent %d failed: %v", consentID, err)
		}
	}
	if customerID != 0 {
		if err := s.customers.Delete(ctx, customerID); err != nil {
			log.Printf("saga: delete customer %d failed: %v", customerID, err)
		}
	}
}

func (s *BookingService) validateCreate(ctx context.Context, req *CreateBookingRequest) ([]model.Property, int, error) {
	if len(req.PropertyIDs) == 0 || len(req.PropertyIDs) > 2 {
		return nil, 0, &ValidationError{Field: "property_ids", Message: "select one or two properties"}
	}
	seen := map[uint64]bool{}
	for _, id := range req.PropertyIDs {
		if seen[id] {
			return nil, 0, &ValidationError{Field: "property_ids", Message: "duplicate property"}
		}
		seen[id] = true
	}
	checkIn := midnightUTC(req.CheckIn)
	checkOut := midnightUTC(req.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, 0, &ValidationError{Field: "check_out", Message: "check-out must be after check-in"}
	}
	today := midnightUTC(s.now())
	if checkIn.Before(today) {
		return nil, 0, &ValidationError{Field: "check_in", Message: "check-in cannot be in the past"}
	}
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights > 30 {
		return nil, 0, &ValidationError{Field: "check_out", Message: "stays are limited to 30 nights"}
	}
	req.CheckIn = checkIn
	req.CheckOut = checkOut

	if req.BookingType != model.TypeStandard && req.BookingType != model.TypeSpecial {
		return nil, 0, &ValidationError{Field: "booking_type", Message: "unknown booking type"}
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, 0, &ValidationError{Field: "name", Message: "name and email are required"}
	}
	if req.GuestCount < 1 {
		return nil, 0, &ValidationError{Field: "guest_count", Message: "guest count must be at least 1"}
	}
	if len(req.PurposesConsented) == 0 || req.ConsentVersion == "" {
		return nil, 0, &ValidationError{Field: "consent", Message: "consent is required"}
	}
	if req.TermsVersion == "" {
		return nil, 0, &ValidationError{Field: "terms_version", Message: "terms acceptance is required"}
	}

	props, err := s.props.ActiveByIDs(ctx, req.PropertyIDs)
	if err != nil {
		return nil, 0, err
	}
	maxGuests := 0
	for _, p := range props {
		maxGuests += p.MaxGuests
	}
	if req.GuestCount > maxGuests {
		return nil, 0, &ValidationError{
			Field:   "guest_count",
			Message: fmt.Sprintf("selected properties sleep at most %d guests", maxGuests),
		}
	}
	return props, nights, nil
}

// GetForGuest loads a booking by reference, releasing it only when the
// supplied email matches the booking's customer.  Mismatches report
// not-found rather than forbidden so references cannot be probed.
func (s *BookingService) GetForGuest(ctx context.Context, ref, email string) (*model.Booking, *model.Customer, error) {
	booking, err := s.bookings.GetByRef(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return nil, nil, err
	}
	if !strings.EqualFold(customer.Email, strings.TrimSpace(email)) {
		return nil, nil, repository.ErrBookingNotFound
	}
	return booking, customer, nil
}

// SubmitPayment records the guest's UPI transaction reference and moves
// a held booking into pending_payment for admin verification.
func (s *BookingService) SubmitPayment(ctx context.Context, ref, email, paymentReference string) (*model.Booking, error) {
	paymentReference = strings.TrimSpace(paymentReference)
	if paymentReference == "" {
		return nil, &ValidationError{Field: "payment_reference", Message: "transaction reference is required"}
	}
	booking, _, err := s.GetForGuest(ctx, ref, email)
	if err != nil {
		return nil, err
	}
	if err := booking.Transition(model.ActionSubmitPayment); err != nil {
		return nil, err
	}
	booking.PaymentReference = &paymentReference
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "payment.submitted",
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: "customer",
		Metadata:    map[string]any{"payment_reference": paymentReference},
	})
	s.alert(queue.AdminAlertEvent{
		Kind:       "payment.submitted",
		BookingID:  booking.ID,
		BookingRef: booking.BookingRef,
		Message:    "guest submitted a payment reference for verification",
		OccurredAt: s.now(),
	})
	return booking, nil
}

// Approve moves a special booking into pending_payment.
func (s *BookingService) Approve(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
	return s.adminTransition(ctx, bookingID, adminID, model.ActionApprove, "booking.approved", nil)
}

// Reject declines a special booking and frees its dates immediately.
func (s *BookingService) Reject(ctx context.Context, bookingID, adminID uint64, reason string) (*model.Booking, error) {
	booking, err := s.adminTransition(ctx, bookingID, adminID, model.ActionReject, "booking.rejected",
		map[string]any{"reason": reason})
	if err != nil {
		return nil, err
	}
	s.releaseHolds(ctx, booking.ID)
	return booking, nil
}

// Cancel cancels a pending-payment booking and frees its dates.
func (s *BookingService) Cancel(ctx context.Context, bookingID, adminID uint64, reason string) (*model.Booking, error) {
	booking, err := s.adminTransition(ctx, bookingID, adminID, model.ActionCancel, "booking.cancelled",
		map[string]any{"reason": reason})
	if err != nil {
		return nil, err
	}
	s.releaseHolds(ctx, booking.ID)
	return booking, nil
}

// ConfirmPayment marks the guest's payment as verified by an admin and
// confirms the booking.  Calendar sync and the confirmation event are
// best effort; their failure never unwinds the confirmation.
func (s *BookingService) ConfirmPayment(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Transition(model.ActionConfirmPayment); err != nil {
		return nil, err
	}
	now := s.now()
	booking.PaymentConfirmedBy = &adminID
	booking.PaymentConfirmedAt = &now

	if eventID, err := s.calendar.CreateEvent(ctx, booking); err != nil {
		log.Printf("calendar: create event for booking %d failed: %v", booking.ID, err)
	} else if eventID != "" {
		booking.CalendarEventID = &eventID
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "payment.confirmed",
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
	})

	customer, err := s.customers.GetByID(ctx, booking.CustomerID)
	if err != nil {
		log.Printf("notify: load customer for booking %d failed: %v", booking.ID, err)
		return booking, nil
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:     booking.ID,
		BookingRef:    booking.BookingRef,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		PropertyIDs:   booking.PropertyIDs,
		CheckIn:       booking.CheckIn.Format("2006-01-02"),
		CheckOut:      booking.CheckOut.Format("2006-01-02"),
		TotalCharged:  booking.TotalCharged,
		ConfirmedAt:   now,
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.BookingConfirmed(pubCtx, ev); err != nil {
			log.Printf("notify: booking.confirmed for %s failed: %v", ev.BookingRef, err)
		}
	}()
	return booking, nil
}

// CheckIn marks the guest as arrived.
func (s *BookingService) CheckIn(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
	return s.adminTransition(ctx, bookingID, adminID, model.ActionCheckIn, "booking.checked_in", nil)
}

// CheckOut marks the guest as departed and sets the default deposit
// refund: the full deposit, minus any damage deduction already on file.
func (s *BookingService) CheckOut(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Transition(model.ActionCheckOut); err != nil {
		return nil, err
	}
	refund := booking.DepositAmount
	if report, err := s.damage.GetByBookingID(ctx, booking.ID); err != nil {
		return nil, err
	} else if report != nil {
		refund -= report.DeductionAmount
	}
	booking.DepositRefundAmount = &refund
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "booking.checked_out",
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
		Metadata:    map[string]any{"deposit_refund_amount": refund},
	})
	return booking, nil
}

// FileDamageReport records damage against a checked-out booking and
// reduces its pending deposit refund.  The deduction is validated
// against the deposit before anything is written.
func (s *BookingService) FileDamageReport(ctx context.Context, bookingID, adminID uint64, description string, estimated, deduction int64, photos []string) (*model.DamageReport, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description is required"}
	}
	if deduction < 0 || estimated < 0 {
		return nil, &ValidationError{Field: "deduction_amount", Message: "amounts cannot be negative"}
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.StatusCheckedOut {
		return nil, &model.InvalidTransitionError{Current: booking.Status, Action: "file_damage_report"}
	}
	if deduction > booking.DepositAmount {
		return nil, &ValidationError{
			Field:   "deduction_amount",
			Message: fmt.Sprintf("deduction exceeds the security deposit of %d", booking.DepositAmount),
		}
	}

	status := model.DamageReported
	if deduction > 0 {
		status = model.DamageDeducted
	}
	report := &model.DamageReport{
		BookingID:       booking.ID,
		Description:     description,
		EstimatedDamage: estimated,
		DeductionAmount: deduction,
		Photos:          photos,
		Status:          status,
	}
	if err := s.damage.Create(ctx, report); err != nil {
		return nil, err
	}

	refund := booking.DepositAmount - deduction
	booking.DamageReportID = &report.ID
	booking.DepositRefundAmount = &refund
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "damage.reported",
		EntityType:  "DamageReport",
		EntityID:    report.ID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
		Metadata:    map[string]any{"booking_id": booking.ID, "deduction_amount": deduction},
	})
	return report, nil
}

// ProcessRefund records that the deposit refund has been paid out and
// closes the booking.
func (s *BookingService) ProcessRefund(ctx context.Context, bookingID, adminID uint64, method string) (*model.Booking, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, &ValidationError{Field: "refund_method", Message: "refund method is required"}
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Transition(model.ActionProcessRefund); err != nil {
		return nil, err
	}
	if booking.DepositRefundAmount == nil {
		refund := booking.DepositAmount
		booking.DepositRefundAmount = &refund
	}
	booking.RefundMethod = &method
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "refund.processed",
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
		Metadata:    map[string]any{"refund_method": method, "amount": *booking.DepositRefundAmount},
	})
	return booking, nil
}

// List forwards to the booking store.
func (s *BookingService) List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, int, error) {
	return s.bookings.List(ctx, f)
}

// GetByID forwards to the booking store.
func (s *BookingService) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// Stats forwards to the booking store using the service clock.
func (s *BookingService) Stats(ctx context.Context) (*repository.Stats, error) {
	return s.bookings.GetStats(ctx, s.now())
}

// adminTransition runs a plain guard-table transition with an audit
// entry and no side effects beyond the status change.
func (s *BookingService) adminTransition(ctx context.Context, bookingID, adminID uint64, action model.BookingAction, auditAction string, metadata map[string]any) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := booking.Transition(action); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      auditAction,
		EntityType:  "Booking",
		EntityID:    booking.ID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
		Metadata:    metadata,
	})
	return booking, nil
}

func (s *BookingService) releaseHolds(ctx context.Context, bookingID uint64) {
	if _, err := s.ledger.Release(ctx, bookingID); err != nil {
		log.Printf("ledger: release holds for booking %d failed: %v", bookingID, err)
	}
}

func (s *BookingService) alert(ev queue.AdminAlertEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.notifier.AdminAlert(ctx, ev); err != nil {
			log.Printf("notify: admin alert %s for %s failed: %v", ev.Kind, ev.BookingRef, err)
		}
	}()
}

// nightsOf expands [checkIn, checkOut) into the individual nights the
// guest occupies.  The check-out day itself is free for the next guest.
func nightsOf(checkIn, checkOut time.Time) []time.Time {
	days := make([]time.Time, 0, int(checkOut.Sub(checkIn).Hours()/24))
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
