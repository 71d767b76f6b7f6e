package model

import (
	"fmt"
	"time"
)

// BookingStatus enumerates the lifecycle states of a booking.  The set is
// closed: the database column is an ENUM over exactly these values and
// status changes are only performed through Transition below.
type BookingStatus string

const (
	StatusHold            BookingStatus = "hold"             // standard booking awaiting payment evidence
	StatusPendingApproval BookingStatus = "pending_approval" // special booking awaiting owner approval
	StatusPendingPayment  BookingStatus = "pending_payment"  // payment evidence submitted or approval granted
	StatusConfirmed       BookingStatus = "confirmed"        // payment verified by an administrator
	StatusCheckedIn       BookingStatus = "checked_in"       // guest has arrived
	StatusCheckedOut      BookingStatus = "checked_out"      // stay finished, deposit refund pending
	StatusCancelled       BookingStatus = "cancelled"        // rejected or withdrawn before confirmation
	StatusRefunded        BookingStatus = "refunded"         // deposit refund settled
)

// BookingType distinguishes ordinary stays from special events (weddings,
// shoots and the like) which require owner approval before payment is
// solicited.
type BookingType string

const (
	TypeStandard BookingType = "standard"
	TypeSpecial  BookingType = "special"
)

// BookingAction names an operation against the booking state machine.
type BookingAction string

const (
	ActionSubmitPayment  BookingAction = "submit_payment"
	ActionApprove        BookingAction = "approve"
	ActionReject         BookingAction = "reject"
	ActionCancel         BookingAction = "cancel"
	ActionConfirmPayment BookingAction = "confirm_payment"
	ActionCheckIn        BookingAction = "check_in"
	ActionCheckOut       BookingAction = "check_out"
	ActionProcessRefund  BookingAction = "process_refund"
)

// transitions is the guard table for the booking state machine.  For each
// action it lists the states the action may be applied from and the
// resulting state.  An action attempted from any state not listed here
// fails with *InvalidTransitionError; it never silently succeeds.
var transitions = map[BookingAction]map[BookingStatus]BookingStatus{
	ActionSubmitPayment:  {StatusHold: StatusPendingPayment},
	ActionApprove:        {StatusPendingApproval: StatusPendingPayment},
	ActionReject:         {StatusPendingApproval: StatusCancelled},
	ActionCancel:         {StatusPendingPayment: StatusCancelled},
	ActionConfirmPayment: {StatusPendingPayment: StatusConfirmed},
	ActionCheckIn:        {StatusConfirmed: StatusCheckedIn},
	ActionCheckOut:       {StatusCheckedIn: StatusCheckedOut},
	ActionProcessRefund:  {StatusCheckedOut: StatusRefunded},
}

// InvalidTransitionError reports a state machine guard violation.  It
// carries the booking's current status and the attempted action so the
// caller can see exactly which edge was missing from the guard table.
type InvalidTransitionError struct {
	Current BookingStatus
	Action  BookingAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking with status %q", e.Action, e.Current)
}

// InitialStatus returns the status a freshly created booking starts in.
// Standard bookings enter hold directly because payment is expected
// immediately; special bookings must first be approved by the owner.
func InitialStatus(t BookingType) BookingStatus {
	if t == TypeSpecial {
		return StatusPendingApproval
	}
	return StatusHold
}

// Booking is the aggregate root of a reservation.  It is created once per
// guest request, mutated only through Transition and the saga, and never
// physically deleted once confirmed: cancelled and refunded bookings are
// retained for audit and legal purposes.
//
// Monetary fields are integer paise.  Check-in is inclusive and check-out
// exclusive, so Nights equals the number of ledger days claimed per
// property.
type Booking struct {
	ID                  uint64        // bookings.id
	BookingRef          string        // human-facing short identifier, e.g. BK-4f9a21cd
	PropertyIDs         []uint64      // one or two properties covered by the stay
	CustomerID          uint64        // owning customer record
	ConsentRecordID     uint64        // consent captured at creation time
	CheckIn             time.Time     // first occupied day (UTC midnight)
	CheckOut            time.Time     // day after the last occupied day (UTC midnight)
	Nights              int           // derived night count
	BookingType         BookingType   // standard or special
	Status              BookingStatus // current lifecycle state
	TotalCharged        int64         // rent for the stay, paise (deposit tracked separately)
	DepositAmount       int64         // refundable security deposit, paise
	DepositRefundAmount *int64        // set at check-out, adjusted by damage reports
	RefundMethod        *string       // how the deposit was returned (upi, bank_transfer, cash)
	DamageReportID      *uint64       // at most one report per booking
	CalendarEventID     *string       // opaque id from the external calendar sync
	PaymentReference    *string       // UTR / UPI reference submitted by the guest
	PaymentConfirmedBy  *uint64       // admin who verified the payment
	PaymentConfirmedAt  *time.Time    // when the payment was verified
	GuestCount          int
	ReasonForRenting    string
	SpecialRequests     *string
	TermsAcceptedAt     time.Time
	TermsVersion        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Transition applies an action to the booking.  When the guard table
// permits the edge, the status is updated and nil is returned; otherwise
// the status is left untouched and an *InvalidTransitionError describing
// the violation is returned.
func (b *Booking) Transition(a BookingAction) error {
	next, ok := transitions[a][b.Status]
	if !ok {
		return &InvalidTransitionError{Current: b.Status, Action: a}
	}
	b.Status = next
	return nil
}

// CanTransition reports whether the action is currently permitted without
// applying it.
func (b *Booking) CanTransition(a BookingAction) bool {
	_, ok := transitions[a][b.Status]
	return ok
}

// actionOrder fixes the order actions are reported in.  Map iteration
// order would shuffle the admin UI's buttons on every request.
var actionOrder = []BookingAction{
	ActionSubmitPayment, ActionApprove, ActionReject, ActionCancel,
	ActionConfirmPayment, ActionCheckIn, ActionCheckOut, ActionProcessRefund,
}

// AvailableActions lists the actions the guard table currently permits,
// in lifecycle order.  The admin API includes it on booking responses so
// the back office knows which operations to offer.
func (b *Booking) AvailableActions() []BookingAction {
	out := make([]BookingAction, 0, 2)
	for _, a := range actionOrder {
		if b.CanTransition(a) {
			out = append(out, a)
		}
	}
	return out
}
