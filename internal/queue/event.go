// Package queue defines the event payloads exchanged over RabbitMQ and a
// consumer that drains them.  Producers marshal these structs to JSON;
// field names are part of the wire contract.
package queue

import "time"

// BookingConfirmedEvent is published after an admin verifies a guest's
// payment.  Downstream consumers use it to send the confirmation email
// and any owner notifications.
type BookingConfirmedEvent struct {
	BookingID     uint64    `json:"booking_id"`
	BookingRef    string    `json:"booking_ref"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	PropertyIDs   []uint64  `json:"property_ids"`
	CheckIn       string    `json:"check_in"`       // YYYY-MM-DD
	CheckOut      string    `json:"check_out"`      // YYYY-MM-DD
	TotalCharged  int64     `json:"total_charged"`  // paise
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// AdminAlertEvent is published when something needs back-office
// attention: a new booking request, a payment submission, a special
// booking awaiting approval.
type AdminAlertEvent struct {
	Kind       string    `json:"kind"` // e.g. "booking.requested", "payment.submitted"
	BookingID  uint64    `json:"booking_id"`
	BookingRef string    `json:"booking_ref"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Queue names.  Declared durable by both producer and consumer.
const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueAdminAlert       = "admin.alert"
)
