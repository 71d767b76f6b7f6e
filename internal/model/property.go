package model

import "time"

// Property describes one of the rentable bungalows.  Rates and deposits
// are stored in integer paise.  Properties referenced by a booking are
// never deleted; deactivation removes them from public listings instead.
type Property struct {
	ID              uint64    // properties.id
	Name            string    // properties.name
	Slug            string    // properties.slug (unique, URL-facing)
	Description     string    // properties.description
	RatePerNight    int64     // properties.rate_per_night (paise)
	SecurityDeposit int64     // properties.security_deposit (paise)
	MaxGuests       int       // properties.max_guests
	Amenities       []string  // properties.amenities (JSON column)
	Photos          []string  // properties.photos (JSON column)
	IsActive        bool      // properties.is_active
	CreatedAt       time.Time // properties.created_at
	UpdatedAt       time.Time // properties.updated_at
}
