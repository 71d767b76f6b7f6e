package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// BookingRef returns a human-facing booking reference of the form
// BK-XXXXXXXX.  Eight hex characters give ~4 billion combinations,
// plenty for a two-property business, and the booking_ref column's
// unique key catches the astronomically unlikely collision.
func BookingRef() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; there is no
		// reasonable fallback for reference generation.
		panic(err)
	}
	return "BK-" + strings.ToUpper(hex.EncodeToString(buf))
}
