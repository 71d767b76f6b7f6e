package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/config"
)

// PaymentInfoHandler tells a guest how to pay.  Payment is manual UPI:
// the guest transfers the amount to the configured UPI id and submits
// the transaction reference, which an admin verifies by hand against
// the bank statement.
type PaymentInfoHandler struct {
	Cfg      config.Config
	Bookings GuestBookingService
}

func NewPaymentInfoHandler(cfg config.Config, b GuestBookingService) *PaymentInfoHandler {
	return &PaymentInfoHandler{Cfg: cfg, Bookings: b}
}

// Get handles GET /api/v1/bookings/:ref/payment-info?email=...
func (h *PaymentInfoHandler) Get(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter required"})
	}
	if h.Cfg.UPIID == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "online payment is not configured; contact the owner"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, _, err := h.Bookings.GetForGuest(ctx, c.Param("ref"), email)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_ref":  booking.BookingRef,
		"amount_due":   booking.TotalCharged + booking.DepositAmount,
		"rent":         booking.TotalCharged,
		"deposit":      booking.DepositAmount,
		"upi_id":       h.Cfg.UPIID,
		"upi_qr_code":  h.Cfg.UPIQRCodeURL,
		"instructions": "Pay via UPI and submit the transaction reference (UTR) to confirm your booking.",
	})
}
