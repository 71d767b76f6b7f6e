package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/middleware"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// AdminBookingService is the slice of the booking service the back
// office uses.
type AdminBookingService interface {
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, int, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Stats(ctx context.Context) (*repository.Stats, error)
	Approve(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error)
	Reject(ctx context.Context, bookingID, adminID uint64, reason string) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, adminID uint64, reason string) (*model.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error)
	CheckIn(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error)
	CheckOut(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error)
	FileDamageReport(ctx context.Context, bookingID, adminID uint64, description string, estimated, deduction int64, photos []string) (*model.DamageReport, error)
	ProcessRefund(ctx context.Context, bookingID, adminID uint64, method string) (*model.Booking, error)
}

// AdminBookingHandler serves the back-office booking endpoints.
type AdminBookingHandler struct {
	Bookings AdminBookingService
}

func NewAdminBookingHandler(b AdminBookingService) *AdminBookingHandler {
	return &AdminBookingHandler{Bookings: b}
}

type adminBookingResp struct {
	ID uint64 `json:"id"`
	bookingResp
	CustomerID         uint64                `json:"customer_id"`
	GuestCount         int                   `json:"guest_count"`
	ReasonForRenting   string                `json:"reason_for_renting"`
	RefundMethod       *string               `json:"refund_method,omitempty"`
	PaymentConfirmedBy *uint64               `json:"payment_confirmed_by,omitempty"`
	PaymentConfirmedAt *time.Time            `json:"payment_confirmed_at,omitempty"`
	DamageReportID     *uint64               `json:"damage_report_id,omitempty"`
	AvailableActions   []model.BookingAction `json:"available_actions"`
	CreatedAt          time.Time             `json:"created_at"`
}

func toAdminBookingResp(b *model.Booking) adminBookingResp {
	return adminBookingResp{
		ID:                 b.ID,
		bookingResp:        toBookingResp(b),
		CustomerID:         b.CustomerID,
		GuestCount:         b.GuestCount,
		ReasonForRenting:   b.ReasonForRenting,
		RefundMethod:       b.RefundMethod,
		PaymentConfirmedBy: b.PaymentConfirmedBy,
		PaymentConfirmedAt: b.PaymentConfirmedAt,
		DamageReportID:     b.DamageReportID,
		AvailableActions:   b.AvailableActions(),
		CreatedAt:          b.CreatedAt,
	}
}

// List handles GET /api/v1/admin/bookings with optional status,
// property_id, from, to, page and limit query parameters.
func (h *AdminBookingHandler) List(c echo.Context) error {
	filter := repository.BookingFilter{
		Status: model.BookingStatus(c.QueryParam("status")),
	}
	if v := c.QueryParam("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property_id"})
		}
		filter.PropertyID = id
	}
	for param, dst := range map[string]**time.Time{"from": &filter.FromDate, "to": &filter.ToDate} {
		if v := c.QueryParam(param); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": param + " must be YYYY-MM-DD"})
			}
			*dst = &t
		}
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, total, err := h.Bookings.List(ctx, filter)
	if err != nil {
		return jsonError(c, err)
	}
	items := make([]adminBookingResp, 0, len(bookings))
	for i := range bookings {
		items = append(items, toAdminBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items, "total": total})
}

// Get handles GET /api/v1/admin/bookings/:id.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toAdminBookingResp(booking))
}

// Stats handles GET /api/v1/admin/dashboard.
func (h *AdminBookingHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Bookings.Stats(ctx)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_bookings":     stats.TotalBookings,
		"revenue_this_month": stats.RevenueThisMonth,
		"upcoming_check_ins": stats.UpcomingCheckIns,
		"booked_nights":      stats.BookedNights,
	})
}

type reasonReq struct {
	Reason string `json:"reason"`
}
type refundReq struct {
	Method string `json:"method"`
}
type damageReq struct {
	Description     string   `json:"description"`
	EstimatedDamage int64    `json:"estimated_damage"`
	DeductionAmount int64    `json:"deduction_amount"`
	Photos          []string `json:"photos"`
}

// transition wraps the shared id-parse / call / respond plumbing of the
// lifecycle endpoints.
func (h *AdminBookingHandler) transition(c echo.Context, fn func(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, err := fn(ctx, id, middleware.AdminID(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toAdminBookingResp(booking))
}

// Approve handles POST /api/v1/admin/bookings/:id/approve.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	return h.transition(c, h.Bookings.Approve)
}

// Reject handles POST /api/v1/admin/bookings/:id/reject.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	var req reasonReq
	_ = c.Bind(&req) // reason is optional
	return h.transition(c, func(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
		return h.Bookings.Reject(ctx, bookingID, adminID, req.Reason)
	})
}

// Cancel handles POST /api/v1/admin/bookings/:id/cancel.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	var req reasonReq
	_ = c.Bind(&req)
	return h.transition(c, func(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
		return h.Bookings.Cancel(ctx, bookingID, adminID, req.Reason)
	})
}

// ConfirmPayment handles POST /api/v1/admin/bookings/:id/confirm-payment.
func (h *AdminBookingHandler) ConfirmPayment(c echo.Context) error {
	return h.transition(c, h.Bookings.ConfirmPayment)
}

// CheckIn handles POST /api/v1/admin/bookings/:id/check-in.
func (h *AdminBookingHandler) CheckIn(c echo.Context) error {
	return h.transition(c, h.Bookings.CheckIn)
}

// CheckOut handles POST /api/v1/admin/bookings/:id/check-out.
func (h *AdminBookingHandler) CheckOut(c echo.Context) error {
	return h.transition(c, h.Bookings.CheckOut)
}

// Refund handles POST /api/v1/admin/bookings/:id/refund.
func (h *AdminBookingHandler) Refund(c echo.Context) error {
	var req refundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.transition(c, func(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
		return h.Bookings.ProcessRefund(ctx, bookingID, adminID, req.Method)
	})
}

// DamageReport handles POST /api/v1/admin/bookings/:id/damage-report.
func (h *AdminBookingHandler) DamageReport(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req damageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	report, err := h.Bookings.FileDamageReport(ctx, id, middleware.AdminID(c),
		req.Description, req.EstimatedDamage, req.DeductionAmount, req.Photos)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":               report.ID,
		"booking_id":       report.BookingID,
		"status":           report.Status,
		"deduction_amount": report.DeductionAmount,
	})
}

var _ AdminBookingService = (*service.BookingService)(nil)
