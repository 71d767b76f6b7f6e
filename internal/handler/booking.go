package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// GuestBookingService is the slice of the booking service the public
// endpoints use.
type GuestBookingService interface {
	CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*model.Booking, error)
	GetForGuest(ctx context.Context, ref, email string) (*model.Booking, *model.Customer, error)
	SubmitPayment(ctx context.Context, ref, email, paymentReference string) (*model.Booking, error)
}

// BookingHandler serves the public booking endpoints.  Guests have no
// accounts; every lookup authenticates with booking reference + email.
type BookingHandler struct {
	Bookings GuestBookingService
}

func NewBookingHandler(b GuestBookingService) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// ----- DTOs -----

type createBookingReq struct {
	PropertyIDs  []uint64 `json:"property_ids"`
	CheckIn      string   `json:"check_in"`  // YYYY-MM-DD
	CheckOut     string   `json:"check_out"` // YYYY-MM-DD
	BookingType  string   `json:"booking_type"`
	GuestCount   int      `json:"guest_count"`
	Reason       string   `json:"reason_for_renting"`
	SpecialReqs  *string  `json:"special_requests"`
	TermsVersion string   `json:"terms_version"`

	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	Nationality   string  `json:"nationality"`
	IDType        *string `json:"id_type"`
	IDNumber      *string `json:"id_number"`
	IDDocumentURL *string `json:"id_document_url"`

	ConsentVersion    string   `json:"consent_version"`
	PurposesConsented []string `json:"purposes_consented"`
	ConsentText       string   `json:"consent_text"`
}

type submitPaymentReq struct {
	Email            string `json:"email"`
	PaymentReference string `json:"payment_reference"`
}

type bookingResp struct {
	BookingRef          string   `json:"booking_ref"`
	Status              string   `json:"status"`
	PropertyIDs         []uint64 `json:"property_ids"`
	CheckIn             string   `json:"check_in"`
	CheckOut            string   `json:"check_out"`
	Nights              int      `json:"nights"`
	BookingType         string   `json:"booking_type"`
	TotalCharged        int64    `json:"total_charged"`
	DepositAmount       int64    `json:"deposit_amount"`
	DepositRefundAmount *int64   `json:"deposit_refund_amount,omitempty"`
	PaymentReference    *string  `json:"payment_reference,omitempty"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		BookingRef:          b.BookingRef,
		Status:              string(b.Status),
		PropertyIDs:         b.PropertyIDs,
		CheckIn:             b.CheckIn.Format("2006-01-02"),
		CheckOut:            b.CheckOut.Format("2006-01-02"),
		Nights:              b.Nights,
		BookingType:         string(b.BookingType),
		TotalCharged:        b.TotalCharged,
		DepositAmount:       b.DepositAmount,
		DepositRefundAmount: b.DepositRefundAmount,
		PaymentReference:    b.PaymentReference,
	}
}

// Create handles POST /api/v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, err := h.Bookings.CreateBooking(ctx, service.CreateBookingRequest{
		PropertyIDs:       req.PropertyIDs,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		BookingType:       model.BookingType(req.BookingType),
		GuestCount:        req.GuestCount,
		ReasonForRent:     req.Reason,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		Nationality:       req.Nationality,
		IDType:            req.IDType,
		IDNumber:          req.IDNumber,
		IDDocumentURL:     req.IDDocumentURL,
		ConsentVersion:    req.ConsentVersion,
		PurposesConsented: req.PurposesConsented,
		ConsentText:       req.ConsentText,
		IPAddress:         c.RealIP(),
		UserAgent:         c.Request().UserAgent(),
		TermsVersion:      req.TermsVersion,
		SpecialRequests:   req.SpecialReqs,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// Get handles GET /api/v1/bookings/:ref?email=...
func (h *BookingHandler) Get(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, _, err := h.Bookings.GetForGuest(ctx, c.Param("ref"), email)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// SubmitPayment handles POST /api/v1/bookings/:ref/payment.
func (h *BookingHandler) SubmitPayment(c echo.Context) error {
	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.SubmitPayment(ctx, c.Param("ref"), req.Email, req.PaymentReference)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}
