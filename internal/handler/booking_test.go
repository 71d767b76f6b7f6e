package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// stubGuestService scripts the service layer so handler behavior can be
// tested in isolation.
type stubGuestService struct {
	createFn func(ctx context.Context, req service.CreateBookingRequest) (*model.Booking, error)
	getFn    func(ctx context.Context, ref, email string) (*model.Booking, *model.Customer, error)
	submitFn func(ctx context.Context, ref, email, paymentReference string) (*model.Booking, error)
}

func (s *stubGuestService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*model.Booking, error) {
	return s.createFn(ctx, req)
}
func (s *stubGuestService) GetForGuest(ctx context.Context, ref, email string) (*model.Booking, *model.Customer, error) {
	return s.getFn(ctx, ref, email)
}
func (s *stubGuestService) SubmitPayment(ctx context.Context, ref, email, paymentReference string) (*model.Booking, error) {
	return s.submitFn(ctx, ref, email, paymentReference)
}

func sampleBooking() *model.Booking {
	return &model.Booking{
		ID:            42,
		BookingRef:    "BK-ABCD1234",
		PropertyIDs:   []uint64{1},
		CheckIn:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		Nights:        3,
		BookingType:   model.TypeStandard,
		Status:        model.StatusHold,
		TotalCharged:  7500000,
		DepositAmount: 500000,
	}
}

const createBody = `{
	"property_ids": [1],
	"check_in": "2026-03-10",
	"check_out": "2026-03-13",
	"booking_type": "standard",
	"guest_count": 4,
	"reason_for_renting": "family vacation",
	"name": "Asha Verma",
	"email": "asha@example.com",
	"phone": "+91 98765 43210",
	"address": "12 MG Road, Pune",
	"nationality": "indian",
	"consent_version": "v2",
	"purposes_consented": ["booking"],
	"consent_text": "I consent.",
	"terms_version": "2026-01"
}`

func TestBookingCreateHandler(t *testing.T) {
	var got service.CreateBookingRequest
	h := NewBookingHandler(&stubGuestService{
		createFn: func(_ context.Context, req service.CreateBookingRequest) (*model.Booking, error) {
			got = req
			return sampleBooking(), nil
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, []uint64{1}, got.PropertyIDs)
	assert.Equal(t, "2026-03-10", got.CheckIn.Format("2006-01-02"))
	assert.Equal(t, model.TypeStandard, got.BookingType)
	assert.Equal(t, "asha@example.com", got.Email)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BK-ABCD1234", resp["booking_ref"])
	assert.Equal(t, "hold", resp["status"])
	assert.Equal(t, float64(7500000), resp["total_charged"])
}

func TestBookingCreateHandlerBadDates(t *testing.T) {
	h := NewBookingHandler(&stubGuestService{})

	e := echo.New()
	body := strings.Replace(createBody, "2026-03-10", "10/03/2026", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingCreateHandlerConflict(t *testing.T) {
	h := NewBookingHandler(&stubGuestService{
		createFn: func(context.Context, service.CreateBookingRequest) (*model.Booking, error) {
			return nil, repository.ErrDatesUnavailable
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already booked")
}

func TestBookingCreateHandlerValidationError(t *testing.T) {
	h := NewBookingHandler(&stubGuestService{
		createFn: func(context.Context, service.CreateBookingRequest) (*model.Booking, error) {
			return nil, &service.ValidationError{Field: "guest_count", Message: "guest count must be at least 1"}
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(createBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "guest_count")
}

func TestBookingGetHandler(t *testing.T) {
	h := NewBookingHandler(&stubGuestService{
		getFn: func(_ context.Context, ref, email string) (*model.Booking, *model.Customer, error) {
			if ref == "BK-ABCD1234" && email == "asha@example.com" {
				return sampleBooking(), &model.Customer{Email: email}, nil
			}
			return nil, nil, repository.ErrBookingNotFound
		},
	})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/BK-ABCD1234?email=asha%40example.com", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ref")
	c.SetParamValues("BK-ABCD1234")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing email is a 400 before the service is consulted.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/BK-ABCD1234", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("ref")
	c.SetParamValues("BK-ABCD1234")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong email surfaces as 404.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/bookings/BK-ABCD1234?email=other%40example.com", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("ref")
	c.SetParamValues("BK-ABCD1234")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitPaymentHandlerTransitionConflict(t *testing.T) {
	h := NewBookingHandler(&stubGuestService{
		submitFn: func(context.Context, string, string, string) (*model.Booking, error) {
			return nil, &model.InvalidTransitionError{Current: model.StatusConfirmed, Action: model.ActionSubmitPayment}
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/BK-ABCD1234/payment",
		strings.NewReader(`{"email":"asha@example.com","payment_reference":"UPI1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("ref")
	c.SetParamValues("BK-ABCD1234")

	require.NoError(t, h.SubmitPayment(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
