package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// DataRightsService is the slice of the booking service behind the guest
// data-rights endpoints (access, correction, erasure).
type DataRightsService interface {
	ExportData(ctx context.Context, ref, email string) (*service.DataExport, error)
	CorrectContact(ctx context.Context, ref, email, name, newEmail, phone, address string) (*model.Customer, error)
	Erase(ctx context.Context, ref, email string) error
}

// CustomerDataHandler serves the data-rights endpoints.  Identity is the
// booking reference plus the email on file, the same scheme as every
// other guest endpoint.
type CustomerDataHandler struct {
	Rights DataRightsService
}

func NewCustomerDataHandler(r DataRightsService) *CustomerDataHandler {
	return &CustomerDataHandler{Rights: r}
}

type dataRightsReq struct {
	BookingRef string `json:"booking_ref"`
	Email      string `json:"email"`
}

type correctDataReq struct {
	BookingRef string `json:"booking_ref"`
	Email      string `json:"email"`

	Name     string `json:"name"`
	NewEmail string `json:"new_email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Export handles POST /api/v1/data-rights/export.
func (h *CustomerDataHandler) Export(c echo.Context) error {
	var req dataRightsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	export, err := h.Rights.ExportData(ctx, req.BookingRef, req.Email)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, export)
}

// Correct handles POST /api/v1/data-rights/correct.
func (h *CustomerDataHandler) Correct(c echo.Context) error {
	var req correctDataReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	customer, err := h.Rights.CorrectContact(ctx, req.BookingRef, req.Email,
		req.Name, req.NewEmail, req.Phone, req.Address)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":    customer.Name,
		"email":   customer.Email,
		"phone":   customer.Phone,
		"address": customer.Address,
	})
}

// Erase handles POST /api/v1/data-rights/erase.
func (h *CustomerDataHandler) Erase(c echo.Context) error {
	var req dataRightsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rights.Erase(ctx, req.BookingRef, req.Email); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "personal data has been anonymized"})
}
