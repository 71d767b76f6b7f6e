package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

// AvailabilityQuerier is the slice of the availability service the
// public calendar endpoints use.
type AvailabilityQuerier interface {
	Month(ctx context.Context, propertyID uint64, year int, month time.Month) ([]service.DayAvailability, error)
	RangeAvailable(ctx context.Context, propertyIDs []uint64, checkIn, checkOut time.Time) (bool, error)
}

// AvailabilityHandler serves the public calendar.
type AvailabilityHandler struct {
	Avail AvailabilityQuerier
}

func NewAvailabilityHandler(a AvailabilityQuerier) *AvailabilityHandler {
	return &AvailabilityHandler{Avail: a}
}

// Month handles GET /api/v1/availability/:id?year=2026&month=3, where
// :id is the property id.
func (h *AvailabilityHandler) Month(c echo.Context) error {
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	days, err := h.Avail.Month(ctx, propertyID, year, time.Month(monthNum))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"property_id": propertyID,
		"year":        year,
		"month":       monthNum,
		"days":        days,
	})
}

type checkAvailabilityReq struct {
	PropertyIDs []uint64 `json:"property_ids"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
}

// Check handles POST /api/v1/availability/check, the cheap pre-check the
// booking form runs before submitting.  The authoritative answer is
// still the claim inside booking creation.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	var req checkAvailabilityReq
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
	if len(req.PropertyIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_ids required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	available, err := h.Avail.RangeAvailable(ctx, req.PropertyIDs, checkIn, checkOut)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}
