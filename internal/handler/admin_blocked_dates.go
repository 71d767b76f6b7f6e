package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/middleware"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// BlackoutService is the slice of the booking service behind the admin
// blocked-dates endpoints.
type BlackoutService interface {
	BlockDates(ctx context.Context, propertyID, adminID uint64, days []time.Time) (int, error)
	UnblockDate(ctx context.Context, holdID, adminID uint64) error
	ListBlockedDates(ctx context.Context, propertyID uint64) ([]model.DateHold, error)
}

// BlockedDatesHandler lets admins close dates for maintenance or
// personal use.  Blocked days occupy the same calendar slots as guest
// holds, so guests simply see them as unavailable.
type BlockedDatesHandler struct {
	Blackouts BlackoutService
}

func NewBlockedDatesHandler(b BlackoutService) *BlockedDatesHandler {
	return &BlockedDatesHandler{Blackouts: b}
}

type blockDatesReq struct {
	PropertyID uint64   `json:"property_id"`
	Dates      []string `json:"dates"` // YYYY-MM-DD each
}

// Block handles POST /api/v1/admin/blocked-dates.
func (h *BlockedDatesHandler) Block(c echo.Context) error {
	var req blockDatesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	days := make([]time.Time, 0, len(req.Dates))
	for _, s := range req.Dates {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
		}
		days = append(days, d)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	n, err := h.Blackouts.BlockDates(ctx, req.PropertyID, middleware.AdminID(c), days)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"blocked": n})
}

// Unblock handles DELETE /api/v1/admin/blocked-dates/:id.
func (h *BlockedDatesHandler) Unblock(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blocked date id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Blackouts.UnblockDate(ctx, id, middleware.AdminID(c)); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unblocked"})
}

// List handles GET /api/v1/admin/blocked-dates?property_id=...
func (h *BlockedDatesHandler) List(c echo.Context) error {
	var propertyID uint64
	if v := c.QueryParam("property_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property_id"})
		}
		propertyID = id
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	holds, err := h.Blackouts.ListBlockedDates(ctx, propertyID)
	if err != nil {
		return jsonError(c, err)
	}
	type blockedResp struct {
		ID         uint64 `json:"id"`
		PropertyID uint64 `json:"property_id"`
		Date       string `json:"date"`
	}
	items := make([]blockedResp, 0, len(holds))
	for _, h := range holds {
		items = append(items, blockedResp{ID: h.ID, PropertyID: h.PropertyID, Date: h.Day.Format("2006-01-02")})
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked_dates": items})
}
