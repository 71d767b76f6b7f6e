package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// AuditLogQuerier reads the audit trail.
type AuditLogQuerier interface {
	Recent(ctx context.Context, limit int) ([]model.AuditLog, error)
}

// AuditLogHandler serves the back-office audit trail.
type AuditLogHandler struct {
	Logs AuditLogQuerier
}

func NewAuditLogHandler(l AuditLogQuerier) *AuditLogHandler { return &AuditLogHandler{Logs: l} }

type auditEntryResp struct {
	ID          uint64         `json:"id"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    uint64         `json:"entity_id"`
	PerformedBy string         `json:"performed_by"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IPAddress   *string        `json:"ip_address,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// List handles GET /api/v1/admin/audit-logs with an optional limit
// query parameter.
func (h *AuditLogHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Logs.Recent(ctx, limit)
	if err != nil {
		return jsonError(c, err)
	}
	items := make([]auditEntryResp, 0, len(entries))
	for _, e := range entries {
		items = append(items, auditEntryResp{
			ID:          e.ID,
			Action:      e.Action,
			EntityType:  e.EntityType,
			EntityID:    e.EntityID,
			PerformedBy: e.PerformedBy,
			Metadata:    e.Metadata,
			IPAddress:   e.IPAddress,
			CreatedAt:   e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": items})
}
