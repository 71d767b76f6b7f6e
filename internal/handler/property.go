package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
)

// PropertyHandler serves the public property listing and the admin
// property management endpoints.
type PropertyHandler struct {
	Props *repository.PropertyRepo
}

func NewPropertyHandler(p *repository.PropertyRepo) *PropertyHandler {
	return &PropertyHandler{Props: p}
}

type propertyResp struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	RatePerNight    int64    `json:"rate_per_night"`
	SecurityDeposit int64    `json:"security_deposit"`
	MaxGuests       int      `json:"max_guests"`
	Amenities       []string `json:"amenities"`
	Photos          []string `json:"photos"`
	IsActive        bool     `json:"is_active"`
}

func toPropertyResp(p *model.Property) propertyResp {
	return propertyResp{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		RatePerNight:    p.RatePerNight,
		SecurityDeposit: p.SecurityDeposit,
		MaxGuests:       p.MaxGuests,
		Amenities:       p.Amenities,
		Photos:          p.Photos,
		IsActive:        p.IsActive,
	}
}

// List handles GET /api/v1/properties (active only).
func (h *PropertyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Props.List(ctx, true)
	if err != nil {
		return jsonError(c, err)
	}
	items := make([]propertyResp, 0, len(props))
	for i := range props {
		items = append(items, toPropertyResp(&props[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": items})
}

// GetBySlug handles GET /api/v1/properties/:slug.
func (h *PropertyHandler) GetBySlug(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Props.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toPropertyResp(p))
}

type propertyReq struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	RatePerNight    int64    `json:"rate_per_night"`
	SecurityDeposit int64    `json:"security_deposit"`
	MaxGuests       int      `json:"max_guests"`
	Amenities       []string `json:"amenities"`
	Photos          []string `json:"photos"`
	IsActive        *bool    `json:"is_active"`
}

func (r *propertyReq) validate() string {
	if r.Name == "" || r.Slug == "" {
		return "name and slug are required"
	}
	if r.RatePerNight < 0 || r.SecurityDeposit < 0 {
		return "rates cannot be negative"
	}
	if r.MaxGuests < 1 {
		return "max_guests must be at least 1"
	}
	return ""
}

// AdminList handles GET /api/v1/admin/properties (includes inactive).
func (h *PropertyHandler) AdminList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	props, err := h.Props.List(ctx, false)
	if err != nil {
		return jsonError(c, err)
	}
	items := make([]propertyResp, 0, len(props))
	for i := range props {
		items = append(items, toPropertyResp(&props[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": items})
}

// Create handles POST /api/v1/admin/properties.
func (h *PropertyHandler) Create(c echo.Context) error {
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	p := &model.Property{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		RatePerNight:    req.RatePerNight,
		SecurityDeposit: req.SecurityDeposit,
		MaxGuests:       req.MaxGuests,
		Amenities:       req.Amenities,
		Photos:          req.Photos,
		IsActive:        active,
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Props.Create(ctx, p); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, toPropertyResp(p))
}

// Update handles PUT /api/v1/admin/properties/:id.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Props.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	p.Name = req.Name
	p.Slug = req.Slug
	p.Description = req.Description
	p.RatePerNight = req.RatePerNight
	p.SecurityDeposit = req.SecurityDeposit
	p.MaxGuests = req.MaxGuests
	if req.Amenities != nil {
		p.Amenities = req.Amenities
	}
	if req.Photos != nil {
		p.Photos = req.Photos
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.Props.Update(ctx, p); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, toPropertyResp(p))
}
