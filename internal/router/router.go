// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/config"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/handler"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/middleware"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth         *handler.AdminAuthHandler
	Bookings     *handler.BookingHandler
	Availability *handler.AvailabilityHandler
	PaymentInfo  *handler.PaymentInfoHandler
	CustomerData *handler.CustomerDataHandler
	Properties   *handler.PropertyHandler
	AdminBooking *handler.AdminBookingHandler
	BlockedDates *handler.BlockedDatesHandler
	AuditLogs    *handler.AuditLogHandler
}

// Register mounts all routes.  Public guest endpoints sit under /api/v1
// behind the rate limiter; the availability calendar additionally goes
// through the response cache.  Admin endpoints sit under /api/v1/admin
// behind JWT auth, with destructive operations restricted to the owner
// role where noted.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.RateLimit(rdb, config.LoadRateLimitConfig())
	cache := middleware.ResponseCache(rdb, config.LoadCacheConfig())

	// Public API.
	pub := e.Group("/api/v1", limiter)
	pub.GET("/properties", h.Properties.List, cache)
	pub.GET("/properties/:slug", h.Properties.GetBySlug, cache)
	pub.GET("/availability/:id", h.Availability.Month, cache)
	pub.POST("/availability/check", h.Availability.Check)

	pub.POST("/bookings", h.Bookings.Create)
	pub.GET("/bookings/:ref", h.Bookings.Get)
	pub.POST("/bookings/:ref/payment", h.Bookings.SubmitPayment)
	pub.GET("/bookings/:ref/payment-info", h.PaymentInfo.Get)

	pub.POST("/data-rights/export", h.CustomerData.Export)
	pub.POST("/data-rights/correct", h.CustomerData.Correct)
	pub.POST("/data-rights/erase", h.CustomerData.Erase)

	// Admin auth (no session required).  Login shares the public rate
	// limit so credentials cannot be brute-forced.
	authGroup := e.Group("/api/v1/admin/auth", limiter)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)

	// Admin API, any back-office role.
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleOwner, model.RoleManager))

	admin.GET("/me", h.Auth.Me)
	admin.GET("/dashboard", h.AdminBooking.Stats)

	admin.GET("/bookings", h.AdminBooking.List)
	admin.GET("/bookings/:id", h.AdminBooking.Get)
	admin.POST("/bookings/:id/approve", h.AdminBooking.Approve)
	admin.POST("/bookings/:id/reject", h.AdminBooking.Reject)
	admin.POST("/bookings/:id/cancel", h.AdminBooking.Cancel)
	admin.POST("/bookings/:id/confirm-payment", h.AdminBooking.ConfirmPayment)
	admin.POST("/bookings/:id/check-in", h.AdminBooking.CheckIn)
	admin.POST("/bookings/:id/check-out", h.AdminBooking.CheckOut)
	admin.POST("/bookings/:id/damage-report", h.AdminBooking.DamageReport)
	admin.POST("/bookings/:id/refund", h.AdminBooking.Refund)

	admin.GET("/audit-logs", h.AuditLogs.List)

	admin.GET("/blocked-dates", h.BlockedDates.List)
	admin.POST("/blocked-dates", h.BlockedDates.Block)
	admin.DELETE("/blocked-dates/:id", h.BlockedDates.Unblock)

	// Property management is owner-only.
	owner := e.Group("/api/v1/admin/properties")
	owner.Use(middleware.JWTAuth(cfg.JWTSecret))
	owner.Use(middleware.RequireRole(model.RoleOwner))
	owner.GET("", h.Properties.AdminList)
	owner.POST("", h.Properties.Create)
	owner.PUT("/:id", h.Properties.Update)
}
