package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/config"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/database"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/handler"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/queue"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/router"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	ledger := repository.NewDateHoldRepo(db)
	bookings := repository.NewBookingRepo(db)
	customers := repository.NewCustomerRepo(db)
	consents := repository.NewConsentRepo(db)
	props := repository.NewPropertyRepo(db)
	damage := repository.NewDamageReportRepo(db)
	audit := repository.NewAuditLogRepo(db)
	admins := repository.NewAdminUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	var notifier service.Notifier = service.NopNotifier{}
	if cfg.RabbitMQURL != "" {
		notifier = service.NewAMQPNotifier(cfg.RabbitMQURL)
		go func() {
			if err := queue.StartBookingConsumer(cfg.RabbitMQURL); err != nil {
				log.Printf("booking-consumer: %v", err)
			}
		}()
	}

	bookingSvc := service.NewBookingService(ledger, bookings, customers, consents,
		props, damage, audit, notifier, service.NoCalendar{},
		time.Duration(cfg.HoldTTLHours)*time.Hour)
	availSvc := service.NewAvailabilityService(ledger, bookings, props)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:         handler.NewAdminAuthHandler(cfg, admins, tokens),
		Bookings:     handler.NewBookingHandler(bookingSvc),
		Availability: handler.NewAvailabilityHandler(availSvc),
		PaymentInfo:  handler.NewPaymentInfoHandler(cfg, bookingSvc),
		CustomerData: handler.NewCustomerDataHandler(bookingSvc),
		Properties:   handler.NewPropertyHandler(props),
		AdminBooking: handler.NewAdminBookingHandler(bookingSvc),
		BlockedDates: handler.NewBlockedDatesHandler(bookingSvc),
		AuditLogs:    handler.NewAuditLogHandler(audit),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
