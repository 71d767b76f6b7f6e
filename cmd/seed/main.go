// Command seed creates the two properties and the owner admin account.
// It is idempotent: existing rows are left alone.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/config"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/database"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/repository"
	"github.com/MacDavicK/TriptiBunglow-Website/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("database: %v", err)
	}

	props := repository.NewPropertyRepo(db)
	admins := repository.NewAdminUserRepo(db)

	for _, p := range []model.Property{
		{
			Name:            "Tripti Bungalow Hillside",
			Slug:            "hillside",
			Description:     "Four-bedroom bungalow with a garden and hill views.",
			RatePerNight:    2500000, // paise
			SecurityDeposit: 500000,
			MaxGuests:       8,
			Amenities:       []string{"wifi", "parking", "kitchen", "garden"},
			Photos:          []string{},
			IsActive:        true,
		},
		{
			Name:            "Tripti Bungalow Lakeview",
			Slug:            "lakeview",
			Description:     "Three-bedroom bungalow overlooking the lake.",
			RatePerNight:    2500000,
			SecurityDeposit: 500000,
			MaxGuests:       6,
			Amenities:       []string{"wifi", "parking", "kitchen", "lake access"},
			Photos:          []string{},
			IsActive:        true,
		},
	} {
		if _, err := props.GetBySlug(ctx, p.Slug); err == nil {
			log.Printf("property %q already exists, skipping", p.Slug)
			continue
		} else if !errors.Is(err, repository.ErrPropertyNotFound) {
			log.Fatalf("seed: %v", err)
		}
		prop := p
		if err := props.Create(ctx, &prop); err != nil {
			log.Fatalf("seed property %q: %v", p.Slug, err)
		}
		log.Printf("created property %q (id=%d)", prop.Slug, prop.ID)
	}

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Printf("SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}
	if _, err := admins.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %q already exists, skipping", email)
		return
	} else if !errors.Is(err, repository.ErrAdminNotFound) {
		log.Fatalf("seed: %v", err)
	}
	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	admin := &model.AdminUser{Email: email, PasswordHash: hash, Name: "Owner", Role: model.RoleOwner}
	if err := admins.Create(ctx, admin); err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("created owner admin %q (id=%d)", admin.Email, admin.ID)
}
