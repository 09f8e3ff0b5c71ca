// cmd/seeduser creates the ADMIN_EMAIL account, or promotes it to admin if it exists.
// Usage: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nb2912/inventory/internal/config"
	"github.com/nb2912/inventory/internal/infra"
	"github.com/nb2912/inventory/internal/model"
	"github.com/nb2912/inventory/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" {
		log.Fatal().Msg("ADMIN_EMAIL is required")
	}

	db, err := infra.NewDatabase(cfg.DSN(), false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	users := repository.NewUserRepository(db)

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := users.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			log.Fatal().Err(err).Msg("failed to promote user")
		}
		log.Info().Str("email", email).Msg("existing user promoted to admin")
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Fatal().Err(err).Msg("failed to look up user")
	}

	if len(cfg.AdminPassword) < 6 {
		log.Fatal().Msg("ADMIN_PASSWORD must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	u := &model.User{Email: email, PasswordHash: string(hash), Role: model.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal().Err(err).Msg("failed to create user")
	}
	log.Info().Str("email", email).Str("id", u.ID.String()).Msg("admin user created")
}
