// Command seed creates the admin account named by ADMIN_EMAIL and
// ADMIN_PASSWORD.  Admins cannot sign up through the API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brainiacs/portal/internal/app"
	"github.com/brainiacs/portal/internal/config"
	"github.com/brainiacs/portal/internal/logger"
	"github.com/brainiacs/portal/internal/service"
	"github.com/brainiacs/portal/internal/utils"
)

func main() {
	cfg, err := config.Load()
	log := logger.New("brainiacs-seed", cfg.Env)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := run(cfg, log, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
}

func run(cfg config.Config, log *logrus.Logger, email, password string) error {
	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if err := app.RequirePersistentStore(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer closeStore()

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	u, err := service.NewAuthService(users, tokens, cfg.BcryptCost, log).CreateAdmin(ctx, email, password)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		log.WithField("email", email).Info("admin already exists")
	case err != nil:
		return fmt.Errorf("create admin: %w", err)
	default:
		log.WithFields(logrus.Fields{"id": u.ID, "email": u.Email}).Info("admin created")
	}
	return nil
}
