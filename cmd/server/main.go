package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/brainiacs/portal/internal/app"
	"github.com/brainiacs/portal/internal/config"
	"github.com/brainiacs/portal/internal/handler"
	"github.com/brainiacs/portal/internal/logger"
	"github.com/brainiacs/portal/internal/middleware"
	"github.com/brainiacs/portal/internal/queue"
	"github.com/brainiacs/portal/internal/repository"
	"github.com/brainiacs/portal/internal/router"
	"github.com/brainiacs/portal/internal/service"
	"github.com/brainiacs/portal/internal/utils"
)

func main() {
	cfg, err := config.Load()
	log := logger.New("brainiacs-portal", cfg.Env)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// run wires the server and blocks until SIGINT or SIGTERM.  Returning
// instead of exiting lets every deferred close run.
func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer closeStore()

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	auth := service.NewAuthService(users, tokens, cfg.BcryptCost, log)

	// Redis backs the rate limiter and the token denylist.  Leaving
	// REDIS_ADDR unset disables both; setting it makes Redis required.
	rdb, err := app.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		auth.WithRevocations(repository.NewTokenRepo(rdb))
	} else {
		log.Warn("redis not configured; rate limiting and logout revocation disabled")
	}

	// RabbitMQ is optional: signup events and the audit log consumer.
	if cfg.RabbitURL != "" {
		auth.WithEvents(queue.NewPublisher(cfg.RabbitURL))
		consumer := queue.NewAuditConsumer(cfg.RabbitURL, cfg.AuditLogPath, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("audit consumer stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       int((12 * time.Hour).Seconds()),
	}))

	gate := middleware.JWTAuth(auth, log)
	limit := middleware.RateLimit(cfg.RateLimit, rdb, log)
	userHandler := handler.NewUserHandler(service.NewUserService(users), log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, log), gate, limit)
	router.RegisterProfile(e, userHandler, gate)
	router.RegisterAdmin(e, userHandler, gate)

	addr := ":" + cfg.Port
	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "store": cfg.StoreDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
