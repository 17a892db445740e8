package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/assistant"
	"github.com/iliyamo/workspace-booking/internal/config"
	"github.com/iliyamo/workspace-booking/internal/database"
	"github.com/iliyamo/workspace-booking/internal/handler"
	"github.com/iliyamo/workspace-booking/internal/logging"
	"github.com/iliyamo/workspace-booking/internal/middleware"
	"github.com/iliyamo/workspace-booking/internal/notify"
	"github.com/iliyamo/workspace-booking/internal/queue"
	"github.com/iliyamo/workspace-booking/internal/repository"
	"github.com/iliyamo/workspace-booking/internal/router"
	"github.com/iliyamo/workspace-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.RequireJWT(); err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	closer, err := logging.Setup(cfg.Logging, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}
	defer closer.Close()

	loc, _ := cfg.Location() // validated by Load

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	defer db.Close()
	if cfg.DB.MigrateOnStart || cfg.DB.Driver == "sqlite" {
		if err := database.Migrate(db, cfg.DB, "up"); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable, catalog cache off and rate limiting in-process")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	spaces := repository.NewSpaceRepo(db)
	bookings := repository.NewBookingRepo(db)
	suggestions := repository.NewSuggestionRepo(db)

	checker := service.NewAvailabilityChecker(bookings, loc)
	bookingSvc := service.NewBookingService(spaces, bookings, suggestions, repository.NewAuditRepo(db), checker, newNotifier(cfg.Notify))
	catalogSvc := service.NewCatalogService(spaces, bookings, checker)
	prefSvc := service.NewPreferenceService(repository.NewPreferenceRepo(db))

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.RequestValidator{}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewCatalogHandler(catalogSvc, checker), middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterMember(e, router.Member{
		Bookings:    handler.NewBookingHandler(bookingSvc),
		Preferences: handler.NewPreferenceHandler(prefSvc),
		Assistant:   handler.NewAssistantHandler(assistant.New(catalogSvc, bookingSvc, suggestions)),
	},
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.LoadSession(users),
		middleware.NewTokenBucket(cfg.RateLimit, rdb),
	)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("notify", cfg.Notify.Mode).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// newNotifier picks how confirmed bookings reach the notification
// dispatcher.
func newNotifier(cfg config.NotifyConfig) service.Notifier {
	switch cfg.Mode {
	case "amqp":
		return queue.NewPublisher(cfg.AMQPURL, cfg.Queue, cfg.Timeout)
	case "http":
		return notify.NewHTTPDispatcher(cfg.URL, cfg.Timeout)
	default:
		return notify.Noop{}
	}
}
