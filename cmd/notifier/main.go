// Command notifier serves the booking confirmation endpoint and, when
// NOTIFIER_CONSUME_QUEUE is set, drains the booking.confirmed queue.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/config"
	"github.com/iliyamo/workspace-booking/internal/database"
	"github.com/iliyamo/workspace-booking/internal/logging"
	"github.com/iliyamo/workspace-booking/internal/notify"
	"github.com/iliyamo/workspace-booking/internal/queue"
	"github.com/iliyamo/workspace-booking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	closer, err := logging.Setup(cfg.Logging, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("setup logging")
	}
	defer closer.Close()
	loc, _ := cfg.Location()

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	sender := notify.NewSender(repository.NewBookingRepo(db), notify.LogMailer{}, cfg.Notifier.MailFrom, loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Notifier.ConsumeQueue {
		consumer := queue.NewConsumer(cfg.Notify.AMQPURL, cfg.Notify.Queue, func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
			_, err := sender.Send(ctx, ev.BookingID)
			return err
		})
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("booking-consumer stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Notifier.Port,
		Handler:           notify.NewRouter(sender, cfg.Notifier.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("consume_queue", cfg.Notifier.ConsumeQueue).Msg("notifier listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("notifier failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down notifier")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
