package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// ConfirmationSender is the part of Sender the HTTP function needs.
type ConfirmationSender interface {
	Send(ctx context.Context, bookingID string) (string, error)
}

// Request is the body accepted by the confirmation endpoint.
type Request struct {
	BookingID string `json:"bookingId"`
}

// NewRouter builds the confirmation function's HTTP surface.  Preflight
// requests are answered by the CORS handler.
func NewRouter(sender ConfirmationSender, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/send-booking-confirmation", sendConfirmation(sender))
	return r
}

func sendConfirmation(sender ConfirmationSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request body", "details": err.Error()})
			return
		}
		id, err := sender.Send(r.Context(), req.BookingID)
		switch {
		case errors.Is(err, ErrBookingNotFound):
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Booking not found"})
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "Failed to send confirmation email",
				"details": err.Error(),
			})
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"emailId": id,
				"message": "Booking confirmation email sent successfully",
			})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}
