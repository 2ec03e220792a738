package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aradsms/contacts_services/internal/public_api_service/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Picker          PickerService
	Contacts        ContactsService
	Datashare       DatashareService
	JWTAccessSecret string
	RequestTimeout  time.Duration
	Logger          *slog.Logger
}

// NewRouter builds the public router: /health and /metrics are open, /api/v1 requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	validate := validator.New()
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JWTAuthMiddleware(cfg.JWTAccessSecret, cfg.Logger))

		NewPickerHandler(cfg.Picker, cfg.Logger, validate).RegisterRoutes(r)
		NewContactsHandler(cfg.Contacts, cfg.Logger, validate).RegisterRoutes(r)
		NewDatashareHandler(cfg.Datashare, cfg.Logger, validate).RegisterRoutes(r)
	})

	return r
}
