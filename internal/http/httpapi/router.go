package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter assembles the HTTP surface: health and admin endpoints plus the
// websocket gateway at /ws.
func NewRouter(app *handlers.App, gateway http.HandlerFunc, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
		middleware.Locale("en"),
	)

	r.NotFound(app.NotFound)
	r.MethodNotAllowed(app.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Get("/v1/healthz", app.Health)
		r.Post("/v1/usage/reset", app.UsageReset)
		r.Post("/v1/cache/clear", app.CacheClear)
	})

	// Upgrade requests stay outside the rate limiter so a burst of page
	// reloads cannot lock clients out of the socket.
	r.Get("/ws", gateway)

	return r
}
