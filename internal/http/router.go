package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"mediagen/internal/http/handlers"
	"mediagen/internal/middleware"
)

// NewRouter wires the API surface. The AI-backed routes share a
// per-client rate limit; status polling and settings are exempt.
func NewRouter(app *handlers.App, logger zerolog.Logger, rateLimitPerMin int) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", app.Health)

	r.Get("/settings", app.GetSettings)
	r.Put("/settings", app.UpdateSettings)

	r.Get("/image-job-status/{job_id:[a-zA-Z0-9]+}", app.ImageJobStatus)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rateLimitPerMin, time.Minute))
		r.Post("/generate-image", app.GenerateImage)
		r.Post("/alt-text-generator", app.AltTextGenerator)
		r.Post("/filename-suggestion", app.FilenameSuggestion)
	})

	return r
}
