package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/topdev70/artify-and-buy-now-server/internal/http/handlers"
	"github.com/topdev70/artify-and-buy-now-server/internal/metrics"
	"github.com/topdev70/artify-and-buy-now-server/internal/middleware"
)

// Options configures the cross-cutting middleware of the router.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	Metrics         *metrics.Registry
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/", app.Status)
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	if opts.Metrics != nil {
		r.Get("/metrics", opts.Metrics.Handler)
		r.Get("/metrics.json", opts.Metrics.HandlerJSON)
	}

	r.Route("/api", func(r chi.Router) {
		r.Head("/transform-image", app.TransformProbe)
		r.Get("/transform-image", app.Status)
		r.Get("/saved-images", app.SavedImages)
		r.Get("/saved-images/archive", app.SavedImagesArchive)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/transform-image", app.TransformImage)
			r.Post("/rehost-image", app.RehostImage)
		})
	})

	generated := app.Generated()
	r.Get("/generated/*", generated.ServeHTTP)
	r.Head("/generated/*", generated.ServeHTTP)

	return r
}
