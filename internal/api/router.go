package api

import (
	"net/http"
	"roadtrip-planner-web/internal/adapters/progress"
	"roadtrip-planner-web/internal/api/handlers"
	"roadtrip-planner-web/internal/config"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"roadtrip-planner-web/internal/present"
	"roadtrip-planner-web/internal/services"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP layer is composed from.
type Deps struct {
	Orchestrator *services.Orchestrator
	Refiner      *services.Refiner
	Store        ports.SessionStore
	StoreKind    string
	Images       *present.ImageTracker
	Broker       *progress.Broker
	Pages        *handlers.Pages
	Config       config.Config
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)

	itinerary := &handlers.ItineraryHandler{
		Orchestrator: d.Orchestrator,
		Refiner:      d.Refiner,
		Store:        d.Store,
		Images:       d.Images,
		Pages:        d.Pages,
	}
	health := &handlers.HealthHandler{
		EngineURL:    d.Orchestrator.EngineURL(),
		SessionStore: d.StoreKind,
	}
	prog := handlers.NewProgressHandler(d.Broker, d.Config.AllowedOrigins)

	handle := func(method, path string, h http.Handler) {
		router.Handler(method, path, routed(path, h))
	}

	// Generation and refinement reach the engine, so they are rate limited.
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if d.Config.RateLimitPerMin > 0 {
		rl := newRateLimiter(d.Config.RateLimitPerMin)
		limited = func(h http.HandlerFunc) http.Handler { return rl.limit(h) }
	}

	handle(http.MethodGet, "/", http.HandlerFunc(itinerary.Form))
	handle(http.MethodPost, "/generate", limited(itinerary.GenerateForm))
	handle(http.MethodGet, "/result", http.HandlerFunc(itinerary.Result))
	handle(http.MethodPost, "/refine", limited(itinerary.RefineForm))

	handle(http.MethodPost, "/api/itinerary/generate", limited(itinerary.Generate))
	handle(http.MethodGet, "/api/itinerary", http.HandlerFunc(itinerary.Raw))
	handle(http.MethodGet, "/api/itinerary/view", http.HandlerFunc(itinerary.View))
	handle(http.MethodPost, "/api/itinerary/refine", limited(itinerary.Refine))
	handle(http.MethodGet, "/api/itinerary/export.pdf", http.HandlerFunc(itinerary.ExportPDF))
	handle(http.MethodPost, "/api/images/failed", http.HandlerFunc(itinerary.ImageFailed))

	handle(http.MethodGet, "/ws/progress", http.HandlerFunc(prog.Stream))
	handle(http.MethodGet, "/health", http.HandlerFunc(health.Health))
	handle(http.MethodGet, "/metrics", obs.MetricsHandler())

	var h http.Handler = router
	if len(d.Config.AllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   d.Config.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: true,
		}).Handler(h)
	}

	h = sessionMiddleware(d.Config.CookieSecure)(h)
	h = securityHeaders(d.Config.CookieSecure)(h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return recoverMiddleware(h)
}
