package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/ports"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/application/services"
	domainconfig "techknowledgepills/domain/config"
	"techknowledgepills/infrastructure/config"
	"techknowledgepills/interfaces/http/rest/handlers"
	"techknowledgepills/interfaces/http/rest/middleware"
	"techknowledgepills/pkg/auth"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
	"techknowledgepills/pkg/observability"
)

// AuthLimiter throttles anonymous auth endpoints per client address
type AuthLimiter interface{ auth.RateLimiter }

// APILimiter throttles authenticated endpoints per user
type APILimiter interface{ auth.RateLimiter }

// MetricsEndpoint serves /metrics; nil disables the route
type MetricsEndpoint http.Handler

// Dependencies is everything the router hands to its handlers
type Dependencies struct {
	Config          *config.Config
	DomainConfig    *domainconfig.DomainConfig
	CommandBus      *bus.CommandBus
	QueryBus        *querybus.QueryBus
	AuthService     *services.AuthService
	StressService   *services.StressService
	Tokens          middleware.TokenParser
	AuthLimiter     AuthLimiter
	APILimiter      APILimiter
	Errors          *pkgerrors.ErrorHandler
	Storage         ports.HealthChecker
	Metrics         middleware.HTTPMetrics
	MetricsEndpoint MetricsEndpoint
	Tracer          *observability.Tracer
	Logger          *zap.Logger
}

// Router creates and configures the HTTP router
type Router struct {
	deps Dependencies
}

// NewRouter creates a new router instance
func NewRouter(deps Dependencies) *Router {
	return &Router{deps: deps}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	d := rt.deps
	cfg := d.Config
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(d.Errors.Middleware)
	router.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}
	if d.Tracer.Enabled() {
		router.Use(d.Tracer.Middleware)
	}

	if cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Device-Key"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		d.Errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		d.Errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if d.MetricsEndpoint != nil {
		router.Method(http.MethodGet, "/metrics", d.MetricsEndpoint)
	}

	authHandler := handlers.NewAuthHandler(d.AuthService, d.Errors, d.Logger)
	contentHandler := handlers.NewContentHandler(d.CommandBus, d.QueryBus, d.Errors, d.Logger)
	stressHandler := handlers.NewStressHandler(d.CommandBus, d.QueryBus, d.StressService, d.Errors, d.Logger)
	healthHandler := handlers.NewHealthMetricHandler(d.CommandBus, d.QueryBus, d.DomainConfig.DefaultDeviceType, d.Errors, d.Logger)
	cipherHandler := handlers.NewCipherHandler(d.CommandBus, d.QueryBus, d.Errors, d.Logger)
	recommendationHandler := handlers.NewRecommendationHandler(d.QueryBus, d.Errors, d.Logger)

	window := cfg.RateLimitWindow.String()
	authLimit := middleware.RateLimit(d.AuthLimiter, middleware.ByIP,
		pkgerrors.NewRateLimitError(cfg.AuthRateLimit, window), d.Errors, d.Logger)
	apiLimit := middleware.RateLimit(d.APILimiter, middleware.ByUser,
		pkgerrors.NewRateLimitError(cfg.APIRateLimit, window), d.Errors, d.Logger)
	authenticate := middleware.Authenticate(d.Tokens, d.Errors, d.Logger)

	router.Route("/api", func(r chi.Router) {
		// Anonymous endpoints
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.Refresh)
		})
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Use(middleware.DeviceKey(cfg.IoTAPIKey, d.Errors))
			r.Post("/healthmetric/iot", healthHandler.SubmitIoT)
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(apiLimit)

			r.Get("/auth/me", authHandler.Me)

			r.Route("/content", func(r chi.Router) {
				r.Get("/", contentHandler.ListContent)
				r.Post("/", contentHandler.CreateContent)
				r.Get("/type/{type}", contentHandler.ListByType)
				r.Get("/{id}", contentHandler.GetContent)
				r.Put("/{id}", contentHandler.UpdateContent)
				r.Delete("/{id}", contentHandler.DeleteContent)
				r.Post("/{id}/complete", contentHandler.CompleteContent)
			})

			r.Route("/stressindicator", func(r chi.Router) {
				r.Get("/", stressHandler.ListIndicators)
				r.Post("/", stressHandler.Record)
				r.Get("/latest", stressHandler.Latest)
				r.Post("/generate-mock", stressHandler.GenerateMock)
			})

			r.Route("/healthmetric", func(r chi.Router) {
				r.Get("/", healthHandler.ListMetrics)
				r.Get("/latest", healthHandler.Latest)
			})

			r.Route("/cipher", func(r chi.Router) {
				r.Get("/", cipherHandler.ListCiphers)
				r.Post("/", cipherHandler.CreateCipher)
				r.Get("/key/{keyName}", cipherHandler.GetCipherByKey)
				r.Get("/{id}", cipherHandler.GetCipher)
				r.Put("/{id}", cipherHandler.UpdateCipher)
				r.Delete("/{id}", cipherHandler.DeleteCipher)
			})

			r.Get("/recommendation", recommendationHandler.GetRecommendations)
		})
	})

	return router
}

// healthCheck handles liveness checks
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck pings storage
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	err := rt.deps.Tracer.TraceFunction(ctx, "storage.ping", rt.deps.Storage.Ping)
	if err != nil {
		rt.deps.Logger.Warn("Readiness check failed", zap.Error(err))
		rt.deps.Errors.Handle(w, req, pkgerrors.NewUnavailableError("storage").WithCause(err))
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
