package api

import (
	"circulation-engine/internal/api/handler"
	mw "circulation-engine/internal/api/middleware"
	"circulation-engine/internal/config"
	"circulation-engine/internal/domain/book"
	"circulation-engine/internal/domain/circulation"
	"circulation-engine/internal/domain/patron"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(catalog book.CatalogService, registry patron.RegistryService, ledger circulation.LedgerService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupBookRoutes(router, cfg, catalog, logger)
	setupPatronRoutes(router, cfg, registry, logger)
	setupCirculationRoutes(router, cfg, ledger, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupBookRoutes(router *chi.Mux, cfg *config.Config, catalog book.CatalogService, logger *slog.Logger) {
	h := handler.NewBookHandler(catalog, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/books", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.AddBook)
		r.Get("/", h.ListBooks)
		r.Route("/{bookID}", func(r chi.Router) {
			r.Get("/", h.GetBook)
			r.Put("/", h.UpdateBook)
			r.Delete("/", h.RemoveBook)
		})
	})
}

func setupPatronRoutes(router *chi.Mux, cfg *config.Config, registry patron.RegistryService, logger *slog.Logger) {
	h := handler.NewPatronHandler(registry, logger)

	router.Route("/patrons", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.Register)
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Query().Get("name") != "" {
				h.SearchByName(w, req)
				return
			}
			h.ListPatrons(w, req)
		})
		r.Route("/{patronID}", func(r chi.Router) {
			r.Get("/", h.GetPatron)
			r.Delete("/", h.DeletePatron)
			r.Put("/name", h.UpdateName)
			r.Post("/payments", h.PayFine)
		})
	})
}

func setupCirculationRoutes(router *chi.Mux, cfg *config.Config, ledger circulation.LedgerService, logger *slog.Logger) {
	h := handler.NewCirculationHandler(ledger, logger)

	router.Route("/circulation", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/checkouts", h.CheckOut)
		r.Post("/checkins", h.CheckIn)
		r.Post("/lost-reports", h.ReportLost)
		r.Post("/extensions", h.ExtendDueDate)
		r.Get("/overdue", h.ListOverdue)
		r.Get("/checked-out", h.ListCheckedOut)
		r.Get("/patrons/{patronID}/loans", h.ListForPatron)
	})
}
