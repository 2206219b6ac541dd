package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shoplytics-backend/api/controllers"
	"github.com/angelmondragon/shoplytics-backend/api/middleware"
	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/internal/importer"
	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/db"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
	"github.com/angelmondragon/shoplytics-backend/pkg/metrics"
	"github.com/angelmondragon/shoplytics-backend/pkg/ratelimit"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	limiterStore ratelimit.Store,
	httpMetrics *metrics.HTTPMetrics,
	analyticsService analytics.Service,
	importService importer.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	apiPolicy := middleware.NewRateLimitPolicy(cfg.RateLimit.Window, cfg.RateLimit.IPLimit)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(apiPolicy, limiterStore, logg))

		r.Get("/dashboard/overview", controllers.DashboardOverview(analyticsService, logg))
		r.Get("/sales/trend", controllers.SalesTrend(analyticsService, logg))
		r.Get("/analysis/category", controllers.CategoryAnalysis(analyticsService, logg))
		r.Get("/platform/trend", controllers.PlatformTrend(analyticsService, logg))

		r.Get("/orders/day/{date}", controllers.DayOrders(analyticsService, logg))
		r.Get("/orders-stats/day/{date}", controllers.DayStats(analyticsService, logg))

		r.Get("/query/*", controllers.CustomQuery(analyticsService, logg))

		r.Get("/database/info", controllers.DatabaseInfo(analyticsService, logg))
		r.Get("/data/sample/{table}", controllers.SampleRows(analyticsService, logg))
		r.Post("/data/import", controllers.ImportCSV(importService, logg))
	})

	return r
}
