package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

// The three dashboard surfaces never fail outward: when the live query
// errors (or the store is empty for trend and category), a deterministic
// canned payload is served instead so the UI always renders.

func DashboardOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		overview, err := svc.DashboardOverview(ctx)
		if err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "fallback", "overview"), "dashboard.fallback")
				logg.Error(ctx, "dashboard.overview.failed", err)
			}
			responses.WriteSuccess(w, analytics.FallbackOverview())
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

func SalesTrend(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		days, err := validators.ParseQueryInt(r, "days", analytics.DefaultTrendDays, 1, analytics.MaxTrendDays)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		points, err := svc.SalesTrend(ctx, days)
		if err != nil || len(points) == 0 {
			if err != nil && logg != nil {
				logg.Error(ctx, "dashboard.trend.failed", err)
			}
			responses.WriteSuccess(w, analytics.FallbackTrend(time.Now(), days))
			return
		}
		responses.WriteSuccess(w, points)
	}
}

func CategoryAnalysis(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := svc.CategoryAnalysis(ctx)
		if err != nil || len(stats) == 0 {
			if err != nil && logg != nil {
				logg.Error(ctx, "dashboard.category.failed", err)
			}
			responses.WriteSuccess(w, analytics.FallbackCategories())
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func PlatformTrend(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		points, err := svc.PlatformTrend(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}
