package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

func DayOrders(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		day, err := validators.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		orders, err := svc.DayOrders(ctx, day)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"date":   day.Format("2006-01-02"),
			"orders": orders,
			"count":  len(orders),
		})
	}
}

func DayStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		day, err := validators.ParseDate(chi.URLParam(r, "date"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		breakdown, err := svc.DayStats(ctx, day)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}
