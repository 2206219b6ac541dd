package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

// CustomQuery runs a screened ad-hoc statement carried in the URL tail.
func CustomQuery(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw := chi.URLParam(r, "*")
		if decoded, err := url.QueryUnescape(raw); err == nil {
			raw = decoded
		}

		rows, err := svc.CustomQuery(ctx, raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"data":      rows,
			"row_count": len(rows),
		})
	}
}

func DatabaseInfo(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		info, err := svc.DatabaseInfo(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

func SampleRows(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		table := chi.URLParam(r, "table")
		rows, err := svc.SampleRows(ctx, table, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"table": table,
			"rows":  rows,
			"count": len(rows),
		})
	}
}
