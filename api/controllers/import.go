package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/shoplytics-backend/api/responses"
	"github.com/angelmondragon/shoplytics-backend/api/validators"
	"github.com/angelmondragon/shoplytics-backend/internal/importer"
	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
)

type importRequest struct {
	TableName  string `json:"table_name" validate:"required"`
	CSVContent string `json:"csv_content" validate:"required"`
}

// ImportCSV appends uploaded CSV rows to an allow-listed table. Rejected
// uploads come back as a body-level failure, matching the dashboard's
// upload widget contract; only transport problems produce error statuses.
func ImportCSV(svc importer.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req importRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithTable(ctx, req.TableName)
		}

		result, err := svc.Import(ctx, req.TableName, req.CSVContent)
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeValidation {
				if logg != nil {
					logg.Warn(ctx, "import.rejected")
				}
				responses.WriteSuccess(w, map[string]any{
					"success": false,
					"error":   typed.Message(),
				})
				return
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithField(ctx, "rows", result.RowsImported)
			logg.Info(ctx, "import.completed")
		}
		responses.WriteSuccess(w, map[string]any{
			"success": true,
			"message": fmt.Sprintf("imported %d rows into %s", result.RowsImported, result.Table),
		})
	}
}
