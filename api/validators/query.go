package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/shoplytics-backend/pkg/errors"
)

// ParseQueryInt reads an optional numeric query parameter, enforcing bounds.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("query parameter %q must be numeric", key))
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("query parameter %q must be between %d and %d", key, min, max))
	}
	return value, nil
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("date %q must use the YYYY-MM-DD format", raw))
	}
	return day, nil
}
