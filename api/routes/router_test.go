package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/shoplytics-backend/internal/analytics"
	"github.com/angelmondragon/shoplytics-backend/internal/gate"
	"github.com/angelmondragon/shoplytics-backend/internal/importer"
	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/db"
	"github.com/angelmondragon/shoplytics-backend/pkg/metrics"
	"github.com/angelmondragon/shoplytics-backend/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerDDL = []string{
	`CREATE TABLE users (
  user_id INTEGER PRIMARY KEY,
  username TEXT,
  email TEXT,
  registration_date DATETIME,
  last_login DATETIME,
  status TEXT
);`,
	`CREATE TABLE products (
  product_id INTEGER PRIMARY KEY,
  product_name TEXT,
  category TEXT,
  price REAL,
  cost REAL,
  stock_quantity INTEGER,
  status TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE orders (
  order_id INTEGER PRIMARY KEY,
  user_id INTEGER,
  order_date DATETIME,
  total_amount REAL,
  status TEXT,
  payment_method TEXT
);`,
	`CREATE TABLE order_items (
  item_id INTEGER PRIMARY KEY,
  order_id INTEGER,
  product_id INTEGER,
  quantity INTEGER,
  unit_price REAL
);`,
	`CREATE TABLE platform_sales (
  date TEXT PRIMARY KEY,
  platform TEXT,
  gmv REAL,
  order_count INTEGER,
  paying_users INTEGER,
  refund_count INTEGER,
  refund_rate REAL,
  aov REAL
);`,
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "dev",
			Port:        "8000",
			CORSOrigins: []string{"*"},
		},
		RateLimit: config.RateLimitConfig{Window: time.Minute, IPLimit: 120},
		Gate:      config.GateConfig{MaxQueryLength: 2000, RowLimit: 500},
		Import:    config.ImportConfig{RowCap: 5000},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, withTables bool) (http.Handler, *db.Client) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "router.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	if withTables {
		for _, stmt := range routerDDL {
			require.NoError(t, client.Exec(context.Background(), stmt).Error)
		}
	}

	analyticsService, err := analytics.NewService(client.DB(), gate.New(gate.Rules{
		MaxLength: cfg.Gate.MaxQueryLength,
		RowLimit:  cfg.Gate.RowLimit,
	}))
	require.NoError(t, err)

	importService, err := importer.NewService(client, cfg.Import)
	require.NoError(t, err)

	router := NewRouter(cfg, nil, client, ratelimit.NewMemoryStore(), metrics.NewHTTPMetrics(), analyticsService, importService)
	return router, client
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), true)

	rec := doRequest(t, router, "GET", "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "GET", "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Shoplytics-Env"))
}

func TestDashboardOverviewServesLiveData(t *testing.T) {
	router, client := newTestRouter(t, testConfig(), true)

	now := time.Now().UTC()
	require.NoError(t, client.Exec(context.Background(),
		`INSERT INTO orders (order_id, user_id, order_date, total_amount, status, payment_method)
		 VALUES (1, 10, ?, 250.0, 'delivered', 'alipay')`, now.Add(-time.Hour)).Error)

	rec := doRequest(t, router, "GET", "/api/dashboard/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Today struct {
			TodayOrders int64 `json:"today_orders"`
		} `json:"today_metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Today.TodayOrders)
}

func TestDashboardOverviewFallsBackWhenStoreBroken(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), false)

	rec := doRequest(t, router, "GET", "/api/dashboard/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Today struct {
			TodayOrders int64   `json:"today_orders"`
			TodaySales  float64 `json:"today_sales"`
		} `json:"today_metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(18), body.Today.TodayOrders)
	assert.InDelta(t, 12560.50, body.Today.TodaySales, 0.001)
}

func TestSalesTrendValidatesDays(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), true)

	rec := doRequest(t, router, "GET", "/api/sales/trend?days=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, "GET", "/api/sales/trend?days=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, "GET", "/api/sales/trend?days=14", "")
	assert.Equal(t, http.StatusOK, rec.Code, "empty store serves the canned series")

	var points []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 14)
}

func TestDayEndpointsRejectMalformedDates(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), true)

	rec := doRequest(t, router, "GET", "/api/orders/day/15-03-2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "YYYY-MM-DD")

	rec = doRequest(t, router, "GET", "/api/orders-stats/day/2024-03-15", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomQueryEndpoint(t *testing.T) {
	router, client := newTestRouter(t, testConfig(), true)

	require.NoError(t, client.Exec(context.Background(),
		`INSERT INTO users (user_id, username, status) VALUES (1, 'alice', 'active')`).Error)

	rec := doRequest(t, router, "GET", "/api/query/SELECT%20username%20FROM%20users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data     []map[string]any `json:"data"`
		RowCount int              `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.RowCount)
	assert.Equal(t, "alice", body.Data[0]["username"])

	rec = doRequest(t, router, "GET", "/api/query/DROP%20TABLE%20users", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errBody map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Contains(t, errBody["error"], "drop")
}

func TestDatabaseInfoAndSamples(t *testing.T) {
	router, client := newTestRouter(t, testConfig(), true)

	require.NoError(t, client.Exec(context.Background(),
		`INSERT INTO products (product_id, product_name, category, price) VALUES (1, 'Phone', 'electronics', 499)`).Error)

	rec := doRequest(t, router, "GET", "/api/database/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info map[string]struct {
		RowCount int64 `json:"row_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, int64(1), info["products"].RowCount)

	rec = doRequest(t, router, "GET", "/api/data/sample/products?limit=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, "GET", "/api/data/sample/platform_sales", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportEndpoint(t *testing.T) {
	router, client := newTestRouter(t, testConfig(), true)

	payload := `{"table_name":"products","csv_content":"product_id,product_name,category,price\n1,Phone,electronics,499.99\n"}`
	rec := doRequest(t, router, "POST", "/api/data/import", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	var count int64
	require.NoError(t, client.DB().Table("products").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	rejected := `{"table_name":"products","csv_content":"product_id,warehouse\n1,A\n"}`
	rec = doRequest(t, router, "POST", "/api/data/import", rejected)
	require.Equal(t, http.StatusOK, rec.Code, "rejections are body-level failures")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "warehouse")

	missing := `{"table_name":"products"}`
	rec = doRequest(t, router, "POST", "/api/data/import", missing)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "schema violations are transport errors")
}

func TestRateLimitAppliesPerIP(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.IPLimit = 2
	router, _ := newTestRouter(t, cfg, true)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, router, "GET", "/api/database/info", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doRequest(t, router, "GET", "/api/database/info", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	req := httptest.NewRequest("GET", "/api/database/info", nil)
	req.Header.Set("X-Forwarded-For", "10.9.8.7")
	fresh := httptest.NewRecorder()
	router.ServeHTTP(fresh, req)
	assert.Equal(t, http.StatusOK, fresh.Code, "limit is per client IP")

	rec = doRequest(t, router, "GET", "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health endpoints are not throttled")
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), true)

	doRequest(t, router, "GET", "/api/database/info", "")
	rec := doRequest(t, router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
