package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/cli"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/ledger"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/seed"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/config"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/db/dbtest"
	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func newTestServer(t *testing.T, redisP stubPinger, withRedis bool) (*httptest.Server, *cli.App) {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev, Operator: "monitor"},
		Alerts:  config.AlertsConfig{Cooldown: time.Minute, CriticalRatio: 0.5},
		Restock: config.RestockConfig{DefaultLeadTimeDays: 3, OrderPrefix: "PO"},
	}
	reg := prometheus.NewRegistry()
	app, err := cli.Build(cli.Deps{Config: cfg, DB: dbtest.New(t), Registry: reg})
	require.NoError(t, err)

	f, err := seed.Sample()
	require.NoError(t, err)
	_, err = app.Seeder.Apply(context.Background(), f)
	require.NoError(t, err)

	var pinger db.Pinger
	if withRedis {
		pinger = redisP
	}
	srv := httptest.NewServer(NewRouter(cfg, app.Logger, app.DB, pinger, reg, app.Reports, app.Tracker, app.Evaluator))
	t.Cleanup(srv.Close)
	return srv, app
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, stubPinger{}, false)

	resp, body := get(t, srv, "/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.AppEnvDev, resp.Header.Get("X-Grocer-Env"))
	assert.Contains(t, string(body), "live")

	resp, body = get(t, srv, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"database":"ok"`)
	assert.NotContains(t, string(body), "redis")
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestReadyFailsWhenRedisIsDown(t *testing.T) {
	srv, _ := newTestServer(t, stubPinger{err: errors.New("connection refused")}, true)

	resp, body := get(t, srv, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "DEPENDENCY_ERROR", envelope.Error.Code)
}

func TestMetricsEndpointExposesInventoryCounters(t *testing.T) {
	srv, app := newTestServer(t, stubPinger{}, false)
	p, err := app.Products.GetBySKU(context.Background(), "PRD-003")
	require.NoError(t, err)
	_, err = app.Ledger.Sell(context.Background(), p.ID, 20, ledger.MovementOptions{})
	require.NoError(t, err)

	resp, body := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "grocer_stock_movements_total"), "missing movement counter")
}

func TestInventoryEndpoints(t *testing.T) {
	srv, app := newTestServer(t, stubPinger{}, false)
	ctx := context.Background()
	p, err := app.Products.GetBySKU(ctx, "PRD-003")
	require.NoError(t, err)
	_, err = app.Ledger.Sell(ctx, p.ID, 20, ledger.MovementOptions{})
	require.NoError(t, err)

	resp, body := get(t, srv, "/api/v1/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		Data struct {
			ActiveProducts int `json:"active_products"`
			LowStock       int `json:"low_stock"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 13, summary.Data.ActiveProducts)
	assert.Equal(t, 1, summary.Data.LowStock)

	resp, body = get(t, srv, "/api/v1/alerts?status=active")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "CRITICAL_LOW")

	resp, _ = get(t, srv, "/api/v1/alerts?status=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, srv, "/api/v1/alerts?limit=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = get(t, srv, "/api/v1/suggestions")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"sku":"PRD-003"`)
}
