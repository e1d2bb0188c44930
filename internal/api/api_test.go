package api

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/backend-go/internal/config"
	"github.com/wareflow/backend-go/internal/repository/memory"
	"github.com/wareflow/backend-go/internal/seed"
	"github.com/wareflow/backend-go/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rng := rand.New(rand.NewSource(13))
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	st := memory.NewStore(25000, 3.0)
	ds := seed.Generate(rng, now, 25000)
	require.NoError(t, seed.Populate(context.Background(), st, ds, rng, now))

	svc := service.NewSimulationService(st.Bundle(), config.SimConfig{
		LowStockThreshold: 300,
		RestockTarget:     500,
		Seed:              13,
	}, nil)

	return NewRouter(&Services{SimulationService: svc}, nil)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/simulation/summary", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Inventory struct {
			Capacity int `json:"capacity"`
			OnHand   int `json:"on_hand"`
		} `json:"inventory"`
		GasPrice float64 `json:"gas_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 25000, body.Inventory.Capacity)
	assert.Greater(t, body.Inventory.OnHand, 0)
	assert.Greater(t, body.GasPrice, 0.0)
}

func TestRunSimulationEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulation/run",
		strings.NewReader(`{"start_date":"2026-03-01","num_days":2}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		DaysRun int `json:"days_run"`
		Summary struct {
			PendingOrders       int `json:"pending_orders"`
			DeliveriesCompleted int `json:"deliveries_completed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.DaysRun)
	assert.GreaterOrEqual(t, body.Summary.PendingOrders+body.Summary.DeliveriesCompleted, 20)
}

func TestRunSimulationRejectsBadDate(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulation/run",
		strings.NewReader(`{"start_date":"03/01/2026"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDeliveriesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulation/run",
		strings.NewReader(`{"start_date":"2026-03-01","num_days":1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/deliveries?limit=5", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Deliveries []json.RawMessage `json:"deliveries"`
		Total      int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Deliveries), body.Total)
	assert.LessOrEqual(t, body.Total, 5)
}

func TestAnomalyEndpointsEmptyByDefault(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/anomalies/overspend", "/api/v1/anomalies/underperformance"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)

		var body struct {
			Total int `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Zero(t, body.Total, path)
	}
}
