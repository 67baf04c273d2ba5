package obs_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/choco-corner/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("choco", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/api/v1/catalog"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/v1/catalog", "204"))
	require.Equal(t, 1.0, total)
	require.NotZero(t, testutil.CollectAndCount(metrics.ReqDur))
	require.Zero(t, testutil.ToFloat64(metrics.InFlight))
}

func TestHTTPObsDerivesRouteFromRouter(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("choco", []float64{1, 10}, registry)

	r := chi.NewRouter()
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Post("/api/v1/purchases", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodPost, "/api/v1/purchases", "201"))
	require.Equal(t, 1.0, total, "requests must be labelled by route pattern, not raw path")
}

func TestStatusRecorder(t *testing.T) {
	rec := obs.NewStatusRecorder(httptest.NewRecorder())
	require.Equal(t, http.StatusOK, rec.Status(), "default status is 200")

	rec.WriteHeader(http.StatusConflict)
	n, err := rec.Write([]byte("not enough stock on hand"))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, rec.Status())
	require.Equal(t, int64(n), rec.BytesWritten())
}

func TestRequestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := obs.RequestLogger{Logger: logger}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil))

	line := buf.String()
	require.Contains(t, line, `"method":"POST"`)
	require.Contains(t, line, `"status":201`)
	require.Contains(t, line, `"path":"/api/v1/purchases"`)
	require.Contains(t, line, "http_request")
}

func TestParseBucketsCSV(t *testing.T) {
	require.Nil(t, obs.ParseBucketsCSV("  "))
	require.Equal(t, []float64{5, 50, 1000}, obs.ParseBucketsCSV(" 5, 50 ,1000"))
	require.Equal(t, []float64{10}, obs.ParseBucketsCSV("10,abc,-5,"))
}

func TestDurationMillis(t *testing.T) {
	require.Equal(t, 1500.0, obs.DurationMillis(1500*time.Millisecond))
}
