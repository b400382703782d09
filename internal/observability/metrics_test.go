package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/armada-fleet/armada/testing"
)

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/roles", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), "armada_http_requests_total")
	assert.Contains(t, scrape.Body.String(), `code="418"`)
}

func TestNilMetricsDisabled(t *testing.T) {
	var metrics *Metrics

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	metrics.Middleware(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, scrape.Code)
}
