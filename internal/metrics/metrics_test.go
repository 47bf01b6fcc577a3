package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration()
	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)
	c.RecordEmail("verification", nil)
	c.RecordEmail("reset", errors.New("smtp down"))
	c.RecordPasswordOutcome("PASSWORD_CHANGED")
	c.RecordCheckout(42.5)

	body := scrape(t, reg)
	assert.Contains(t, body, "fitness_registrations_total 1")
	assert.Contains(t, body, `fitness_logins_total{result="failure"} 2`)
	assert.Contains(t, body, `fitness_emails_total{kind="reset",result="failed"} 1`)
	assert.Contains(t, body, "fitness_order_value_total 42.5")
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPRequest(http.MethodGet, "/api/v1/products", http.StatusOK, 15*time.Millisecond)

	body := scrape(t, reg)
	assert.True(t, strings.Contains(body, `fitness_http_requests_total{method="GET",route="/api/v1/products",status_code="200"} 1`), body)
	assert.Contains(t, body, "fitness_http_request_duration_seconds_bucket")
}

func TestNoopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Noop{}
	r.RecordCheckout(1)
}
